package repository

import (
	"context"

	"pos/internal/domain/model"
)

// マスタ変更履歴の絞り込み。nilは条件なし。
type AuditLogFilter struct {
	Actor        *string
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	Limit        int // 0なら50件
	Offset       int
}

// 監査ログの保存・一覧取得の約束。
type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error

	//監査ログを条件で一覧取得。
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
