package repository

import (
	"context"
	"time"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type auditLogGormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// 商品マスタ変更の履歴。トランザクション内ではtxのdbで作られる。
func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db, now: time.Now}
}

func (r *auditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}
	if entry.ResourceType == "" {
		entry.ResourceType = model.AuditResourceProduct
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

// 新しい順
func (r *auditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs := []model.AuditLog{}
	err := r.db.WithContext(ctx).
		Scopes(auditConditions(filter), auditPage(filter.Limit, filter.Offset)).
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return []model.AuditLog{}, err
	}
	return logs, nil
}

func auditConditions(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.Actor != nil {
			q = q.Where("actor = ?", *f.Actor)
		}
		if f.Action != nil {
			q = q.Where("action = ?", *f.Action)
		}
		if f.ResourceType != nil {
			q = q.Where("resource_type = ?", *f.ResourceType)
		}
		if f.ResourceID != nil {
			q = q.Where("resource_id = ?", *f.ResourceID)
		}
		return q
	}
}

func auditPage(limit, offset int) func(*gorm.DB) *gorm.DB {
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	if offset < 0 {
		offset = 0
	}
	return func(q *gorm.DB) *gorm.DB {
		return q.Limit(limit).Offset(offset)
	}
}
