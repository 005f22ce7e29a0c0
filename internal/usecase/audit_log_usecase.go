package usecase

import (
	"context"
	"net/http"
	"strings"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
)

type AuditLogUsecase struct {
	auditLogs repo.AuditLogRepository
}

func NewAuditLogUsecase(auditLogs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditLogs: auditLogs}
}

// GET /audit-logsの入力DTO
type ListAuditLogsInput struct {
	Action     string
	ResourceID *int64
	Limit      int
	Offset     int
}

func (u *AuditLogUsecase) ListAuditLogs(ctx context.Context, in ListAuditLogsInput) ([]model.AuditLog, error) {
	if in.Limit < 0 || in.Limit > 200 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Offset < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}
	if in.ResourceID != nil && *in.ResourceID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid resource_id")
	}

	filter := repo.AuditLogFilter{
		ResourceID: in.ResourceID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}

	if a := strings.ToUpper(strings.TrimSpace(in.Action)); a != "" {
		action := model.AuditAction(a)
		switch action {
		case model.AuditActionCreateProduct, model.AuditActionUpdateProduct, model.AuditActionDeleteProduct:
		default:
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
		filter.Action = &action
	}

	logs, err := u.auditLogs.List(ctx, filter)
	if err != nil {
		return nil, errDB(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
