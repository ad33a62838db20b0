package usecase

import (
	"context"
	"net/http"
	"time"

	"market/internal/domain/model"
	repo "market/internal/repository"
)

// 監査ログの閲覧だけを提供する。書き込みはAuditRecorder経由
type AuditLogUsecase struct {
	logRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(logRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logRepo: logRepo}
}

type AuditLogListInput struct {
	UserID      *int64
	Action      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

func (u *AuditLogUsecase) List(ctx context.Context, actor Actor, in AuditLogListInput) ([]model.AuditLog, error) {
	if !actor.IsAdmin() {
		return []model.AuditLog{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	if in.Limit < 0 || in.Offset < 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid paging")
	}

	filter := repo.AuditLogFilter{
		UserID:      in.UserID,
		CreatedFrom: in.CreatedFrom,
		CreatedTo:   in.CreatedTo,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.Action != "" {
		action := model.AuditAction(in.Action)
		filter.Action = &action
	}

	logs, err := u.logRepo.List(ctx, filter)
	if err != nil {
		return []model.AuditLog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}
