package usecase

import (
	"context"
	"time"

	"market/internal/domain/model"
	repo "market/internal/repository"

	"github.com/labstack/gommon/log"
)

// AuditRecorderは状態変更操作の記録係。
// 書き込み失敗はここで握りつぶす：監査はベストエフォートで、
// 本処理を失敗させたりロールバックさせたりしてはいけない。
type AuditRecorder struct {
	repo repo.AuditLogRepository
}

func NewAuditRecorder(auditRepo repo.AuditLogRepository) *AuditRecorder {
	return &AuditRecorder{repo: auditRepo}
}

// Recordは1件追記する。userIDはシステム起点ならnil。
// 呼び出し側は戻り値を受け取らない（失敗しない約束）。
func (a *AuditRecorder) Record(ctx context.Context, userID *int64, action model.AuditAction, details string) {
	err := a.repo.Create(ctx, model.AuditLog{
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	})
	if err != nil {
		//失敗しても本処理には伝播させない
		log.Warnf("audit write failed: action=%s err=%v", action, err)
	}
}
