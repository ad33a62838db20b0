package repository

import (
	"context"
	"time"

	"market/internal/domain/model"
)

//監査ログの絞り込み条件。

type AuditLogFilter struct {
	UserID      *int64
	Action      *model.AuditAction
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// 監査ログの保存・一覧取得の約束。
// 更新・削除は存在しない（追記専用）。
type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error

	//新しい順で一覧取得
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
