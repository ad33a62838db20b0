package repository

import (
	"context"

	"market/internal/domain/model"
)

type ReportListFilter struct {
	Status string
	Page   int
	Limit  int
}

// 通報の永続化。解決後のレコードはstatus以外更新しない。
type ReportRepository interface {
	Create(ctx context.Context, r model.Report) (model.Report, error)
	FindByID(ctx context.Context, id int64) (model.Report, error)
	UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) error

	List(ctx context.Context, f ReportListFilter) ([]model.Report, int64, error)
	ListByReporter(ctx context.Context, reporterID int64) ([]model.Report, error)
}
