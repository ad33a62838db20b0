package repository

import (
	"context"
	"errors"

	"market/internal/domain/model"
	repo "market/internal/repository"

	"gorm.io/gorm"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

func (r *ReportGormRepository) Create(ctx context.Context, rep model.Report) (model.Report, error) {
	if err := r.db.WithContext(ctx).Create(&rep).Error; err != nil {
		return model.Report{}, err
	}
	return rep, nil
}

func (r *ReportGormRepository) FindByID(ctx context.Context, id int64) (model.Report, error) {
	var rep model.Report
	err := r.db.WithContext(ctx).First(&rep, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Report{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Report{}, err
	}
	return rep, nil
}

// 解決はstatusのみ書き換える（他フィールドは不変）
func (r *ReportGormRepository) UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Report{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ReportGormRepository) List(ctx context.Context, f repo.ReportListFilter) ([]model.Report, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Report{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Report{}, 0, err
	}

	var reports []model.Report
	offset := (f.Page - 1) * f.Limit
	//新しい順
	if err := q.Order("created_at desc").Order("id desc").Limit(f.Limit).Offset(offset).Find(&reports).Error; err != nil {
		return []model.Report{}, 0, err
	}
	return reports, total, nil
}

func (r *ReportGormRepository) ListByReporter(ctx context.Context, reporterID int64) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Where("reporter_id = ?", reporterID).
		Order("created_at desc").Order("id desc").
		Find(&reports).Error
	if err != nil {
		return []model.Report{}, err
	}
	return reports, nil
}
