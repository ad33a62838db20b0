package repository

import (
	"context"

	"market/internal/domain/model"
	repo "market/internal/repository"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, rev model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Create(&rev).Error; err != nil {
		//1人1商品1レビューのunique制約
		if isUniqueViolation(err) {
			return model.Review{}, repo.ErrConflict
		}
		return model.Review{}, err
	}
	return rev, nil
}

func (r *ReviewGormRepository) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").Order("id desc").
		Find(&reviews).Error
	if err != nil {
		return []model.Review{}, err
	}
	return reviews, nil
}
