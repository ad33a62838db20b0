package repository

import (
	"context"
	"errors"

	"market/internal/domain/model"
	repo "market/internal/repository"

	"gorm.io/gorm"
)

type FavoriteGormRepository struct {
	db *gorm.DB
}

func NewFavoriteGormRepository(db *gorm.DB) *FavoriteGormRepository {
	return &FavoriteGormRepository{db: db}
}

func (r *FavoriteGormRepository) Create(ctx context.Context, f model.Favorite) (model.Favorite, error) {
	if err := r.db.WithContext(ctx).Create(&f).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Favorite{}, repo.ErrConflict
		}
		return model.Favorite{}, err
	}
	return f, nil
}

func (r *FavoriteGormRepository) FindByID(ctx context.Context, id int64) (model.Favorite, error) {
	var f model.Favorite
	err := r.db.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Favorite{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Favorite{}, err
	}
	return f, nil
}

func (r *FavoriteGormRepository) ListByProfile(ctx context.Context, profileID int64) ([]model.Favorite, error) {
	var favorites []model.Favorite
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at desc").Order("id desc").
		Find(&favorites).Error
	if err != nil {
		return []model.Favorite{}, err
	}
	return favorites, nil
}

func (r *FavoriteGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Favorite{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
