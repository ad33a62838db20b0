package repository

import (
	"context"
	"errors"

	"market/internal/domain/model"
	repo "market/internal/repository"

	"gorm.io/gorm"
)

type ProfileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) *ProfileGormRepository {
	return &ProfileGormRepository{db: db}
}

func (r *ProfileGormRepository) Create(ctx context.Context, p model.Profile) (model.Profile, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func (r *ProfileGormRepository) FindByID(ctx context.Context, id int64) (model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func (r *ProfileGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func (r *ProfileGormRepository) Update(ctx context.Context, p model.Profile) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"role":       p.Role,
		"phone":      p.Phone,
		"store_name": p.StoreName,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// BANフラグと理由だけを更新
func (r *ProfileGormRepository) SetBan(ctx context.Context, profileID int64, banned bool, reason string) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"is_banned":  banned,
			"ban_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
