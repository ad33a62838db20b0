package repository

import (
	"context"
	"errors"

	"market/internal/domain/model"
	repo "market/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす。
// チェックと減算を1つのUPDATEで行うので同時購入でもマイナスにならない
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND inventory >= ?", productID, qty).
		Update("inventory", gorm.Expr("inventory - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 在庫戻し（キャンセル）
func (r *InventoryGormRepository) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("inventory", gorm.Expr("inventory + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫切れにする（出品者操作）
func (r *InventoryGormRepository) MarkOutOfStock(ctx context.Context, productID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("inventory", 0)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫を「現在値」に更新し、調整履歴も残す
func (r *InventoryGormRepository) SetStockWithAdjustment(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//現在の在庫を取得
		var p model.Product
		if err := tx.First(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}

		res := tx.Model(&model.Product{}).
			Where("id = ?", productID).
			Update("inventory", newStock)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		adj := model.InventoryAdjustment{
			ProductID:   productID,
			AdminUserID: adminUserID,
			Delta:       newStock - p.Inventory,
			Reason:      reason,
		}
		if err := tx.Create(&adj).Error; err != nil {
			return err
		}

		return nil
	})
}
