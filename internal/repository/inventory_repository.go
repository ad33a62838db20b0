package repository

import "context"

type InventoryRepository interface {
	// 在庫が足りるときだけ減算。足りなければfalse
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル）。商品が消えていればErrNotFound
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 在庫を0にする（出品者の「在庫切れ」操作）
	MarkOutOfStock(ctx context.Context, productID int64) error

	// 管理者の在庫直接編集。調整履歴も同時に残す
	SetStockWithAdjustment(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error
}
