package repository

import (
	"context"

	"market/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	MinPrice   *int64
	MaxPrice   *int64
	CategoryID *int64
	Sort       string
}

// 商品の永続化（保存・取得）だけを約束。
// 在庫の増減はInventoryRepository側。
type ProductRepository interface {
	//公開中（active）の商品のみ
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	ListByVendor(ctx context.Context, vendorID int64) ([]model.Product, error)
	//モデレーション用（status絞り込み）
	ListByStatus(ctx context.Context, status model.ProductStatus) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	UpdateStatus(ctx context.Context, id int64, status model.ProductStatus) error
	Delete(ctx context.Context, id int64) error
}
