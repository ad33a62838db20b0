package repository

import (
	"context"

	"market/internal/domain/model"
)

type ReviewRepository interface {
	//同じ人が同じ商品に2件目を作ろうとしたらErrConflict
	Create(ctx context.Context, r model.Review) (model.Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.Review, error)
}
