package repository

import (
	"context"

	"market/internal/domain/model"
)

type FavoriteRepository interface {
	//重複登録はErrConflict
	Create(ctx context.Context, f model.Favorite) (model.Favorite, error)
	FindByID(ctx context.Context, id int64) (model.Favorite, error)
	ListByProfile(ctx context.Context, profileID int64) ([]model.Favorite, error)
	Delete(ctx context.Context, id int64) error
}
