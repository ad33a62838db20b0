package usecase

import (
	"context"
	"net/http"

	"market/internal/domain/model"
	repo "market/internal/repository"
)

type FavoriteUsecase struct {
	favoriteRepo repo.FavoriteRepository
	productRepo  repo.ProductRepository
}

func NewFavoriteUsecase(favoriteRepo repo.FavoriteRepository, productRepo repo.ProductRepository) *FavoriteUsecase {
	return &FavoriteUsecase{favoriteRepo: favoriteRepo, productRepo: productRepo}
}

func (u *FavoriteUsecase) AddFavorite(ctx context.Context, actor Actor, productID int64) (model.Favorite, error) {
	if productID <= 0 {
		return model.Favorite{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Favorite{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Favorite{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.Status != model.ProductStatusActive {
		return model.Favorite{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	created, err := u.favoriteRepo.Create(ctx, model.Favorite{
		ProfileID: actor.ProfileID,
		ProductID: p.ID,
	})
	if err == repo.ErrConflict {
		return model.Favorite{}, NewHTTPError(http.StatusConflict, "already in favorites")
	}
	if err != nil {
		return model.Favorite{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

func (u *FavoriteUsecase) MyFavorites(ctx context.Context, actor Actor) ([]model.Favorite, error) {
	favorites, err := u.favoriteRepo.ListByProfile(ctx, actor.ProfileID)
	if err != nil {
		return []model.Favorite{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return favorites, nil
}

func (u *FavoriteUsecase) RemoveFavorite(ctx context.Context, actor Actor, favoriteID int64) error {
	if favoriteID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid favorite id")
	}

	f, err := u.favoriteRepo.FindByID(ctx, favoriteID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人のお気に入りは「存在しない扱い」
	if f.ProfileID != actor.ProfileID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.favoriteRepo.Delete(ctx, f.ID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
