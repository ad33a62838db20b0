package usecase

import (
	"context"
	"net/http"
	"strings"

	"market/internal/domain/model"
	repo "market/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
}

func NewReviewUsecase(reviewRepo repo.ReviewRepository, productRepo repo.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{reviewRepo: reviewRepo, productRepo: productRepo}
}

type CreateReviewInput struct {
	ProductID int64
	Rating    int
	Comment   string
}

func (u *ReviewUsecase) CreateReview(ctx context.Context, actor Actor, in CreateReviewInput) (model.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if len(in.Comment) > 2000 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "comment too long")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//自分の商品にレビューは書けない
	if p.VendorID == actor.ProfileID {
		return model.Review{}, NewHTTPError(http.StatusForbidden, "cannot review your own product")
	}

	created, err := u.reviewRepo.Create(ctx, model.Review{
		ProductID:  p.ID,
		ReviewerID: actor.ProfileID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
	})
	if err == repo.ErrConflict {
		return model.Review{}, NewHTTPError(http.StatusConflict, "you already reviewed this product")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	if productID <= 0 {
		return []model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	reviews, err := u.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return []model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return reviews, nil
}
