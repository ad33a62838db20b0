package usecase

import (
	"context"
	"net/http"
	"strings"

	"market/internal/domain/model"
	repo "market/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, actor Actor, name string) (model.Category, error) {
	if !actor.IsAdmin() {
		return model.Category{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{Name: name})
	if err == repo.ErrConflict {
		return model.Category{}, NewHTTPError(http.StatusConflict, "category already exists")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *CategoryUsecase) Rename(ctx context.Context, actor Actor, id int64, name string) (model.Category, error) {
	if !actor.IsAdmin() {
		return model.Category{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	c, err := u.categoryRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c.Name = name
	if err := u.categoryRepo.Update(ctx, c); err != nil {
		if err == repo.ErrConflict {
			return model.Category{}, NewHTTPError(http.StatusConflict, "category already exists")
		}
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if !actor.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid category id")
	}
	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
