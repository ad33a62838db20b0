package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"market/internal/domain/model"
	repo "market/internal/repository"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	audit         *AuditRecorder
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	audit *AuditRecorder,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		audit:         audit,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	MinPrice   *int64
	MaxPrice   *int64
	CategoryID *int64
	Sort       string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          strings.TrimSpace(in.Q),
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		CategoryID: in.CategoryID,
		Sort:       in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 公開中の商品は誰でも、非公開は所有者と管理者だけ見られる
func (u *ProductUsecase) GetProductDetail(ctx context.Context, actor Actor, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if p.Status != model.ProductStatusActive && !actor.OwnsOrAdmin(p.VendorID) {
		//非公開商品は「存在しない扱い」にする
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return p, nil
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
	Inventory   int64
	CategoryID  *int64
}

// 出品。新規はpendingで入り、管理者の承認を待つ
func (u *ProductUsecase) CreateProduct(ctx context.Context, actor Actor, in CreateProductInput) (model.Product, error) {
	if actor.ProfileID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Inventory < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "inventory must be >= 0")
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Inventory:   in.Inventory,
		Status:      model.ProductStatusPending,
		VendorID:    actor.ProfileID,
		CategoryID:  in.CategoryID,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, &actor.UserID, model.AuditActionProductCreated,
		fmt.Sprintf("Product #%d '%s' submitted for review", created.ID, created.Name))

	return created, nil
}

type UpdateProductInput struct {
	Name        string
	Description string
	Price       int64
	CategoryID  *int64
}

// 編集は所有者か管理者。在庫はここでは触らない
func (u *ProductUsecase) UpdateProduct(ctx context.Context, actor Actor, productID int64, in UpdateProductInput) (model.Product, error) {
	p, err := u.findOwnedProduct(ctx, actor, productID)
	if err != nil {
		return model.Product{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	p.Name = name
	p.Description = in.Description
	p.Price = in.Price
	p.CategoryID = in.CategoryID

	if err := u.productRepo.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p, nil
}

// 在庫切れにする。所有者のみ（管理者でも不可）
func (u *ProductUsecase) MarkOutOfStock(ctx context.Context, actor Actor, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.VendorID != actor.ProfileID {
		return model.Product{}, NewHTTPError(http.StatusForbidden, "only the owning vendor can do this")
	}

	if err := u.inventoryRepo.MarkOutOfStock(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p.Inventory = 0
	return p, nil
}

// 自分の出品一覧（状態問わず）
func (u *ProductUsecase) MyPublications(ctx context.Context, actor Actor) ([]model.Product, error) {
	if actor.ProfileID <= 0 {
		return []model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	products, err := u.productRepo.ListByVendor(ctx, actor.ProfileID)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

// 承認待ち一覧（管理者）
func (u *ProductUsecase) PendingReview(ctx context.Context, actor Actor) ([]model.Product, error) {
	if !actor.IsAdmin() {
		return []model.Product{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	products, err := u.productRepo.ListByStatus(ctx, model.ProductStatusPending)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

// 商品を承認して公開する（管理者）
func (u *ProductUsecase) ApproveProduct(ctx context.Context, actor Actor, productID int64) error {
	return u.moderate(ctx, actor, productID, model.ProductStatusActive,
		model.AuditActionProductApproved, "approved")
}

// 商品を却下する（管理者）
func (u *ProductUsecase) RejectProduct(ctx context.Context, actor Actor, productID int64) error {
	return u.moderate(ctx, actor, productID, model.ProductStatusRejected,
		model.AuditActionProductRejected, "rejected")
}

func (u *ProductUsecase) moderate(ctx context.Context, actor Actor, productID int64, status model.ProductStatus, action model.AuditAction, word string) error {
	if !actor.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.productRepo.UpdateStatus(ctx, productID, status); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, &actor.UserID, action,
		fmt.Sprintf("Product #%d '%s' %s", p.ID, p.Name, word))
	return nil
}

// 管理者の在庫直接編集。調整履歴と監査を残す
func (u *ProductUsecase) SetStock(ctx context.Context, actor Actor, productID int64, newStock int64, reason string) error {
	if !actor.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewHTTPError(http.StatusBadRequest, "reason is required")
	}

	if err := u.inventoryRepo.SetStockWithAdjustment(ctx, actor.UserID, productID, newStock, reason); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, &actor.UserID, model.AuditActionStockUpdated,
		fmt.Sprintf("Product #%d stock set to %d (%s)", productID, newStock, reason))
	return nil
}

func (u *ProductUsecase) findOwnedProduct(ctx context.Context, actor Actor, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !actor.OwnsOrAdmin(p.VendorID) {
		return model.Product{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return p, nil
}
