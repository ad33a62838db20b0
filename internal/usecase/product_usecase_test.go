package usecase_test

import (
	"context"
	"testing"

	"market/internal/domain/model"
	repo "market/internal/repository"
	"market/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newProductFixture() (*ProductRepoMock, *InventoryRepoMock, *AuditRepoMock, *usecase.ProductUsecase) {
	productRepo := new(ProductRepoMock)
	invRepo := new(InventoryRepoMock)
	auditRepo := new(AuditRepoMock)
	uc := usecase.NewProductUsecase(productRepo, invRepo, usecase.NewAuditRecorder(auditRepo))
	return productRepo, invRepo, auditRepo, uc
}

func TestProductUsecase_ListPublicProducts_InvalidSort(t *testing.T) {
	_, _, _, uc := newProductFixture()

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page: 1, Limit: 20, Sort: "popular",
	})
	assertErrContains(t, err, "invalid sort")
}

func TestProductUsecase_ListPublicProducts_MinOverMax(t *testing.T) {
	_, _, _, uc := newProductFixture()

	minP, maxP := int64(500), int64(100)
	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page: 1, Limit: 20, MinPrice: &minP, MaxPrice: &maxP,
	})
	assertErrContains(t, err, "min_price must be <= max_price")
}

func TestProductUsecase_ListPublicProducts_TrimsQuery(t *testing.T) {
	ctx := context.Background()
	productRepo, _, _, uc := newProductFixture()

	productRepo.On("ListPublic", mock.Anything, mock.MatchedBy(func(q repo.ProductListQuery) bool {
		return q.Q == "lamp" && q.Page == 1 && q.Limit == 20
	})).Return([]model.Product{{ID: 1, Name: "Desk Lamp"}}, int64(1), nil)

	out, err := uc.ListPublicProducts(ctx, usecase.ListProductsInput{
		Page: 1, Limit: 20, Q: "  lamp  ",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Equal(t, 1, len(out.Items))

	productRepo.AssertExpectations(t)
}

// 非公開商品は他人には存在しないように見える
func TestProductUsecase_GetProductDetail_PendingHiddenFromStranger(t *testing.T) {
	ctx := context.Background()
	productRepo, _, _, uc := newProductFixture()

	productRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{
		ID:       5,
		VendorID: 20,
		Status:   model.ProductStatusPending,
	}, nil)

	_, err := uc.GetProductDetail(ctx, clientActor(99), 5)
	assertErrContains(t, err, "not found")
}

func TestProductUsecase_GetProductDetail_OwnerSeesPending(t *testing.T) {
	ctx := context.Background()
	productRepo, _, _, uc := newProductFixture()

	productRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{
		ID:       5,
		VendorID: 20,
		Status:   model.ProductStatusPending,
	}, nil)

	p, err := uc.GetProductDetail(ctx, clientActor(20), 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
}

func TestProductUsecase_GetProductDetail_AdminSeesRejected(t *testing.T) {
	ctx := context.Background()
	productRepo, _, _, uc := newProductFixture()

	productRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{
		ID:       5,
		VendorID: 20,
		Status:   model.ProductStatusRejected,
	}, nil)

	p, err := uc.GetProductDetail(ctx, adminActor(), 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
}

// 新規出品はpendingで入る
func TestProductUsecase_CreateProduct_StartsPending(t *testing.T) {
	ctx := context.Background()
	productRepo, _, auditRepo, uc := newProductFixture()

	productRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Status == model.ProductStatusPending &&
			p.VendorID == int64(20) &&
			p.Name == "Vintage Clock"
	})).Return(model.Product{ID: 7, Name: "Vintage Clock", Status: model.ProductStatusPending, VendorID: 20}, nil)

	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.Action == model.AuditActionProductCreated &&
			a.Details == "Product #7 'Vintage Clock' submitted for review"
	})).Return(nil)

	created, err := uc.CreateProduct(ctx, clientActor(20), usecase.CreateProductInput{
		Name:      "  Vintage Clock  ",
		Price:     2500,
		Inventory: 3,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	productRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestProductUsecase_CreateProduct_NegativePrice(t *testing.T) {
	_, _, _, uc := newProductFixture()

	_, err := uc.CreateProduct(context.Background(), clientActor(20), usecase.CreateProductInput{
		Name:  "Thing",
		Price: -1,
	})
	assertErrContains(t, err, "price must be >= 0")
}

func TestProductUsecase_UpdateProduct_StrangerForbidden(t *testing.T) {
	ctx := context.Background()
	productRepo, _, _, uc := newProductFixture()

	productRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{
		ID:       5,
		VendorID: 20,
	}, nil)

	_, err := uc.UpdateProduct(ctx, clientActor(99), 5, usecase.UpdateProductInput{
		Name:  "Hijacked",
		Price: 1,
	})
	assertErrContains(t, err, "forbidden")
	productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// 在庫切れは所有者だけ。管理者でも不可
func TestProductUsecase_MarkOutOfStock_AdminForbidden(t *testing.T) {
	ctx := context.Background()
	productRepo, invRepo, _, uc := newProductFixture()

	productRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{
		ID:       5,
		VendorID: 20,
	}, nil)

	_, err := uc.MarkOutOfStock(ctx, adminActor(), 5)
	assertErrContains(t, err, "only the owning vendor can do this")
	invRepo.AssertNotCalled(t, "MarkOutOfStock", mock.Anything, mock.Anything)
}

func TestProductUsecase_MarkOutOfStock_OwnerZeroesInventory(t *testing.T) {
	ctx := context.Background()
	productRepo, invRepo, _, uc := newProductFixture()

	productRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{
		ID:        5,
		VendorID:  20,
		Inventory: 8,
	}, nil)
	invRepo.On("MarkOutOfStock", mock.Anything, int64(5)).Return(nil)

	p, err := uc.MarkOutOfStock(ctx, clientActor(20), 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), p.Inventory)

	invRepo.AssertExpectations(t)
}

func TestProductUsecase_PendingReview_AdminOnly(t *testing.T) {
	_, _, _, uc := newProductFixture()

	_, err := uc.PendingReview(context.Background(), clientActor(20))
	assertErrContains(t, err, "admin only")
}

func TestProductUsecase_ApproveProduct_SetsActive_And_Audits(t *testing.T) {
	ctx := context.Background()
	productRepo, _, auditRepo, uc := newProductFixture()

	productRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{
		ID:     5,
		Name:   "Vintage Clock",
		Status: model.ProductStatusPending,
	}, nil)
	productRepo.On("UpdateStatus", mock.Anything, int64(5), model.ProductStatusActive).Return(nil)

	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.Action == model.AuditActionProductApproved &&
			a.Details == "Product #5 'Vintage Clock' approved"
	})).Return(nil)

	err := uc.ApproveProduct(ctx, adminActor(), 5)
	assert.NoError(t, err)

	productRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestProductUsecase_RejectProduct_NonAdminForbidden(t *testing.T) {
	productRepo, _, _, uc := newProductFixture()

	err := uc.RejectProduct(context.Background(), clientActor(20), 5)
	assertErrContains(t, err, "admin only")
	productRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_SetStock_ReasonRequired(t *testing.T) {
	_, invRepo, _, uc := newProductFixture()

	err := uc.SetStock(context.Background(), adminActor(), 5, 10, "   ")
	assertErrContains(t, err, "reason is required")
	invRepo.AssertNotCalled(t, "SetStockWithAdjustment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_SetStock_RecordsAdjustment_And_Audits(t *testing.T) {
	ctx := context.Background()
	_, invRepo, auditRepo, uc := newProductFixture()

	actor := adminActor()
	invRepo.On("SetStockWithAdjustment", mock.Anything, actor.UserID, int64(5), int64(12), "recount").Return(nil)

	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.Action == model.AuditActionStockUpdated &&
			a.Details == "Product #5 stock set to 12 (recount)"
	})).Return(nil)

	err := uc.SetStock(ctx, actor, 5, 12, "recount")
	assert.NoError(t, err)

	invRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}
