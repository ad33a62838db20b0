package usecase_test

import (
	"context"
	"errors"
	"testing"

	"market/internal/domain/model"
	repo "market/internal/repository"
	"market/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAdminOrderFixture() (*TxManagerMock, *OrderRepoMock, *OrderItemRepoMock, *InventoryRepoMock, *AuditRepoMock, *usecase.AdminOrderUsecase) {
	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	invRepo := new(InventoryRepoMock)
	auditRepo := new(AuditRepoMock)

	tx.Repos = &TxReposMock{
		orders:     ordersRepo,
		orderItems: itemsRepo,
		inventory:  invRepo,
	}

	uc := usecase.NewAdminOrderUsecase(tx, usecase.NewAuditRecorder(auditRepo))
	return tx, ordersRepo, itemsRepo, invRepo, auditRepo, uc
}

func TestAdminOrderUsecase_List_InvalidPage(t *testing.T) {
	_, _, _, _, _, uc := newAdminOrderFixture()

	outs, err := uc.List(context.Background(), repo.AdminOrderListFilter{Page: 0, Limit: 20})
	assert.Equal(t, 0, len(outs))
	assertErrContains(t, err, "invalid page")
}

func TestAdminOrderUsecase_List_InvalidLimit(t *testing.T) {
	_, _, _, _, _, uc := newAdminOrderFixture()

	outs, err := uc.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 0})
	assert.Equal(t, 0, len(outs))
	assertErrContains(t, err, "invalid limit")
}

func TestAdminOrderUsecase_List_Success_CallsItemsPerOrder(t *testing.T) {
	ctx := context.Background()
	tx, ordersRepo, itemsRepo, _, _, uc := newAdminOrderFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	f := repo.AdminOrderListFilter{Page: 1, Limit: 20}

	orders := []model.Order{
		{ID: 10, Status: model.OrderStatusPendingPayment},
		{ID: 11, Status: model.OrderStatusPaid},
	}

	ordersRepo.On("ListAdmin", mock.Anything, f).Return(orders, int64(2), nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(11)).Return([]model.OrderItem{}, nil)

	outs, err := uc.List(ctx, f)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(outs))

	ordersRepo.AssertExpectations(t)
	itemsRepo.AssertExpectations(t)
}

func TestAdminOrderUsecase_UpdateStatus_NonAdminForbidden(t *testing.T) {
	_, _, _, _, _, uc := newAdminOrderFixture()

	err := uc.UpdateStatus(context.Background(), clientActor(10), 1,
		usecase.AdminUpdateOrderStatusInput{Status: "paid"})
	assertErrContains(t, err, "admin only")
}

func TestAdminOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	_, _, _, _, _, uc := newAdminOrderFixture()

	err := uc.UpdateStatus(context.Background(), adminActor(), 1,
		usecase.AdminUpdateOrderStatusInput{Status: "teleported"})
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_UpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	tx, ordersRepo, _, _, _, uc := newAdminOrderFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	err := uc.UpdateStatus(ctx, adminActor(), 99,
		usecase.AdminUpdateOrderStatusInput{Status: "paid"})
	assertErrContains(t, err, "not found")
}

func TestAdminOrderUsecase_UpdateStatus_SameStatus_NoOp(t *testing.T) {
	ctx := context.Background()
	tx, ordersRepo, _, _, auditRepo, uc := newAdminOrderFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusPaid,
	}, nil)

	err := uc.UpdateStatus(ctx, adminActor(), 1,
		usecase.AdminUpdateOrderStatusInput{Status: "paid"})
	assert.NoError(t, err)

	ordersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_DeliveredIsTerminal(t *testing.T) {
	ctx := context.Background()
	tx, ordersRepo, _, _, _, uc := newAdminOrderFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusDelivered,
	}, nil)

	err := uc.UpdateStatus(ctx, adminActor(), 1,
		usecase.AdminUpdateOrderStatusInput{Status: "paid"})
	assertErrContains(t, err, "cannot change order from 'delivered' to 'paid'")
	assert.True(t, usecase.HasCode(err, usecase.CodeInvalidTransition))
}

func TestAdminOrderUsecase_UpdateStatus_SkipTransitionNotAllowed(t *testing.T) {
	ctx := context.Background()
	tx, ordersRepo, _, _, _, uc := newAdminOrderFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusPendingPayment,
	}, nil)

	//pending_paymentからdeliveredへ飛ばすのは不可
	err := uc.UpdateStatus(ctx, adminActor(), 1,
		usecase.AdminUpdateOrderStatusInput{Status: "delivered"})
	assert.True(t, usecase.HasCode(err, usecase.CodeInvalidTransition))
}

// cancel時は在庫戻し + audit
func TestAdminOrderUsecase_UpdateStatus_Cancel_RestoresStock_And_Audits(t *testing.T) {
	ctx := context.Background()
	tx, ordersRepo, itemsRepo, invRepo, auditRepo, uc := newAdminOrderFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := int64(50)
	ordersRepo.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:     orderID,
		Status: model.OrderStatusPaid,
	}, nil)

	p1, p2 := int64(100), int64(101)
	items := []model.OrderItem{
		{OrderID: orderID, ProductID: &p1, Quantity: 2},
		{OrderID: orderID, ProductID: &p2, Quantity: 1},
	}
	itemsRepo.On("ListByOrderID", mock.Anything, orderID).Return(items, nil)

	invRepo.On("IncreaseStock", mock.Anything, int64(100), int64(2)).Return(nil)
	invRepo.On("IncreaseStock", mock.Anything, int64(101), int64(1)).Return(nil)

	ordersRepo.On("UpdateStatus", mock.Anything, orderID, model.OrderStatusCanceled).Return(nil)

	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.Action == model.AuditActionOrderStatusChanged &&
			a.Details == "Order #50: 'paid' -> 'canceled'"
	})).Return(nil)

	err := uc.UpdateStatus(ctx, adminActor(), orderID,
		usecase.AdminUpdateOrderStatusInput{Status: "canceled"})
	assert.NoError(t, err)

	ordersRepo.AssertExpectations(t)
	itemsRepo.AssertExpectations(t)
	invRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

// sentへの遷移では在庫に触らない
func TestAdminOrderUsecase_UpdateStatus_Sent_NoInventoryTouch(t *testing.T) {
	ctx := context.Background()
	tx, ordersRepo, itemsRepo, invRepo, auditRepo, uc := newAdminOrderFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := int64(60)
	ordersRepo.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:     orderID,
		Status: model.OrderStatusPaid,
	}, nil)

	ordersRepo.On("UpdateStatus", mock.Anything, orderID, model.OrderStatusSent).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.UpdateStatus(ctx, adminActor(), orderID,
		usecase.AdminUpdateOrderStatusInput{Status: "sent"})
	assert.NoError(t, err)

	itemsRepo.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
	invRepo.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_DBError_OnUpdate(t *testing.T) {
	ctx := context.Background()
	tx, ordersRepo, _, _, _, uc := newAdminOrderFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := int64(70)
	ordersRepo.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:     orderID,
		Status: model.OrderStatusPaid,
	}, nil)
	ordersRepo.On("UpdateStatus", mock.Anything, orderID, model.OrderStatusSent).Return(errors.New("db down"))

	err := uc.UpdateStatus(ctx, adminActor(), orderID,
		usecase.AdminUpdateOrderStatusInput{Status: "sent"})
	assertErrContains(t, err, "db error")
}
