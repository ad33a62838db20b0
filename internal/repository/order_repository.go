package repository

import (
	"context"
	"time"

	"market/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page     int
	Limit    int
	Status   string
	ClientID *int64
	From     *time.Time
	To       *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByClientID(ctx context.Context, clientID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
