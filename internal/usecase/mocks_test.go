package usecase_test

import (
	"context"
	"strings"
	"testing"

	"market/internal/domain/model"
	repo "market/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
	inventory  repo.InventoryRepository
	reports    repo.ReportRepository
	profiles   repo.ProfileRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *TxReposMock) Reports() repo.ReportRepository       { return r.reports }
func (r *TxReposMock) Profiles() repo.ProfileRepository     { return r.profiles }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByClientID(ctx context.Context, clientID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, clientID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListByVendor(ctx context.Context, vendorID int64) ([]model.Product, error) {
	args := m.Called(ctx, vendorID)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) ListByStatus(ctx context.Context, status model.ProductStatus) ([]model.Product, error) {
	args := m.Called(ctx, status)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) UpdateStatus(ctx context.Context, id int64, status model.ProductStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) MarkOutOfStock(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *InventoryRepoMock) SetStockWithAdjustment(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error {
	args := m.Called(ctx, adminUserID, productID, newStock, reason)
	return args.Error(0)
}

type ReportRepoMock struct{ mock.Mock }

func (m *ReportRepoMock) Create(ctx context.Context, r model.Report) (model.Report, error) {
	args := m.Called(ctx, r)
	created, _ := args.Get(0).(model.Report)
	return created, args.Error(1)
}

func (m *ReportRepoMock) FindByID(ctx context.Context, id int64) (model.Report, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(model.Report)
	return r, args.Error(1)
}

func (m *ReportRepoMock) UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *ReportRepoMock) List(ctx context.Context, f repo.ReportListFilter) ([]model.Report, int64, error) {
	args := m.Called(ctx, f)
	reports, _ := args.Get(0).([]model.Report)
	return reports, args.Get(1).(int64), args.Error(2)
}

func (m *ReportRepoMock) ListByReporter(ctx context.Context, reporterID int64) ([]model.Report, error) {
	args := m.Called(ctx, reporterID)
	reports, _ := args.Get(0).([]model.Report)
	return reports, args.Error(1)
}

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) Create(ctx context.Context, p model.Profile) (model.Profile, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Profile)
	return created, args.Error(1)
}

func (m *ProfileRepoMock) FindByID(ctx context.Context, id int64) (model.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(model.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) Update(ctx context.Context, p model.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProfileRepoMock) SetBan(ctx context.Context, profileID int64, banned bool, reason string) error {
	args := m.Called(ctx, profileID, banned, reason)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context, page int, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, page, limit)
	users, _ := args.Get(0).([]model.User)
	return users, args.Get(1).(int64), args.Error(2)
}

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
