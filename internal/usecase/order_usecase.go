package usecase

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"market/internal/domain/model"
	repo "market/internal/repository"
)

type OrderUsecase struct {
	tx    repo.TransactionManager
	audit *AuditRecorder
}

func NewOrderUsecase(tx repo.TransactionManager, audit *AuditRecorder) *OrderUsecase {
	return &OrderUsecase{tx: tx, audit: audit}
}

type OrderLineInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type PlaceOrderInput struct {
	Items []OrderLineInput
}

type OrderItemOutput struct {
	ProductID       *int64 `json:"product_id"`
	Name            string `json:"name"`
	PriceAtPurchase int64  `json:"price_at_purchase"`
	Quantity        int64  `json:"quantity"`
}

type OrderOutput struct {
	ID         int64             `json:"id"`
	ClientID   *int64            `json:"client_id"`
	Status     string            `json:"status"`
	TotalPrice int64             `json:"total_price"`
	CreatedAt  time.Time         `json:"created_at"`
	Items      []OrderItemOutput `json:"items"`
}

// PlaceOrderはカート内容を注文に確定する。
// 途中のどの行で失敗しても注文・在庫に痕跡を残さない（全体が1トランザクション）。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, actor Actor, in PlaceOrderInput) (OrderOutput, error) {
	if actor.ProfileID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "items must not be empty")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		if it.Quantity < 1 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
		}
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		type line struct {
			product model.Product
			qty     int64
		}

		//1周目：リクエストの行順に商品を確認して価格をスナップショット
		lines := make([]line, 0, len(in.Items))
		var total int64 = 0

		for _, it := range in.Items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if err == repo.ErrNotFound {
				return NewDomainError(http.StatusBadRequest, CodeProductUnavailable,
					fmt.Sprintf("product %d does not exist or is not active", it.ProductID))
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if p.Status != model.ProductStatusActive {
				return NewDomainError(http.StatusBadRequest, CodeProductUnavailable,
					fmt.Sprintf("product %d does not exist or is not active", it.ProductID))
			}

			lines = append(lines, line{product: p, qty: it.Quantity})
			total += p.Price * it.Quantity
		}

		//2周目：在庫減算。行ロックの取得順を安定させるためproduct id昇順
		//（複数商品注文同士のデッドロック回避）
		dec := make([]line, len(lines))
		copy(dec, lines)
		sort.Slice(dec, func(i, j int) bool { return dec[i].product.ID < dec[j].product.ID })

		for _, l := range dec {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.product.ID, l.qty)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				//残数をエラーメッセージに含める
				avail := int64(0)
				if cur, ferr := r.Products().FindByID(ctx, l.product.ID); ferr == nil {
					avail = cur.Inventory
				}
				return NewDomainError(http.StatusBadRequest, CodeInsufficientInventory,
					fmt.Sprintf("insufficient inventory for '%s': available %d", l.product.Name, avail))
			}
		}

		//注文作成
		now := time.Now()
		clientID := actor.ProfileID
		orderID, err := r.Orders().Create(ctx, model.Order{
			ClientID:   &clientID,
			Status:     model.OrderStatusPendingPayment,
			TotalPrice: total,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//明細はリクエストの行順で作る
		orderItems := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			pid := l.product.ID
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           &pid,
				ProductNameSnapshot: l.product.Name,
				PriceAtPurchase:     l.product.Price,
				Quantity:            l.qty,
				CreatedAt:           now,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:         orderID,
			ClientID:   &clientID,
			Status:     model.OrderStatusPendingPayment,
			TotalPrice: total,
			CreatedAt:  now,
		}
		out = toOrderOutput(created, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//監査はコミット後に投げっぱなし。失敗しても注文は成立済み
	u.audit.Record(ctx, &actor.UserID, model.AuditActionOrderCreated,
		fmt.Sprintf("New order #%d created. Total: %d", out.ID, out.TotalPrice))

	return out, nil
}

// CancelOrderは注文を取り消して在庫を戻す。
// pending_payment/paidからのみ。sent/delivered/canceledは拒否
func (u *OrderUsecase) CancelOrder(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if actor.ProfileID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//他人の注文は「存在しない扱い」にする
		if !actor.IsAdmin() && (o.ClientID == nil || *o.ClientID != actor.ProfileID) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if o.Status != model.OrderStatusPendingPayment && o.Status != model.OrderStatusPaid {
			return NewDomainError(http.StatusBadRequest, CodeInvalidTransition,
				fmt.Sprintf("cannot cancel order in status '%s'", o.Status))
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//在庫戻し。商品が既に削除されていたらその行はスキップ
		for _, it := range items {
			if it.ProductID == nil {
				continue
			}
			err := r.Inventory().IncreaseStock(ctx, *it.ProductID, it.Quantity)
			if err == repo.ErrNotFound {
				continue
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCanceled); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = model.OrderStatusCanceled
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	u.audit.Record(ctx, &actor.UserID, model.AuditActionOrderCanceled,
		fmt.Sprintf("Order #%d canceled", out.ID))

	return out, nil
}

// MarkDeliveredは配達完了にする。
// 注文内のいずれかの商品の出品者か、管理者だけが押せる。
// 既にdeliveredなら何もせず成功を返す（二度押しOK）
func (u *OrderUsecase) MarkDelivered(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if actor.ProfileID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	delivered := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//出品者チェック：残っている商品のvendorを辿る
		if !actor.IsAdmin() {
			isVendor := false
			for _, it := range items {
				if it.ProductID == nil {
					continue
				}
				p, perr := r.Products().FindByID(ctx, *it.ProductID)
				if perr == repo.ErrNotFound {
					continue
				}
				if perr != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if p.VendorID == actor.ProfileID {
					isVendor = true
					break
				}
			}
			if !isVendor {
				return NewHTTPError(http.StatusForbidden, "forbidden")
			}
		}

		//既に配達済みならno-op
		if o.Status == model.OrderStatusDelivered {
			out = toOrderOutput(o, items)
			return nil
		}

		//canceledは終端。そこからは動かさない
		if o.Status == model.OrderStatusCanceled {
			return NewDomainError(http.StatusBadRequest, CodeInvalidTransition,
				"cannot deliver order in status 'canceled'")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusDelivered); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = model.OrderStatusDelivered
		out = toOrderOutput(o, items)
		delivered = true
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//no-opのときは監査も出さない
	if delivered {
		u.audit.Record(ctx, &actor.UserID, model.AuditActionOrderDelivered,
			fmt.Sprintf("Order #%d marked as delivered", out.ID))
	}

	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, actor Actor) ([]OrderOutput, error) {
	if actor.ProfileID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByClientID(ctx, actor.ProfileID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetOrderDetail(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if actor.ProfileID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !actor.IsAdmin() && (o.ClientID == nil || *o.ClientID != actor.ProfileID) {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:       it.ProductID,
			Name:            it.ProductNameSnapshot,
			PriceAtPurchase: it.PriceAtPurchase,
			Quantity:        it.Quantity,
		})
	}

	return OrderOutput{
		ID:         o.ID,
		ClientID:   o.ClientID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		Items:      outItems,
	}
}
