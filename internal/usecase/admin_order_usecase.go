package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"market/internal/domain/model"
	repo "market/internal/repository"
)

type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	audit *AuditRecorder
}

func NewAdminOrderUsecase(tx repo.TransactionManager, audit *AuditRecorder) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, audit: audit}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 管理者の注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
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

// 許可される遷移だけ通す
// pending_payment -> paid / canceled（入金確認・取消）
// paid            -> sent / canceled（発送・取消）
// sent            -> delivered
func canTransition(from model.OrderStatus, to model.OrderStatus) bool {
	switch from {
	case model.OrderStatusPendingPayment:
		return to == model.OrderStatusPaid || to == model.OrderStatusCanceled
	case model.OrderStatusPaid:
		return to == model.OrderStatusSent || to == model.OrderStatusCanceled
	case model.OrderStatusSent:
		return to == model.OrderStatusDelivered
	default:
		//delivered/canceledは終端
		return false
	}
}

// ステータス更新（canceledなら在庫戻し）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor Actor, orderID int64, in AdminUpdateOrderStatusInput) error {
	if actor.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !actor.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	switch newStatus {
	case model.OrderStatusPaid, model.OrderStatusSent, model.OrderStatusDelivered, model.OrderStatusCanceled:
		// OK
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var beforeStatus model.OrderStatus
	changed := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}

		if !canTransition(o.Status, newStatus) {
			return NewDomainError(http.StatusBadRequest, CodeInvalidTransition,
				fmt.Sprintf("cannot change order from '%s' to '%s'", o.Status, newStatus))
		}

		// canceledのときだけ在庫戻し
		if newStatus == model.OrderStatusCanceled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

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
		}

		beforeStatus = o.Status
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		changed = true
		return nil
	})

	if err != nil {
		return err
	}

	if changed {
		u.audit.Record(ctx, &actor.UserID, model.AuditActionOrderStatusChanged,
			fmt.Sprintf("Order #%d: '%s' -> '%s'", orderID, beforeStatus, newStatus))
	}

	return nil
}
