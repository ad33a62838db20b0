package model

import "time"

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusSent           OrderStatus = "sent"
	//終端。ここから他の状態には遷移しない
	OrderStatusDelivered OrderStatus = "delivered"
	//終端
	OrderStatusCanceled OrderStatus = "canceled"
)

// 注文本体。明細（OrderItem）を所有し、注文削除で明細も消える。
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//Profileが消えても注文履歴は残す
	ClientID *int64 `gorm:"index" json:"client_id"`

	Status OrderStatus `gorm:"type:varchar(20);not null;default:'pending_payment';index" json:"status"`

	//明細のprice_at_purchase×quantityの合計。導出値
	TotalPrice int64 `gorm:"not null;default:0" json:"total_price"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
