package model

import "time"

// 注文明細。商品が削除されても履歴として残すため、
// 商品名と購入時価格をスナップショットで持つ。
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index" json:"order_id"`

	//商品削除でNULLになる
	ProductID *int64 `gorm:"index" json:"product_id"`

	ProductNameSnapshot string `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	Quantity            int64  `gorm:"not null" json:"quantity"`

	//購入時の価格。後からカタログ価格が変わっても不変
	PriceAtPurchase int64 `gorm:"not null" json:"price_at_purchase"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
