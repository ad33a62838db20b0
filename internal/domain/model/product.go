package model

import "time"

// 商品のモデレーション状態
type ProductStatus string

const (
	//出品者が申請した直後。管理者の承認待ち
	ProductStatusPending ProductStatus = "pending"
	//管理者が承認した。公開中
	ProductStatusActive ProductStatus = "active"
	//管理者が却下した
	ProductStatusRejected ProductStatus = "rejected"
	//出品者が非公開にした
	ProductStatusArchived ProductStatus = "archived"
)

// 価格は最小通貨単位のint64で持つ（浮動小数は使わない）。
// Inventoryは常に0以上。減算は注文トランザクション経由のみ。
type Product struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Price       int64         `gorm:"not null" json:"price"`
	Inventory   int64         `gorm:"not null;default:0" json:"inventory"`
	Status      ProductStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`

	//出品者（role=vendorのProfile）
	VendorID int64 `gorm:"not null;index" json:"vendor_id"`

	//カテゴリが消えても商品は残す
	CategoryID *int64 `gorm:"index" json:"category_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
