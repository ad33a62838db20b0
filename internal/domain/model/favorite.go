package model

import "time"

// お気に入り。同じ商品を二度登録できない。
type Favorite struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID int64 `gorm:"not null;index;uniqueIndex:uniq_favorite_per_user_product" json:"profile_id"`
	ProductID int64 `gorm:"not null;index;uniqueIndex:uniq_favorite_per_user_product" json:"product_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
