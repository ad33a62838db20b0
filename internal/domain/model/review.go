package model

import "time"

// レビュー。1ユーザーにつき同じ商品へ1件まで。
type Review struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  int64  `gorm:"not null;index;uniqueIndex:uniq_review_per_user_product" json:"product_id"`
	ReviewerID int64  `gorm:"not null;index;uniqueIndex:uniq_review_per_user_product" json:"reviewer_id"`
	Rating     int    `gorm:"not null" json:"rating"`
	Comment    string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
