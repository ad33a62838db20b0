package model

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVendor Role = "vendor"
	RoleClient Role = "client"
)

// ユーザー1人につきProfileは1つ。
// BANされたProfileの持ち主はログインできない。
type Profile struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;uniqueIndex" json:"user_id"`
	Role   Role  `gorm:"type:varchar(10);not null;default:'client'" json:"role"`

	Phone     string `gorm:"type:varchar(20)" json:"phone"`
	StoreName string `gorm:"type:varchar(100)" json:"store_name"`

	//BANフラグと理由。理由はモデレーションが合成する
	IsBanned  bool   `gorm:"not null;default:false" json:"is_banned"`
	BanReason string `gorm:"type:text" json:"ban_reason"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
