package model

import "time"

// 認証用のユーザー本体。役割やBAN状態はProfile側に持つ。
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName    string `gorm:"type:varchar(150)" json:"first_name"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
