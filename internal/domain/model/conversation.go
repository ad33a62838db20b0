package model

import "time"

// 2者間のチャットルーム。AとBの組は1つだけ。
type Conversation struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserAID int64 `gorm:"not null;index;uniqueIndex:uniq_conversation_pair" json:"user_a_id"`
	UserBID int64 `gorm:"not null;index;uniqueIndex:uniq_conversation_pair" json:"user_b_id"`

	//最新のやり取り順に並べるため
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime;index" json:"updated_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
