package model

import "time"

// チャットの1メッセージ。追記専用
type Message struct {
	ID             int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID int64 `gorm:"not null;index" json:"conversation_id"`
	SenderID       int64 `gorm:"not null;index" json:"sender_id"`

	Text string `gorm:"type:text" json:"text"`

	//画像の保存キー（任意）
	ImageKey string `gorm:"type:varchar(255)" json:"image_key"`

	//"lat,lng" の文字列
	Location string `gorm:"type:varchar(100)" json:"location"`

	IsRead bool `gorm:"not null;default:false" json:"is_read"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
