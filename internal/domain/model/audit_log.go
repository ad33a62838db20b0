package model

import "time"

// 監査上の操作種別。閉じた列挙
type AuditAction string

const (
	AuditActionUserRegistered  AuditAction = "USER_REGISTERED"
	AuditActionUserLogin       AuditAction = "USER_LOGIN"
	AuditActionUserBanned      AuditAction = "USER_BANNED"
	AuditActionUserUnbanned    AuditAction = "USER_UNBANNED"
	AuditActionReportDismissed AuditAction = "REPORT_DISMISSED"

	AuditActionOrderCreated       AuditAction = "ORDER_CREATED"
	AuditActionOrderCanceled      AuditAction = "ORDER_CANCELED"
	AuditActionOrderDelivered     AuditAction = "ORDER_DELIVERED"
	AuditActionOrderStatusChanged AuditAction = "ORDER_STATUS_CHANGED"

	AuditActionProductCreated  AuditAction = "PRODUCT_CREATED"
	AuditActionProductApproved AuditAction = "PRODUCT_APPROVED"
	AuditActionProductRejected AuditAction = "PRODUCT_REJECTED"
	AuditActionStockUpdated    AuditAction = "UPDATE_STOCK"
)

// 監査ログ。追記専用で、作成後の更新・削除APIは存在しない。
// 「誰が」「何を」「いつ」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザー。システム起点ならNULL
	UserID *int64 `gorm:"index" json:"user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//自由記述の詳細
	Details string `gorm:"type:text" json:"details"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
