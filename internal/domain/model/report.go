package model

import "time"

type ReportStatus string

const (
	//管理者がまだ対応していない
	ReportStatusPending ReportStatus = "pending"
	//ban-vendorかdismissのどちらかで解決済み。終端
	ReportStatusResolved ReportStatus = "resolved"
)

// 商品に対する通報。解決は管理者の一度きり。
type Report struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//通報者。Profileが消えても通報は残す
	ReporterID *int64 `gorm:"index" json:"reporter_id"`

	ProductID int64  `gorm:"not null;index" json:"product_id"`
	Reason    string `gorm:"type:text;not null" json:"reason"`

	//証拠画像の保存キー（任意）
	EvidenceKey string `gorm:"type:varchar(255)" json:"evidence_key"`

	Status ReportStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
