package model

import "time"

// 注文ステータスの変更履歴。
// 「どの注文が」「何に」変わったか、明細が何件動いたかを残す。
type OrderStatusLog struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID        int64     `gorm:"not null;index" json:"orderId"`
	ToStatus       Status    `gorm:"not null" json:"toStatus"`
	DetailsUpdated int64     `gorm:"not null;default:0" json:"detailsUpdated"`
	ChangedBy      string    `gorm:"type:varchar(50);not null" json:"changedBy"`
	CreatedAt      time.Time `gorm:"not null;index" json:"createdAt"`
}
