package model

import "time"

// 注文（テーブル単位）
type Order struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"orderId"`
	TableID   int64     `gorm:"not null;index" json:"tableId"`
	OrderedAt time.Time `gorm:"not null;index" json:"orderedAt"`
	StatusID  Status    `gorm:"column:status_id;not null;index" json:"statusId"`

	Table *DiningTable `gorm:"foreignKey:TableID" json:"-"`
}
