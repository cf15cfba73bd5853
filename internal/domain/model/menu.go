package model

import "time"

type DiningTable struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(50);not null" json:"name"`
}

type Menu struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"menuId"`
	Name        string  `gorm:"type:varchar(255);not null" json:"menuName"`
	Price       float64 `gorm:"type:numeric(10,2);not null" json:"menuPrice"`
	Category    string  `gorm:"type:varchar(100)" json:"category"`
	IsAvailable bool    `gorm:"not null;default:true" json:"isAvailable"`
}

// 麺の組み合わせの部品
type NoodleType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

type Soup struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

type Meat struct {
	ID         int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string  `gorm:"type:varchar(100);not null" json:"name"`
	ExtraPrice float64 `gorm:"type:numeric(10,2);not null;default:0" json:"extraPrice"`
}

type Size struct {
	ID         int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string  `gorm:"type:varchar(50);not null" json:"name"`
	ExtraPrice float64 `gorm:"type:numeric(10,2);not null;default:0" json:"extraPrice"`
}

type Promotion struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	DiscountValue float64   `gorm:"type:numeric(10,2);not null" json:"discountValue"`
	StartDate     time.Time `gorm:"not null" json:"startDate"`
	EndDate       time.Time `gorm:"not null" json:"endDate"`
}

// MenuIDがnilでNoodleMenu=trueなら麺の組み合わせ全部が対象
type PromotionMenuItem struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PromotionID int64  `gorm:"not null;index" json:"promotionId"`
	MenuID      *int64 `gorm:"index" json:"menuId"`
	NoodleMenu  bool   `gorm:"not null;default:false" json:"noodleMenu"`
}
