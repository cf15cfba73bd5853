package model

import "time"

// 注文明細
// MenuIDがあるときは麺の組み合わせ（Soup/Size/Meat/NoodleType）は全部nil。逆も同じ。
// Priceは追加時点の単価を保存（あとから再計算しない）。
type OrderDetail struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64     `gorm:"not null;index" json:"orderId"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	Price               float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	TakeHome            bool      `gorm:"not null;default:false" json:"takeHome"`
	Additional          *string   `gorm:"type:text" json:"additional"`
	StatusID            Status    `gorm:"column:status_id;not null;index" json:"statusId"`
	MenuID              *int64    `gorm:"index" json:"menuId"`
	PromotionMenuItemID *int64    `json:"promotionMenuItemId"`
	SoupID              *int64    `json:"soupId"`
	SizeID              *int64    `json:"sizeId"`
	MeatID              *int64    `json:"meatId"`
	NoodleTypeID        *int64    `json:"noodleTypeId"`
	CreatedAt           time.Time `gorm:"not null" json:"createdAt"`

	//FK制約のためだけの関連（読み込みはしない）
	Order      *Order      `gorm:"foreignKey:OrderID" json:"-"`
	Menu       *Menu       `gorm:"foreignKey:MenuID" json:"-"`
	Soup       *Soup       `gorm:"foreignKey:SoupID" json:"-"`
	Size       *Size       `gorm:"foreignKey:SizeID" json:"-"`
	Meat       *Meat       `gorm:"foreignKey:MeatID" json:"-"`
	NoodleType *NoodleType `gorm:"foreignKey:NoodleTypeID" json:"-"`
}

// GET /order/:orderId 用の明細（名前・元値・有効なプロモーション付き）
type OrderLineView struct {
	OrderDetail
	Name          string   `json:"name"`
	BasePrice     float64  `json:"basePrice"`
	PromotionName *string  `json:"promotionName"`
	DiscountValue *float64 `json:"discountValue"`
}
