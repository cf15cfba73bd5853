package repository

import (
	"context"

	"restaurant/internal/domain/model"

	"gorm.io/gorm"
)

type OrderDetailGormRepository struct {
	db *gorm.DB
}

func NewOrderDetailGormRepository(db *gorm.DB) *OrderDetailGormRepository {
	return &OrderDetailGormRepository{db: db}
}

func (r *OrderDetailGormRepository) CreateBulk(ctx context.Context, orderID int64, details []model.OrderDetail) (int64, error) {
	if len(details) == 0 {
		return 0, nil
	}
	for i := range details {
		details[i].OrderID = orderID
	}
	//スライスを渡すと1文のINSERTになる
	res := r.db.WithContext(ctx).Create(&details)
	if res.Error != nil {
		return 0, mapWriteError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *OrderDetailGormRepository) UpdateStatusByOrder(ctx context.Context, orderID int64, from model.Status, to model.Status) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.OrderDetail{}).
		Where("order_id = ? AND status_id = ?", orderID, from).
		Update("status_id", to)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// 明細ごとに表示名・元値・有効なプロモーション（割引が大きいもの1つ）を付ける。
// 名前が解決できないときはnameが空文字になる。
const orderLineViewSQL = `
SELECT DISTINCT ON (od.id)
	od.*,
	CASE
		WHEN m.id IS NOT NULL THEN m.name
		ELSE CONCAT_WS(' ', nt.name, s.name, mt.name, sz.name)
	END AS name,
	COALESCE(m.price, od.price) AS base_price,
	p.name AS promotion_name,
	p.discount_value
FROM order_details od
LEFT JOIN menus m ON od.menu_id = m.id
LEFT JOIN noodle_types nt ON od.noodle_type_id = nt.id
LEFT JOIN soups s ON od.soup_id = s.id
LEFT JOIN meats mt ON od.meat_id = mt.id
LEFT JOIN sizes sz ON od.size_id = sz.id
LEFT JOIN promotion_menu_items pmi
	ON (
		(pmi.menu_id IS NOT NULL AND pmi.menu_id = od.menu_id) OR
		(pmi.menu_id IS NULL AND pmi.noodle_menu = TRUE AND od.menu_id IS NULL)
	)
LEFT JOIN promotions p
	ON p.id = pmi.promotion_id
	AND p.start_date <= NOW()
	AND p.end_date >= NOW()
WHERE od.order_id = ?
ORDER BY od.id, p.discount_value DESC NULLS LAST`

func (r *OrderDetailGormRepository) ListViewsByOrderID(ctx context.Context, orderID int64) ([]model.OrderLineView, error) {
	var views []model.OrderLineView
	if err := r.db.WithContext(ctx).Raw(orderLineViewSQL, orderID).Scan(&views).Error; err != nil {
		return []model.OrderLineView{}, err
	}
	return views, nil
}
