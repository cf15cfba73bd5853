package repository

import (
	"context"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"gorm.io/gorm"
)

type HistoryGormRepository struct {
	db *gorm.DB
}

func NewHistoryGormRepository(db *gorm.DB) *HistoryGormRepository {
	return &HistoryGormRepository{db: db}
}

// メニュー名 → 麺の組み合わせ名 → デフォルト名 の順で解決する
const historyItemSelect = `od.order_id, o.ordered_at,
	COALESCE(m.name, NULLIF(CONCAT_WS(' ', nt.name, s.name, mt.name, sz.name), ''), ?) AS item`

func (r *HistoryGormRepository) ListItemRows(ctx context.Context, f repo.HistoryFilter) ([]model.HistoryRow, error) {
	q := r.db.WithContext(ctx).
		Table("order_details AS od").
		Select(historyItemSelect, f.DefaultLabel).
		Joins("JOIN orders o ON od.order_id = o.id").
		Joins("LEFT JOIN menus m ON od.menu_id = m.id").
		Joins("LEFT JOIN noodle_types nt ON od.noodle_type_id = nt.id").
		Joins("LEFT JOIN soups s ON od.soup_id = s.id").
		Joins("LEFT JOIN meats mt ON od.meat_id = mt.id").
		Joins("LEFT JOIN sizes sz ON od.size_id = sz.id")

	//期間絞り込み
	if f.From != nil {
		q = q.Where("o.ordered_at >= ?", *f.From)
	}
	if f.Before != nil {
		q = q.Where("o.ordered_at < ?", *f.Before)
	}

	var rows []model.HistoryRow
	if err := q.Order("od.order_id, o.ordered_at, od.id").Scan(&rows).Error; err != nil {
		return []model.HistoryRow{}, err
	}
	return rows, nil
}
