package repository

import (
	"context"
	"time"

	"restaurant/internal/domain/model"
)

// 履歴の絞り込み条件。
// From以上、Before未満（終了日は翌日0時をBeforeにする）。
type HistoryFilter struct {
	From         *time.Time
	Before       *time.Time
	DefaultLabel string
}

// 分析用に、明細を表示名つきで取り出す約束。
// 並びは order_id, ordered_at, 明細id の順。
type HistoryRepository interface {
	ListItemRows(ctx context.Context, f HistoryFilter) ([]model.HistoryRow, error)
}
