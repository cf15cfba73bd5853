package usecase

import (
	"context"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

// 注文履歴を「注文ごとの品目リスト」にまとめる
type TransactionAssembler struct {
	history      repo.HistoryRepository
	defaultLabel string
}

func NewTransactionAssembler(history repo.HistoryRepository, defaultLabel string) *TransactionAssembler {
	return &TransactionAssembler{history: history, defaultLabel: defaultLabel}
}

// start/end はどちらもnil可。endはその日の終わりまで含む。
// 並びはクエリの順（注文id→注文日時→明細id）のまま。
func (a *TransactionAssembler) BuildTransactions(ctx context.Context, start, end *time.Time) ([]model.Transaction, error) {
	f := repo.HistoryFilter{
		From:         start,
		DefaultLabel: a.defaultLabel,
	}
	if end != nil {
		//翌日0時未満
		before := end.AddDate(0, 0, 1)
		f.Before = &before
	}

	rows, err := a.history.ListItemRows(ctx, f)
	if err != nil {
		return nil, WrapError(KindPersistence, "failed to load order history", err)
	}

	out := make([]model.Transaction, 0)
	index := make(map[int64]int)
	for _, row := range rows {
		i, ok := index[row.OrderID]
		if !ok {
			out = append(out, model.Transaction{
				OrderID: row.OrderID,
				Date:    row.OrderedAt,
				Items:   []string{},
			})
			i = len(out) - 1
			index[row.OrderID] = i
		}
		out[i].Items = append(out[i].Items, row.Item)
	}
	return out, nil
}
