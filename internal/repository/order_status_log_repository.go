package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

// ステータス変更履歴の保存の約束（Tx内で使う）。
type OrderStatusLogRepository interface {
	Create(ctx context.Context, log model.OrderStatusLog) error
}
