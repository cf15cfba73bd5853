package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type OrderDetailRepository interface {
	//1文でまとめてINSERTし、件数を返す
	CreateBulk(ctx context.Context, orderID int64, details []model.OrderDetail) (int64, error)
	//fromの明細だけtoに変える。更新件数を返す
	UpdateStatusByOrder(ctx context.Context, orderID int64, from model.Status, to model.Status) (int64, error)
	ListViewsByOrderID(ctx context.Context, orderID int64) ([]model.OrderLineView, error)
}
