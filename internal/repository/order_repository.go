package repository

import (
	"context"
	"errors"

	"restaurant/internal/domain/model"
)

// 対象の行がない、または参照先（FK）がない
var ErrNotFound = errors.New("not found")

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	//id指定で無条件に更新する。0件ならErrNotFound
	UpdateStatus(ctx context.Context, orderID int64, status model.Status) error
}
