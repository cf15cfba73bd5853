package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type MenuRepository interface {
	List(ctx context.Context) ([]model.Menu, error)
	FindByID(ctx context.Context, id int64) (model.Menu, error)
}
