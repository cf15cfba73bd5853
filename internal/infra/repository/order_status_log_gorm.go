package repository

import (
	"context"

	"restaurant/internal/domain/model"

	"gorm.io/gorm"
)

type OrderStatusLogGormRepository struct {
	db *gorm.DB
}

func NewOrderStatusLogGormRepository(db *gorm.DB) *OrderStatusLogGormRepository {
	return &OrderStatusLogGormRepository{db: db}
}

func (r *OrderStatusLogGormRepository) Create(ctx context.Context, log model.OrderStatusLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return mapWriteError(err)
	}
	return nil
}
