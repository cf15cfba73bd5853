package repository

import (
	"context"
	"errors"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"gorm.io/gorm"
)

type MenuGormRepository struct {
	db *gorm.DB
}

// DI
func NewMenuGormRepository(db *gorm.DB) *MenuGormRepository {
	return &MenuGormRepository{db: db}
}

func (r *MenuGormRepository) List(ctx context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	if err := r.db.WithContext(ctx).Order("id asc").Find(&menus).Error; err != nil {
		return []model.Menu{}, err
	}
	return menus, nil
}

func (r *MenuGormRepository) FindByID(ctx context.Context, id int64) (model.Menu, error) {
	var m model.Menu
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Menu{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Menu{}, err
	}
	return m, nil
}
