package usecase

import (
	"context"
	"errors"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

type MenuUsecase struct {
	menus repo.MenuRepository
}

func NewMenuUsecase(menus repo.MenuRepository) *MenuUsecase {
	return &MenuUsecase{menus: menus}
}

func (u *MenuUsecase) List(ctx context.Context) ([]model.Menu, error) {
	menus, err := u.menus.List(ctx)
	if err != nil {
		return nil, WrapError(KindPersistence, "failed to list menu", err)
	}
	if menus == nil {
		menus = []model.Menu{}
	}
	return menus, nil
}

func (u *MenuUsecase) Get(ctx context.Context, id int64) (model.Menu, error) {
	if id <= 0 {
		return model.Menu{}, NewError(KindValidation, "invalid menu id")
	}
	m, err := u.menus.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Menu{}, WrapError(KindNotFound, "menu not found", err)
		}
		return model.Menu{}, WrapError(KindPersistence, "failed to load menu", err)
	}
	return m, nil
}
