package service

import (
	"context"

	"canteen/internal/domain"
	"canteen/internal/repository"
)

// MenuService выдача меню; роль влияет только на поле цены
type MenuService struct {
	menu repository.MenuRepository
}

func NewMenuService(menu repository.MenuRepository) *MenuService {
	return &MenuService{menu: menu}
}

func (s *MenuService) List(ctx context.Context, role domain.Role) ([]domain.Meal, error) {
	if role == "" {
		role = domain.RoleStudent
	}
	return s.menu.ListMeals(ctx, role)
}
