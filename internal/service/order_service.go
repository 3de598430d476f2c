package service

import (
	"context"
	"errors"
	"fmt"

	"canteen/internal/domain"
	"canteen/internal/repository"
)

// OrderService размещение заказов и история. Расчёт суммы и проверка
// наличия — целиком на стороне хранимой процедуры; здесь только
// проверка формы запроса.
type OrderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// ErrInvalidOperation процедура в базе отклонила заказ
var ErrInvalidOperation = errors.New("order rejected")

// Place проверяет форму запроса и передаёт его процедуре одним вызовом
func (s *OrderService) Place(ctx context.Context, req domain.OrderRequest) error {
	if req.UserID <= 0 || req.MealID <= 0 || req.Quantity <= 0 || req.PickupTime == "" {
		return ErrInvalidInput
	}
	if err := s.orders.Place(ctx, req); err != nil {
		var rej *repository.RejectionError
		if errors.As(err, &rej) {
			return fmt.Errorf("%w: %s", ErrInvalidOperation, rej.Reason)
		}
		return err
	}
	return nil
}

// ListByUser история заказов; пустая история — пустой список
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]domain.OrderLine, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.orders.ListByUser(ctx, userID)
}
