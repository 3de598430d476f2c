package repository

import (
	"context"
	"errors"
	"fmt"

	"canteen/internal/domain"
)

// Ошибки уровня хранилища. Сырой текст драйвера наружу не выходит:
// хранилище переводит его в один из этих видов.
var (
	// ErrNotFound возвращается, когда сущность не найдена
	ErrNotFound = errors.New("not found")
	// ErrDuplicate нарушение уникальности при создании
	ErrDuplicate = errors.New("already exists")
	// ErrUnavailable пул исчерпан или соединение с базой потеряно
	ErrUnavailable = errors.New("database unavailable")
)

// RejectionError отказ хранимой процедуры: причина уже очищена от
// деталей драйвера и пригодна для показа пользователю
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("rejected: %s", e.Reason)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	// Authenticate ищет пользователя по паре email/пароль; при нескольких
	// совпадениях используется первая строка
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// MenuRepository интерфейс репозитория меню
type MenuRepository interface {
	// ListMeals возвращает все позиции меню с ценой, пересчитанной под роль
	ListMeals(ctx context.Context, role domain.Role) ([]domain.Meal, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	// Place делегирует размещение заказа хранимой процедуре; проверка
	// наличия и расчёт суммы выполняются внутри базы
	Place(ctx context.Context, req domain.OrderRequest) error
	// ListByUser возвращает по строке на позицию заказа, новые сверху
	ListByUser(ctx context.Context, userID int64) ([]domain.OrderLine, error)
}

// ReportRepository интерфейс отчётов о продажах
type ReportRepository interface {
	WeeklySales(ctx context.Context) ([]domain.ReportRow, error)
	MonthlySales(ctx context.Context) ([]domain.ReportRow, error)
}
