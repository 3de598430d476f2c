package repository

import (
	"context"
	"sync"
	"time"

	"canteen/internal/domain"
)

// MemoryStore in-memory хранилище, воспроизводящее наблюдаемый контракт
// базы: уникальный email, сверка пароля открытым текстом, цена под роль,
// атомарное размещение заказа. Используется тестами и демо-режимом.
type MemoryStore struct {
	mu          sync.RWMutex
	nextUserID  int64
	nextOrderID int64
	usersByID   map[int64]domain.User
	mealsByID   map[int64]memMeal
	mealIDs     []int64
	orders      []memOrder
}

type memMeal struct {
	ID          int64
	Name        string
	Description string
	BasePrice   float64
	Category    string
	Type        string
	IsAvailable bool
	ImageURL    string
}

type memOrder struct {
	ID          int64
	UserID      int64
	OrderDate   time.Time
	PickupTime  string
	TotalAmount float64
	MealID      int64
	Quantity    int
}

var (
	_ UserRepository   = (*MemoryStore)(nil)
	_ MenuRepository   = (*MemoryStore)(nil)
	_ OrderRepository  = (*MemoryStore)(nil)
	_ ReportRepository = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextUserID:  1,
		nextOrderID: 1,
		usersByID:   make(map[int64]domain.User),
		mealsByID:   make(map[int64]memMeal),
	}
}

// NewDemoStore хранилище с демонстрационными данными для режима --demo
func NewDemoStore() *MemoryStore {
	m := NewMemoryStore()
	ctx := context.Background()
	_ = m.CreateUser(ctx, &domain.User{Name: "Alice Student", Email: "alice@uni.edu", Password: "alice123", Role: domain.RoleStudent})
	_ = m.CreateUser(ctx, &domain.User{Name: "Bob Employee", Email: "bob@uni.edu", Password: "bob123", Role: domain.RoleEmployee})
	m.AddMeal(domain.Meal{Name: "Vegan Buddha Bowl", Description: "Roasted veggies over rice", Price: 8.50, Category: "Lunch", Type: "Vegan", IsAvailable: true})
	m.AddMeal(domain.Meal{Name: "Cheeseburger & Fries", Description: "Classic burger with fries", Price: 9.00, Category: "Lunch", Type: "Normal", IsAvailable: true})
	m.AddMeal(domain.Meal{Name: "Morning Pancakes", Description: "Stack of three with syrup", Price: 5.00, Category: "Breakfast", Type: "Vegetarian", IsAvailable: true})
	m.AddMeal(domain.Meal{Name: "Grilled Salmon", Description: "Salmon fillet with greens", Price: 12.00, Category: "Dinner", Type: "Normal", IsAvailable: true})
	return m
}

// AddMeal регистрирует блюдо; Price трактуется как базовая цена
func (m *MemoryStore) AddMeal(meal domain.Meal) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := int64(len(m.mealIDs) + 1)
	m.mealsByID[id] = memMeal{
		ID:          id,
		Name:        meal.Name,
		Description: meal.Description,
		BasePrice:   meal.Price,
		Category:    meal.Category,
		Type:        meal.Type,
		IsAvailable: meal.IsAvailable,
		ImageURL:    meal.ImageURL,
	}
	m.mealIDs = append(m.mealIDs, id)
	return id
}

// UserRepository implementation

func (m *MemoryStore) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// first match wins, as with the database query
	for id := int64(1); id < m.nextUserID; id++ {
		u, ok := m.usersByID[id]
		if !ok {
			continue
		}
		if u.Email == email && u.Password == password {
			cp := u
			cp.Email = ""
			cp.Password = ""
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.usersByID {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.ID = m.nextUserID
	m.nextUserID++
	m.usersByID[u.ID] = *u
	return nil
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.User, 0, len(m.usersByID))
	for id := int64(1); id < m.nextUserID; id++ {
		u, ok := m.usersByID[id]
		if !ok {
			continue
		}
		out = append(out, domain.User{ID: u.ID, Name: u.Name, Role: u.Role})
	}
	return out, nil
}

// MenuRepository implementation

func (m *MemoryStore) ListMeals(ctx context.Context, role domain.Role) ([]domain.Meal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Meal, 0, len(m.mealIDs))
	for _, id := range m.mealIDs {
		meal := m.mealsByID[id]
		out = append(out, domain.Meal{
			ID:          meal.ID,
			Name:        meal.Name,
			Description: meal.Description,
			Price:       dynamicPrice(meal.BasePrice, role),
			Category:    meal.Category,
			Type:        meal.Type,
			IsAvailable: meal.IsAvailable,
			ImageURL:    meal.ImageURL,
		})
	}
	return out, nil
}

// dynamicPrice демо-замена fn_get_dynamic_price: студентам скидка 15%
func dynamicPrice(base float64, role domain.Role) float64 {
	if role == domain.RoleStudent {
		return round2(base * 0.85)
	}
	return base
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// OrderRepository implementation

// Place эмулирует sp_place_order: проверка наличия, расчёт суммы и запись
// заказа выполняются атомарно под одной блокировкой
func (m *MemoryStore) Place(ctx context.Context, req domain.OrderRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.usersByID[req.UserID]; !ok {
		return &RejectionError{Reason: "user does not exist"}
	}
	meal, ok := m.mealsByID[req.MealID]
	if !ok {
		return &RejectionError{Reason: "meal does not exist"}
	}
	if !meal.IsAvailable {
		return &RejectionError{Reason: "meal is not available"}
	}

	user := m.usersByID[req.UserID]
	total := round2(dynamicPrice(meal.BasePrice, user.Role) * float64(req.Quantity))

	m.orders = append(m.orders, memOrder{
		ID:          m.nextOrderID,
		UserID:      req.UserID,
		OrderDate:   time.Now().UTC(),
		PickupTime:  req.PickupTime,
		TotalAmount: total,
		MealID:      req.MealID,
		Quantity:    req.Quantity,
	})
	m.nextOrderID++
	return nil
}

func (m *MemoryStore) ListByUser(ctx context.Context, userID int64) ([]domain.OrderLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.OrderLine, 0)
	// newest first
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		if o.UserID != userID {
			continue
		}
		out = append(out, domain.OrderLine{
			OrderID:     o.ID,
			OrderDate:   o.OrderDate,
			PickupTime:  o.PickupTime,
			TotalAmount: o.TotalAmount,
			MealName:    m.mealsByID[o.MealID].Name,
			Quantity:    o.Quantity,
		})
	}
	return out, nil
}

// OrderCount количество записанных заказов; нужен тестам атомарности
func (m *MemoryStore) OrderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// ReportRepository implementation

func (m *MemoryStore) WeeklySales(ctx context.Context) ([]domain.ReportRow, error) {
	return m.salesSince(time.Now().UTC().AddDate(0, 0, -7)), nil
}

func (m *MemoryStore) MonthlySales(ctx context.Context) ([]domain.ReportRow, error) {
	return m.salesSince(time.Now().UTC().AddDate(0, -1, 0)), nil
}

// salesSince агрегация по блюдам за окно; форма строк повторяет отчётные
// функции базы
func (m *MemoryStore) salesSince(cutoff time.Time) []domain.ReportRow {
	m.mu.RLock()
	defer m.mu.RUnlock()

	qty := make(map[int64]int)
	revenue := make(map[int64]float64)
	for _, o := range m.orders {
		if o.OrderDate.Before(cutoff) {
			continue
		}
		qty[o.MealID] += o.Quantity
		revenue[o.MealID] += o.TotalAmount
	}

	out := make([]domain.ReportRow, 0, len(qty))
	for _, id := range m.mealIDs {
		if qty[id] == 0 {
			continue
		}
		out = append(out, domain.ReportRow{
			"meal_name":      m.mealsByID[id].Name,
			"total_quantity": qty[id],
			"total_revenue":  round2(revenue[id]),
		})
	}
	return out
}
