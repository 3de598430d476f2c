package domain

import "time"

// Role роль пользователя столовой, влияет на расчёт цены
type Role string

const (
	RoleStudent  Role = "Student"
	RoleEmployee Role = "Employee"
)

// User учётная запись пользователя
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	// Password хранится и сравнивается открытым текстом — поведение
	// исходной системы, сохранено намеренно
	Password string `json:"-"`
	Role     Role   `json:"role"`
}

// Meal позиция меню; Price — цена, уже пересчитанная под роль запросившего
type Meal struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	IsAvailable bool    `json:"is_available"`
	ImageURL    string  `json:"image_url"`
}

// OrderRequest запрос на размещение заказа; PickupTime передаётся в базу
// как есть, без разбора формата
type OrderRequest struct {
	UserID     int64  `json:"user_id"`
	MealID     int64  `json:"meal_id"`
	Quantity   int    `json:"quantity"`
	PickupTime string `json:"pickup_time"`
}

// OrderLine строка истории заказов: одна строка на позицию заказа
type OrderLine struct {
	OrderID     int64     `json:"order_id"`
	OrderDate   time.Time `json:"order_date"`
	PickupTime  string    `json:"pickup_time"`
	TotalAmount float64   `json:"total_amount"`
	MealName    string    `json:"meal_name"`
	Quantity    int       `json:"quantity"`
}

// ReportRow строка отчёта; форму задаёт отчётная процедура в базе,
// здесь она непрозрачна и передаётся наружу без изменений
type ReportRow map[string]any
