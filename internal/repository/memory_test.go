package repository

import (
	"context"
	"errors"
	"testing"

	"canteen/internal/domain"
)

func TestMemoryStore_UserSignupLogin(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	u := domain.User{Name: "Alice", Email: "alice@test.io", Password: "pw1", Role: domain.RoleStudent}
	if err := store.CreateUser(ctx, &u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("no id")
	}

	got, err := store.Authenticate(ctx, "alice@test.io", "pw1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID || got.Name != "Alice" || got.Role != domain.RoleStudent {
		t.Fatalf("unexpected user: %+v", got)
	}

	// wrong password
	if _, err := store.Authenticate(ctx, "alice@test.io", "wrong"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	u1 := domain.User{Name: "A", Email: "a@test.io", Password: "x", Role: domain.RoleStudent}
	if err := store.CreateUser(ctx, &u1); err != nil {
		t.Fatal(err)
	}
	u2 := domain.User{Name: "B", Email: "a@test.io", Password: "y", Role: domain.RoleEmployee}
	if err := store.CreateUser(ctx, &u2); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	users, _ := store.ListUsers(ctx)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
}

func TestMemoryStore_MenuRolePricing(t *testing.T) {
	ctx := context.Background()
	store := NewDemoStore()

	asStudent, err := store.ListMeals(ctx, domain.RoleStudent)
	if err != nil {
		t.Fatalf("student menu: %v", err)
	}
	asEmployee, err := store.ListMeals(ctx, domain.RoleEmployee)
	if err != nil {
		t.Fatalf("employee menu: %v", err)
	}

	if len(asStudent) != len(asEmployee) {
		t.Fatalf("row count differs by role: %d vs %d", len(asStudent), len(asEmployee))
	}
	for i := range asStudent {
		if asStudent[i].ID != asEmployee[i].ID || asStudent[i].Name != asEmployee[i].Name {
			t.Fatalf("rows differ beyond price at %d", i)
		}
		if asStudent[i].Price >= asEmployee[i].Price {
			t.Fatalf("student price %v not below employee price %v", asStudent[i].Price, asEmployee[i].Price)
		}
	}
}

func TestMemoryStore_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	store := NewDemoStore()

	req := domain.OrderRequest{UserID: 1, MealID: 1, Quantity: 2, PickupTime: "12:30:00"}
	if err := store.Place(ctx, req); err != nil {
		t.Fatalf("place: %v", err)
	}

	lines, err := store.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].MealName != "Vegan Buddha Bowl" || lines[0].Quantity != 2 {
		t.Fatalf("unexpected line: %+v", lines[0])
	}
	if lines[0].PickupTime != "12:30:00" {
		t.Fatalf("pickup time not passed through: %q", lines[0].PickupTime)
	}
}

func TestMemoryStore_PlaceOrder_UnknownMeal(t *testing.T) {
	ctx := context.Background()
	store := NewDemoStore()

	before := store.OrderCount()
	err := store.Place(ctx, domain.OrderRequest{UserID: 1, MealID: 999, Quantity: 1, PickupTime: "12:00:00"})
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if store.OrderCount() != before {
		t.Fatalf("partial rows written on rejection")
	}
}

func TestMemoryStore_PlaceOrder_UnavailableMeal(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	u := domain.User{Name: "A", Email: "a@test.io", Password: "x", Role: domain.RoleStudent}
	if err := store.CreateUser(ctx, &u); err != nil {
		t.Fatal(err)
	}
	mealID := store.AddMeal(domain.Meal{Name: "Soup", Price: 3, IsAvailable: false})

	err := store.Place(ctx, domain.OrderRequest{UserID: u.ID, MealID: mealID, Quantity: 1, PickupTime: "12:00:00"})
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestMemoryStore_OrdersEmptyAndOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewDemoStore()

	// zero orders is an empty list, not an error
	lines, err := store.ListByUser(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if lines == nil || len(lines) != 0 {
		t.Fatalf("expected empty slice, got %v", lines)
	}

	// newest first
	_ = store.Place(ctx, domain.OrderRequest{UserID: 2, MealID: 1, Quantity: 1, PickupTime: "11:00:00"})
	_ = store.Place(ctx, domain.OrderRequest{UserID: 2, MealID: 2, Quantity: 1, PickupTime: "12:00:00"})
	lines, _ = store.ListByUser(ctx, 2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].MealName != "Cheeseburger & Fries" {
		t.Fatalf("expected newest order first, got %q", lines[0].MealName)
	}
}

func TestMemoryStore_Reports(t *testing.T) {
	ctx := context.Background()
	store := NewDemoStore()

	weekly, err := store.WeeklySales(ctx)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(weekly) != 0 {
		t.Fatalf("expected empty report, got %v", weekly)
	}

	_ = store.Place(ctx, domain.OrderRequest{UserID: 1, MealID: 1, Quantity: 3, PickupTime: "12:00:00"})
	weekly, _ = store.WeeklySales(ctx)
	if len(weekly) != 1 {
		t.Fatalf("expected 1 report row, got %d", len(weekly))
	}
	if weekly[0]["meal_name"] != "Vegan Buddha Bowl" {
		t.Fatalf("unexpected row: %v", weekly[0])
	}
	if weekly[0]["total_quantity"] != 3 {
		t.Fatalf("unexpected quantity: %v", weekly[0]["total_quantity"])
	}

	monthly, _ := store.MonthlySales(ctx)
	if len(monthly) != 1 {
		t.Fatalf("expected monthly row, got %d", len(monthly))
	}
}
