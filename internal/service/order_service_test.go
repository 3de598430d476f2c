package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"canteen/internal/domain"
	"canteen/internal/repository"
)

func TestPlaceOrder_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(repository.NewDemoStore())

	cases := []domain.OrderRequest{
		{UserID: 0, MealID: 1, Quantity: 1, PickupTime: "12:00:00"},
		{UserID: 1, MealID: 0, Quantity: 1, PickupTime: "12:00:00"},
		{UserID: 1, MealID: 1, Quantity: 0, PickupTime: "12:00:00"},
		{UserID: 1, MealID: 1, Quantity: 1, PickupTime: ""},
	}
	for i, req := range cases {
		if err := svc.Place(ctx, req); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}
}

func TestPlaceOrder_RejectionBecomesInvalidOperation(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(repository.NewDemoStore())

	err := svc.Place(ctx, domain.OrderRequest{UserID: 1, MealID: 999, Quantity: 1, PickupTime: "12:00:00"})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected invalid operation, got %v", err)
	}
	// the procedure's reason is kept for the caller
	if !strings.Contains(err.Error(), "meal does not exist") {
		t.Fatalf("reason lost: %v", err)
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	store := repository.NewDemoStore()
	svc := NewOrderService(store)

	err := svc.Place(ctx, domain.OrderRequest{UserID: 1, MealID: 2, Quantity: 1, PickupTime: "13:15:00"})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	lines, err := svc.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}

func TestListByUser_InvalidID(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(repository.NewDemoStore())

	if _, err := svc.ListByUser(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
