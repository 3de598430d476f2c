package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"canteen/internal/domain"
	"canteen/internal/repository"
)

type failingReports struct{}

func (failingReports) WeeklySales(ctx context.Context) ([]domain.ReportRow, error) {
	return nil, errors.New("boom")
}

func (failingReports) MonthlySales(ctx context.Context) ([]domain.ReportRow, error) {
	return nil, errors.New("boom")
}

func TestReports_DegradeToEmpty(t *testing.T) {
	svc := NewReportService(failingReports{}, zerolog.Nop())

	if rows := svc.Weekly(context.Background()); rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty report, got %v", rows)
	}
	if rows := svc.Monthly(context.Background()); rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty report, got %v", rows)
	}
}

func TestReports_PassThrough(t *testing.T) {
	ctx := context.Background()
	store := repository.NewDemoStore()
	svc := NewReportService(store, zerolog.Nop())

	if err := store.Place(ctx, domain.OrderRequest{UserID: 1, MealID: 1, Quantity: 1, PickupTime: "12:00:00"}); err != nil {
		t.Fatal(err)
	}
	rows := svc.Weekly(ctx)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}
