package service

import (
	"context"
	"errors"
	"testing"

	"canteen/internal/domain"
	"canteen/internal/repository"
)

func setupAuth(t *testing.T) (*AuthService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewAuthService(store), store
}

func TestSignupThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuth(t)

	u, err := svc.Signup(ctx, "Alice", "alice@test.io", "pw1", domain.RoleStudent)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("no id assigned")
	}

	got, err := svc.Login(ctx, "alice@test.io", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.Name != "Alice" || got.Role != domain.RoleStudent {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestSignup_DefaultRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuth(t)

	u, err := svc.Signup(ctx, "Bob", "bob@test.io", "pw", "")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Role != domain.RoleStudent {
		t.Fatalf("expected default role Student, got %q", u.Role)
	}
}

func TestSignup_Conflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuth(t)

	if _, err := svc.Signup(ctx, "A", "a@test.io", "x", ""); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Signup(ctx, "B", "a@test.io", "y", "")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuth(t)

	if _, err := svc.Signup(ctx, "A", "a@test.io", "right", ""); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Login(ctx, "a@test.io", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuth_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuth(t)

	if _, err := svc.Login(ctx, "", "pw"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.Signup(ctx, "", "a@test.io", "pw", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
