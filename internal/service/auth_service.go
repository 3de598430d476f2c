package service

import (
	"context"
	"errors"
	"fmt"

	"canteen/internal/domain"
	"canteen/internal/repository"
)

// AuthService логика входа и регистрации
type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized пара email/пароль не совпала
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrConflict пользователь с таким email уже есть
	ErrConflict = errors.New("user already exists or error")
)

// Login возвращает идентификатор, имя и роль при точном совпадении
// пары email/пароль
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// Signup создаёт пользователя; роль по умолчанию — Student
func (s *AuthService) Signup(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if role == "" {
		role = domain.RoleStudent
	}
	u := domain.User{Name: name, Email: email, Password: password, Role: role}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// ListUsers краткий список для выпадающих меню
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}
