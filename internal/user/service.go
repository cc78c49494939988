// Package user manages accounts: registration, login and admin management.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/furniture-shop/internal/auth"
	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store"
)

var (
	ErrInvalidEmail       = errors.New("a valid email is required")
	ErrInvalidName        = errors.New("name is required")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	users store.UserStore
}

func NewService(users store.UserStore) *Service {
	return &Service{users: users}
}

// Register creates an account. The email is the account's identity;
// registering an existing one fails with model.ErrDuplicateEmail.
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ResetPassword replaces the password for the account with the given email.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, u.ID, hash)
}

func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if users == nil {
		users = []model.User{}
	}
	return users, err
}

// SetAdmin grants or revokes the admin flag.
func (s *Service) SetAdmin(ctx context.Context, id string, isAdmin bool) (*model.User, error) {
	if err := s.users.SetAdmin(ctx, id, isAdmin); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
