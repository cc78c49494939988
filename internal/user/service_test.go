package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/furniture-shop/internal/auth"
	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store/storetest"
)

func TestRegister(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Users)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "Alice@Example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email, "email is normalized")
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)
	assert.False(t, u.IsAdmin)

	stored, err := s.Users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Users)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Alice", "alice@example.com", "password123")
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
}

func TestRegister_Validation(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Users)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "alice@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Register(ctx, "Alice", "not-an-email", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, "Alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestAuthenticate(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Users)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email looks like a bad password")
}

func TestResetPassword(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Users)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "alice@example.com", "correct-horse-battery"))

	_, err = svc.Authenticate(ctx, "alice@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "alice@example.com", "correct-horse-battery")
	assert.NoError(t, err)
}

func TestResetPassword_UnknownEmail(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Users)

	err := svc.ResetPassword(context.Background(), "nobody@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestSetAdmin(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Users)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	promoted, err := svc.SetAdmin(ctx, u.ID, true)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	demoted, err := svc.SetAdmin(ctx, u.ID, false)
	require.NoError(t, err)
	assert.False(t, demoted.IsAdmin)

	_, err = svc.SetAdmin(ctx, "missing", true)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestListAndDelete(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Users)
	ctx := context.Background()

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Bob", "bob@example.com", "hunter2hunter2")
	require.NoError(t, err)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, svc.Delete(ctx, u.ID))

	users, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	assert.ErrorIs(t, svc.Delete(ctx, u.ID), model.ErrUserNotFound)
}
