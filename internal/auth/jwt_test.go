package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService("test-secret-key-at-least-32-chars!!", 2*time.Hour)
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.GenerateToken("user-123", "buyer@example.com", false)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
}

func TestGenerateToken_AdminClaim(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.GenerateToken("admin-1", "admin@example.com", true)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret-key-at-least-32-chars!!", -time.Minute)

	token, _, err := svc.GenerateToken("user-123", "buyer@example.com", false)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestValidateToken_WrongKey(t *testing.T) {
	svc := newTestService()
	other := NewJWTService("another-secret-key-also-32-chars!!!", 2*time.Hour)

	token, _, err := svc.GenerateToken("user-123", "buyer@example.com", false)
	require.NoError(t, err)

	claims, err := other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestService()

	claims, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}
