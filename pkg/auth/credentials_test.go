package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestline/eudrtrack/pkg/auth"
	"github.com/forestline/eudrtrack/pkg/storage"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "anna",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestTokenStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()

	s, err := auth.NewTokenStore(ctx, m, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, s.Valid())
	assert.Empty(t, s.Token())

	tok := signed(t, time.Now().Add(time.Hour))
	require.NoError(t, s.Set(ctx, tok))
	assert.True(t, s.Valid())

	reloaded, err := auth.NewTokenStore(ctx, m, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, tok, reloaded.Token())

	reloaded.Clear()
	assert.False(t, reloaded.Valid())
	_, err = m.Get(ctx, auth.TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExpiredTokenIsInvalid(t *testing.T) {
	ctx := context.Background()
	s, err := auth.NewTokenStore(ctx, storage.NewMemory(), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, signed(t, time.Now().Add(-time.Minute))))
	assert.False(t, s.Valid())
	assert.NotEmpty(t, s.Token())
}

func TestOpaqueTokenIsValid(t *testing.T) {
	ctx := context.Background()
	s, err := auth.NewTokenStore(ctx, storage.NewMemory(), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "static-api-key"))
	assert.True(t, s.Valid())

	_, ok := auth.Expiry("static-api-key")
	assert.False(t, ok)
}
