// Package auth holds the bearer token presented to the remote CMS.
//
// The token itself is obtained elsewhere (the login flow is not part of
// this module); TokenStore only caches it in a storage.Medium and reports
// whether it is still usable.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/forestline/eudrtrack/pkg/storage"
)

// TokenKey is the medium key the token is cached under.
const TokenKey = "eudr_auth_token"

// Credentials is what the remote client needs from the session.
type Credentials interface {
	Token() string
	// Valid reports whether a token is present and not known to be expired.
	Valid() bool
	// Clear forgets the token, e.g. after the CMS rejected it.
	Clear()
}

// TokenStore is a Credentials backed by a storage medium. The token is read
// once at construction and kept in memory afterwards.
type TokenStore struct {
	medium storage.Medium
	log    zerolog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	token string
}

var _ Credentials = (*TokenStore)(nil)

// NewTokenStore loads any cached token from medium.
func NewTokenStore(ctx context.Context, medium storage.Medium, log zerolog.Logger) (*TokenStore, error) {
	s := &TokenStore{medium: medium, log: log, now: time.Now}

	raw, err := medium.Get(ctx, TokenKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("auth: reading %s: %w", TokenKey, err)
	default:
		s.token = string(raw)
	}
	return s, nil
}

func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set caches a new token.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	if err := s.medium.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("auth: writing %s: %w", TokenKey, err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Valid reports whether a token is present and, when it is a JWT carrying
// an exp claim, not yet expired. Opaque tokens are valid until cleared.
func (s *TokenStore) Valid() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	exp, ok := Expiry(token)
	if !ok {
		return true
	}
	return s.now().Before(exp)
}

// Clear forgets the token in memory and in the medium.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	had := s.token != ""
	s.token = ""
	s.mu.Unlock()

	if err := s.medium.Delete(context.Background(), TokenKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to remove cached token")
	}
	if had {
		s.log.Info().Msg("credentials cleared")
	}
}

// Expiry returns the exp claim of a JWT. The signature is not verified:
// the CMS does that, this is only used to avoid sending a token known to be
// stale.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
