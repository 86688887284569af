// Package storage defines Medium, the synchronous key/value store the local
// persistence engine serializes its collections into, and two in-process
// implementations. Database backed media live in the sub-packages.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotFound is returned by Get when a key holds no value.
	ErrNotFound = errors.New("storage: key not found")
	// ErrQuotaExceeded is returned by Set when a medium has no room left.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
	// ErrInvalidKey is returned for keys a medium cannot address.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Medium stores opaque values under string keys. Implementations must be
// safe for concurrent use.
type Medium interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

// CheckKey returns ErrInvalidKey unless key is made of letters, digits,
// dots, dashes and underscores.
func CheckKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
