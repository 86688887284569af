// Package redis is a storage.Medium backed by Redis strings.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/forestline/eudrtrack/pkg/storage"
)

// DefaultPrefix namespaces every key written by a Medium.
const DefaultPrefix = "eudrtrack:"

type Medium struct {
	client *redis.Client
	prefix string
}

var _ storage.Medium = (*Medium)(nil)

// Open parses a redis:// URL, connects and pings the server.
func Open(ctx context.Context, url string) (*Medium, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}
	return New(client, DefaultPrefix), nil
}

func New(client *redis.Client, prefix string) *Medium {
	return &Medium{client: client, prefix: prefix}
}

func (m *Medium) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := m.client.Get(ctx, m.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return v, nil
}

func (m *Medium) Set(ctx context.Context, key string, value []byte) error {
	if err := m.client.Set(ctx, m.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

func (m *Medium) Delete(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, m.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", key, err)
	}
	return nil
}

func (m *Medium) Close() error {
	return m.client.Close()
}
