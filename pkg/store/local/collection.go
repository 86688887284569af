package local

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/forestline/eudrtrack/internal/rand"
	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/schema"
	"github.com/forestline/eudrtrack/pkg/storage"
	"github.com/forestline/eudrtrack/pkg/store"
)

// Collection keeps every record of one entity type as a single JSON array
// under the collection's storage key.
//
// Reads that fail, or find no value or a corrupt one, fall back to the
// built-in sample records. Writes that fail are logged and otherwise
// ignored: the caller still gets the correct result, only the stored copy is
// stale.
type Collection[T any, P models.Patch[T]] struct {
	desc   models.Collection
	medium storage.Medium
	seed   func() []T
	now    func() time.Time
	log    zerolog.Logger

	mu sync.Mutex
}

var _ store.Backend[models.Product, models.ProductPatch] = (*Collection[models.Product, models.ProductPatch])(nil)

func newCollection[T any, P models.Patch[T]](desc models.Collection, medium storage.Medium, seed func() []T, o *options) *Collection[T, P] {
	return &Collection[T, P]{
		desc:   desc,
		medium: medium,
		seed:   seed,
		now:    o.now,
		log:    o.log.With().Str("collection", desc.Name).Logger(),
	}
}

func meta[T any](v *T) *models.Record {
	return any(v).(models.Model).Meta()
}

// Descriptor returns the collection's name and storage key.
func (c *Collection[T, P]) Descriptor() models.Collection {
	return c.desc
}

func (c *Collection[T, P]) List(ctx context.Context, params store.ListParams) ([]T, error) {
	filter, err := store.BuildFilter(c.desc, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	items := c.load(ctx)
	c.mu.Unlock()

	if filter != nil {
		matched := make([]T, 0, len(items))
		for _, item := range items {
			m, err := toMap(item)
			if err != nil {
				return nil, err
			}
			if filter.Match(m) {
				matched = append(matched, item)
			}
		}
		items = matched
	}
	return store.Page(items, params.Limit, params.Offset), nil
}

func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.load(ctx)
	for i := range items {
		if meta(&items[i]).ID == id {
			found := items[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (c *Collection[T, P]) Create(ctx context.Context, input T) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := input
	now := c.now().UTC()
	m := meta(&rec)
	m.ID = rand.NewRecordID(now)
	m.CreatedAt = now
	m.UpdatedAt = now

	items := append(c.load(ctx), rec)
	c.persist(ctx, items)
	return &rec, nil
}

func (c *Collection[T, P]) Update(ctx context.Context, id string, patch P) (*T, error) {
	return c.modify(ctx, id, func(rec *T) (bool, error) {
		patch.Apply(rec)
		return true, nil
	})
}

// modify applies fn to the record with the given id under the collection
// lock. The record is stored with a fresh updated_at only when fn reports a
// change.
func (c *Collection[T, P]) modify(ctx context.Context, id string, fn func(*T) (bool, error)) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.load(ctx)
	for i := range items {
		m := meta(&items[i])
		if m.ID != id {
			continue
		}
		changed, err := fn(&items[i])
		if err != nil {
			return nil, err
		}
		if changed {
			m.ID = id
			m.UpdatedAt = c.now().UTC()
			if m.UpdatedAt.Before(m.CreatedAt) {
				m.UpdatedAt = m.CreatedAt
			}
			c.persist(ctx, items)
		}
		updated := items[i]
		return &updated, nil
	}
	return nil, nil
}

func (c *Collection[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.load(ctx)
	kept := make([]T, 0, len(items))
	for i := range items {
		if meta(&items[i]).ID != id {
			kept = append(kept, items[i])
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	c.persist(ctx, kept)
	return true, nil
}

// Reset replaces the collection with its sample records.
func (c *Collection[T, P]) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.persist(ctx, c.seed())
}

// Clear empties the collection.
func (c *Collection[T, P]) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.persist(ctx, []T{})
}

func (c *Collection[T, P]) snapshot(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	items := c.load(ctx)
	c.mu.Unlock()

	return json.Marshal(items)
}

// stage decodes and validates raw and returns a function writing the result.
func (c *Collection[T, P]) stage(raw []byte) (func(context.Context), error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", c.desc.Name, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%s: expected an array of records", c.desc.Name)
	}
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		id := meta(&items[i]).ID
		if id == "" {
			return nil, fmt.Errorf("%s: record %d has no id", c.desc.Name, i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%s: duplicate id %q", c.desc.Name, id)
		}
		seen[id] = struct{}{}
		if err := schema.Validate(items[i]); err != nil {
			return nil, fmt.Errorf("%s: record %q: %w", c.desc.Name, id, err)
		}
	}
	return func(ctx context.Context) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.persist(ctx, items)
	}, nil
}

func (c *Collection[T, P]) load(ctx context.Context) []T {
	raw, err := c.medium.Get(ctx, c.desc.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return c.seed()
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", c.desc.StorageKey).Msg("read failed, using sample records")
		return c.seed()
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		c.log.Warn().Err(err).Str("key", c.desc.StorageKey).Msg("stored value is corrupt, using sample records")
		return c.seed()
	}
	return items
}

func (c *Collection[T, P]) persist(ctx context.Context, items []T) {
	raw, err := json.Marshal(items)
	if err != nil {
		c.log.Error().Err(err).Str("key", c.desc.StorageKey).Msg("failed to serialize collection")
		return
	}
	if err := c.medium.Set(ctx, c.desc.StorageKey, raw); err != nil {
		c.log.Error().Err(err).Str("key", c.desc.StorageKey).Msg("failed to persist collection")
	}
}

func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
