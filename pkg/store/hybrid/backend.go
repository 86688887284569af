package hybrid

import (
	"context"

	"github.com/forestline/eudrtrack/pkg/mode"
	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/schema"
	"github.com/forestline/eudrtrack/pkg/store"
)

// Backend dispatches the operations of one entity type.
type Backend[T any, P any] struct {
	router *Router
	desc   models.Collection
	local  store.Backend[T, P]
	remote store.Backend[T, P]
}

var _ store.Backend[models.Origin, models.OriginPatch] = (*Backend[models.Origin, models.OriginPatch])(nil)

func newBackend[T any, P any](r *Router, desc models.Collection, loc, rem store.Backend[T, P]) *Backend[T, P] {
	return &Backend[T, P]{router: r, desc: desc, local: loc, remote: rem}
}

func (b *Backend[T, P]) Descriptor() models.Collection {
	return b.desc
}

// pick reads the mode and returns the backend serving this call.
func (b *Backend[T, P]) pick(ctx context.Context) (store.Backend[T, P], string) {
	offline := b.router.mode.Offline(ctx)
	if offline {
		return b.local, mode.Name(offline)
	}
	return b.remote, mode.Name(offline)
}

func (b *Backend[T, P]) List(ctx context.Context, params store.ListParams) ([]T, error) {
	target, m := b.pick(ctx)
	items, err := target.List(ctx, params)
	b.router.observe(b.desc, "list", m, err)
	return items, err
}

func (b *Backend[T, P]) Get(ctx context.Context, id string) (*T, error) {
	target, m := b.pick(ctx)
	item, err := target.Get(ctx, id)
	b.router.observe(b.desc, "get", m, err)
	return item, err
}

// Create validates input before handing it to either store.
func (b *Backend[T, P]) Create(ctx context.Context, input T) (*T, error) {
	target, m := b.pick(ctx)
	if err := schema.Validate(input); err != nil {
		b.router.observe(b.desc, "create", m, err)
		return nil, err
	}
	item, err := target.Create(ctx, input)
	b.router.observe(b.desc, "create", m, err)
	return item, err
}

func (b *Backend[T, P]) Update(ctx context.Context, id string, patch P) (*T, error) {
	target, m := b.pick(ctx)
	if err := schema.Validate(patch); err != nil {
		b.router.observe(b.desc, "update", m, err)
		return nil, err
	}
	item, err := target.Update(ctx, id, patch)
	b.router.observe(b.desc, "update", m, err)
	return item, err
}

func (b *Backend[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	target, m := b.pick(ctx)
	ok, err := target.Delete(ctx, id)
	b.router.observe(b.desc, "delete", m, err)
	return ok, err
}

// Statements adds Submit to the statement backend.
type Statements struct {
	*Backend[models.DueDiligenceStatement, models.DueDiligenceStatementPatch]
	local  store.StatementBackend
	remote store.StatementBackend
}

func (s *Statements) Submit(ctx context.Context, id string) (*models.DueDiligenceStatement, error) {
	offline := s.router.mode.Offline(ctx)
	target := s.remote
	if offline {
		target = s.local
	}
	st, err := target.Submit(ctx, id)
	s.router.observe(s.desc, "submit", mode.Name(offline), err)
	return st, err
}
