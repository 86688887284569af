package remote

import (
	"context"

	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/schema"
	"github.com/forestline/eudrtrack/pkg/store"
)

// Namespace is the backend of one entity type.
type Namespace[T any, P any] struct {
	client *Client
	desc   models.Collection
}

func newNamespace[T any, P any](c *Client, desc models.Collection) *Namespace[T, P] {
	return &Namespace[T, P]{client: c, desc: desc}
}

var (
	_ store.Backend[models.Supplier, models.SupplierPatch] = (*Namespace[models.Supplier, models.SupplierPatch])(nil)
	_ store.StatementBackend                               = (*Statements)(nil)
)

func (n *Namespace[T, P]) Descriptor() models.Collection {
	return n.desc
}

func (n *Namespace[T, P]) method(op string) string {
	return n.desc.Name + "." + op
}

// List sends the search term and discrete filters as one filter expression.
func (n *Namespace[T, P]) List(ctx context.Context, params store.ListParams) ([]T, error) {
	filter, err := store.BuildFilter(n.desc, params)
	if err != nil {
		return nil, err
	}

	args := map[string]any{}
	if params.Limit > 0 {
		args["limit"] = params.Limit
	}
	if params.Offset > 0 {
		args["offset"] = params.Offset
	}
	if filter != nil {
		args["filter"] = filter.Expr()
	}

	items, err := call[[]T](ctx, n.client, n.method("list"), args)
	if err != nil {
		return nil, err
	}
	if items == nil || *items == nil {
		return []T{}, nil
	}
	return *items, nil
}

func (n *Namespace[T, P]) Get(ctx context.Context, id string) (*T, error) {
	item, err := call[T](ctx, n.client, n.method("get"), map[string]any{"id": id})
	if isNotFound(err) {
		return nil, nil
	}
	return item, err
}

// Create validates input and sends its fields without id or timestamps;
// the CMS assigns those.
func (n *Namespace[T, P]) Create(ctx context.Context, input T) (*T, error) {
	if err := schema.Validate(input); err != nil {
		return nil, err
	}
	data, err := schema.DraftOf(input)
	if err != nil {
		return nil, err
	}
	return call[T](ctx, n.client, n.method("create"), map[string]any{"data": data})
}

func (n *Namespace[T, P]) Update(ctx context.Context, id string, patch P) (*T, error) {
	if err := schema.Validate(patch); err != nil {
		return nil, err
	}
	item, err := call[T](ctx, n.client, n.method("update"), map[string]any{"id": id, "data": patch})
	if isNotFound(err) {
		return nil, nil
	}
	return item, err
}

type deleteResult struct {
	Success bool `json:"success"`
}

func (n *Namespace[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	res, err := call[deleteResult](ctx, n.client, n.method("delete"), map[string]any{"id": id})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res != nil && res.Success, nil
}

// Statements adds the submit transition to the statement namespace.
type Statements struct {
	*Namespace[models.DueDiligenceStatement, models.DueDiligenceStatementPatch]
}

// Submit asks the CMS to submit a statement. A statement that is already
// approved or rejected yields an error matching store.ErrStatementFinalized.
func (s *Statements) Submit(ctx context.Context, id string) (*models.DueDiligenceStatement, error) {
	st, err := call[models.DueDiligenceStatement](ctx, s.client, s.method("submit"), map[string]any{"id": id})
	if isNotFound(err) {
		return nil, nil
	}
	return st, err
}
