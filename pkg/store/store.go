// Package store defines the operations every entity backend offers, whether
// it keeps records in local storage or forwards calls to the remote CMS.
//
// Implementations:
//   - local.Collection keeps records in a storage.Medium
//   - remote.Namespace calls the CMS over RPC
//   - hybrid.Router picks one of the two on every call
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/forestline/eudrtrack/pkg/models"
)

// ErrUnknownFilter is returned when a list call filters on a field the
// collection does not offer as a discrete filter.
var ErrUnknownFilter = errors.New("store: unknown filter field")

// ErrStatementFinalized is returned when submitting a statement that has
// already been approved or rejected.
var ErrStatementFinalized = errors.New("store: statement already approved or rejected")

// ListParams narrows a list call. The zero value lists every record.
type ListParams struct {
	// Limit caps the number of records returned; 0 means no cap.
	Limit  int
	Offset int
	// Search is matched case-insensitively as a substring of any of the
	// collection's search fields.
	Search string
	// Filters holds exact matches on discrete fields, all of which must hold.
	Filters map[string]string
}

// Backend provides CRUD for one entity type T with patch type P.
//
// Get and Update return a nil record and a nil error when id does not exist.
// Delete reports whether a record was removed. List never returns a nil
// slice on success.
type Backend[T any, P any] interface {
	List(ctx context.Context, params ListParams) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, input T) (*T, error)
	Update(ctx context.Context, id string, patch P) (*T, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StatementBackend adds the submit transition of due diligence statements.
type StatementBackend interface {
	Backend[models.DueDiligenceStatement, models.DueDiligenceStatementPatch]

	// Submit marks a statement as submitted and stamps today's date. A nil
	// statement and nil error mean id does not exist.
	Submit(ctx context.Context, id string) (*models.DueDiligenceStatement, error)
}

// BuildFilter turns list parameters into a filter expression for c. The
// search term becomes an OR of case-insensitive contains over the search
// fields, AND'ed with one equality per discrete filter. It returns nil when
// params constrain nothing.
func BuildFilter(c models.Collection, params ListParams) (*Filter, error) {
	var clauses []*Filter

	if params.Search != "" && len(c.SearchFields) > 0 {
		terms := make([]*Filter, 0, len(c.SearchFields))
		for _, field := range c.SearchFields {
			terms = append(terms, IContains(field, params.Search))
		}
		clauses = append(clauses, Or(terms...))
	}

	for _, field := range sortedKeys(params.Filters) {
		if !c.AcceptsFilter(field) {
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownFilter, field, c.Name)
		}
		clauses = append(clauses, Eq(field, params.Filters[field]))
	}

	return And(clauses...), nil
}

// Page applies offset and limit to items.
func Page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
