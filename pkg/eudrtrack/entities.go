package eudrtrack

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/forestline/eudrtrack/pkg/hooks"
	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/schema"
	"github.com/forestline/eudrtrack/pkg/store"
	"github.com/forestline/eudrtrack/pkg/store/hybrid"
)

// entity is the type-erased view of one collection used by the commands.
type entity interface {
	Collection() models.Collection
	List(ctx context.Context, params store.ListParams) (any, error)
	Get(ctx context.Context, id string) (any, error)
	Create(ctx context.Context, draft schema.Draft) (any, error)
	Update(ctx context.Context, id string, draft schema.Draft) (any, error)
	Delete(ctx context.Context, id string) error
}

// binding drives a hook the way a screen would: fill the draft, submit,
// then read the outcome back from the state.
type binding[T any, P any] struct {
	desc    models.Collection
	backend store.Backend[T, P]
	hook    *hooks.Hook[T, P]
}

func bind[T any, P any](desc models.Collection, backend store.Backend[T, P], notify hooks.Notifier, log zerolog.Logger) entity {
	return &binding[T, P]{
		desc:    desc,
		backend: backend,
		hook:    hooks.New(backend, desc, notify, log),
	}
}

func bindEntities(r *hybrid.Router, notify hooks.Notifier, log zerolog.Logger) map[string]entity {
	all := []entity{
		bind[models.Organization, models.OrganizationPatch](models.Organizations, r.Organizations(), notify, log),
		bind[models.Customer, models.CustomerPatch](models.Customers, r.Customers(), notify, log),
		bind[models.Product, models.ProductPatch](models.Products, r.Products(), notify, log),
		bind[models.Supplier, models.SupplierPatch](models.Suppliers, r.Suppliers(), notify, log),
		bind[models.RawMaterial, models.RawMaterialPatch](models.RawMaterials, r.RawMaterials(), notify, log),
		bind[models.Origin, models.OriginPatch](models.Origins, r.Origins(), notify, log),
		bind[models.RiskAssessment, models.RiskAssessmentPatch](models.RiskAssessments, r.RiskAssessments(), notify, log),
		bind[models.DueDiligenceStatement, models.DueDiligenceStatementPatch](models.DueDiligenceStatements, r.Statements(), notify, log),
	}
	out := make(map[string]entity, len(all))
	for _, e := range all {
		out[e.Collection().Name] = e
	}
	return out
}

// canonical resolves aliases such as "dds" to a collection name.
func canonical(name string) string {
	if c, ok := models.LookupCollection(name); ok {
		return c.Name
	}
	return name
}

func (b *binding[T, P]) Collection() models.Collection {
	return b.desc
}

func (b *binding[T, P]) List(ctx context.Context, params store.ListParams) (any, error) {
	b.hook.SetQuery(params)
	b.hook.Load(ctx)
	st := b.hook.State()
	if st.Err != nil {
		return nil, st.Err
	}
	return st.Items, nil
}

func (b *binding[T, P]) Get(ctx context.Context, id string) (any, error) {
	item, err := b.backend.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%s %s not found", b.desc.Label, id)
	}
	return item, nil
}

func (b *binding[T, P]) Create(ctx context.Context, draft schema.Draft) (any, error) {
	b.hook.OpenCreate()
	return b.submit(ctx, draft)
}

func (b *binding[T, P]) Update(ctx context.Context, id string, draft schema.Draft) (any, error) {
	item, err := b.backend.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%s %s not found", b.desc.Label, id)
	}
	if err := b.hook.Edit(*item); err != nil {
		return nil, err
	}
	return b.submit(ctx, draft)
}

func (b *binding[T, P]) submit(ctx context.Context, draft schema.Draft) (any, error) {
	defer b.hook.ResetDraft()
	for k, v := range draft {
		b.hook.SetField(k, v)
	}
	if err := b.hook.Submit(ctx); err != nil {
		return nil, err
	}
	st := b.hook.State()
	if st.Saved == nil {
		if st.Err != nil {
			return nil, st.Err
		}
		return nil, fmt.Errorf("%s was not saved", b.desc.Label)
	}
	return st.Saved, nil
}

func (b *binding[T, P]) Delete(ctx context.Context, id string) error {
	if b.hook.Delete(ctx, id) {
		return nil
	}
	return b.hook.State().Err
}
