package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/storage"
)

// InitializedKey marks a medium whose collections have been seeded.
const InitializedKey = "eudr_initialized"

// ErrUnknownCollection is returned for collection names Store does not hold.
var ErrUnknownCollection = errors.New("local: unknown collection")

type options struct {
	now func() time.Time
	log zerolog.Logger
}

type Option func(*options)

// WithClock replaces time.Now as the source of ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// admin is what Store needs from a collection beyond CRUD.
type admin interface {
	Descriptor() models.Collection
	Reset(ctx context.Context)
	Clear(ctx context.Context)
	snapshot(ctx context.Context) ([]byte, error)
	stage(raw []byte) (func(context.Context), error)
}

// Store groups the eight collections kept in one medium.
type Store struct {
	Organizations   *Collection[models.Organization, models.OrganizationPatch]
	Customers       *Collection[models.Customer, models.CustomerPatch]
	Products        *Collection[models.Product, models.ProductPatch]
	Suppliers       *Collection[models.Supplier, models.SupplierPatch]
	RawMaterials    *Collection[models.RawMaterial, models.RawMaterialPatch]
	Origins         *Collection[models.Origin, models.OriginPatch]
	RiskAssessments *Collection[models.RiskAssessment, models.RiskAssessmentPatch]
	Statements      *Statements

	medium      storage.Medium
	log         zerolog.Logger
	collections []admin
}

func New(medium storage.Medium, opts ...Option) *Store {
	o := &options{now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	s := &Store{
		Organizations:   newCollection[models.Organization, models.OrganizationPatch](models.Organizations, medium, seedOrganizations, o),
		Customers:       newCollection[models.Customer, models.CustomerPatch](models.Customers, medium, seedCustomers, o),
		Products:        newCollection[models.Product, models.ProductPatch](models.Products, medium, seedProducts, o),
		Suppliers:       newCollection[models.Supplier, models.SupplierPatch](models.Suppliers, medium, seedSuppliers, o),
		RawMaterials:    newCollection[models.RawMaterial, models.RawMaterialPatch](models.RawMaterials, medium, seedRawMaterials, o),
		Origins:         newCollection[models.Origin, models.OriginPatch](models.Origins, medium, seedOrigins, o),
		RiskAssessments: newCollection[models.RiskAssessment, models.RiskAssessmentPatch](models.RiskAssessments, medium, seedRiskAssessments, o),
		Statements: &Statements{
			Collection: newCollection[models.DueDiligenceStatement, models.DueDiligenceStatementPatch](models.DueDiligenceStatements, medium, seedStatements, o),
		},
		medium: medium,
		log:    o.log,
	}
	s.collections = []admin{
		s.Organizations,
		s.Customers,
		s.Products,
		s.Suppliers,
		s.RawMaterials,
		s.Origins,
		s.RiskAssessments,
		s.Statements,
	}
	return s
}

// EnsureSeeded writes the sample records to every collection unless the
// medium is already marked as initialized. It reports whether seeding ran.
func (s *Store) EnsureSeeded(ctx context.Context) (bool, error) {
	_, err := s.medium.Get(ctx, InitializedKey)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("local: reading %s: %w", InitializedKey, err)
	}

	for _, c := range s.collections {
		c.Reset(ctx)
	}
	if err := s.medium.Set(ctx, InitializedKey, []byte("true")); err != nil {
		return true, fmt.Errorf("local: writing %s: %w", InitializedKey, err)
	}
	s.log.Info().Int("collections", len(s.collections)).Msg("seeded local store")
	return true, nil
}

// Reset restores the named collections, or all of them when no name is
// given, to their sample records.
func (s *Store) Reset(ctx context.Context, names ...string) error {
	targets, err := s.lookup(names)
	if err != nil {
		return err
	}
	for _, c := range targets {
		c.Reset(ctx)
	}
	return nil
}

// Clear empties the named collections, or all of them.
func (s *Store) Clear(ctx context.Context, names ...string) error {
	targets, err := s.lookup(names)
	if err != nil {
		return err
	}
	for _, c := range targets {
		c.Clear(ctx)
	}
	return nil
}

func (s *Store) lookup(names []string) ([]admin, error) {
	if len(names) == 0 {
		return s.collections, nil
	}
	out := make([]admin, 0, len(names))
	for _, name := range names {
		c, ok := s.collection(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownCollection, name)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) collection(name string) (admin, bool) {
	desc, ok := models.LookupCollection(name)
	if !ok {
		return nil, false
	}
	for _, c := range s.collections {
		if c.Descriptor().Name == desc.Name {
			return c, true
		}
	}
	return nil, false
}

// Export serializes every collection into one JSON object keyed by
// collection name.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	snapshot := make(map[string]json.RawMessage, len(s.collections))
	for _, c := range s.collections {
		raw, err := c.snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("local: export %s: %w", c.Descriptor().Name, err)
		}
		snapshot[c.Descriptor().Name] = raw
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

// Import overwrites the collections present in data, as produced by Export,
// and reports whether it succeeded. Collections absent from data are left
// untouched. Nothing is written unless every present collection is valid.
func (s *Store) Import(ctx context.Context, data []byte) bool {
	if err := s.Restore(ctx, data); err != nil {
		s.log.Warn().Err(err).Msg("import rejected")
		return false
	}
	return true
}

// Restore is Import with the reason for a rejection.
func (s *Store) Restore(ctx context.Context, data []byte) error {
	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("local: import: %w", err)
	}
	if snapshot == nil {
		return errors.New("local: import: expected an object keyed by collection name")
	}

	// Keys may use the short aliases accepted by LookupCollection.
	byName := make(map[string]json.RawMessage, len(snapshot))
	for key, raw := range snapshot {
		desc, ok := models.LookupCollection(key)
		if !ok {
			s.log.Warn().Str("collection", key).Msg("ignoring unknown collection in import")
			continue
		}
		if _, dup := byName[desc.Name]; dup {
			return fmt.Errorf("local: import: collection %s appears more than once", desc.Name)
		}
		byName[desc.Name] = raw
	}

	writes := make([]func(context.Context), 0, len(byName))
	for _, c := range s.collections {
		raw, ok := byName[c.Descriptor().Name]
		if !ok {
			continue
		}
		write, err := c.stage(raw)
		if err != nil {
			return fmt.Errorf("local: import: %w", err)
		}
		writes = append(writes, write)
	}

	for _, write := range writes {
		write(ctx)
	}
	return nil
}
