// Package hybrid routes every entity operation to the local store or the
// remote CMS, depending on the offline mode at the time of the call.
//
// The mode is read once per call, so switching it affects the next call and
// never one already in progress. The two stores are not synchronized: a
// record created offline is not visible online and vice versa.
package hybrid

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/forestline/eudrtrack/pkg/mode"
	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/schema"
	"github.com/forestline/eudrtrack/pkg/store"
	"github.com/forestline/eudrtrack/pkg/store/local"
	"github.com/forestline/eudrtrack/pkg/store/remote"
)

// Outcomes recorded in the operations counter.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

type Option func(*Router)

// WithRegisterer registers the operations counter with reg instead of the
// default registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Router) { r.reg = reg }
}

func WithLogger(log zerolog.Logger) Option {
	return func(r *Router) { r.log = log }
}

// Router holds one backend per entity.
type Router struct {
	mode mode.Source
	log  zerolog.Logger
	reg  prometheus.Registerer
	ops  *prometheus.CounterVec

	organizations   *Backend[models.Organization, models.OrganizationPatch]
	customers       *Backend[models.Customer, models.CustomerPatch]
	products        *Backend[models.Product, models.ProductPatch]
	suppliers       *Backend[models.Supplier, models.SupplierPatch]
	rawMaterials    *Backend[models.RawMaterial, models.RawMaterialPatch]
	origins         *Backend[models.Origin, models.OriginPatch]
	riskAssessments *Backend[models.RiskAssessment, models.RiskAssessmentPatch]
	statements      *Statements
}

// New builds a router over both stores. rem may be nil, in which case
// online calls fail with remote.ErrNotConfigured.
func New(loc *local.Store, rem *remote.Client, src mode.Source, opts ...Option) (*Router, error) {
	r := &Router{
		mode: src,
		log:  zerolog.Nop(),
		reg:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(r)
	}
	if rem == nil {
		rem = remote.New(nil, nil, r.log)
	}

	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eudrtrack",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Entity operations by collection, operation, mode and outcome.",
	}, []string{"collection", "operation", "mode", "outcome"})
	if err := r.reg.Register(ops); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		ops = existing
	}
	r.ops = ops

	r.organizations = newBackend[models.Organization, models.OrganizationPatch](r, models.Organizations, loc.Organizations, rem.Organizations)
	r.customers = newBackend[models.Customer, models.CustomerPatch](r, models.Customers, loc.Customers, rem.Customers)
	r.products = newBackend[models.Product, models.ProductPatch](r, models.Products, loc.Products, rem.Products)
	r.suppliers = newBackend[models.Supplier, models.SupplierPatch](r, models.Suppliers, loc.Suppliers, rem.Suppliers)
	r.rawMaterials = newBackend[models.RawMaterial, models.RawMaterialPatch](r, models.RawMaterials, loc.RawMaterials, rem.RawMaterials)
	r.origins = newBackend[models.Origin, models.OriginPatch](r, models.Origins, loc.Origins, rem.Origins)
	r.riskAssessments = newBackend[models.RiskAssessment, models.RiskAssessmentPatch](r, models.RiskAssessments, loc.RiskAssessments, rem.RiskAssessments)
	r.statements = &Statements{
		Backend: newBackend[models.DueDiligenceStatement, models.DueDiligenceStatementPatch](r, models.DueDiligenceStatements, loc.Statements, rem.Statements),
		local:   loc.Statements,
		remote:  rem.Statements,
	}
	return r, nil
}

// Offline reports the mode the next call would use.
func (r *Router) Offline(ctx context.Context) bool {
	return r.mode.Offline(ctx)
}

func (r *Router) Organizations() *Backend[models.Organization, models.OrganizationPatch] {
	return r.organizations
}

func (r *Router) Customers() *Backend[models.Customer, models.CustomerPatch] {
	return r.customers
}

func (r *Router) Products() *Backend[models.Product, models.ProductPatch] {
	return r.products
}

func (r *Router) Suppliers() *Backend[models.Supplier, models.SupplierPatch] {
	return r.suppliers
}

func (r *Router) RawMaterials() *Backend[models.RawMaterial, models.RawMaterialPatch] {
	return r.rawMaterials
}

func (r *Router) Origins() *Backend[models.Origin, models.OriginPatch] {
	return r.origins
}

func (r *Router) RiskAssessments() *Backend[models.RiskAssessment, models.RiskAssessmentPatch] {
	return r.riskAssessments
}

func (r *Router) Statements() *Statements {
	return r.statements
}

func (r *Router) observe(desc models.Collection, op, m string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		if _, ok := schema.AsValidationError(err); ok {
			outcome = OutcomeInvalid
		}
		r.log.Debug().Err(err).
			Str("collection", desc.Name).
			Str("operation", op).
			Str("mode", m).
			Msg("store operation failed")
	}
	r.ops.WithLabelValues(desc.Name, op, m, outcome).Inc()
}

var _ store.StatementBackend = (*Statements)(nil)
