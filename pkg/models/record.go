package models

import "time"

// Record holds the fields every entity shares.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta returns the embedded record so generic code can reach the id and
// timestamps of any entity.
func (r *Record) Meta() *Record {
	return r
}

// Model is implemented by pointers to every entity type.
type Model interface {
	Meta() *Record
}

// Patch is implemented by every entity patch type.
type Patch[T any] interface {
	Apply(*T)
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}

var (
	_ Model = (*Organization)(nil)
	_ Model = (*Customer)(nil)
	_ Model = (*Product)(nil)
	_ Model = (*Supplier)(nil)
	_ Model = (*RawMaterial)(nil)
	_ Model = (*Origin)(nil)
	_ Model = (*RiskAssessment)(nil)
	_ Model = (*DueDiligenceStatement)(nil)

	_ Patch[Organization]          = OrganizationPatch{}
	_ Patch[Customer]              = CustomerPatch{}
	_ Patch[Product]               = ProductPatch{}
	_ Patch[Supplier]              = SupplierPatch{}
	_ Patch[RawMaterial]           = RawMaterialPatch{}
	_ Patch[Origin]                = OriginPatch{}
	_ Patch[RiskAssessment]        = RiskAssessmentPatch{}
	_ Patch[DueDiligenceStatement] = DueDiligenceStatementPatch{}
)
