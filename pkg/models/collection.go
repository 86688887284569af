package models

import "slices"

// Collection describes where one entity type is stored and how it can be
// searched. Name doubles as the RPC namespace of the remote CMS and as the
// key of the collection in export snapshots.
type Collection struct {
	Name string
	// Label is the singular, human readable entity name used in messages.
	Label        string
	StorageKey   string
	SearchFields []string
	FilterFields []string
}

// AcceptsFilter reports whether field is one of the discrete filters of c.
func (c Collection) AcceptsFilter(field string) bool {
	return slices.Contains(c.FilterFields, field)
}

const storageKeyPrefix = "eudr_"

var (
	Organizations = Collection{
		Name:         "organizations",
		Label:        "organization",
		StorageKey:   storageKeyPrefix + "organizations",
		SearchFields: []string{"name", "contact_person", "email", "registration_number"},
		FilterFields: []string{"country"},
	}
	Customers = Collection{
		Name:         "customers",
		Label:        "customer",
		StorageKey:   storageKeyPrefix + "customers",
		SearchFields: []string{"name", "email", "country", "vat_number"},
		FilterFields: []string{"customer_type", "country"},
	}
	Products = Collection{
		Name:         "products",
		Label:        "product",
		StorageKey:   storageKeyPrefix + "products",
		SearchFields: []string{"name", "description", "hs_code", "origin_country"},
		FilterFields: []string{"category", "supplier_id", "eudr_compliant"},
	}
	Suppliers = Collection{
		Name:         "suppliers",
		Label:        "supplier",
		StorageKey:   storageKeyPrefix + "suppliers",
		SearchFields: []string{"name", "contact_person", "email", "country"},
		FilterFields: []string{"risk_level", "verification_status", "country"},
	}
	RawMaterials = Collection{
		Name:         "raw_materials",
		Label:        "raw material",
		StorageKey:   storageKeyPrefix + "raw_materials",
		SearchFields: []string{"name", "origin_country", "certification"},
		FilterFields: []string{"material_type", "supplier_id"},
	}
	Origins = Collection{
		Name:         "origins",
		Label:        "origin",
		StorageKey:   storageKeyPrefix + "origins",
		SearchFields: []string{"name", "country", "region"},
		FilterFields: []string{"country", "deforestation_risk"},
	}
	RiskAssessments = Collection{
		Name:         "risk_assessments",
		Label:        "risk assessment",
		StorageKey:   storageKeyPrefix + "risk_assessments",
		SearchFields: []string{"assessor", "mitigation_measures"},
		FilterFields: []string{"risk_level", "status", "product_id", "supplier_id", "origin_id"},
	}
	DueDiligenceStatements = Collection{
		Name:         "due_diligence_statements",
		Label:        "due diligence statement",
		StorageKey:   storageKeyPrefix + "due_diligence_statements",
		SearchFields: []string{"reference_number", "operator_name", "product_description"},
		FilterFields: []string{"status", "country_of_production"},
	}
)

// Collections returns all collections in a fixed order.
func Collections() []Collection {
	return []Collection{
		Organizations,
		Customers,
		Products,
		Suppliers,
		RawMaterials,
		Origins,
		RiskAssessments,
		DueDiligenceStatements,
	}
}

// LookupCollection finds a collection by name. A few short aliases are
// accepted for command line use.
func LookupCollection(name string) (Collection, bool) {
	switch name {
	case "materials":
		name = RawMaterials.Name
	case "assessments":
		name = RiskAssessments.Name
	case "statements", "dds":
		name = DueDiligenceStatements.Name
	}
	for _, c := range Collections() {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}
