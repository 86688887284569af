package models

// RawMaterial is a batch of commodity input bought from a supplier.
// Geolocation is a "lat,lng" pair of the plot of land it was produced on.
type RawMaterial struct {
	Record

	Name          string    `json:"name" validate:"required,min=2,max=100"`
	MaterialType  Commodity `json:"material_type" validate:"required,oneof=wood palm_oil soy coffee cocoa rubber cattle"`
	SupplierID    string    `json:"supplier_id" validate:"required"`
	Quantity      float64   `json:"quantity" validate:"gte=0"`
	Unit          Unit      `json:"unit" validate:"required,oneof=kg tonnes m3 liters units"`
	OriginCountry string    `json:"origin_country" validate:"required,min=2,max=56"`
	HarvestDate   string    `json:"harvest_date,omitempty" validate:"omitempty,isodate"`
	Certification string    `json:"certification,omitempty" validate:"omitempty,max=100"`
	Geolocation   string    `json:"geolocation,omitempty" validate:"omitempty,latlng"`
}

type RawMaterialPatch struct {
	Name          *string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	MaterialType  *Commodity `json:"material_type,omitempty" validate:"omitempty,oneof=wood palm_oil soy coffee cocoa rubber cattle"`
	SupplierID    *string    `json:"supplier_id,omitempty" validate:"omitempty,min=1"`
	Quantity      *float64   `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit          *Unit      `json:"unit,omitempty" validate:"omitempty,oneof=kg tonnes m3 liters units"`
	OriginCountry *string    `json:"origin_country,omitempty" validate:"omitempty,min=2,max=56"`
	HarvestDate   *string    `json:"harvest_date,omitempty" validate:"omitempty,isodate"`
	Certification *string    `json:"certification,omitempty" validate:"omitempty,max=100"`
	Geolocation   *string    `json:"geolocation,omitempty" validate:"omitempty,latlng"`
}

func (p RawMaterialPatch) Apply(r *RawMaterial) {
	set(&r.Name, p.Name)
	set(&r.MaterialType, p.MaterialType)
	set(&r.SupplierID, p.SupplierID)
	set(&r.Quantity, p.Quantity)
	set(&r.Unit, p.Unit)
	set(&r.OriginCountry, p.OriginCountry)
	set(&r.HarvestDate, p.HarvestDate)
	set(&r.Certification, p.Certification)
	set(&r.Geolocation, p.Geolocation)
}
