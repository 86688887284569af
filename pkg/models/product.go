package models

// Product is a traded good derived from one of the regulated commodities.
type Product struct {
	Record

	Name          string     `json:"name" validate:"required,min=2,max=100"`
	Description   string     `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category      Commodity  `json:"category" validate:"required,oneof=wood palm_oil soy coffee cocoa rubber cattle"`
	HSCode        string     `json:"hs_code" validate:"required,hscode"`
	Weight        float64    `json:"weight" validate:"gt=0"`
	WeightUnit    WeightUnit `json:"weight_unit" validate:"required,oneof=kg tonnes lbs"`
	SupplierID    string     `json:"supplier_id" validate:"required"`
	OriginCountry string     `json:"origin_country" validate:"required,min=2,max=56"`
	HarvestDate   string     `json:"harvest_date,omitempty" validate:"omitempty,isodate"`
	EUDRCompliant bool       `json:"eudr_compliant"`
}

type ProductPatch struct {
	Name          *string     `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description   *string     `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category      *Commodity  `json:"category,omitempty" validate:"omitempty,oneof=wood palm_oil soy coffee cocoa rubber cattle"`
	HSCode        *string     `json:"hs_code,omitempty" validate:"omitempty,hscode"`
	Weight        *float64    `json:"weight,omitempty" validate:"omitempty,gt=0"`
	WeightUnit    *WeightUnit `json:"weight_unit,omitempty" validate:"omitempty,oneof=kg tonnes lbs"`
	SupplierID    *string     `json:"supplier_id,omitempty" validate:"omitempty,min=1"`
	OriginCountry *string     `json:"origin_country,omitempty" validate:"omitempty,min=2,max=56"`
	HarvestDate   *string     `json:"harvest_date,omitempty" validate:"omitempty,isodate"`
	EUDRCompliant *bool       `json:"eudr_compliant,omitempty"`
}

func (p ProductPatch) Apply(pr *Product) {
	set(&pr.Name, p.Name)
	set(&pr.Description, p.Description)
	set(&pr.Category, p.Category)
	set(&pr.HSCode, p.HSCode)
	set(&pr.Weight, p.Weight)
	set(&pr.WeightUnit, p.WeightUnit)
	set(&pr.SupplierID, p.SupplierID)
	set(&pr.OriginCountry, p.OriginCountry)
	set(&pr.HarvestDate, p.HarvestDate)
	set(&pr.EUDRCompliant, p.EUDRCompliant)
}
