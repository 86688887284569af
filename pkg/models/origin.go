package models

// Origin is a production area. ForestCoverage is a percentage.
type Origin struct {
	Record

	Name               string    `json:"name" validate:"required,min=2,max=100"`
	Country            string    `json:"country" validate:"required,min=2,max=56"`
	Region             string    `json:"region" validate:"required,min=2,max=100"`
	Coordinates        string    `json:"coordinates" validate:"required,latlng"`
	AreaHectares       float64   `json:"area_hectares" validate:"gt=0"`
	ForestCoverage     float64   `json:"forest_coverage" validate:"gte=0,lte=100"`
	DeforestationRisk  RiskLevel `json:"deforestation_risk" validate:"required,oneof=low medium high"`
	LastAssessmentDate string    `json:"last_assessment_date,omitempty" validate:"omitempty,isodate"`
	Certification      string    `json:"certification,omitempty" validate:"omitempty,max=100"`
}

type OriginPatch struct {
	Name               *string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Country            *string    `json:"country,omitempty" validate:"omitempty,min=2,max=56"`
	Region             *string    `json:"region,omitempty" validate:"omitempty,min=2,max=100"`
	Coordinates        *string    `json:"coordinates,omitempty" validate:"omitempty,latlng"`
	AreaHectares       *float64   `json:"area_hectares,omitempty" validate:"omitempty,gt=0"`
	ForestCoverage     *float64   `json:"forest_coverage,omitempty" validate:"omitempty,gte=0,lte=100"`
	DeforestationRisk  *RiskLevel `json:"deforestation_risk,omitempty" validate:"omitempty,oneof=low medium high"`
	LastAssessmentDate *string    `json:"last_assessment_date,omitempty" validate:"omitempty,isodate"`
	Certification      *string    `json:"certification,omitempty" validate:"omitempty,max=100"`
}

func (p OriginPatch) Apply(o *Origin) {
	set(&o.Name, p.Name)
	set(&o.Country, p.Country)
	set(&o.Region, p.Region)
	set(&o.Coordinates, p.Coordinates)
	set(&o.AreaHectares, p.AreaHectares)
	set(&o.ForestCoverage, p.ForestCoverage)
	set(&o.DeforestationRisk, p.DeforestationRisk)
	set(&o.LastAssessmentDate, p.LastAssessmentDate)
	set(&o.Certification, p.Certification)
}
