package models

// DueDiligenceStatement is the declaration an operator files before placing
// regulated goods on the market.
type DueDiligenceStatement struct {
	Record

	ReferenceNumber     string          `json:"reference_number" validate:"required,min=3,max=50"`
	OperatorName        string          `json:"operator_name" validate:"required,min=2,max=100"`
	OperatorAddress     string          `json:"operator_address" validate:"required,max=200"`
	ProductDescription  string          `json:"product_description" validate:"required,min=5,max=1000"`
	HSCode              string          `json:"hs_code" validate:"required,hscode"`
	Quantity            float64         `json:"quantity" validate:"gt=0"`
	Unit                Unit            `json:"unit" validate:"required,oneof=kg tonnes m3 liters units"`
	CountryOfProduction string          `json:"country_of_production" validate:"required,min=2,max=56"`
	Geolocation         string          `json:"geolocation" validate:"required,latlng"`
	RiskAssessmentID    string          `json:"risk_assessment_id,omitempty"`
	Status              StatementStatus `json:"status" validate:"required,oneof=draft submitted approved rejected"`
	SubmissionDate      string          `json:"submission_date,omitempty" validate:"omitempty,isodate"`
}

type DueDiligenceStatementPatch struct {
	ReferenceNumber     *string          `json:"reference_number,omitempty" validate:"omitempty,min=3,max=50"`
	OperatorName        *string          `json:"operator_name,omitempty" validate:"omitempty,min=2,max=100"`
	OperatorAddress     *string          `json:"operator_address,omitempty" validate:"omitempty,min=1,max=200"`
	ProductDescription  *string          `json:"product_description,omitempty" validate:"omitempty,min=5,max=1000"`
	HSCode              *string          `json:"hs_code,omitempty" validate:"omitempty,hscode"`
	Quantity            *float64         `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit                *Unit            `json:"unit,omitempty" validate:"omitempty,oneof=kg tonnes m3 liters units"`
	CountryOfProduction *string          `json:"country_of_production,omitempty" validate:"omitempty,min=2,max=56"`
	Geolocation         *string          `json:"geolocation,omitempty" validate:"omitempty,latlng"`
	RiskAssessmentID    *string          `json:"risk_assessment_id,omitempty"`
	Status              *StatementStatus `json:"status,omitempty" validate:"omitempty,oneof=draft submitted approved rejected"`
	SubmissionDate      *string          `json:"submission_date,omitempty" validate:"omitempty,isodate"`
}

func (p DueDiligenceStatementPatch) Apply(s *DueDiligenceStatement) {
	set(&s.ReferenceNumber, p.ReferenceNumber)
	set(&s.OperatorName, p.OperatorName)
	set(&s.OperatorAddress, p.OperatorAddress)
	set(&s.ProductDescription, p.ProductDescription)
	set(&s.HSCode, p.HSCode)
	set(&s.Quantity, p.Quantity)
	set(&s.Unit, p.Unit)
	set(&s.CountryOfProduction, p.CountryOfProduction)
	set(&s.Geolocation, p.Geolocation)
	set(&s.RiskAssessmentID, p.RiskAssessmentID)
	set(&s.Status, p.Status)
	set(&s.SubmissionDate, p.SubmissionDate)
}
