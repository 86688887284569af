package models

// RiskAssessment records the deforestation and legality checks made for one
// product, supplier and origin combination.
type RiskAssessment struct {
	Record

	ProductID          string           `json:"product_id" validate:"required"`
	SupplierID         string           `json:"supplier_id" validate:"required"`
	OriginID           string           `json:"origin_id" validate:"required"`
	AssessmentDate     string           `json:"assessment_date" validate:"required,isodate"`
	RiskLevel          RiskLevel        `json:"risk_level" validate:"required,oneof=low medium high"`
	RiskScore          float64          `json:"risk_score" validate:"gte=0,lte=100"`
	DeforestationCheck bool             `json:"deforestation_check"`
	LegalityCheck      bool             `json:"legality_check"`
	MitigationMeasures string           `json:"mitigation_measures,omitempty" validate:"omitempty,max=2000"`
	Assessor           string           `json:"assessor" validate:"required,min=2,max=100"`
	Status             AssessmentStatus `json:"status" validate:"required,oneof=pending in_progress completed"`
}

type RiskAssessmentPatch struct {
	ProductID          *string           `json:"product_id,omitempty" validate:"omitempty,min=1"`
	SupplierID         *string           `json:"supplier_id,omitempty" validate:"omitempty,min=1"`
	OriginID           *string           `json:"origin_id,omitempty" validate:"omitempty,min=1"`
	AssessmentDate     *string           `json:"assessment_date,omitempty" validate:"omitempty,isodate"`
	RiskLevel          *RiskLevel        `json:"risk_level,omitempty" validate:"omitempty,oneof=low medium high"`
	RiskScore          *float64          `json:"risk_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	DeforestationCheck *bool             `json:"deforestation_check,omitempty"`
	LegalityCheck      *bool             `json:"legality_check,omitempty"`
	MitigationMeasures *string           `json:"mitigation_measures,omitempty" validate:"omitempty,max=2000"`
	Assessor           *string           `json:"assessor,omitempty" validate:"omitempty,min=2,max=100"`
	Status             *AssessmentStatus `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed"`
}

func (p RiskAssessmentPatch) Apply(r *RiskAssessment) {
	set(&r.ProductID, p.ProductID)
	set(&r.SupplierID, p.SupplierID)
	set(&r.OriginID, p.OriginID)
	set(&r.AssessmentDate, p.AssessmentDate)
	set(&r.RiskLevel, p.RiskLevel)
	set(&r.RiskScore, p.RiskScore)
	set(&r.DeforestationCheck, p.DeforestationCheck)
	set(&r.LegalityCheck, p.LegalityCheck)
	set(&r.MitigationMeasures, p.MitigationMeasures)
	set(&r.Assessor, p.Assessor)
	set(&r.Status, p.Status)
}
