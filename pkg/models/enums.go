package models

// Commodity is one of the seven commodity groups covered by the EUDR.
type Commodity string

const (
	CommodityWood    Commodity = "wood"
	CommodityPalmOil Commodity = "palm_oil"
	CommoditySoy     Commodity = "soy"
	CommodityCoffee  Commodity = "coffee"
	CommodityCocoa   Commodity = "cocoa"
	CommodityRubber  Commodity = "rubber"
	CommodityCattle  Commodity = "cattle"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type CustomerType string

const (
	CustomerImporter     CustomerType = "importer"
	CustomerDistributor  CustomerType = "distributor"
	CustomerRetailer     CustomerType = "retailer"
	CustomerManufacturer CustomerType = "manufacturer"
)

type WeightUnit string

const (
	WeightKg     WeightUnit = "kg"
	WeightTonnes WeightUnit = "tonnes"
	WeightLbs    WeightUnit = "lbs"
)

// Unit is the unit of a raw material or statement quantity.
type Unit string

const (
	UnitKg     Unit = "kg"
	UnitTonnes Unit = "tonnes"
	UnitM3     Unit = "m3"
	UnitLiters Unit = "liters"
	UnitUnits  Unit = "units"
)

type AssessmentStatus string

const (
	AssessmentPending    AssessmentStatus = "pending"
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentCompleted  AssessmentStatus = "completed"
)

type StatementStatus string

const (
	StatementDraft     StatementStatus = "draft"
	StatementSubmitted StatementStatus = "submitted"
	StatementApproved  StatementStatus = "approved"
	StatementRejected  StatementStatus = "rejected"
)
