package models

type Supplier struct {
	Record

	Name               string             `json:"name" validate:"required,min=2,max=100"`
	ContactPerson      string             `json:"contact_person" validate:"required,min=2,max=100"`
	Email              string             `json:"email" validate:"required,email"`
	Phone              string             `json:"phone" validate:"required,phone"`
	Address            string             `json:"address" validate:"required,max=200"`
	Country            string             `json:"country" validate:"required,min=2,max=56"`
	Certification      string             `json:"certification,omitempty" validate:"omitempty,max=100"`
	RiskLevel          RiskLevel          `json:"risk_level" validate:"required,oneof=low medium high"`
	VerificationStatus VerificationStatus `json:"verification_status" validate:"required,oneof=pending verified rejected"`
}

type SupplierPatch struct {
	Name               *string             `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	ContactPerson      *string             `json:"contact_person,omitempty" validate:"omitempty,min=2,max=100"`
	Email              *string             `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string             `json:"phone,omitempty" validate:"omitempty,phone"`
	Address            *string             `json:"address,omitempty" validate:"omitempty,min=1,max=200"`
	Country            *string             `json:"country,omitempty" validate:"omitempty,min=2,max=56"`
	Certification      *string             `json:"certification,omitempty" validate:"omitempty,max=100"`
	RiskLevel          *RiskLevel          `json:"risk_level,omitempty" validate:"omitempty,oneof=low medium high"`
	VerificationStatus *VerificationStatus `json:"verification_status,omitempty" validate:"omitempty,oneof=pending verified rejected"`
}

func (p SupplierPatch) Apply(s *Supplier) {
	set(&s.Name, p.Name)
	set(&s.ContactPerson, p.ContactPerson)
	set(&s.Email, p.Email)
	set(&s.Phone, p.Phone)
	set(&s.Address, p.Address)
	set(&s.Country, p.Country)
	set(&s.Certification, p.Certification)
	set(&s.RiskLevel, p.RiskLevel)
	set(&s.VerificationStatus, p.VerificationStatus)
}
