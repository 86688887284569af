package models

// Organization is the operator or trader the dashboard is run for.
type Organization struct {
	Record

	Name               string `json:"name" validate:"required,min=2,max=100"`
	Address            string `json:"address" validate:"required,max=200"`
	ContactPerson      string `json:"contact_person" validate:"required,min=2,max=100"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone" validate:"required,phone"`
	RegistrationNumber string `json:"registration_number" validate:"required,min=2,max=50"`
	Country            string `json:"country,omitempty" validate:"omitempty,min=2,max=56"`
	Website            string `json:"website,omitempty" validate:"omitempty,url"`
}

type OrganizationPatch struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Address            *string `json:"address,omitempty" validate:"omitempty,min=1,max=200"`
	ContactPerson      *string `json:"contact_person,omitempty" validate:"omitempty,min=2,max=100"`
	Email              *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string `json:"phone,omitempty" validate:"omitempty,phone"`
	RegistrationNumber *string `json:"registration_number,omitempty" validate:"omitempty,min=2,max=50"`
	Country            *string `json:"country,omitempty" validate:"omitempty,min=2,max=56"`
	Website            *string `json:"website,omitempty" validate:"omitempty,url"`
}

func (p OrganizationPatch) Apply(o *Organization) {
	set(&o.Name, p.Name)
	set(&o.Address, p.Address)
	set(&o.ContactPerson, p.ContactPerson)
	set(&o.Email, p.Email)
	set(&o.Phone, p.Phone)
	set(&o.RegistrationNumber, p.RegistrationNumber)
	set(&o.Country, p.Country)
	set(&o.Website, p.Website)
}
