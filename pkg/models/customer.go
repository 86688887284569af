package models

// Customer is a downstream buyer of compliant products.
type Customer struct {
	Record

	Name         string       `json:"name" validate:"required,min=2,max=100"`
	Email        string       `json:"email" validate:"required,email"`
	Phone        string       `json:"phone" validate:"required,phone"`
	Address      string       `json:"address" validate:"required,max=200"`
	Country      string       `json:"country" validate:"required,min=2,max=56"`
	CustomerType CustomerType `json:"customer_type" validate:"required,oneof=importer distributor retailer manufacturer"`
	VATNumber    string       `json:"vat_number,omitempty" validate:"omitempty,max=30"`
}

type CustomerPatch struct {
	Name         *string       `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email        *string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string       `json:"phone,omitempty" validate:"omitempty,phone"`
	Address      *string       `json:"address,omitempty" validate:"omitempty,min=1,max=200"`
	Country      *string       `json:"country,omitempty" validate:"omitempty,min=2,max=56"`
	CustomerType *CustomerType `json:"customer_type,omitempty" validate:"omitempty,oneof=importer distributor retailer manufacturer"`
	VATNumber    *string       `json:"vat_number,omitempty" validate:"omitempty,max=30"`
}

func (p CustomerPatch) Apply(c *Customer) {
	set(&c.Name, p.Name)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.Address, p.Address)
	set(&c.Country, p.Country)
	set(&c.CustomerType, p.CustomerType)
	set(&c.VATNumber, p.VATNumber)
}
