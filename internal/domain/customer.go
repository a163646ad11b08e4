package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type Customer struct {
	ID              uuid.UUID       `json:"id"`
	Email           string          `json:"email"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Phone           string          `json:"phone,omitempty"`
	ShippingAddress *Address        `json:"shipping_address,omitempty"`
	BillingAddress  *Address        `json:"billing_address,omitempty"`
	TotalOrders     int             `json:"total_orders"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func NewCustomer(email, firstName, lastName, phone string, shipping, billing *Address) *Customer {
	now := time.Now()
	return &Customer{
		ID:              uuid.New(),
		Email:           email,
		FirstName:       firstName,
		LastName:        lastName,
		Phone:           phone,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		TotalOrders:     0,
		TotalSpent:      decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (c *Customer) UpdateAddresses(shipping, billing *Address) {
	if shipping != nil {
		c.ShippingAddress = shipping
	}
	if billing != nil {
		c.BillingAddress = billing
	}
	c.UpdatedAt = time.Now()
}
