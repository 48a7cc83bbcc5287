// Package customer provides the Customer catalog.
// Customers are created directly or as the result of converting a buying lead.
package customer

import (
	"context"
	"regexp"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/entity"
	"dealerdesk/internal/core/id"
)

// Pre-compiled regex patterns for validation
var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRE = regexp.MustCompile(`^\+?[0-9][0-9\s-]{6,14}$`)
)

// Customer represents a buyer.
type Customer struct {
	entity.Catalog

	// Phone is the primary contact phone
	Phone string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email string `db:"email" json:"email,omitempty"`

	// Address is the postal address
	Address string `db:"address" json:"address,omitempty"`

	// City of residence
	City string `db:"city" json:"city,omitempty"`

	// ConvertedFromLead marks customers produced by lead conversion
	ConvertedFromLead bool `db:"converted_from_lead" json:"convertedFromLead"`

	// LeadID is the back-reference to the originating lead
	LeadID *id.ID `db:"lead_id" json:"leadId,omitempty"`

	// Comment is a free-form note
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewCustomer creates a new Customer with required fields.
func NewCustomer(code, name string) *Customer {
	return &Customer{
		Catalog: entity.NewCatalog(code, name),
	}
}

// FromLead builds a customer out of a converted buying lead.
func FromLead(code, name, phone, email string, leadID id.ID) *Customer {
	c := NewCustomer(code, name)
	c.Phone = phone
	c.Email = email
	c.ConvertedFromLead = true
	c.LeadID = &leadID
	return c
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Email != "" && !emailRE.MatchString(c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	if c.Phone != "" && !phoneRE.MatchString(c.Phone) {
		return apperror.NewValidation("invalid phone format").
			WithDetail("field", "phone")
	}

	return nil
}
