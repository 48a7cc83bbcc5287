package dto

import (
	"dealerdesk/internal/domain/catalogs/customer"
)

// --- Request DTOs ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Comment string `json:"comment"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.NewCustomer(r.Code, r.Name)
	c.Phone = r.Phone
	c.Email = r.Email
	c.Address = r.Address
	c.City = r.City
	c.Comment = r.Comment
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
// Lead linkage fields are set only by lead conversion.
type UpdateCustomerRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Comment string `json:"comment"`
	Version int    `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Code = r.Code
	c.Name = r.Name
	c.Phone = r.Phone
	c.Email = r.Email
	c.Address = r.Address
	c.City = r.City
	c.Comment = r.Comment
	c.Version = r.Version
}

// --- Response DTOs ---

// CustomerResponse is the response body for a customer.
type CustomerResponse struct {
	CatalogResponse
	Phone             string  `json:"phone,omitempty"`
	Email             string  `json:"email,omitempty"`
	Address           string  `json:"address,omitempty"`
	City              string  `json:"city,omitempty"`
	ConvertedFromLead bool    `json:"convertedFromLead"`
	LeadID            *string `json:"leadId,omitempty"`
	Comment           string  `json:"comment,omitempty"`
}

// FromCustomer creates response DTO from domain entity.
func FromCustomer(c *customer.Customer) CustomerResponse {
	resp := CustomerResponse{
		CatalogResponse:   FromCatalog(c.Catalog),
		Phone:             c.Phone,
		Email:             c.Email,
		Address:           c.Address,
		City:              c.City,
		ConvertedFromLead: c.ConvertedFromLead,
		Comment:           c.Comment,
	}
	if c.LeadID != nil {
		s := c.LeadID.String()
		resp.LeadID = &s
	}
	return resp
}
