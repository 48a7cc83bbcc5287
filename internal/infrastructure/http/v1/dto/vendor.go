package dto

import (
	"dealerdesk/internal/domain/catalogs/vendor"
)

// --- Request DTOs ---

// CreateVendorRequest is the request body for creating a vendor.
type CreateVendorRequest struct {
	Code        string      `json:"code"`
	Name        string      `json:"name" binding:"required"`
	Type        vendor.Type `json:"type" binding:"required"`
	Phone       string      `json:"phone"`
	Email       string      `json:"email"`
	Address     string      `json:"address"`
	BankName    string      `json:"bankName"`
	BankAccount string      `json:"bankAccount"`
	Comment     string      `json:"comment"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateVendorRequest) ToEntity() *vendor.Vendor {
	v := vendor.NewVendor(r.Code, r.Name, r.Type)
	v.Phone = r.Phone
	v.Email = r.Email
	v.Address = r.Address
	v.BankName = r.BankName
	v.BankAccount = r.BankAccount
	v.Comment = r.Comment
	return v
}

// UpdateVendorRequest is the request body for updating a vendor.
type UpdateVendorRequest struct {
	Code        string      `json:"code"`
	Name        string      `json:"name" binding:"required"`
	Type        vendor.Type `json:"type" binding:"required"`
	Phone       string      `json:"phone"`
	Email       string      `json:"email"`
	Address     string      `json:"address"`
	BankName    string      `json:"bankName"`
	BankAccount string      `json:"bankAccount"`
	Comment     string      `json:"comment"`
	Version     int         `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateVendorRequest) ApplyTo(v *vendor.Vendor) {
	v.Code = r.Code
	v.Name = r.Name
	v.Type = r.Type
	v.Phone = r.Phone
	v.Email = r.Email
	v.Address = r.Address
	v.BankName = r.BankName
	v.BankAccount = r.BankAccount
	v.Comment = r.Comment
	v.Version = r.Version
}

// --- Response DTOs ---

// VendorResponse is the response body for a vendor.
type VendorResponse struct {
	CatalogResponse
	Type              vendor.Type `json:"type"`
	Phone             string      `json:"phone,omitempty"`
	Email             string      `json:"email,omitempty"`
	Address           string      `json:"address,omitempty"`
	BankName          string      `json:"bankName,omitempty"`
	BankAccount       string      `json:"bankAccount,omitempty"`
	ConvertedFromLead bool        `json:"convertedFromLead"`
	LeadID            *string     `json:"leadId,omitempty"`
	Comment           string      `json:"comment,omitempty"`
}

// FromVendor creates response DTO from domain entity.
func FromVendor(v *vendor.Vendor) VendorResponse {
	resp := VendorResponse{
		CatalogResponse:   FromCatalog(v.Catalog),
		Type:              v.Type,
		Phone:             v.Phone,
		Email:             v.Email,
		Address:           v.Address,
		BankName:          v.BankName,
		BankAccount:       v.BankAccount,
		ConvertedFromLead: v.ConvertedFromLead,
		Comment:           v.Comment,
	}
	if v.LeadID != nil {
		s := v.LeadID.String()
		resp.LeadID = &s
	}
	return resp
}
