package dto

import (
	"dealerdesk/internal/domain/leads"
)

// --- Request DTOs ---

// CreateLeadRequest is the request body for creating a lead.
type CreateLeadRequest struct {
	Code            string     `json:"code"`
	Name            string     `json:"name" binding:"required"`
	Type            leads.Type `json:"type" binding:"required"`
	Phone           string     `json:"phone" binding:"required"`
	Email           string     `json:"email"`
	VehicleInterest string     `json:"vehicleInterest"`
	Comment         string     `json:"comment"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateLeadRequest) ToEntity() *leads.Lead {
	l := leads.NewLead(r.Code, r.Name, r.Type)
	l.Phone = r.Phone
	l.Email = r.Email
	l.VehicleInterest = r.VehicleInterest
	l.Comment = r.Comment
	return l
}

// UpdateLeadRequest is the request body for updating a lead.
// Type is fixed at creation; conversion fields are set only by convert.
type UpdateLeadRequest struct {
	Code            string       `json:"code"`
	Name            string       `json:"name" binding:"required"`
	Status          leads.Status `json:"status"`
	Phone           string       `json:"phone" binding:"required"`
	Email           string       `json:"email"`
	VehicleInterest string       `json:"vehicleInterest"`
	Comment         string       `json:"comment"`
	Version         int          `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateLeadRequest) ApplyTo(l *leads.Lead) {
	l.Code = r.Code
	l.Name = r.Name
	if r.Status != "" {
		l.Status = r.Status
	}
	l.Phone = r.Phone
	l.Email = r.Email
	l.VehicleInterest = r.VehicleInterest
	l.Comment = r.Comment
	l.Version = r.Version
}

// ChangeLeadStatusRequest is the request body for a status transition.
type ChangeLeadStatusRequest struct {
	Status leads.Status `json:"status" binding:"required"`
}

// --- Response DTOs ---

// LeadResponse is the response body for a lead.
type LeadResponse struct {
	CatalogResponse
	Type            leads.Type   `json:"type"`
	Status          leads.Status `json:"status"`
	Phone           string       `json:"phone"`
	Email           string       `json:"email,omitempty"`
	VehicleInterest string       `json:"vehicleInterest,omitempty"`
	Comment         string       `json:"comment,omitempty"`
	Converted       bool         `json:"converted"`
	ConvertedRefID  *string      `json:"convertedRefId,omitempty"`
}

// FromLead creates response DTO from domain entity.
func FromLead(l *leads.Lead) LeadResponse {
	resp := LeadResponse{
		CatalogResponse: FromCatalog(l.Catalog),
		Type:            l.Type,
		Status:          l.Status,
		Phone:           l.Phone,
		Email:           l.Email,
		VehicleInterest: l.VehicleInterest,
		Comment:         l.Comment,
		Converted:       l.Converted,
	}
	if l.ConvertedRefID != nil {
		s := l.ConvertedRefID.String()
		resp.ConvertedRefID = &s
	}
	return resp
}

// ConversionResponse is the response body for a lead conversion.
type ConversionResponse struct {
	LeadID           string `json:"leadId"`
	AlreadyConverted bool   `json:"alreadyConverted"`
	RefType          string `json:"refType"`
	RefID            string `json:"refId"`
}

// FromConversion creates response DTO from a conversion result.
func FromConversion(res *leads.ConversionResult) ConversionResponse {
	return ConversionResponse{
		LeadID:           res.Lead.ID.String(),
		AlreadyConverted: res.AlreadyConverted,
		RefType:          res.RefType,
		RefID:            res.RefID.String(),
	}
}
