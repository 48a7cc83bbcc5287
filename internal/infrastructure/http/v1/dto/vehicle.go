package dto

import (
	"dealerdesk/internal/core/types"
	"dealerdesk/internal/domain/catalogs/vehicle"
)

// --- Request DTOs ---

// CreateVehicleRequest is the request body for creating a vehicle.
type CreateVehicleRequest struct {
	Code           string `json:"code"`
	Name           string `json:"name" binding:"required"`
	Brand          string `json:"brand" binding:"required"`
	Model          string `json:"model" binding:"required"`
	Variant        string `json:"variant"`
	Year           int    `json:"year"`
	RegistrationNo string `json:"registrationNo"`
	SellingPrice   string `json:"sellingPrice"`
	IsPublic       bool   `json:"isPublic"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateVehicleRequest) ToEntity() (*vehicle.Vehicle, error) {
	v := vehicle.NewVehicle(r.Code, r.Name, r.Brand, r.Model)
	v.Variant = r.Variant
	v.Year = r.Year
	v.RegistrationNo = r.RegistrationNo
	v.IsPublic = r.IsPublic
	if r.SellingPrice != "" {
		price, err := types.ParseAmount(r.SellingPrice, "sellingPrice")
		if err != nil {
			return nil, err
		}
		v.SellingPrice = price
	}
	return v, nil
}

// UpdateVehicleRequest is the request body for updating a vehicle.
// Lifecycle fields (status, purchaseStatus, vendorId, purchasePrice) are
// managed by the purchase and sale ledgers and rejected on direct edits.
type UpdateVehicleRequest struct {
	Code           string `json:"code"`
	Name           string `json:"name" binding:"required"`
	Brand          string `json:"brand" binding:"required"`
	Model          string `json:"model" binding:"required"`
	Variant        string `json:"variant"`
	Year           int    `json:"year"`
	RegistrationNo string `json:"registrationNo"`
	SellingPrice   string `json:"sellingPrice"`
	IsPublic       bool   `json:"isPublic"`
	Version        int    `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateVehicleRequest) ApplyTo(v *vehicle.Vehicle) error {
	v.Code = r.Code
	v.Name = r.Name
	v.Brand = r.Brand
	v.Model = r.Model
	v.Variant = r.Variant
	v.Year = r.Year
	v.RegistrationNo = r.RegistrationNo
	v.IsPublic = r.IsPublic
	v.Version = r.Version
	if r.SellingPrice != "" {
		price, err := types.ParseAmount(r.SellingPrice, "sellingPrice")
		if err != nil {
			return err
		}
		v.SellingPrice = price
	}
	return nil
}

// --- Response DTOs ---

// VehicleResponse is the response body for a vehicle.
type VehicleResponse struct {
	CatalogResponse
	Brand          string                 `json:"brand"`
	Model          string                 `json:"model"`
	Variant        string                 `json:"variant,omitempty"`
	Year           int                    `json:"year,omitempty"`
	RegistrationNo string                 `json:"registrationNo,omitempty"`
	PurchasePrice  types.Money            `json:"purchasePrice"`
	SellingPrice   types.Money            `json:"sellingPrice"`
	PurchaseStatus vehicle.PurchaseStatus `json:"purchaseStatus"`
	Status         vehicle.Status         `json:"status"`
	VendorID       *string                `json:"vendorId,omitempty"`
	IsPublic       bool                   `json:"isPublic"`
}

// FromVehicle creates response DTO from domain entity.
func FromVehicle(v *vehicle.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		CatalogResponse: FromCatalog(v.Catalog),
		Brand:           v.Brand,
		Model:           v.Model,
		Variant:         v.Variant,
		Year:            v.Year,
		RegistrationNo:  v.RegistrationNo,
		PurchasePrice:   v.PurchasePrice,
		SellingPrice:    v.SellingPrice,
		PurchaseStatus:  v.PurchaseStatus,
		Status:          v.Status,
		IsPublic:        v.IsPublic,
	}
	if v.VendorID != nil {
		s := v.VendorID.String()
		resp.VendorID = &s
	}
	return resp
}
