package dto

import (
	"time"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/domain/documents/purchase"
	"dealerdesk/internal/domain/registers/payment"
)

// --- Request DTOs ---

// CreatePurchaseRequest is the request body for recording an acquisition.
type CreatePurchaseRequest struct {
	VehicleID      string       `json:"vehicleId" binding:"required"`
	VendorID       string       `json:"vendorId" binding:"required"`
	PurchasePrice  string       `json:"purchasePrice" binding:"required"`
	InitialPayment string       `json:"initialPayment"`
	PaymentMode    payment.Mode `json:"paymentMode"`
	Date           *time.Time   `json:"date"`
	Notes          string       `json:"notes"`
}

// ToInput converts DTO to service input.
func (r *CreatePurchaseRequest) ToInput() (purchase.CreateInput, error) {
	vehicleID := optionalID(&r.VehicleID)
	vendorID := optionalID(&r.VendorID)
	if vehicleID == nil || vendorID == nil {
		return purchase.CreateInput{}, apperror.NewValidation("invalid id format")
	}
	return purchase.CreateInput{
		VehicleID:      *vehicleID,
		VendorID:       *vendorID,
		PurchasePrice:  r.PurchasePrice,
		InitialPayment: r.InitialPayment,
		PaymentMode:    r.PaymentMode,
		Date:           r.Date,
		Notes:          r.Notes,
	}, nil
}

// UpdatePurchaseRequest is the request body for editing an acquisition.
type UpdatePurchaseRequest struct {
	PurchasePrice *string       `json:"purchasePrice"`
	PaymentMode   *payment.Mode `json:"paymentMode"`
	Notes         *string       `json:"notes"`
	Version       int           `json:"version" binding:"required"`
}

// ToInput converts DTO to service input.
func (r *UpdatePurchaseRequest) ToInput() purchase.UpdateInput {
	return purchase.UpdateInput{
		PurchasePrice: r.PurchasePrice,
		PaymentMode:   r.PaymentMode,
		Notes:         r.Notes,
		Version:       r.Version,
	}
}

// AddPaymentRequest is the request body for a vendor or customer payment.
type AddPaymentRequest struct {
	Amount string       `json:"amount" binding:"required"`
	Mode   payment.Mode `json:"mode"`
}

// --- Response DTOs ---

// PurchaseResponse is the response body for a purchase document.
type PurchaseResponse struct {
	DocumentResponse
	VehicleID     string       `json:"vehicleId"`
	VendorID      string       `json:"vendorId"`
	PurchasePrice string       `json:"purchasePrice"`
	AmountPaid    string       `json:"amountPaid"`
	BalanceAmount string       `json:"balanceAmount"`
	PaymentMode   payment.Mode `json:"paymentMode"`
	Settled       bool         `json:"settled"`
}

// FromPurchase creates response DTO from domain entity.
func FromPurchase(p *purchase.Purchase) PurchaseResponse {
	return PurchaseResponse{
		DocumentResponse: FromDocument(p.Document),
		VehicleID:        p.VehicleID.String(),
		VendorID:         p.VendorID.String(),
		PurchasePrice:    p.PurchasePrice.String(),
		AmountPaid:       p.AmountPaid.String(),
		BalanceAmount:    p.BalanceAmount.String(),
		PaymentMode:      p.PaymentMode,
		Settled:          p.IsSettled(),
	}
}
