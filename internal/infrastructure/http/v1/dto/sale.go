package dto

import (
	"time"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/domain/documents/sale"
	"dealerdesk/internal/domain/registers/payment"
)

// --- Request DTOs ---

// CreateSaleRequest is the request body for recording a sale.
type CreateSaleRequest struct {
	VehicleID    string       `json:"vehicleId" binding:"required"`
	CustomerID   string       `json:"customerId" binding:"required"`
	SellingPrice string       `json:"sellingPrice" binding:"required"`
	Discount     string       `json:"discount"`
	Tax          string       `json:"tax"`
	Status       sale.Status  `json:"status"`
	PaymentMode  payment.Mode `json:"paymentMode"`
	AmountPaid   string       `json:"amountPaid"`
	IsEMI        bool         `json:"isEmi"`
	DownPayment  string       `json:"downPayment"`
	Date         *time.Time   `json:"date"`
	Notes        string       `json:"notes"`
}

// ToInput converts DTO to service input.
func (r *CreateSaleRequest) ToInput() (sale.CreateInput, error) {
	vehicleID := optionalID(&r.VehicleID)
	customerID := optionalID(&r.CustomerID)
	if vehicleID == nil || customerID == nil {
		return sale.CreateInput{}, apperror.NewValidation("invalid id format")
	}
	return sale.CreateInput{
		VehicleID:    *vehicleID,
		CustomerID:   *customerID,
		SellingPrice: r.SellingPrice,
		Discount:     r.Discount,
		Tax:          r.Tax,
		Status:       r.Status,
		PaymentMode:  r.PaymentMode,
		AmountPaid:   r.AmountPaid,
		IsEMI:        r.IsEMI,
		DownPayment:  r.DownPayment,
		Date:         r.Date,
		Notes:        r.Notes,
	}, nil
}

// UpdateSaleRequest is the request body for editing a sale.
type UpdateSaleRequest struct {
	SellingPrice *string       `json:"sellingPrice"`
	Discount     *string       `json:"discount"`
	Tax          *string       `json:"tax"`
	Status       *sale.Status  `json:"status"`
	PaymentMode  *payment.Mode `json:"paymentMode"`
	Notes        *string       `json:"notes"`
	Version      int           `json:"version" binding:"required"`
}

// ToInput converts DTO to service input.
func (r *UpdateSaleRequest) ToInput() sale.UpdateInput {
	return sale.UpdateInput{
		SellingPrice: r.SellingPrice,
		Discount:     r.Discount,
		Tax:          r.Tax,
		Status:       r.Status,
		PaymentMode:  r.PaymentMode,
		Notes:        r.Notes,
		Version:      r.Version,
	}
}

// --- Response DTOs ---

// SaleResponse is the response body for a sale document.
type SaleResponse struct {
	DocumentResponse
	VehicleID     string       `json:"vehicleId"`
	CustomerID    string       `json:"customerId"`
	SellingPrice  string       `json:"sellingPrice"`
	Discount      string       `json:"discount"`
	Tax           string       `json:"tax"`
	TotalAmount   string       `json:"totalAmount"`
	AmountPaid    string       `json:"amountPaid"`
	BalanceAmount string       `json:"balanceAmount"`
	Status        sale.Status  `json:"status"`
	PaymentMode   payment.Mode `json:"paymentMode"`
	IsEMI         bool         `json:"isEmi"`
	DownPayment   string       `json:"downPayment"`
	EMIConfigured bool         `json:"emiConfigured"`
}

// FromSale creates response DTO from domain entity.
func FromSale(s *sale.Sale) SaleResponse {
	return SaleResponse{
		DocumentResponse: FromDocument(s.Document),
		VehicleID:        s.VehicleID.String(),
		CustomerID:       s.CustomerID.String(),
		SellingPrice:     s.SellingPrice.String(),
		Discount:         s.Discount.String(),
		Tax:              s.Tax.String(),
		TotalAmount:      s.TotalAmount.String(),
		AmountPaid:       s.AmountPaid.String(),
		BalanceAmount:    s.BalanceAmount.String(),
		Status:           s.Status,
		PaymentMode:      s.PaymentMode,
		IsEMI:            s.IsEMI,
		DownPayment:      s.DownPayment.String(),
		EMIConfigured:    s.EMIConfigured,
	}
}

// EffectiveBalanceResponse reports the customer-facing remaining balance.
// For financed sales the value comes from the EMI schedule.
type EffectiveBalanceResponse struct {
	SaleID           string `json:"saleId"`
	EffectiveBalance string `json:"effectiveBalance"`
}
