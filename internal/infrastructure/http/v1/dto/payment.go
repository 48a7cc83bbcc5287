package dto

import (
	"time"

	"dealerdesk/internal/domain/registers/payment"
)

// PaymentResponse is the response body for one journal entry.
type PaymentResponse struct {
	ID            string                `json:"id"`
	ReferenceType payment.ReferenceType `json:"referenceType"`
	PurchaseID    *string               `json:"purchaseId,omitempty"`
	SaleID        *string               `json:"saleId,omitempty"`
	PartyType     payment.PartyType     `json:"partyType"`
	PartyID       *string               `json:"partyId,omitempty"`
	Amount        string                `json:"amount"`
	Mode          payment.Mode          `json:"mode"`
	Purpose       payment.Purpose       `json:"purpose"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy,omitempty"`
}

// FromPayment creates response DTO from a journal entry.
func FromPayment(e *payment.Entry) PaymentResponse {
	resp := PaymentResponse{
		ID:            e.ID.String(),
		ReferenceType: e.ReferenceType,
		PartyType:     e.PartyType,
		Amount:        e.Amount.String(),
		Mode:          e.Mode,
		Purpose:       e.Purpose,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
	if e.PurchaseID != nil {
		s := e.PurchaseID.String()
		resp.PurchaseID = &s
	}
	if e.SaleID != nil {
		s := e.SaleID.String()
		resp.SaleID = &s
	}
	if e.PartyID != nil {
		s := e.PartyID.String()
		resp.PartyID = &s
	}
	return resp
}

// FromPayments maps a list of journal entries.
func FromPayments(entries []*payment.Entry) []PaymentResponse {
	out := make([]PaymentResponse, len(entries))
	for i, e := range entries {
		out[i] = FromPayment(e)
	}
	return out
}
