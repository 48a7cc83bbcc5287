// Package payment provides the append-only payment journal.
//
// Every movement of money through the purchase or sale ledger appends an
// entry here, inside the same transaction that mutates the ledger row.
// The journal is the audit trail; ledger rows keep the denormalized
// balances and remain the read path for current state.
package payment

import (
	"context"
	"time"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/types"
)

// ReferenceType identifies which ledger an entry belongs to.
type ReferenceType string

const (
	RefPurchase ReferenceType = "purchase"
	RefSale     ReferenceType = "sale"
)

// Mode is the payment instrument.
type Mode string

const (
	ModeCash         Mode = "cash"
	ModeBankTransfer Mode = "bank_transfer"
	ModeCheque       Mode = "cheque"
	ModeUPI          Mode = "upi"
	ModeCard         Mode = "card"
	ModeEMI          Mode = "emi"
)

// PartyType distinguishes money paid to vendors from money received from customers.
type PartyType string

const (
	PartyVendor   PartyType = "vendor_payment"
	PartyCustomer PartyType = "customer_payment"
)

// Purpose describes why the money moved.
type Purpose string

const (
	PurposeInitial     Purpose = "initial_payment"
	PurposeDownPayment Purpose = "down_payment"
	PurposeBalance     Purpose = "balance_payment"
)

// Entry is a single append-only journal record.
type Entry struct {
	ID      id.ID  `db:"id" json:"id"`
	OwnerID string `db:"owner_id" json:"-"`

	// Exactly one of PurchaseID / SaleID must be set.
	ReferenceType ReferenceType `db:"reference_type" json:"referenceType"`
	PurchaseID    *id.ID        `db:"purchase_id" json:"purchaseId,omitempty"`
	SaleID        *id.ID        `db:"sale_id" json:"saleId,omitempty"`

	// PartyType and PartyID identify the counterparty (vendor or customer).
	PartyType PartyType `db:"party_type" json:"partyType"`
	PartyID   *id.ID    `db:"party_id" json:"partyId,omitempty"`

	Amount  types.Money `db:"amount" json:"amount"`
	Mode    Mode        `db:"mode" json:"mode"`
	Purpose Purpose     `db:"purpose" json:"purpose"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
}

// NewPurchaseEntry builds a journal entry for money paid out to a vendor.
func NewPurchaseEntry(purchaseID, vendorID id.ID, amount types.Money, mode Mode, purpose Purpose) *Entry {
	return &Entry{
		ID:            id.New(),
		ReferenceType: RefPurchase,
		PurchaseID:    &purchaseID,
		PartyType:     PartyVendor,
		PartyID:       &vendorID,
		Amount:        amount,
		Mode:          mode,
		Purpose:       purpose,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewSaleEntry builds a journal entry for money received from a customer.
func NewSaleEntry(saleID, customerID id.ID, amount types.Money, mode Mode, purpose Purpose) *Entry {
	return &Entry{
		ID:            id.New(),
		ReferenceType: RefSale,
		SaleID:        &saleID,
		PartyType:     PartyCustomer,
		PartyID:       &customerID,
		Amount:        amount,
		Mode:          mode,
		Purpose:       purpose,
		CreatedAt:     time.Now().UTC(),
	}
}

// Validate checks journal invariants before insert.
func (e *Entry) Validate(ctx context.Context) error {
	if !e.Amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", e.Amount.String())
	}

	switch e.Mode {
	case ModeCash, ModeBankTransfer, ModeCheque, ModeUPI, ModeCard, ModeEMI:
	default:
		return apperror.NewValidation("invalid payment mode").
			WithDetail("field", "mode").
			WithDetail("value", string(e.Mode))
	}

	// An entry references exactly one ledger: never both, never neither.
	hasPurchase := e.PurchaseID != nil && !id.IsNil(*e.PurchaseID)
	hasSale := e.SaleID != nil && !id.IsNil(*e.SaleID)
	switch {
	case hasPurchase && hasSale:
		return apperror.NewValidation("payment must reference exactly one of purchase or sale").
			WithDetail("purchase_id", e.PurchaseID.String()).
			WithDetail("sale_id", e.SaleID.String())
	case !hasPurchase && !hasSale:
		return apperror.NewValidation("payment must reference a purchase or a sale")
	case hasPurchase && e.ReferenceType != RefPurchase:
		return apperror.NewValidation("reference type does not match purchase reference")
	case hasSale && e.ReferenceType != RefSale:
		return apperror.NewValidation("reference type does not match sale reference")
	}

	return nil
}
