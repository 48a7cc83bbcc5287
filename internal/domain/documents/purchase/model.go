// Package purchase provides the vehicle acquisition ledger.
//
// A purchase ties one vehicle to one vendor and tracks the price, the
// amount paid so far and the open balance. The balance is denormalized on
// the row and mutated in the same transaction that appends the journal
// entry, so the two can never disagree.
package purchase

import (
	"context"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/entity"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/types"
	"dealerdesk/internal/domain/registers/payment"
)

// Purchase represents a vehicle acquisition from a vendor.
type Purchase struct {
	entity.Document

	// VehicleID references the acquired vehicle (one active purchase per vehicle)
	VehicleID id.ID `db:"vehicle_id" json:"vehicleId"`

	// VendorID is immutable after creation
	VendorID id.ID `db:"vendor_id" json:"vendorId"`

	// PurchasePrice is immutable once any payment exists
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// AmountPaid never exceeds PurchasePrice
	AmountPaid types.Money `db:"amount_paid" json:"amountPaid"`

	// BalanceAmount = PurchasePrice - AmountPaid, never negative
	BalanceAmount types.Money `db:"balance_amount" json:"balanceAmount"`

	// PaymentMode is the default instrument for this purchase
	PaymentMode payment.Mode `db:"payment_mode" json:"paymentMode"`
}

// NewPurchase creates a purchase for a vehicle with the full price open.
func NewPurchase(vehicleID, vendorID id.ID, price types.Money) *Purchase {
	return &Purchase{
		Document:      entity.NewDocument(),
		VehicleID:     vehicleID,
		VendorID:      vendorID,
		PurchasePrice: price,
		AmountPaid:    types.Zero(),
		BalanceAmount: price,
		PaymentMode:   payment.ModeCash,
	}
}

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.VehicleID) {
		return apperror.NewValidation("vehicle is required").
			WithDetail("field", "vehicleId")
	}
	if id.IsNil(p.VendorID) {
		return apperror.NewValidation("vendor is required").
			WithDetail("field", "vendorId")
	}
	if !p.PurchasePrice.IsPositive() {
		return apperror.NewValidation("purchase price must be positive").
			WithDetail("field", "purchasePrice").
			WithDetail("value", p.PurchasePrice.String())
	}
	if p.AmountPaid.IsNegative() {
		return apperror.NewValidation("amount paid cannot be negative").
			WithDetail("field", "amountPaid")
	}
	if p.AmountPaid.GreaterThan(p.PurchasePrice) {
		return apperror.NewOverpayment(p.AmountPaid.String(), p.PurchasePrice.String())
	}
	if !p.BalanceAmount.Equal(p.PurchasePrice.Sub(p.AmountPaid)) {
		return apperror.NewValidation("balance does not match price minus amount paid").
			WithDetail("balance", p.BalanceAmount.String())
	}

	return nil
}

// HasPayments reports whether any money has been paid against this purchase.
func (p *Purchase) HasPayments() bool {
	return p.AmountPaid.IsPositive()
}

// ApplyPayment records a payment against the open balance.
// Rejects amounts that are not positive or exceed the balance.
func (p *Purchase) ApplyPayment(amount types.Money) error {
	if !amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", amount.String())
	}
	if amount.GreaterThan(p.BalanceAmount) {
		return apperror.NewOverpayment(amount.String(), p.BalanceAmount.String())
	}

	p.AmountPaid = p.AmountPaid.Add(amount)
	p.BalanceAmount = p.BalanceAmount.Sub(amount)
	return nil
}

// IsSettled reports whether the full price has been paid.
func (p *Purchase) IsSettled() bool {
	return p.BalanceAmount.IsZero()
}
