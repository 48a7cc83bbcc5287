// Package sale provides the vehicle sale ledger.
//
// A sale ties one vehicle to one customer. The total is always computed
// server-side from price, discount and tax; the client never supplies it.
// For EMI sales the ledger row only tracks the down payment — the
// remaining principal belongs to the EMI schedule.
package sale

import (
	"context"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/entity"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/types"
	"dealerdesk/internal/domain/catalogs/vehicle"
	"dealerdesk/internal/domain/registers/payment"
)

// Status of a sale.
type Status string

const (
	// StatusCompleted means the vehicle left the lot.
	StatusCompleted Status = "completed"

	// StatusReserved means the vehicle is held for the customer.
	StatusReserved Status = "reserved"
)

// VehicleTarget maps a sale status to the vehicle lifecycle status it implies.
func (s Status) VehicleTarget() vehicle.Status {
	if s == StatusReserved {
		return vehicle.StatusReserved
	}
	return vehicle.StatusSold
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	return s == StatusCompleted || s == StatusReserved
}

// ComputeTotal derives the sale total from its parts.
// Kept pure so the invariant is testable without a document.
func ComputeTotal(price, discount, tax types.Money) types.Money {
	return price.Sub(discount).Add(tax)
}

// Sale represents a vehicle sale to a customer.
type Sale struct {
	entity.Document

	VehicleID  id.ID `db:"vehicle_id" json:"vehicleId"`
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`
	Discount     types.Money `db:"discount" json:"discount"`
	Tax          types.Money `db:"tax" json:"tax"`

	// TotalAmount = SellingPrice - Discount + Tax, recomputed on every write
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	AmountPaid    types.Money `db:"amount_paid" json:"amountPaid"`
	BalanceAmount types.Money `db:"balance_amount" json:"balanceAmount"`

	Status      Status       `db:"status" json:"status"`
	PaymentMode payment.Mode `db:"payment_mode" json:"paymentMode"`

	// IsEMI marks a financed sale. Immutable after creation.
	IsEMI bool `db:"is_emi" json:"isEmi"`

	// DownPayment is the upfront amount on an EMI sale
	DownPayment types.Money `db:"down_payment" json:"downPayment"`

	// EMIConfigured is set once the schedule subsystem has a schedule
	// for this sale
	EMIConfigured bool `db:"emi_configured" json:"emiConfigured"`
}

// NewSale creates a sale with the total derived from its parts.
func NewSale(vehicleID, customerID id.ID, price, discount, tax types.Money) *Sale {
	total := ComputeTotal(price, discount, tax)
	return &Sale{
		Document:      entity.NewDocument(),
		VehicleID:     vehicleID,
		CustomerID:    customerID,
		SellingPrice:  price,
		Discount:      discount,
		Tax:           tax,
		TotalAmount:   total,
		AmountPaid:    types.Zero(),
		BalanceAmount: total,
		Status:        StatusCompleted,
		PaymentMode:   payment.ModeCash,
	}
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.VehicleID) {
		return apperror.NewValidation("vehicle is required").
			WithDetail("field", "vehicleId")
	}
	if id.IsNil(s.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if !s.SellingPrice.IsPositive() {
		return apperror.NewValidation("selling price must be positive").
			WithDetail("field", "sellingPrice").
			WithDetail("value", s.SellingPrice.String())
	}
	if s.Discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount")
	}
	if s.Tax.IsNegative() {
		return apperror.NewValidation("tax cannot be negative").
			WithDetail("field", "tax")
	}
	if !s.Status.Valid() {
		return apperror.NewValidation("invalid sale status").
			WithDetail("field", "status").
			WithDetail("value", string(s.Status))
	}
	if !s.TotalAmount.Equal(ComputeTotal(s.SellingPrice, s.Discount, s.Tax)) {
		return apperror.NewValidation("total does not match price minus discount plus tax").
			WithDetail("total", s.TotalAmount.String())
	}
	if !s.TotalAmount.IsPositive() {
		return apperror.NewValidation("total must be positive").
			WithDetail("total", s.TotalAmount.String())
	}
	if s.AmountPaid.IsNegative() {
		return apperror.NewValidation("amount paid cannot be negative").
			WithDetail("field", "amountPaid")
	}
	if s.AmountPaid.GreaterThan(s.TotalAmount) {
		return apperror.NewOverpayment(s.AmountPaid.String(), s.TotalAmount.String())
	}
	if !s.BalanceAmount.Equal(s.TotalAmount.Sub(s.AmountPaid)) {
		return apperror.NewValidation("balance does not match total minus amount paid").
			WithDetail("balance", s.BalanceAmount.String())
	}
	if s.IsEMI && s.DownPayment.IsNegative() {
		return apperror.NewValidation("down payment cannot be negative").
			WithDetail("field", "downPayment")
	}

	return nil
}

// SetAmounts replaces price, discount and tax and recomputes the
// derived total and balance.
func (s *Sale) SetAmounts(price, discount, tax types.Money) error {
	total := ComputeTotal(price, discount, tax)
	if s.AmountPaid.GreaterThan(total) {
		return apperror.NewOverpayment(s.AmountPaid.String(), total.String())
	}
	s.SellingPrice = price
	s.Discount = discount
	s.Tax = tax
	s.TotalAmount = total
	s.BalanceAmount = total.Sub(s.AmountPaid)
	return nil
}

// ApplyPayment records a payment against the open balance.
// EMI sales never take payments through the ledger.
func (s *Sale) ApplyPayment(amount types.Money) error {
	if s.IsEMI {
		return apperror.NewEMISalePayment(s.ID)
	}
	if !amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", amount.String())
	}
	if amount.GreaterThan(s.BalanceAmount) {
		return apperror.NewOverpayment(amount.String(), s.BalanceAmount.String())
	}

	s.AmountPaid = s.AmountPaid.Add(amount)
	s.BalanceAmount = s.BalanceAmount.Sub(amount)
	return nil
}

// HasPayments reports whether any money has been received for this sale.
func (s *Sale) HasPayments() bool {
	return s.AmountPaid.IsPositive()
}

// IsSettled reports whether the ledger balance is zero.
func (s *Sale) IsSettled() bool {
	return s.BalanceAmount.IsZero()
}
