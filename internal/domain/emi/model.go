// Package emi is the seam to the EMI schedule subsystem.
//
// For financed sales the remaining principal is owned by the schedule, not
// by the sale ledger row. Amortization math lives outside this service;
// only the lookup needed by the sale ledger's effective balance is modeled.
package emi

import (
	"time"

	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/types"
)

// Schedule holds the authoritative financing state for one sale.
type Schedule struct {
	ID      id.ID  `db:"id" json:"id"`
	OwnerID string `db:"owner_id" json:"-"`

	SaleID id.ID `db:"sale_id" json:"saleId"`

	// Principal is the financed amount (total minus down payment).
	Principal types.Money `db:"principal" json:"principal"`

	// RemainingPrincipal is the customer-facing amount still owed.
	RemainingPrincipal types.Money `db:"remaining_principal" json:"remainingPrincipal"`

	// Months is the tenure; MonthlyAmount the installment.
	Months        int         `db:"months" json:"months"`
	MonthlyAmount types.Money `db:"monthly_amount" json:"monthlyAmount"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
