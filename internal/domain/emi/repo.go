package emi

import (
	"context"

	"dealerdesk/internal/core/id"
)

// Repository is the read seam into the EMI schedule subsystem.
type Repository interface {
	// GetBySaleID returns the schedule for a sale.
	// Returns a NOT_FOUND error when the sale has no schedule yet.
	GetBySaleID(ctx context.Context, saleID id.ID) (*Schedule, error)
}
