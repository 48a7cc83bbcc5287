package vehicle

import (
	"context"

	"dealerdesk/internal/core/id"
	"dealerdesk/internal/domain"
)

// Repository defines the interface for Vehicle persistence.
type Repository interface {
	domain.CatalogRepository[*Vehicle]

	// GetForUpdate retrieves a vehicle with a row lock (for ledger transactions).
	GetForUpdate(ctx context.Context, id id.ID) (*Vehicle, error)
}
