package leads

import (
	"context"

	"dealerdesk/internal/core/id"
	"dealerdesk/internal/domain"
)

// Repository defines the interface for Lead persistence.
type Repository interface {
	domain.CatalogRepository[*Lead]

	// GetForUpdate retrieves a lead with a row lock.
	// Conversion reads through this so concurrent converts serialize.
	GetForUpdate(ctx context.Context, leadID id.ID) (*Lead, error)
}
