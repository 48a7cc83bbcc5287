package purchase

import (
	"context"
	"time"

	"dealerdesk/internal/core/id"
	"dealerdesk/internal/domain"
)

// Repository defines operations for purchase documents.
type Repository interface {
	Create(ctx context.Context, doc *Purchase) error
	GetByID(ctx context.Context, docID id.ID) (*Purchase, error)
	GetByNumber(ctx context.Context, number string) (*Purchase, error)
	Update(ctx context.Context, doc *Purchase) error
	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Purchase], error)

	// GetForUpdate retrieves a purchase with a row lock.
	// Payments and deletes read through this inside the transaction.
	GetForUpdate(ctx context.Context, docID id.ID) (*Purchase, error)

	// ActiveForVehicle returns the non-deleted purchase for a vehicle, if any.
	ActiveForVehicle(ctx context.Context, vehicleID id.ID) (*Purchase, error)
}

// ListFilter for filtering purchases.
type ListFilter struct {
	domain.ListFilter

	VendorID  *id.ID
	VehicleID *id.ID
	Settled   *bool
	DateFrom  *time.Time
	DateTo    *time.Time
}
