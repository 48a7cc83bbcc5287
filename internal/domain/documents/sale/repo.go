package sale

import (
	"context"
	"time"

	"dealerdesk/internal/core/id"
	"dealerdesk/internal/domain"
)

// Repository defines operations for sale documents.
type Repository interface {
	Create(ctx context.Context, doc *Sale) error
	GetByID(ctx context.Context, docID id.ID) (*Sale, error)
	GetByNumber(ctx context.Context, number string) (*Sale, error)
	Update(ctx context.Context, doc *Sale) error
	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error)

	// GetForUpdate retrieves a sale with a row lock.
	GetForUpdate(ctx context.Context, docID id.ID) (*Sale, error)

	// ActiveForVehicle returns the non-deleted sale for a vehicle, if any.
	ActiveForVehicle(ctx context.Context, vehicleID id.ID) (*Sale, error)
}

// ListFilter for filtering sales.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
	VehicleID  *id.ID
	Status     *Status
	IsEMI      *bool
	DateFrom   *time.Time
	DateTo     *time.Time
}
