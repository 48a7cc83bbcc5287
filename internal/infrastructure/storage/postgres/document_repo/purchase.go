package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/domain"
	"dealerdesk/internal/domain/documents/purchase"
	"dealerdesk/internal/infrastructure/storage/postgres"
)

const purchaseTable = "doc_purchases"

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.Purchase]
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*purchase.Purchase](
			txManager,
			purchaseTable,
			postgres.ExtractDBColumns[purchase.Purchase](),
			func() *purchase.Purchase { return &purchase.Purchase{} },
		),
	}
}

// ActiveForVehicle returns the live purchase for a vehicle.
func (r *PurchaseRepo) ActiveForVehicle(ctx context.Context, vehicleID id.ID) (*purchase.Purchase, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return nil, err
	}
	q = q.Where(squirrel.Eq{"vehicle_id": vehicleID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	doc := &purchase.Purchase{}
	if err := r.getOne(ctx, q, doc, vehicleID.String()); err != nil {
		return nil, err
	}
	return doc, nil
}

// HasActiveForVendor reports whether any live purchase references the vendor.
func (r *PurchaseRepo) HasActiveForVendor(ctx context.Context, vendorID id.ID) (bool, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return false, err
	}
	q = q.Where(squirrel.Eq{"vendor_id": vendorID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	doc := &purchase.Purchase{}
	if err := r.getOne(ctx, q, doc, vendorID.String()); err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List retrieves purchases with document-specific filtering.
func (r *PurchaseRepo) List(ctx context.Context, filter purchase.ListFilter) (domain.ListResult[*purchase.Purchase], error) {
	return r.list(ctx, filter.ListFilter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.VendorID != nil {
			q = q.Where(squirrel.Eq{"vendor_id": *filter.VendorID})
		}
		if filter.VehicleID != nil {
			q = q.Where(squirrel.Eq{"vehicle_id": *filter.VehicleID})
		}
		if filter.Settled != nil {
			if *filter.Settled {
				q = q.Where("balance_amount = 0")
			} else {
				q = q.Where("balance_amount > 0")
			}
		}
		if filter.DateFrom != nil {
			q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
		}
		if filter.DateTo != nil {
			q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
		}
		return q
	})
}
