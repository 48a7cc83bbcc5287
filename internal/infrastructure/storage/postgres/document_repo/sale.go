package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/domain"
	"dealerdesk/internal/domain/documents/sale"
	"dealerdesk/internal/infrastructure/storage/postgres"
)

const saleTable = "doc_sales"

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sale.Sale]
}

var _ sale.Repository = (*SaleRepo)(nil)

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*sale.Sale](
			txManager,
			saleTable,
			postgres.ExtractDBColumns[sale.Sale](),
			func() *sale.Sale { return &sale.Sale{} },
		),
	}
}

// ActiveForVehicle returns the live sale for a vehicle.
func (r *SaleRepo) ActiveForVehicle(ctx context.Context, vehicleID id.ID) (*sale.Sale, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return nil, err
	}
	q = q.Where(squirrel.Eq{"vehicle_id": vehicleID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	doc := &sale.Sale{}
	if err := r.getOne(ctx, q, doc, vehicleID.String()); err != nil {
		return nil, err
	}
	return doc, nil
}

// HasActiveForCustomer reports whether any live sale references the customer.
func (r *SaleRepo) HasActiveForCustomer(ctx context.Context, customerID id.ID) (bool, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return false, err
	}
	q = q.Where(squirrel.Eq{"customer_id": customerID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	doc := &sale.Sale{}
	if err := r.getOne(ctx, q, doc, customerID.String()); err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List retrieves sales with document-specific filtering.
func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) (domain.ListResult[*sale.Sale], error) {
	return r.list(ctx, filter.ListFilter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.CustomerID != nil {
			q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
		}
		if filter.VehicleID != nil {
			q = q.Where(squirrel.Eq{"vehicle_id": *filter.VehicleID})
		}
		if filter.Status != nil {
			q = q.Where(squirrel.Eq{"status": *filter.Status})
		}
		if filter.IsEMI != nil {
			q = q.Where(squirrel.Eq{"is_emi": *filter.IsEMI})
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
