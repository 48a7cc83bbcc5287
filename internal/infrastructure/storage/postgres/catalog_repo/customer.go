package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"dealerdesk/internal/domain/catalogs/customer"
	"dealerdesk/internal/infrastructure/storage/postgres"
)

const customerTable = "cat_customers"

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

var _ customer.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*customer.Customer](
			txManager,
			customerTable,
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// FindByPhone retrieves a live customer by phone number.
func (r *CustomerRepo) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return nil, err
	}
	q = q.Where(squirrel.Eq{"phone": phone}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}
