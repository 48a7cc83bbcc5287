package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"dealerdesk/internal/domain/catalogs/vendor"
	"dealerdesk/internal/infrastructure/storage/postgres"
)

const vendorTable = "cat_vendors"

// VendorRepo implements vendor.Repository.
type VendorRepo struct {
	*BaseCatalogRepo[*vendor.Vendor]
}

var _ vendor.Repository = (*VendorRepo)(nil)

// NewVendorRepo creates a new vendor repository.
func NewVendorRepo(txManager *postgres.TxManager) *VendorRepo {
	return &VendorRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*vendor.Vendor](
			txManager,
			vendorTable,
			postgres.ExtractDBColumns[vendor.Vendor](),
			func() *vendor.Vendor { return &vendor.Vendor{} },
		),
	}
}

// FindByPhone retrieves a live vendor by phone number.
func (r *VendorRepo) FindByPhone(ctx context.Context, phone string) (*vendor.Vendor, error) {
	q, err := r.baseSelect(ctx)
	if err != nil {
		return nil, err
	}
	q = q.Where(squirrel.Eq{"phone": phone}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}
