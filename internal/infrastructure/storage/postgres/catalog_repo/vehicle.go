package catalog_repo

import (
	"dealerdesk/internal/domain/catalogs/vehicle"
	"dealerdesk/internal/infrastructure/storage/postgres"
)

const vehicleTable = "cat_vehicles"

// VehicleRepo implements vehicle.Repository.
type VehicleRepo struct {
	*BaseCatalogRepo[*vehicle.Vehicle]
}

var _ vehicle.Repository = (*VehicleRepo)(nil)

// NewVehicleRepo creates a new vehicle repository.
func NewVehicleRepo(txManager *postgres.TxManager) *VehicleRepo {
	return &VehicleRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*vehicle.Vehicle](
			txManager,
			vehicleTable,
			postgres.ExtractDBColumns[vehicle.Vehicle](),
			func() *vehicle.Vehicle { return &vehicle.Vehicle{} },
		),
	}
}
