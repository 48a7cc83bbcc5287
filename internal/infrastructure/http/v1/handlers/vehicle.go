package handlers

import (
	"dealerdesk/internal/domain/catalogs/vehicle"
	"dealerdesk/internal/infrastructure/http/v1/dto"
)

// Type alias keeps handler signatures readable.
type VehicleHTTPHandler = CatalogHandler[
	*vehicle.Vehicle,
	dto.CreateVehicleRequest,
	dto.UpdateVehicleRequest,
]

// NewVehicleHandler wires the generic catalog handler for vehicles.
// DTO mapping lives here, next to the entity it maps.
func NewVehicleHandler(
	base *BaseHandler,
	service *vehicle.Service,
) *VehicleHTTPHandler {
	config := CatalogHandlerConfig[
		*vehicle.Vehicle,
		dto.CreateVehicleRequest,
		dto.UpdateVehicleRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "vehicle",

		MapCreateDTO: func(req dto.CreateVehicleRequest) (*vehicle.Vehicle, error) {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateVehicleRequest, existing *vehicle.Vehicle) (*vehicle.Vehicle, error) {
			if err := req.ApplyTo(existing); err != nil {
				return nil, err
			}
			return existing, nil
		},

		MapToDTO: func(entity *vehicle.Vehicle) any {
			return dto.FromVehicle(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
