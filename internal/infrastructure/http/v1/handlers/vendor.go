package handlers

import (
	"dealerdesk/internal/domain/catalogs/vendor"
	"dealerdesk/internal/infrastructure/http/v1/dto"
)

type VendorHTTPHandler = CatalogHandler[
	*vendor.Vendor,
	dto.CreateVendorRequest,
	dto.UpdateVendorRequest,
]

// NewVendorHandler wires the generic catalog handler for vendors.
func NewVendorHandler(
	base *BaseHandler,
	service *vendor.Service,
) *VendorHTTPHandler {
	config := CatalogHandlerConfig[
		*vendor.Vendor,
		dto.CreateVendorRequest,
		dto.UpdateVendorRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "vendor",

		MapCreateDTO: func(req dto.CreateVendorRequest) (*vendor.Vendor, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateVendorRequest, existing *vendor.Vendor) (*vendor.Vendor, error) {
			req.ApplyTo(existing)
			return existing, nil
		},

		MapToDTO: func(entity *vendor.Vendor) any {
			return dto.FromVendor(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
