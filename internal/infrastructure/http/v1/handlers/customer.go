package handlers

import (
	"dealerdesk/internal/domain/catalogs/customer"
	"dealerdesk/internal/infrastructure/http/v1/dto"
)

type CustomerHTTPHandler = CatalogHandler[
	*customer.Customer,
	dto.CreateCustomerRequest,
	dto.UpdateCustomerRequest,
]

// NewCustomerHandler wires the generic catalog handler for customers.
func NewCustomerHandler(
	base *BaseHandler,
	service *customer.Service,
) *CustomerHTTPHandler {
	config := CatalogHandlerConfig[
		*customer.Customer,
		dto.CreateCustomerRequest,
		dto.UpdateCustomerRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "customer",

		MapCreateDTO: func(req dto.CreateCustomerRequest) (*customer.Customer, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateCustomerRequest, existing *customer.Customer) (*customer.Customer, error) {
			req.ApplyTo(existing)
			return existing, nil
		},

		MapToDTO: func(entity *customer.Customer) any {
			return dto.FromCustomer(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
