package customer

import (
	"context"
	"fmt"
	"time"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/numerator"
	"dealerdesk/internal/core/tx"
	"dealerdesk/internal/domain"
)

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// ActiveSaleChecker reports whether an active sale references a customer.
type ActiveSaleChecker interface {
	HasActiveForCustomer(ctx context.Context, customerID id.ID) (bool, error)
}

// GuardReferences refuses deletion of customers referenced by an
// active sale. Soft-deleted sales do not count.
func (s *Service) GuardReferences(sales ActiveSaleChecker) {
	s.Hooks().OnBeforeDelete(func(ctx context.Context, c *Customer) error {
		referenced, err := sales.HasActiveForCustomer(ctx, c.ID)
		if err != nil {
			return err
		}
		if referenced {
			return apperror.NewConflict("customer is referenced by an active sale").
				WithDetail("customerId", c.ID)
		}
		return nil
	})
}

// prepareForCreate handles code generation before create.
func (s *Service) prepareForCreate(ctx context.Context, c *Customer) error {
	if c.Code == "" {
		cfg := numerator.DefaultConfig("CUS")
		code, err := s.Numerator().GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	}
	return nil
}
