package vehicle

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

// Service provides business logic for the Vehicle catalog.
// Lifecycle transitions driven by money movement (purchased, sold, released)
// belong to the purchase and sale ledgers; this service covers direct CRUD
// and rejects edits that try to take those transitions by hand.
type Service struct {
	*domain.CatalogService[*Vehicle]
	repo Repository
}

// NewService creates a new Vehicle service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Vehicle]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "vehicle",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.guardLifecycleFields)

	return svc
}

// prepareForCreate generates a code when none was provided.
func (s *Service) prepareForCreate(ctx context.Context, v *Vehicle) error {
	if v.Code == "" {
		cfg := numerator.DefaultConfig("VEH")
		code, err := s.Numerator().GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		v.Code = code
	}

	// New vehicles always start as in-stock listings; acquisitions go
	// through the purchase ledger.
	if v.PurchaseStatus == "" {
		v.PurchaseStatus = PurchaseListing
	}
	if v.Status == "" {
		v.Status = StatusInStock
	}
	return nil
}

// guardLifecycleFields rejects direct edits of ledger-owned state.
// Status "sold"/"reserved" and the purchased flag are derived from the
// sale and purchase ledgers, never set by hand.
func (s *Service) guardLifecycleFields(ctx context.Context, v *Vehicle) error {
	current, err := s.repo.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}

	if v.Status != current.Status {
		return apperror.NewForbiddenTransition("vehicle", string(current.Status), string(v.Status)).
			WithDetail("reason", "status is derived from the sale ledger")
	}

	if v.PurchaseStatus != current.PurchaseStatus {
		return apperror.NewForbiddenTransition("vehicle", string(current.PurchaseStatus), string(v.PurchaseStatus)).
			WithDetail("reason", "purchase status is derived from the purchase ledger")
	}

	// Vendor attachment follows the purchase ledger as well.
	if !sameVendor(current.VendorID, v.VendorID) {
		return apperror.NewForbiddenTransition("vehicle", "vendor", "vendor").
			WithDetail("reason", "vendor is managed by the purchase ledger")
	}

	// Purchase price is locked once an acquisition exists.
	if current.IsPurchased() && !current.PurchasePrice.Equal(v.PurchasePrice) {
		return apperror.NewBusinessRule(apperror.CodeForbiddenTransition,
			"purchase price is locked while a purchase is attached").
			WithDetail("vehicle_id", v.ID.String())
	}

	return nil
}

func sameVendor(a, b *id.ID) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return *a == *b
	}
}
