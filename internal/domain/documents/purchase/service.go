package purchase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/numerator"
	"dealerdesk/internal/core/tx"
	"dealerdesk/internal/core/types"
	"dealerdesk/internal/domain"
	"dealerdesk/internal/domain/audit"
	"dealerdesk/internal/domain/catalogs/vehicle"
	"dealerdesk/internal/domain/registers/payment"
	"dealerdesk/pkg/logger"
)

// NumeratorStrategy for purchase documents. Strict keeps numbers
// collision-free per period; a number taken before a failed create
// may still leave a gap.
const NumeratorStrategy = numerator.StrategyStrict

// VehicleStore is the slice of the vehicle repository the ledger needs.
type VehicleStore interface {
	GetForUpdate(ctx context.Context, vehicleID id.ID) (*vehicle.Vehicle, error)
	Update(ctx context.Context, v *vehicle.Vehicle) error
}

// CreateInput carries the fields for creating a purchase.
type CreateInput struct {
	VehicleID      id.ID
	VendorID       id.ID
	PurchasePrice  string
	InitialPayment string
	PaymentMode    payment.Mode
	Date           *time.Time
	Notes          string
}

// PaymentInput carries the fields for recording a payment.
type PaymentInput struct {
	Amount string
	Mode   payment.Mode
}

// Service provides business operations for purchase documents.
// Every balance mutation runs in one transaction together with its
// journal entry.
type Service struct {
	repo      Repository
	vehicles  VehicleStore
	journal   *payment.Journal
	numerator numerator.Generator
	txManager tx.Manager
	auditor   audit.Recorder
	hooks     *domain.HookRegistry[*Purchase]
}

// NewService creates a new purchase service.
func NewService(
	repo Repository,
	vehicles VehicleStore,
	journal *payment.Journal,
	numerator numerator.Generator,
	txManager tx.Manager,
	auditor audit.Recorder,
) *Service {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	return &Service{
		repo:      repo,
		vehicles:  vehicles,
		journal:   journal,
		numerator: numerator,
		txManager: txManager,
		auditor:   auditor,
		hooks:     domain.NewHookRegistry[*Purchase](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Purchase] {
	return s.hooks
}

// Create records a vehicle acquisition. In one transaction: inserts the
// purchase, moves the vehicle to purchased, and journals the initial
// payment when one is given.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Purchase, error) {
	price, err := types.ParseAmount(input.PurchasePrice, "purchasePrice")
	if err != nil {
		return nil, err
	}

	doc := NewPurchase(input.VehicleID, input.VendorID, price)
	doc.Notes = input.Notes
	if input.Date != nil {
		doc.Date = *input.Date
	}
	if input.PaymentMode != "" {
		doc.PaymentMode = input.PaymentMode
	}

	var initial *payment.Entry
	if input.InitialPayment != "" {
		amount, err := types.ParseAmount(input.InitialPayment, "initialPayment")
		if err != nil {
			return nil, err
		}
		if amount.IsNegative() {
			return nil, apperror.NewValidation("initial payment must not be negative").
				WithDetail("field", "initialPayment").
				WithDetail("value", amount.String())
		}
		if amount.IsPositive() {
			if err := doc.ApplyPayment(amount); err != nil {
				return nil, err
			}
			initial = payment.NewPurchaseEntry(doc.ID, doc.VendorID, amount, doc.PaymentMode, payment.PurposeInitial)
		}
	}

	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	if doc.Number == "" {
		cfg := numerator.DefaultConfig("PUR")
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
		if err != nil {
			return nil, fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		veh, err := s.vehicles.GetForUpdate(ctx, doc.VehicleID)
		if err != nil {
			return err
		}
		if err := veh.MarkPurchased(doc.VendorID, doc.PurchasePrice); err != nil {
			return err
		}

		if existing, err := s.repo.ActiveForVehicle(ctx, doc.VehicleID); err != nil {
			if !apperror.IsNotFound(err) {
				return err
			}
		} else if existing != nil {
			return apperror.NewConflict("vehicle already has an active purchase").
				WithDetail("vehicleId", doc.VehicleID).
				WithDetail("purchaseId", existing.ID)
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		if err := s.vehicles.Update(ctx, veh); err != nil {
			return fmt.Errorf("update vehicle: %w", err)
		}
		if initial != nil {
			if err := s.journal.Append(ctx, initial); err != nil {
				return fmt.Errorf("journal initial payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}
	s.record(ctx, doc, audit.ActionCreate)

	logger.Info(ctx, "purchase created",
		"id", doc.ID,
		"number", doc.Number,
		"vehicleId", doc.VehicleID,
		"balance", doc.BalanceAmount)

	return doc, nil
}

// GetByID retrieves a purchase.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Purchase, error) {
	return s.repo.GetByID(ctx, docID)
}

// UpdateInput carries the mutable fields of a purchase.
// Vehicle and vendor are locked for the life of the document; the price
// is locked once any payment exists.
type UpdateInput struct {
	PurchasePrice *string
	PaymentMode   *payment.Mode
	Notes         *string
	Version       int
}

// Update modifies a purchase. Only notes, payment mode and (while
// unpaid) the price are mutable.
func (s *Service) Update(ctx context.Context, docID id.ID, input UpdateInput) (*Purchase, error) {
	var doc *Purchase
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if doc.Version != input.Version {
			return apperror.NewConcurrentModification("purchase", doc.ID)
		}

		if input.PurchasePrice != nil {
			price, err := types.ParseAmount(*input.PurchasePrice, "purchasePrice")
			if err != nil {
				return err
			}
			if !price.Equal(doc.PurchasePrice) {
				if doc.HasPayments() {
					return apperror.NewValidation("purchase price cannot change once payments exist").
						WithDetail("field", "purchasePrice").
						WithDetail("amountPaid", doc.AmountPaid.String())
				}
				doc.PurchasePrice = price
				doc.BalanceAmount = price.Sub(doc.AmountPaid)

				veh, err := s.vehicles.GetForUpdate(ctx, doc.VehicleID)
				if err != nil {
					return err
				}
				veh.PurchasePrice = price
				if err := s.vehicles.Update(ctx, veh); err != nil {
					return fmt.Errorf("update vehicle: %w", err)
				}
			}
		}
		if input.PaymentMode != nil {
			doc.PaymentMode = *input.PaymentMode
		}
		if input.Notes != nil {
			doc.Notes = *input.Notes
		}

		if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
			return err
		}
		if err := doc.Validate(ctx); err != nil {
			return err
		}

		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, doc, audit.ActionUpdate)
	return doc, nil
}

// AddPayment records a payment against the purchase balance.
// The ledger row and the journal entry commit atomically; the updated
// snapshot is returned so callers never read a stale balance.
func (s *Service) AddPayment(ctx context.Context, docID id.ID, input PaymentInput) (*Purchase, error) {
	amount, err := types.ParseAmount(input.Amount, "amount")
	if err != nil {
		return nil, err
	}
	mode := input.Mode

	var doc *Purchase
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if mode == "" {
			mode = doc.PaymentMode
		}

		if err := doc.ApplyPayment(amount); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update purchase: %w", err)
		}

		entry := payment.NewPurchaseEntry(doc.ID, doc.VendorID, amount, mode, payment.PurposeBalance)
		if err := s.journal.Append(ctx, entry); err != nil {
			return fmt.Errorf("journal payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, doc, audit.ActionPayment)

	logger.Info(ctx, "purchase payment recorded",
		"id", doc.ID,
		"amount", amount,
		"balance", doc.BalanceAmount)

	return doc, nil
}

// Payments returns the journal history for a purchase, newest first, plus
// the journal total for cross-checking against the ledger row.
func (s *Service) Payments(ctx context.Context, docID id.ID) ([]*payment.Entry, types.Money, error) {
	if _, err := s.repo.GetByID(ctx, docID); err != nil {
		return nil, types.Zero(), err
	}
	entries, err := s.journal.ListFor(ctx, payment.RefPurchase, docID)
	if err != nil {
		return nil, types.Zero(), err
	}
	total, err := s.journal.SumFor(ctx, payment.RefPurchase, docID)
	if err != nil {
		return nil, types.Zero(), err
	}
	return entries, total, nil
}

// Delete soft-deletes a purchase and reverts the vehicle to a listing.
// Refused while any payment is recorded against the document.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	var doc *Purchase
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if doc.HasPayments() {
			return apperror.NewHasPayments(doc.ID, doc.AmountPaid.String())
		}
		if err := s.hooks.RunBeforeDelete(ctx, doc); err != nil {
			return err
		}

		veh, err := s.vehicles.GetForUpdate(ctx, doc.VehicleID)
		if err != nil {
			return err
		}
		veh.RevertToListing()
		if err := s.vehicles.Update(ctx, veh); err != nil {
			return fmt.Errorf("update vehicle: %w", err)
		}

		return s.repo.Delete(ctx, docID)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterDelete(ctx, doc); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}
	s.record(ctx, doc, audit.ActionDelete)

	logger.Info(ctx, "purchase deleted", "id", docID)
	return nil
}

// List retrieves purchases with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Purchase], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) record(ctx context.Context, doc *Purchase, action audit.Action) {
	changes, err := json.Marshal(doc)
	if err != nil {
		logger.Warn(ctx, "marshal audit changes failed", "error", err)
		return
	}
	entry := audit.Entry{
		EntityType: "purchase",
		EntityID:   doc.ID,
		Action:     action,
		Changes:    changes,
	}
	if err := s.auditor.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit record failed", "error", err)
	}
}
