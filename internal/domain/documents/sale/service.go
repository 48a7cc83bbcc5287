package sale

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
	"dealerdesk/internal/domain/emi"
	"dealerdesk/internal/domain/registers/payment"
	"dealerdesk/pkg/logger"
)

// NumeratorStrategy for sale documents.
const NumeratorStrategy = numerator.StrategyStrict

// VehicleStore is the slice of the vehicle repository the ledger needs.
type VehicleStore interface {
	GetForUpdate(ctx context.Context, vehicleID id.ID) (*vehicle.Vehicle, error)
	Update(ctx context.Context, v *vehicle.Vehicle) error
}

// CreateInput carries the fields for creating a sale.
type CreateInput struct {
	VehicleID    id.ID
	CustomerID   id.ID
	SellingPrice string
	Discount     string
	Tax          string
	Status       Status
	PaymentMode  payment.Mode
	AmountPaid   string
	IsEMI        bool
	DownPayment  string
	Date         *time.Time
	Notes        string
}

// UpdateInput carries the mutable fields of a sale.
// Vehicle, customer and the EMI flag are locked after creation.
type UpdateInput struct {
	SellingPrice *string
	Discount     *string
	Tax          *string
	Status       *Status
	PaymentMode  *payment.Mode
	Notes        *string
	Version      int
}

// PaymentInput carries the fields for recording a payment.
type PaymentInput struct {
	Amount string
	Mode   payment.Mode
}

// Service provides business operations for sale documents.
type Service struct {
	repo      Repository
	vehicles  VehicleStore
	journal   *payment.Journal
	schedules emi.Repository
	numerator numerator.Generator
	txManager tx.Manager
	auditor   audit.Recorder
	hooks     *domain.HookRegistry[*Sale]
}

// NewService creates a new sale service.
func NewService(
	repo Repository,
	vehicles VehicleStore,
	journal *payment.Journal,
	schedules emi.Repository,
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
		schedules: schedules,
		numerator: numerator,
		txManager: txManager,
		auditor:   auditor,
		hooks:     domain.NewHookRegistry[*Sale](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Sale] {
	return s.hooks
}

// Create records a vehicle sale. In one transaction: inserts the sale,
// moves the vehicle to sold (or reserved), and journals the upfront
// payment when one is given.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Sale, error) {
	price, err := types.ParseAmount(input.SellingPrice, "sellingPrice")
	if err != nil {
		return nil, err
	}
	discount := types.Zero()
	if input.Discount != "" {
		if discount, err = types.ParseAmount(input.Discount, "discount"); err != nil {
			return nil, err
		}
	}
	tax := types.Zero()
	if input.Tax != "" {
		if tax, err = types.ParseAmount(input.Tax, "tax"); err != nil {
			return nil, err
		}
	}

	doc := NewSale(input.VehicleID, input.CustomerID, price, discount, tax)
	doc.Notes = input.Notes
	doc.IsEMI = input.IsEMI
	if input.Date != nil {
		doc.Date = *input.Date
	}
	if input.Status != "" {
		doc.Status = input.Status
	}
	if input.PaymentMode != "" {
		doc.PaymentMode = input.PaymentMode
	} else if doc.IsEMI {
		doc.PaymentMode = payment.ModeEMI
	}

	// The upfront amount: the down payment for EMI sales, the paid
	// amount otherwise. It lands on the ledger row and in the journal
	// within the create transaction.
	upfront := types.Zero()
	if doc.IsEMI {
		if input.DownPayment != "" {
			if upfront, err = types.ParseAmount(input.DownPayment, "downPayment"); err != nil {
				return nil, err
			}
		}
		doc.DownPayment = upfront
	} else if input.AmountPaid != "" {
		if upfront, err = types.ParseAmount(input.AmountPaid, "amountPaid"); err != nil {
			return nil, err
		}
	}

	if upfront.IsNegative() {
		field := "amountPaid"
		if doc.IsEMI {
			field = "downPayment"
		}
		return nil, apperror.NewValidation("upfront amount must not be negative").
			WithDetail("field", field).
			WithDetail("value", upfront.String())
	}

	var entry *payment.Entry
	if upfront.IsPositive() {
		if upfront.GreaterThan(doc.TotalAmount) {
			return nil, apperror.NewOverpayment(upfront.String(), doc.TotalAmount.String())
		}
		doc.AmountPaid = upfront
		doc.BalanceAmount = doc.TotalAmount.Sub(upfront)
		entry = payment.NewSaleEntry(doc.ID, doc.CustomerID, upfront, doc.PaymentMode, payment.PurposeDownPayment)
	}

	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	if doc.Number == "" {
		cfg := numerator.DefaultConfig("SL")
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
		if !veh.IsPurchased() {
			return apperror.NewValidation("vehicle must be purchased before it can be sold").
				WithDetail("vehicleId", doc.VehicleID)
		}
		if err := veh.MarkSold(doc.Status.VehicleTarget()); err != nil {
			return err
		}

		if existing, err := s.repo.ActiveForVehicle(ctx, doc.VehicleID); err != nil {
			if !apperror.IsNotFound(err) {
				return err
			}
		} else if existing != nil {
			return apperror.NewConflict("vehicle already has an active sale").
				WithDetail("vehicleId", doc.VehicleID).
				WithDetail("saleId", existing.ID)
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := s.vehicles.Update(ctx, veh); err != nil {
			return fmt.Errorf("update vehicle: %w", err)
		}
		if entry != nil {
			if err := s.journal.Append(ctx, entry); err != nil {
				return fmt.Errorf("journal upfront payment: %w", err)
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

	logger.Info(ctx, "sale created",
		"id", doc.ID,
		"number", doc.Number,
		"vehicleId", doc.VehicleID,
		"total", doc.TotalAmount,
		"isEmi", doc.IsEMI)

	return doc, nil
}

// GetByID retrieves a sale.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Sale, error) {
	return s.repo.GetByID(ctx, docID)
}

// Update modifies a sale. The total and balance are recomputed from the
// patched amounts; a status change re-applies the vehicle transition.
func (s *Service) Update(ctx context.Context, docID id.ID, input UpdateInput) (*Sale, error) {
	var doc *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if doc.Version != input.Version {
			return apperror.NewConcurrentModification("sale", doc.ID)
		}

		price, discount, tax := doc.SellingPrice, doc.Discount, doc.Tax
		if input.SellingPrice != nil {
			if price, err = types.ParseAmount(*input.SellingPrice, "sellingPrice"); err != nil {
				return err
			}
		}
		if input.Discount != nil {
			if discount, err = types.ParseAmount(*input.Discount, "discount"); err != nil {
				return err
			}
		}
		if input.Tax != nil {
			if tax, err = types.ParseAmount(*input.Tax, "tax"); err != nil {
				return err
			}
		}
		if err := doc.SetAmounts(price, discount, tax); err != nil {
			return err
		}

		if input.Status != nil && *input.Status != doc.Status {
			if !input.Status.Valid() {
				return apperror.NewValidation("invalid sale status").
					WithDetail("field", "status").
					WithDetail("value", string(*input.Status))
			}
			veh, err := s.vehicles.GetForUpdate(ctx, doc.VehicleID)
			if err != nil {
				return err
			}
			if err := veh.MarkSold(input.Status.VehicleTarget()); err != nil {
				return err
			}
			if err := s.vehicles.Update(ctx, veh); err != nil {
				return fmt.Errorf("update vehicle: %w", err)
			}
			doc.Status = *input.Status
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

// AddPayment records a payment against the sale balance.
// EMI sales are always refused: their receivable lives in the schedule.
func (s *Service) AddPayment(ctx context.Context, docID id.ID, input PaymentInput) (*Sale, error) {
	amount, err := types.ParseAmount(input.Amount, "amount")
	if err != nil {
		return nil, err
	}
	mode := input.Mode

	var doc *Sale
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
			return fmt.Errorf("update sale: %w", err)
		}

		entry := payment.NewSaleEntry(doc.ID, doc.CustomerID, amount, mode, payment.PurposeBalance)
		if err := s.journal.Append(ctx, entry); err != nil {
			return fmt.Errorf("journal payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, doc, audit.ActionPayment)

	logger.Info(ctx, "sale payment recorded",
		"id", doc.ID,
		"amount", amount,
		"balance", doc.BalanceAmount)

	return doc, nil
}

// Payments returns the journal history for a sale, newest first, plus the
// journal total for cross-checking against the ledger row.
func (s *Service) Payments(ctx context.Context, docID id.ID) ([]*payment.Entry, types.Money, error) {
	if _, err := s.repo.GetByID(ctx, docID); err != nil {
		return nil, types.Zero(), err
	}
	entries, err := s.journal.ListFor(ctx, payment.RefSale, docID)
	if err != nil {
		return nil, types.Zero(), err
	}
	total, err := s.journal.SumFor(ctx, payment.RefSale, docID)
	if err != nil {
		return nil, types.Zero(), err
	}
	return entries, total, nil
}

// EffectiveBalance returns the amount the customer still owes.
// EMI sales defer to the schedule subsystem; without a schedule yet, and
// for cash sales, the ledger balance is authoritative.
func (s *Service) EffectiveBalance(ctx context.Context, docID id.ID) (types.Money, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return types.Zero(), err
	}
	if !doc.IsEMI {
		return doc.BalanceAmount, nil
	}

	schedule, err := s.schedules.GetBySaleID(ctx, doc.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return doc.BalanceAmount, nil
		}
		return types.Zero(), err
	}
	return schedule.RemainingPrincipal, nil
}

// Delete soft-deletes a sale and releases the vehicle back to stock.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	var doc *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := s.hooks.RunBeforeDelete(ctx, doc); err != nil {
			return err
		}

		veh, err := s.vehicles.GetForUpdate(ctx, doc.VehicleID)
		if err != nil {
			return err
		}
		veh.Release()
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

	logger.Info(ctx, "sale deleted", "id", docID)
	return nil
}

// List retrieves sales with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) record(ctx context.Context, doc *Sale, action audit.Action) {
	changes, err := json.Marshal(doc)
	if err != nil {
		logger.Warn(ctx, "marshal audit changes failed", "error", err)
		return
	}
	entry := audit.Entry{
		EntityType: "sale",
		EntityID:   doc.ID,
		Action:     action,
		Changes:    changes,
	}
	if err := s.auditor.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit record failed", "error", err)
	}
}
