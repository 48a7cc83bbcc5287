package leads

import (
	"context"
	"encoding/json"
	"fmt"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/tx"
	"dealerdesk/internal/domain/audit"
	"dealerdesk/internal/domain/catalogs/customer"
	"dealerdesk/internal/domain/catalogs/vendor"
	"dealerdesk/pkg/logger"
)

// CustomerCreator is the slice of the customer service conversion needs.
type CustomerCreator interface {
	Create(ctx context.Context, c *customer.Customer) error
}

// VendorCreator is the slice of the vendor service conversion needs.
type VendorCreator interface {
	Create(ctx context.Context, v *vendor.Vendor) error
}

// ConversionResult reports what a convert call did.
type ConversionResult struct {
	Lead *Lead `json:"lead"`

	// AlreadyConverted is true when the lead was converted before this
	// call; the call is then a no-op and RefID points at the existing
	// counterparty.
	AlreadyConverted bool `json:"alreadyConverted"`

	// RefType is "customer" or "vendor"
	RefType string `json:"refType"`
	RefID   id.ID  `json:"refId"`
}

// ConversionService turns qualified leads into counterparties.
//
// The lead row is locked for the duration, and the counterparty insert
// plus the lead's converted flag commit in one transaction. A repeated
// convert therefore can neither duplicate the counterparty nor leave
// the lead half-converted.
type ConversionService struct {
	repo      Repository
	customers CustomerCreator
	vendors   VendorCreator
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewConversionService creates a new ConversionService.
func NewConversionService(
	repo Repository,
	customers CustomerCreator,
	vendors VendorCreator,
	txManager tx.Manager,
	auditor audit.Recorder,
) *ConversionService {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	return &ConversionService{
		repo:      repo,
		customers: customers,
		vendors:   vendors,
		txManager: txManager,
		auditor:   auditor,
	}
}

// Convert turns a lead into a customer (buying) or vendor (selling).
// Converting an already-converted lead is a no-op, not an error.
func (s *ConversionService) Convert(ctx context.Context, leadID id.ID) (*ConversionResult, error) {
	var result *ConversionResult

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		lead, err := s.repo.GetForUpdate(ctx, leadID)
		if err != nil {
			return err
		}

		if lead.Converted {
			refID := id.Nil()
			if lead.ConvertedRefID != nil {
				refID = *lead.ConvertedRefID
			}
			result = &ConversionResult{
				Lead:             lead,
				AlreadyConverted: true,
				RefType:          refTypeFor(lead.Type),
				RefID:            refID,
			}
			return nil
		}

		var refID id.ID
		switch lead.Type {
		case TypeBuying:
			c := customer.FromLead("", lead.Name, lead.Phone, lead.Email, lead.ID)
			if err := s.customers.Create(ctx, c); err != nil {
				return fmt.Errorf("create customer: %w", err)
			}
			refID = c.ID
		case TypeSelling:
			v := vendor.FromLead("", lead.Name, lead.Phone, lead.Email, lead.ID)
			if err := s.vendors.Create(ctx, v); err != nil {
				return fmt.Errorf("create vendor: %w", err)
			}
			refID = v.ID
		default:
			return apperror.NewValidation("lead type does not support conversion").
				WithDetail("field", "type").
				WithDetail("value", string(lead.Type))
		}

		if err := lead.MarkConverted(refID); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, lead); err != nil {
			return fmt.Errorf("update lead: %w", err)
		}

		result = &ConversionResult{
			Lead:    lead,
			RefType: refTypeFor(lead.Type),
			RefID:   refID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyConverted {
		s.record(ctx, result)
		logger.Info(ctx, "lead converted",
			"leadId", leadID,
			"refType", result.RefType,
			"refId", result.RefID)
	}

	return result, nil
}

func refTypeFor(t Type) string {
	if t == TypeSelling {
		return "vendor"
	}
	return "customer"
}

func (s *ConversionService) record(ctx context.Context, result *ConversionResult) {
	changes, err := json.Marshal(result)
	if err != nil {
		logger.Warn(ctx, "marshal audit changes failed", "error", err)
		return
	}
	entry := audit.Entry{
		EntityType: "lead",
		EntityID:   result.Lead.ID,
		Action:     audit.ActionConvert,
		Changes:    changes,
	}
	if err := s.auditor.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit record failed", "error", err)
	}
}
