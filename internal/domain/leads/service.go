package leads

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

// Service provides business logic for the Lead catalog.
type Service struct {
	*domain.CatalogService[*Lead]
	repo Repository
}

// NewService creates a new Lead service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Lead]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "lead",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.guardConversionFields)

	return svc
}

// prepareForCreate handles code generation and defaults before create.
func (s *Service) prepareForCreate(ctx context.Context, l *Lead) error {
	if l.Code == "" {
		cfg := numerator.DefaultConfig("LD")
		code, err := s.Numerator().GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		l.Code = code
	}
	if l.Status == "" {
		l.Status = StatusNew
	}
	return nil
}

// guardConversionFields rejects edits that bypass the state machine
// or the conversion flow.
func (s *Service) guardConversionFields(ctx context.Context, l *Lead) error {
	current, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}

	if current.Converted {
		return apperror.NewAlreadyConverted(current.ID)
	}
	if l.Converted || l.ConvertedRefID != nil {
		return apperror.NewValidation("conversion fields are set only by convert").
			WithDetail("field", "converted")
	}
	if l.Type != current.Type {
		return apperror.NewValidation("lead type cannot change").
			WithDetail("field", "type")
	}
	if l.Status != current.Status && !CanTransition(current.Status, l.Status) {
		return apperror.NewForbiddenTransition("lead", string(current.Status), string(l.Status))
	}
	return nil
}

// ChangeStatus moves a lead through the pipeline.
func (s *Service) ChangeStatus(ctx context.Context, leadID id.ID, to Status) (*Lead, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Converted {
		return nil, apperror.NewAlreadyConverted(lead.ID)
	}
	if err := lead.ChangeStatus(to); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}
