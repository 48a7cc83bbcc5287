// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"fmt"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/entity"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/numerator"
	"dealerdesk/internal/core/tx"
)

// CatalogService provides business logic for catalog entities.
type CatalogService[T entity.Validatable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	numerator numerator.Generator
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	Numerator  numerator.Generator
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		numerator:  cfg.Numerator,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// Numerator returns the configured code generator (for per-entity hooks).
func (s *CatalogService[T]) Numerator() numerator.Generator {
	return s.numerator
}

// inTx runs op inside a transaction, labelling failures with the verb and
// entity name.
func (s *CatalogService[T]) inTx(ctx context.Context, verb string, op func(context.Context) error) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			return fmt.Errorf("%s %s: %w", verb, s.entityName, err)
		}
		return nil
	})
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	// If entity already returns structured AppError, keep it.
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	// Preserve existing AppError, but ensure not-found is mapped to the correct entity name.
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, idOrCode)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", idOrCode)
}

// Create validates the entity, runs before-create hooks and persists it.
// After-create hooks run outside the transaction, best-effort.
func (s *CatalogService[T]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}
	if err := s.hooks.RunBeforeCreate(ctx, entity); err != nil {
		return err
	}

	err := s.inTx(ctx, "create", func(ctx context.Context) error {
		return s.repo.Create(ctx, entity)
	})
	if err != nil {
		return err
	}

	_ = s.hooks.RunAfterCreate(ctx, entity)
	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return entity, s.normalizeGetErr(err, entityID.String())
	}
	return entity, nil
}

// GetByCode retrieves entity by code.
func (s *CatalogService[T]) GetByCode(ctx context.Context, code string) (T, error) {
	entity, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return entity, s.normalizeGetErr(err, code)
	}
	return entity, nil
}

// Update validates the entity, runs before-update hooks and writes it with
// optimistic locking.
func (s *CatalogService[T]) Update(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}
	if err := s.hooks.RunBeforeUpdate(ctx, entity); err != nil {
		return err
	}

	err := s.inTx(ctx, "update", func(ctx context.Context) error {
		return s.repo.Update(ctx, entity)
	})
	if err != nil {
		return err
	}

	_ = s.hooks.RunAfterUpdate(ctx, entity)
	return nil
}

// Delete soft-deletes an entity. The entity is loaded first so delete hooks
// can inspect it (reference guards, cleanup).
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}
	if err := s.hooks.RunBeforeDelete(ctx, entity); err != nil {
		return err
	}

	err = s.inTx(ctx, "delete", func(ctx context.Context) error {
		return s.repo.Delete(ctx, entityID)
	})
	if err != nil {
		return err
	}

	_ = s.hooks.RunAfterDelete(ctx, entity)
	return nil
}

// List retrieves entities with filtering and pagination.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}
