// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"dealerdesk/internal/core/entity"
	"dealerdesk/internal/core/id"
)

// --- Filter & Pagination ---

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search performs substring search on searchable fields
	Search string

	// IDs filters by specific IDs
	IDs []id.ID

	// IncludeDeleted includes soft-deleted records
	IncludeDeleted bool

	// OrderBy specifies sorting: a column name, optionally prefixed with
	// "-" for descending (e.g., "name", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Repository Interfaces ---

// CatalogRepository defines CRUD operations for catalog entities.
// All operations are scoped to the owner account carried in context.
type CatalogRepository[T entity.Validatable] interface {
	// Create inserts a new entity
	Create(ctx context.Context, entity T) error

	// GetByID retrieves entity by ID
	GetByID(ctx context.Context, id id.ID) (T, error)

	// GetByCode retrieves entity by code (unique within owner account)
	GetByCode(ctx context.Context, code string) (T, error)

	// Update modifies existing entity (with optimistic locking)
	Update(ctx context.Context, entity T) error

	// Delete performs soft delete (sets deletion_mark=true).
	// Hard delete is intentionally not exposed.
	Delete(ctx context.Context, id id.ID) error

	// List retrieves entities with filtering and pagination
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)

	// Exists checks if entity with given ID exists
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// Registration and dispatch helpers for the lifecycle events services use.

func (r *HookRegistry[T]) OnBeforeCreate(h Hook[T]) { r.On(BeforeCreate, h) }
func (r *HookRegistry[T]) OnBeforeUpdate(h Hook[T]) { r.On(BeforeUpdate, h) }
func (r *HookRegistry[T]) OnBeforeDelete(h Hook[T]) { r.On(BeforeDelete, h) }

func (r *HookRegistry[T]) RunBeforeCreate(ctx context.Context, e T) error {
	return r.Run(ctx, BeforeCreate, e)
}
func (r *HookRegistry[T]) RunAfterCreate(ctx context.Context, e T) error {
	return r.Run(ctx, AfterCreate, e)
}
func (r *HookRegistry[T]) RunBeforeUpdate(ctx context.Context, e T) error {
	return r.Run(ctx, BeforeUpdate, e)
}
func (r *HookRegistry[T]) RunAfterUpdate(ctx context.Context, e T) error {
	return r.Run(ctx, AfterUpdate, e)
}
func (r *HookRegistry[T]) RunBeforeDelete(ctx context.Context, e T) error {
	return r.Run(ctx, BeforeDelete, e)
}
func (r *HookRegistry[T]) RunAfterDelete(ctx context.Context, e T) error {
	return r.Run(ctx, AfterDelete, e)
}
