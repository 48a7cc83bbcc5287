package payment

import (
	"context"

	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/types"
)

// Repository persists journal entries. Insert only; entries are never
// updated or deleted.
type Repository interface {
	// Append inserts a new entry.
	Append(ctx context.Context, entry *Entry) error

	// ListFor returns all entries for a ledger reference, newest first.
	ListFor(ctx context.Context, refType ReferenceType, refID id.ID) ([]*Entry, error)

	// SumFor returns the total recorded amount for a ledger reference.
	// Used for audit cross-checks, never as the balance read path.
	SumFor(ctx context.Context, refType ReferenceType, refID id.ID) (types.Money, error)
}
