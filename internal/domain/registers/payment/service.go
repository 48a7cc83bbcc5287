package payment

import (
	"context"

	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/security"
	"dealerdesk/internal/core/types"
)

// Journal provides validated access to the payment journal.
type Journal struct {
	repo Repository
}

// NewJournal creates a new Journal.
func NewJournal(repo Repository) *Journal {
	return &Journal{repo: repo}
}

// Append validates and inserts an entry.
// Must be called inside the ledger transaction that mutates the balance,
// so the journal and the ledger row commit or roll back together.
func (j *Journal) Append(ctx context.Context, entry *Entry) error {
	if err := entry.Validate(ctx); err != nil {
		return err
	}
	if entry.CreatedBy == "" {
		entry.CreatedBy = security.UserID(ctx)
	}
	return j.repo.Append(ctx, entry)
}

// ListFor returns the payment history for a ledger reference, newest first.
func (j *Journal) ListFor(ctx context.Context, refType ReferenceType, refID id.ID) ([]*Entry, error) {
	return j.repo.ListFor(ctx, refType, refID)
}

// SumFor returns the total recorded amount for a ledger reference.
// Balances are read from the ledger rows; this is a cross-check over the
// journal itself.
func (j *Journal) SumFor(ctx context.Context, refType ReferenceType, refID id.ID) (types.Money, error) {
	return j.repo.SumFor(ctx, refType, refID)
}
