// Package tx defines the transaction contract the ledgers depend on.
// The Postgres implementation lives in infrastructure/storage/postgres;
// domain services only ever see this interface.
package tx

import "context"

// Manager runs a function inside a database transaction.
//
// Every multi-write ledger operation (insert purchase + flip vehicle +
// journal payment, convert lead + insert counterparty) goes through
// RunInTransaction so the writes commit or roll back together. A nested
// call joins the transaction already carried in ctx instead of opening
// a second one.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
