package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"dealerdesk/internal/core/tx"
	"dealerdesk/pkg/logger"
)

var tracer = otel.Tracer("dealerdesk/tx")

var _ tx.Manager = (*TxManager)(nil)

// statementTimeout bounds every statement inside a ledger transaction.
// A wedged query must not hold the vehicle row lock indefinitely.
const statementTimeout = 30 * time.Second

// TxManager implements tx.Manager on a pgx pool. The open transaction
// travels in the context, so repositories called from inside
// RunInTransaction hit the same transaction without knowing about it,
// and a nested RunInTransaction joins it instead of deadlocking.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a transaction manager over the pool.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{pool: pool.Pool}
}

type txKey struct{}

// RunInTransaction executes fn within a read-committed transaction.
// A transaction already present in ctx is reused.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(attribute.String("tx.isolation", string(pgx.ReadCommitted))))
	defer span.End()

	if m.currentTx(ctx) != nil {
		return fn(ctx)
	}
	return m.begin(ctx, fn)
}

func (m *TxManager) begin(ctx context.Context, fn func(ctx context.Context) error) error {
	dbTx, err := m.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := dbTx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", statementTimeout.Milliseconds())); err != nil {
		_ = dbTx.Rollback(ctx)
		return fmt.Errorf("set statement_timeout: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, dbTx)
	if err := fn(txCtx); err != nil {
		// Roll back on a background context so a cancelled request
		// still releases its locks.
		if rbErr := dbTx.Rollback(context.Background()); rbErr != nil {
			logger.Error(ctx, "rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (m *TxManager) currentTx(ctx context.Context) pgx.Tx {
	if dbTx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return dbTx
	}
	return nil
}

// Querier is the query surface repositories run against. Inside a
// transaction it is the transaction; outside it is the pool.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the active transaction from ctx, or the pool.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if dbTx := m.currentTx(ctx); dbTx != nil {
		return dbTx
	}
	return m.pool
}
