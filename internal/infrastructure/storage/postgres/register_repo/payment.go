// Package register_repo provides PostgreSQL implementations for register
// repositories: the payment journal and the EMI schedule lookup.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/security"
	"dealerdesk/internal/core/types"
	"dealerdesk/internal/domain/registers/payment"
	"dealerdesk/internal/infrastructure/storage/postgres"
)

const paymentsTable = "reg_payments"

// PaymentRepo implements payment.Repository. Entries are append-only;
// there is no update or delete path.
type PaymentRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ payment.Repository = (*PaymentRepo)(nil)

// NewPaymentRepo creates a new payment journal repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts a new journal entry.
func (r *PaymentRepo) Append(ctx context.Context, entry *payment.Entry) error {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return err
	}

	data := postgres.StructToMap(entry)
	data["owner_id"] = owner

	q := r.builder.Insert(paymentsTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// ListFor returns all entries for a ledger reference, newest first.
func (r *PaymentRepo) ListFor(ctx context.Context, refType payment.ReferenceType, refID id.ID) ([]*payment.Entry, error) {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	q := r.builder.
		Select(postgres.ExtractDBColumns[payment.Entry]()...).
		From(paymentsTable).
		Where(squirrel.Eq{"owner_id": owner}).
		Where(squirrel.Eq{"reference_type": refType}).
		Where(referenceCondition(refType, refID)).
		OrderBy("created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*payment.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return entries, nil
}

// SumFor returns the total recorded amount for a ledger reference.
func (r *PaymentRepo) SumFor(ctx context.Context, refType payment.ReferenceType, refID id.ID) (types.Money, error) {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return types.Zero(), err
	}

	q := r.builder.
		Select("COALESCE(SUM(amount), 0)").
		From(paymentsTable).
		Where(squirrel.Eq{"owner_id": owner}).
		Where(squirrel.Eq{"reference_type": refType}).
		Where(referenceCondition(refType, refID))

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var total types.Money
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("sum payments: %w", err)
	}

	return total, nil
}

func referenceCondition(refType payment.ReferenceType, refID id.ID) squirrel.Eq {
	if refType == payment.RefSale {
		return squirrel.Eq{"sale_id": refID}
	}
	return squirrel.Eq{"purchase_id": refID}
}
