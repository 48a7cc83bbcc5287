package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/security"
	"dealerdesk/internal/domain/emi"
	"dealerdesk/internal/infrastructure/storage/postgres"
)

const emiSchedulesTable = "reg_emi_schedules"

// EMIScheduleRepo implements emi.Repository.
type EMIScheduleRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ emi.Repository = (*EMIScheduleRepo)(nil)

// NewEMIScheduleRepo creates a new EMI schedule repository.
func NewEMIScheduleRepo(txManager *postgres.TxManager) *EMIScheduleRepo {
	return &EMIScheduleRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetBySaleID returns the schedule for a sale.
func (r *EMIScheduleRepo) GetBySaleID(ctx context.Context, saleID id.ID) (*emi.Schedule, error) {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	q := r.builder.
		Select(postgres.ExtractDBColumns[emi.Schedule]()...).
		From(emiSchedulesTable).
		Where(squirrel.Eq{"owner_id": owner}).
		Where(squirrel.Eq{"sale_id": saleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	schedule := &emi.Schedule{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, schedule, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(emiSchedulesTable, saleID.String())
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	return schedule, nil
}
