// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories. Every query is scoped to the owner account carried in
// the request context; cross-account reads are impossible by construction.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/security"
	"dealerdesk/internal/domain"
	"dealerdesk/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T any] struct {
	txManager  *postgres.TxManager
	tableName  string
	selectCols []string
	newFn      func() T
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T any](
	txManager *postgres.TxManager,
	tableName string,
	selectCols []string,
	newFn func() T,
) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txManager:  txManager,
		tableName:  tableName,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// rowData maps the entity's tagged fields onto the table's columns.
func (r *BaseCatalogRepo[T]) rowData(entity T) (map[string]any, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return nil, fmt.Errorf("no db tags found in entity")
	}
	row := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			row[col] = val
		}
	}
	return row, nil
}

// Create inserts a new entity using its "db" tags.
// The owner column is always taken from context, never from the entity.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, entity T) error {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return err
	}

	row, err := r.rowData(entity)
	if err != nil {
		return err
	}
	row["owner_id"] = owner

	q := r.Builder().
		Insert(r.tableName).
		SetMap(row)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("record with this code already exists").
				WithDetail("entity", r.tableName).
				WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}

	return nil
}

// Update modifies an existing entity with optimistic locking.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, entity T) error {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return err
	}

	row, err := r.rowData(entity)
	if err != nil {
		return err
	}

	entityID, ok := row["id"]
	if !ok {
		return fmt.Errorf("entity has no 'id' field with db tag")
	}

	version, ok := row["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	// id, owner and version are immutable; version moves only via the
	// increment below.
	delete(row, "id")
	delete(row, "owner_id")
	delete(row, "version")

	// The version WHERE implements the optimistic lock: an update racing
	// ahead of us bumps the version and this statement matches no rows.
	q := r.Builder().
		Update(r.tableName).
		SetMap(row).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"owner_id": owner}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.tableName, entityID)
	}

	// Sync the in-memory version with the row
	if v, ok := any(entity).(interface{ SetVersion(int) }); ok {
		v.SetVersion(version + 1)
	}

	return nil
}

// baseSelect creates an owner-scoped SELECT builder.
func (r *BaseCatalogRepo[T]) baseSelect(ctx context.Context) (squirrel.SelectBuilder, error) {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return squirrel.SelectBuilder{}, err
	}
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"owner_id": owner}), nil
}

// getOne scans a single row into dest. key only labels the not-found error.
func (r *BaseCatalogRepo[T]) getOne(ctx context.Context, q squirrel.SelectBuilder, dest any, key string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, dest, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return apperror.NewNotFound(r.tableName, key)
		}
		return fmt.Errorf("get %s: %w", r.tableName, err)
	}
	return nil
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity := r.newFn()

	q, err := r.baseSelect(ctx)
	if err != nil {
		return entity, err
	}
	q = q.Where(squirrel.Eq{"id": entityID}).Limit(1)

	if err := r.getOne(ctx, q, entity, entityID.String()); err != nil {
		return entity, err
	}
	return entity, nil
}

// GetByCode retrieves a live entity by its business code.
func (r *BaseCatalogRepo[T]) GetByCode(ctx context.Context, code string) (T, error) {
	entity := r.newFn()

	q, err := r.baseSelect(ctx)
	if err != nil {
		return entity, err
	}
	q = q.Where(squirrel.Eq{"code": code}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	if err := r.getOne(ctx, q, entity, code); err != nil {
		return entity, err
	}
	return entity, nil
}

// List retrieves entities with filtering and pagination.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q, err := r.baseSelect(ctx)
	if err != nil {
		return result, err
	}

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	// Count total (before pagination)
	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}

// Exists checks if entity exists.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return r.existsWhere(ctx, squirrel.Eq{"id": entityID})
}

// ExistsByCode checks if a live entity with given code exists.
func (r *BaseCatalogRepo[T]) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return r.existsWhere(ctx, squirrel.Eq{"code": code}, squirrel.Eq{"deletion_mark": false})
}

// existsWhere probes for an owner-scoped row matching all conditions.
func (r *BaseCatalogRepo[T]) existsWhere(ctx context.Context, conds ...squirrel.Sqlizer) (bool, error) {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return false, err
	}

	q := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"owner_id": owner}).
		Limit(1)
	for _, c := range conds {
		q = q.Where(c)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.tableName, err)
	}
	return true, nil
}

// Delete performs a soft delete by setting the deletion mark.
// Rows are never physically removed: documents keep their references.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return err
	}

	q := r.Builder().
		Update(r.tableName).
		Set("deletion_mark", true).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"owner_id": owner})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute delete %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entityID.String())
	}

	return nil
}

// GetForUpdate retrieves an entity and locks its row for the enclosing
// transaction.
func (r *BaseCatalogRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (T, error) {
	entity := r.newFn()

	q, err := r.baseSelect(ctx)
	if err != nil {
		return entity, err
	}
	q = q.Where(squirrel.Eq{"id": entityID}).Suffix("FOR UPDATE")

	if err := r.getOne(ctx, q, entity, entityID.String()); err != nil {
		return entity, err
	}
	return entity, nil
}

// FindOne runs a caller-built SELECT and returns a single entity.
func (r *BaseCatalogRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder) (T, error) {
	entity := r.newFn()
	if err := r.getOne(ctx, q, entity, "matching query"); err != nil {
		return entity, err
	}
	return entity, nil
}

func (r *BaseCatalogRepo[T]) parseOrderBy(orderBy string) (string, error) {
	allowed := make(map[string]struct{}, len(r.selectCols)+2)
	for _, col := range r.selectCols {
		allowed[col] = struct{}{}
	}
	allowed["id"] = struct{}{}
	allowed["created_at"] = struct{}{}

	if orderBy == "" {
		return "name ASC", nil
	}

	// Support "-field" for DESC.
	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	return field + " " + direction, nil
}
