// Package document_repo provides PostgreSQL implementations for document
// repositories. As with catalogs, every query is scoped to the owner
// account carried in the request context.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/security"
	"dealerdesk/internal/domain"
	"dealerdesk/internal/infrastructure/storage/postgres"
)

// BaseDocumentRepo provides common CRUD operations for document entities.
// Embed this in specific document repositories.
type BaseDocumentRepo[T any] struct {
	txManager  *postgres.TxManager
	tableName  string
	selectCols []string
	newFn      func() T
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](
	txManager *postgres.TxManager,
	tableName string,
	selectCols []string,
	newFn func() T,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txManager:  txManager,
		tableName:  tableName,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// rowData maps the entity's tagged fields onto the table's columns.
func (r *BaseDocumentRepo[T]) rowData(entity T) (map[string]any, error) {
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

// Create inserts a new document. The owner column and the creator come
// from context, never from the caller.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, entity T) error {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return err
	}

	row, err := r.rowData(entity)
	if err != nil {
		return err
	}
	row["owner_id"] = owner
	if v, ok := row["created_by"].(string); ok && v == "" {
		row["created_by"] = security.UserID(ctx)
	}

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
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}

	return nil
}

// Update updates an existing document with optimistic locking.
func (r *BaseDocumentRepo[T]) Update(ctx context.Context, entity T) error {
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
		return fmt.Errorf("entity has no 'id' field")
	}

	version, ok := row["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	// Identity and creation audit are immutable; version and updated_at
	// move only via the expressions below.
	for _, col := range []string{"id", "owner_id", "created_at", "created_by", "version", "updated_at"} {
		delete(row, col)
	}
	row["updated_by"] = security.UserID(ctx)

	q := r.Builder().
		Update(r.tableName).
		SetMap(row).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
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

// Delete soft-deletes a document.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return err
	}

	q := r.Builder().
		Update(r.tableName).
		Set("deletion_mark", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Set("updated_by", security.UserID(ctx)).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"owner_id": owner})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entityID.String())
	}

	return nil
}

// baseSelect creates an owner-scoped SELECT builder.
func (r *BaseDocumentRepo[T]) baseSelect(ctx context.Context) (squirrel.SelectBuilder, error) {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return squirrel.SelectBuilder{}, err
	}
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"owner_id": owner}), nil
}

// GetByID retrieves a document by ID.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity := r.newFn()
	q, err := r.baseSelect(ctx)
	if err != nil {
		return entity, err
	}
	q = q.Where(squirrel.Eq{"id": entityID})

	if err := r.getOne(ctx, q, entity, entityID.String()); err != nil {
		return entity, err
	}
	return entity, nil
}

// GetByNumber retrieves a document by its business number.
func (r *BaseDocumentRepo[T]) GetByNumber(ctx context.Context, number string) (T, error) {
	entity := r.newFn()
	q, err := r.baseSelect(ctx)
	if err != nil {
		return entity, err
	}
	q = q.Where(squirrel.Eq{"number": number})

	if err := r.getOne(ctx, q, entity, number); err != nil {
		return entity, err
	}
	return entity, nil
}

// GetForUpdate retrieves a document and locks its row for the enclosing
// transaction.
func (r *BaseDocumentRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (T, error) {
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

// getOne scans a single row into dest. key only labels the not-found error.
func (r *BaseDocumentRepo[T]) getOne(ctx context.Context, q squirrel.SelectBuilder, dest any, key string) error {
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

// list runs a filtered query. Document repos pass their own extra
// conditions through applyFilters.
func (r *BaseDocumentRepo[T]) list(
	ctx context.Context,
	filter domain.ListFilter,
	applyFilters func(squirrel.SelectBuilder) squirrel.SelectBuilder,
) (domain.ListResult[T], error) {
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
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	if applyFilters != nil {
		q = applyFilters(q)
	}

	// Count
	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	// Order
	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	// Page
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

func (r *BaseDocumentRepo[T]) parseOrderBy(orderBy string) (string, error) {
	allowed := make(map[string]struct{}, len(r.selectCols)+2)
	for _, col := range r.selectCols {
		allowed[col] = struct{}{}
	}
	allowed["id"] = struct{}{}
	allowed["created_at"] = struct{}{}

	if strings.TrimSpace(orderBy) == "" {
		return "date DESC", nil
	}

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
