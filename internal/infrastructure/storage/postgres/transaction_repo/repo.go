// Package transaction_repo provides the PostgreSQL transaction repository.
package transaction_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
	"tokopos/internal/domain"
	"tokopos/internal/domain/transactions"
	"tokopos/internal/infrastructure/storage/postgres"
)

var _ transactions.Repository = (*Repo)(nil)

// Repo is the PostgreSQL transaction repository. The unique index on
// transactions.number backstops the sequence allocator.
type Repo struct {
	txManager  *postgres.TxManager
	headerCols []string
	itemCols   []string
}

// New creates a new transaction repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager:  txManager,
		headerCols: postgres.ExtractDBColumns[transactions.Transaction](),
		itemCols:   postgres.ExtractDBColumns[transactions.Item](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the header row.
func (r *Repo) Create(ctx context.Context, trx *transactions.Transaction) error {
	data := postgres.StructToMap(trx)

	filtered := make(map[string]any, len(r.headerCols))
	for _, col := range r.headerCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert("transactions").
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("transaction number already allocated").
				WithDetail("number", trx.Number).
				WithCause(err)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// CreateItems inserts all line items in one batch statement.
func (r *Repo) CreateItems(ctx context.Context, items []transactions.Item) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder().
		Insert("transaction_items").
		Columns(r.itemCols...)

	for _, item := range items {
		data := postgres.StructToMap(item)
		vals := make([]any, len(r.itemCols))
		for i, col := range r.itemCols {
			vals[i] = data[col]
		}
		q = q.Values(vals...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// GetByID retrieves the header without items.
func (r *Repo) GetByID(ctx context.Context, trxID id.ID) (*transactions.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"id": trxID}, trxID.String())
}

// GetByNumber retrieves the header by its formatted number.
func (r *Repo) GetByNumber(ctx context.Context, number string) (*transactions.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"number": number}, number)
}

func (r *Repo) getOne(ctx context.Context, cond squirrel.Eq, key string) (*transactions.Transaction, error) {
	sql, args, err := r.builder().
		Select(r.headerCols...).
		From("transactions").
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	trx := &transactions.Transaction{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), trx, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transaction", key)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return trx, nil
}

// GetItems retrieves all items of a transaction.
func (r *Repo) GetItems(ctx context.Context, trxID id.ID) ([]transactions.Item, error) {
	sql, args, err := r.builder().
		Select(r.itemCols...).
		From("transaction_items").
		Where(squirrel.Eq{"transaction_id": trxID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []transactions.Item
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

// UpdateStatus transitions status from exactly `from` to `to`. The WHERE
// guard makes concurrent reversals lose deterministically.
func (r *Repo) UpdateStatus(ctx context.Context, trxID id.ID, from, to transactions.Status) error {
	sql, args, err := r.builder().
		Update("transactions").
		Set("status", to).
		Set("updated_at", squirrel.Expr("now()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": trxID}).
		Where(squirrel.Eq{"status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if result.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, trxID)
		if err != nil {
			return err
		}
		return apperror.NewInvalidState("transaction", string(current.Status))
	}
	return nil
}

// List retrieves transactions with filtering and pagination.
func (r *Repo) List(ctx context.Context, filter transactions.ListFilter) (domain.ListResult[*transactions.Transaction], error) {
	result := domain.ListResult[*transactions.Transaction]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(r.headerCols...).
		From("transactions")

	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.CashierID != nil {
		q = q.Where(squirrel.Eq{"cashier_id": *filter.CashierID})
	}
	if filter.PartnerID != nil {
		q = q.Where(squirrel.Eq{"partner_id": *filter.PartnerID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := parseOrderBy(filter.OrderBy)
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

// parseOrderBy whitelists sortable columns; "-field" sorts descending.
func parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return "date DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	}

	switch field {
	case "date", "number", "grand_total", "created_at", "status", "type":
		return field + " " + direction, nil
	}
	return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
}

// SumCompletedSales totals grand_total of COMPLETED sales by the given
// cashier within [from, to).
func (r *Repo) SumCompletedSales(ctx context.Context, cashierID id.ID, from, to time.Time) (types.Money, error) {
	sql, args, err := r.builder().
		Select("COALESCE(SUM(grand_total), 0)").
		From("transactions").
		Where(squirrel.Eq{
			"type":       transactions.TypeSale,
			"status":     transactions.StatusCompleted,
			"cashier_id": cashierID,
		}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.Lt{"date": to}).
		ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var sum types.Money
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return types.Zero(), fmt.Errorf("sum sales: %w", err)
	}
	return sum, nil
}
