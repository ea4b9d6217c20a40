// Package adjustment_repo provides the PostgreSQL stock adjustment
// repository. Adjustments are append-only.
package adjustment_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/domain"
	"tokopos/internal/domain/adjustments"
	"tokopos/internal/infrastructure/storage/postgres"
)

var _ adjustments.Repository = (*Repo)(nil)

// Repo is the PostgreSQL adjustment repository.
type Repo struct {
	txManager *postgres.TxManager
	cols      []string
}

// New creates a new adjustment repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[adjustments.StockAdjustment](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create appends an adjustment record.
func (r *Repo) Create(ctx context.Context, adj *adjustments.StockAdjustment) error {
	data := postgres.StructToMap(adj)

	filtered := make(map[string]any, len(r.cols))
	for _, col := range r.cols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert("stock_adjustments").
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

// GetByID retrieves an adjustment.
func (r *Repo) GetByID(ctx context.Context, adjID id.ID) (*adjustments.StockAdjustment, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From("stock_adjustments").
		Where(squirrel.Eq{"id": adjID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	adj := &adjustments.StockAdjustment{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), adj, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock adjustment", adjID.String())
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return adj, nil
}

// List retrieves adjustments with filtering, newest first.
func (r *Repo) List(ctx context.Context, filter adjustments.ListFilter) (domain.ListResult[*adjustments.StockAdjustment], error) {
	result := domain.ListResult[*adjustments.StockAdjustment]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(r.cols...).
		From("stock_adjustments")

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.DateTo})
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

	q = q.OrderBy("created_at DESC")
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
