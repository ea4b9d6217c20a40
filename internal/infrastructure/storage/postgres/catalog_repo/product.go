package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
	"tokopos/internal/domain"
	"tokopos/internal/domain/catalogs/product"
	"tokopos/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo is the PostgreSQL product repository. Besides catalog CRUD it
// implements the stock ledger primitives: locked reads and stock deltas.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
	txManager *postgres.TxManager
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"products",
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
		txManager: txManager,
	}
}

// GetBatch resolves several products in one read. Missing ids are absent
// from the result map.
func (r *ProductRepo) GetBatch(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	if len(ids) == 0 {
		return map[id.ID]*product.Product{}, nil
	}

	sql, args, err := r.Builder().
		Select(postgres.ExtractDBColumns[product.Product]()...).
		From("products").
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"deletion_mark": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}

	out := make(map[id.ID]*product.Product, len(items))
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

// AdjustStock applies stock = stock + delta. Callers hold the row lock via
// GetForUpdate; no floor is enforced here.
func (r *ProductRepo) AdjustStock(ctx context.Context, productID id.ID, delta int64) error {
	sql, args, err := r.Builder().
		Update("products").
		Set("stock", squirrel.Expr("stock + ?", delta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("products", productID.String())
	}
	return nil
}

// UpdateCostPrice overwrites the standard cost.
func (r *ProductRepo) UpdateCostPrice(ctx context.Context, productID id.ID, cost types.Money) error {
	sql, args, err := r.Builder().
		Update("products").
		Set("cost_price", cost).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update cost price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("products", productID.String())
	}
	return nil
}

// FindLowStock lists active products with stock at or below min_stock.
func (r *ProductRepo) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	result := domain.ListResult[*product.Product]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.Builder().
		Select(postgres.ExtractDBColumns[product.Product]()...).
		From("products").
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Expr("stock <= min_stock"))

	countSQL, countArgs, err := r.Builder().
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

	q = q.OrderBy("stock ASC, name ASC")
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
		return result, fmt.Errorf("find low stock: %w", err)
	}
	return result, nil
}
