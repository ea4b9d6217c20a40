package product

import (
	"context"

	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
	"tokopos/internal/domain"
)

// Repository defines storage operations for products, including the
// stock ledger primitives used by the posting and reversal engines.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetBatch resolves several products in one read. Missing ids are
	// simply absent from the result map.
	GetBatch(ctx context.Context, ids []id.ID) (map[id.ID]*Product, error)

	// GetForUpdate retrieves a product with an exclusive row lock held
	// until the enclosing transaction commits. Must be called inside a
	// transaction before any stock mutation.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	// AdjustStock applies stock = stock + delta. Callers must hold the
	// row lock via GetForUpdate. No floor is enforced here; stock checks
	// belong to the caller.
	AdjustStock(ctx context.Context, productID id.ID, delta int64) error

	// UpdateCostPrice overwrites the standard cost (purchase postings).
	UpdateCostPrice(ctx context.Context, productID id.ID, cost types.Money) error

	// FindLowStock lists active products with stock at or below min_stock.
	FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)
}
