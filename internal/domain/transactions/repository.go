package transactions

import (
	"context"
	"time"

	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
	"tokopos/internal/domain"
	"tokopos/internal/domain/catalogs/product"
)

// ListFilter narrows transaction listings.
type ListFilter struct {
	Type      Type
	Status    Status
	CashierID *id.ID
	PartnerID *id.ID
	DateFrom  *time.Time
	DateTo    *time.Time
	Search    string
	OrderBy   string
	Limit     int
	Offset    int
}

// Repository defines storage operations for transactions and their items.
type Repository interface {
	// Create inserts the header row.
	Create(ctx context.Context, trx *Transaction) error

	// CreateItems inserts all line items in one batch.
	CreateItems(ctx context.Context, items []Item) error

	// GetByID retrieves the header without items.
	GetByID(ctx context.Context, trxID id.ID) (*Transaction, error)

	// GetByNumber retrieves the header by its formatted number.
	GetByNumber(ctx context.Context, number string) (*Transaction, error)

	// GetItems retrieves all items of a transaction.
	GetItems(ctx context.Context, trxID id.ID) ([]Item, error)

	// UpdateStatus transitions status from exactly `from` to `to`.
	// Returns InvalidState when the stored status differs from `from`.
	UpdateStatus(ctx context.Context, trxID id.ID, from, to Status) error

	// List retrieves transactions with filtering and pagination.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error)

	// SumCompletedSales totals grand_total of COMPLETED sales by the given
	// cashier within [from, to). Used for cash session reconciliation.
	SumCompletedSales(ctx context.Context, cashierID id.ID, from, to time.Time) (types.Money, error)
}

// StockLedger is the slice of the product repository the posting and
// reversal engines need: locked reads and stock mutation. The product
// repository satisfies it directly.
type StockLedger interface {
	GetBatch(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error)
	GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error)
	AdjustStock(ctx context.Context, productID id.ID, delta int64) error
	UpdateCostPrice(ctx context.Context, productID id.ID, cost types.Money) error
}

// Numerator allocates formatted transaction numbers. The allocation must
// participate in the ambient transaction so an aborted posting releases
// its serial's row lock on rollback.
type Numerator interface {
	Next(ctx context.Context, prefix string, day time.Time) (string, error)
}
