// Package reports provides read-only sales, purchases, profit, and
// inventory projections. Results are cacheable; reports never mutate
// state.
package reports

import (
	"context"
	"time"

	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
)

// Range is a half-open [From, To) reporting window.
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SalesFilter narrows the sales report to one cashier or partner.
type SalesFilter struct {
	Range     Range  `json:"range"`
	CashierID *id.ID `json:"cashierId,omitempty"`
	PartnerID *id.ID `json:"partnerId,omitempty"`
}

// PurchasesFilter narrows the purchases report to one supplier.
type PurchasesFilter struct {
	Range     Range  `json:"range"`
	PartnerID *id.ID `json:"partnerId,omitempty"`
}

// ChartPoint is one day's aggregate for charting.
type ChartPoint struct {
	Date             string      `db:"date" json:"date"`
	TransactionCount int64       `db:"transaction_count" json:"transactionCount"`
	Total            types.Money `db:"total" json:"total"`
}

// SalesReport summarizes completed sales in a range. Gross is the sum of
// line subtotals; Net is what was actually charged (gross minus discounts
// plus tax).
type SalesReport struct {
	Range            Range        `json:"range"`
	TransactionCount int64        `json:"transactionCount"`
	ItemsSold        int64        `json:"itemsSold"`
	Gross            types.Money  `json:"gross"`
	DiscountTotal    types.Money  `json:"discountTotal"`
	TaxTotal         types.Money  `json:"taxTotal"`
	Net              types.Money  `json:"net"`
	Daily            []ChartPoint `json:"daily"`
}

// PurchasesReport summarizes completed purchases in a range.
type PurchasesReport struct {
	Range            Range        `json:"range"`
	TransactionCount int64        `json:"transactionCount"`
	ItemsPurchased   int64        `json:"itemsPurchased"`
	TotalPurchases   types.Money  `json:"totalPurchases"`
	Daily            []ChartPoint `json:"daily"`
}

// ProfitRow is one day's margin: sale revenue against the cost snapshots
// frozen on the sold items, with purchase spending deducted for the net.
type ProfitRow struct {
	Date             string      `db:"date" json:"date"`
	Revenue          types.Money `db:"revenue" json:"revenue"`
	CostOfGoods      types.Money `db:"cost_of_goods" json:"costOfGoods"`
	PurchaseSpending types.Money `db:"purchase_spending" json:"purchaseSpending"`
	GrossProfit      types.Money `db:"gross_profit" json:"grossProfit"`
	NetProfit        types.Money `db:"net_profit" json:"netProfit"`
}

// ProfitReport aggregates margins per day plus range totals.
type ProfitReport struct {
	Range            Range       `json:"range"`
	Revenue          types.Money `json:"revenue"`
	CostOfGoods      types.Money `json:"costOfGoods"`
	PurchaseSpending types.Money `json:"purchaseSpending"`
	GrossProfit      types.Money `json:"grossProfit"`
	NetProfit        types.Money `json:"netProfit"`
	Rows             []ProfitRow `json:"rows"`
}

// InventoryRow is the current stock position of one product.
type InventoryRow struct {
	ProductID  id.ID       `db:"product_id" json:"productId"`
	Code       string      `db:"code" json:"code"`
	Name       string      `db:"name" json:"name"`
	Stock      int64       `db:"stock" json:"stock"`
	MinStock   int64       `db:"min_stock" json:"minStock"`
	CostPrice  types.Money `db:"cost_price" json:"costPrice"`
	StockValue types.Money `db:"stock_value" json:"stockValue"`
	LowStock   bool        `db:"low_stock" json:"lowStock"`
}

// InventoryReport values current stock at standard cost.
type InventoryReport struct {
	TotalValue types.Money    `json:"totalValue"`
	Rows       []InventoryRow `json:"rows"`
}

// Repository executes the report queries.
type Repository interface {
	SalesSummary(ctx context.Context, f SalesFilter) (*SalesReport, error)
	Purchases(ctx context.Context, f PurchasesFilter) (*PurchasesReport, error)
	ProfitDaily(ctx context.Context, r Range) (*ProfitReport, error)
	Inventory(ctx context.Context) (*InventoryReport, error)
}
