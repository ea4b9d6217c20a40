// Package report_repo executes the aggregate report queries. These are
// read-only projections over transactions and products.
package report_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"tokopos/internal/domain/reports"
	"tokopos/internal/domain/transactions"
	"tokopos/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*Repo)(nil)

// Repo is the PostgreSQL report repository.
type Repo struct {
	txManager *postgres.TxManager
}

// New creates a new report repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

// headerFilter accumulates WHERE conditions on the transactions table
// (aliased t) with correctly numbered placeholders.
type headerFilter struct {
	conds string
	args  []any
}

func newHeaderFilter(trxType transactions.Type, rng reports.Range) *headerFilter {
	return &headerFilter{
		conds: "t.type = $1 AND t.status = $2 AND t.date >= $3 AND t.date < $4",
		args:  []any{trxType, transactions.StatusCompleted, rng.From, rng.To},
	}
}

func (f *headerFilter) and(column string, value any) {
	f.args = append(f.args, value)
	f.conds += fmt.Sprintf(" AND t.%s = $%d", column, len(f.args))
}

// SalesSummary aggregates completed sales in a range, optionally limited
// to one cashier or partner, with a per-day breakdown for charting.
func (r *Repo) SalesSummary(ctx context.Context, f reports.SalesFilter) (*reports.SalesReport, error) {
	querier := r.txManager.GetQuerier(ctx)

	hf := newHeaderFilter(transactions.TypeSale, f.Range)
	if f.CashierID != nil {
		hf.and("cashier_id", *f.CashierID)
	}
	if f.PartnerID != nil {
		hf.and("partner_id", *f.PartnerID)
	}

	report := &reports.SalesReport{Range: f.Range}

	err := querier.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(t.subtotal), 0),
			COALESCE(SUM(t.discount_amount), 0),
			COALESCE(SUM(t.tax_amount), 0),
			COALESCE(SUM(t.grand_total), 0)
		FROM transactions t
		WHERE `+hf.conds, hf.args...).Scan(
		&report.TransactionCount, &report.Gross, &report.DiscountTotal,
		&report.TaxTotal, &report.Net,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	report.ItemsSold, err = r.sumItemQuantity(ctx, hf)
	if err != nil {
		return nil, fmt.Errorf("items sold: %w", err)
	}

	report.Daily, err = r.dailyChart(ctx, hf)
	if err != nil {
		return nil, fmt.Errorf("daily chart: %w", err)
	}

	return report, nil
}

// Purchases aggregates completed purchases in a range, optionally limited
// to one supplier.
func (r *Repo) Purchases(ctx context.Context, f reports.PurchasesFilter) (*reports.PurchasesReport, error) {
	querier := r.txManager.GetQuerier(ctx)

	hf := newHeaderFilter(transactions.TypePurchase, f.Range)
	if f.PartnerID != nil {
		hf.and("partner_id", *f.PartnerID)
	}

	report := &reports.PurchasesReport{Range: f.Range}

	err := querier.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(t.grand_total), 0)
		FROM transactions t
		WHERE `+hf.conds, hf.args...).Scan(
		&report.TransactionCount, &report.TotalPurchases,
	)
	if err != nil {
		return nil, fmt.Errorf("purchases summary: %w", err)
	}

	report.ItemsPurchased, err = r.sumItemQuantity(ctx, hf)
	if err != nil {
		return nil, fmt.Errorf("items purchased: %w", err)
	}

	report.Daily, err = r.dailyChart(ctx, hf)
	if err != nil {
		return nil, fmt.Errorf("purchases chart: %w", err)
	}

	return report, nil
}

// ProfitDaily computes one row per day across both transaction types:
// sale revenue against the cost snapshots frozen on the sold items, with
// that day's purchase spending deducted for the net. Snapshots mean later
// cost-price changes never rewrite historical margins.
func (r *Repo) ProfitDaily(ctx context.Context, rng reports.Range) (*reports.ProfitReport, error) {
	querier := r.txManager.GetQuerier(ctx)

	report := &reports.ProfitReport{Range: rng}

	err := pgxscan.Select(ctx, querier, &report.Rows, `
		WITH daily AS (
			SELECT
				t.date::date AS day,
				COALESCE(SUM(ti.line_total) FILTER (WHERE t.type = $1), 0) AS revenue,
				COALESCE(SUM(ti.cost_price * ti.quantity) FILTER (WHERE t.type = $1), 0) AS cost_of_goods,
				COALESCE(SUM(ti.line_total) FILTER (WHERE t.type = $2), 0) AS purchase_spending
			FROM transaction_items ti
			JOIN transactions t ON t.id = ti.transaction_id
			WHERE t.status = $3 AND t.date >= $4 AND t.date < $5
			GROUP BY t.date::date
		)
		SELECT
			to_char(day, 'YYYY-MM-DD') AS date,
			revenue,
			cost_of_goods,
			purchase_spending,
			revenue - cost_of_goods AS gross_profit,
			revenue - cost_of_goods - purchase_spending AS net_profit
		FROM daily
		ORDER BY day
	`, transactions.TypeSale, transactions.TypePurchase,
		transactions.StatusCompleted, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("profit daily: %w", err)
	}

	for _, row := range report.Rows {
		report.Revenue = report.Revenue.Add(row.Revenue)
		report.CostOfGoods = report.CostOfGoods.Add(row.CostOfGoods)
		report.PurchaseSpending = report.PurchaseSpending.Add(row.PurchaseSpending)
		report.GrossProfit = report.GrossProfit.Add(row.GrossProfit)
		report.NetProfit = report.NetProfit.Add(row.NetProfit)
	}
	return report, nil
}

// Inventory values current stock at standard cost.
func (r *Repo) Inventory(ctx context.Context) (*reports.InventoryReport, error) {
	querier := r.txManager.GetQuerier(ctx)

	report := &reports.InventoryReport{}

	err := pgxscan.Select(ctx, querier, &report.Rows, `
		SELECT
			id AS product_id,
			code,
			name,
			stock,
			min_stock,
			cost_price,
			cost_price * stock AS stock_value,
			stock <= min_stock AS low_stock
		FROM products
		WHERE deletion_mark = false AND is_active = true
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}

	for _, row := range report.Rows {
		report.TotalValue = report.TotalValue.Add(row.StockValue)
	}
	return report, nil
}

func (r *Repo) sumItemQuantity(ctx context.Context, hf *headerFilter) (int64, error) {
	querier := r.txManager.GetQuerier(ctx)

	var total int64
	err := querier.QueryRow(ctx, `
		SELECT COALESCE(SUM(ti.quantity), 0)
		FROM transaction_items ti
		JOIN transactions t ON t.id = ti.transaction_id
		WHERE `+hf.conds, hf.args...).Scan(&total)
	return total, err
}

func (r *Repo) dailyChart(ctx context.Context, hf *headerFilter) ([]reports.ChartPoint, error) {
	querier := r.txManager.GetQuerier(ctx)

	var points []reports.ChartPoint
	err := pgxscan.Select(ctx, querier, &points, `
		SELECT
			to_char(t.date::date, 'YYYY-MM-DD') AS date,
			COUNT(*) AS transaction_count,
			COALESCE(SUM(t.grand_total), 0) AS total
		FROM transactions t
		WHERE `+hf.conds+`
		GROUP BY t.date::date
		ORDER BY t.date::date
	`, hf.args...)
	return points, err
}
