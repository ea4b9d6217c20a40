package reports

import (
	"context"
	"testing"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
)

type fakeReportRepo struct {
	salesCalls    int
	purchaseCalls int
	profitCalls   int
	sales         *SalesReport
	purchases     *PurchasesReport
	profit        *ProfitReport
	inventory     *InventoryReport
}

func (r *fakeReportRepo) SalesSummary(ctx context.Context, f SalesFilter) (*SalesReport, error) {
	r.salesCalls++
	out := *r.sales
	out.Range = f.Range
	return &out, nil
}

func (r *fakeReportRepo) Purchases(ctx context.Context, f PurchasesFilter) (*PurchasesReport, error) {
	r.purchaseCalls++
	out := *r.purchases
	out.Range = f.Range
	return &out, nil
}

func (r *fakeReportRepo) ProfitDaily(ctx context.Context, rng Range) (*ProfitReport, error) {
	r.profitCalls++
	out := *r.profit
	out.Range = rng
	return &out, nil
}

func (r *fakeReportRepo) Inventory(ctx context.Context) (*InventoryReport, error) {
	return r.inventory, nil
}

type memCache struct {
	data map[string][]byte
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.data[key], nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

func testRange() Range {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return Range{From: from, To: from.AddDate(0, 1, 0)}
}

func TestSales_SecondCallServedFromCache(t *testing.T) {
	repo := &fakeReportRepo{
		sales: &SalesReport{
			TransactionCount: 12,
			ItemsSold:        40,
			Net:              types.NewMoney(480000),
		},
	}
	cache := newMemCache()
	svc := NewService(repo, nil, cache, time.Minute)
	ctx := context.Background()

	first, err := svc.Sales(ctx, SalesFilter{Range: testRange()})
	if err != nil {
		t.Fatalf("first Sales: %v", err)
	}

	second, err := svc.Sales(ctx, SalesFilter{Range: testRange()})
	if err != nil {
		t.Fatalf("second Sales: %v", err)
	}

	if repo.salesCalls != 1 {
		t.Errorf("storage queried %d times, want 1", repo.salesCalls)
	}
	if cache.sets != 1 {
		t.Errorf("cache written %d times, want 1", cache.sets)
	}
	if !first.Net.Equal(second.Net) || first.TransactionCount != second.TransactionCount {
		t.Error("cached report differs from original")
	}
}

func TestSales_DistinctRangesGetDistinctEntries(t *testing.T) {
	repo := &fakeReportRepo{sales: &SalesReport{TransactionCount: 1}}
	svc := NewService(repo, nil, newMemCache(), time.Minute)
	ctx := context.Background()

	r1 := testRange()
	r2 := Range{From: r1.From.AddDate(0, 1, 0), To: r1.To.AddDate(0, 1, 0)}

	if _, err := svc.Sales(ctx, SalesFilter{Range: r1}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Sales(ctx, SalesFilter{Range: r2}); err != nil {
		t.Fatal(err)
	}

	if repo.salesCalls != 2 {
		t.Errorf("storage queried %d times, want 2", repo.salesCalls)
	}
}

func TestSales_FilteredAndUnfilteredNeverShareCacheEntries(t *testing.T) {
	repo := &fakeReportRepo{sales: &SalesReport{TransactionCount: 1}}
	svc := NewService(repo, nil, newMemCache(), time.Minute)
	ctx := context.Background()

	cashier := id.New()
	partner := id.New()

	if _, err := svc.Sales(ctx, SalesFilter{Range: testRange()}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Sales(ctx, SalesFilter{Range: testRange(), CashierID: &cashier}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Sales(ctx, SalesFilter{Range: testRange(), PartnerID: &partner}); err != nil {
		t.Fatal(err)
	}

	if repo.salesCalls != 3 {
		t.Errorf("storage queried %d times, want 3", repo.salesCalls)
	}

	// Repeating a filtered query hits its own entry.
	if _, err := svc.Sales(ctx, SalesFilter{Range: testRange(), CashierID: &cashier}); err != nil {
		t.Fatal(err)
	}
	if repo.salesCalls != 3 {
		t.Errorf("storage queried %d times after repeat, want 3", repo.salesCalls)
	}
}

func TestPurchases_CachedPerSupplier(t *testing.T) {
	repo := &fakeReportRepo{
		purchases: &PurchasesReport{
			TransactionCount: 4,
			ItemsPurchased:   100,
			TotalPurchases:   types.NewMoney(900000),
		},
	}
	cache := newMemCache()
	svc := NewService(repo, nil, cache, time.Minute)
	ctx := context.Background()

	supplier := id.New()

	first, err := svc.Purchases(ctx, PurchasesFilter{Range: testRange(), PartnerID: &supplier})
	if err != nil {
		t.Fatalf("first Purchases: %v", err)
	}
	second, err := svc.Purchases(ctx, PurchasesFilter{Range: testRange(), PartnerID: &supplier})
	if err != nil {
		t.Fatalf("second Purchases: %v", err)
	}

	if repo.purchaseCalls != 1 {
		t.Errorf("storage queried %d times, want 1", repo.purchaseCalls)
	}
	if !first.TotalPurchases.Equal(second.TotalPurchases) {
		t.Error("cached report differs from original")
	}

	// A different supplier is a different entry.
	other := id.New()
	if _, err := svc.Purchases(ctx, PurchasesFilter{Range: testRange(), PartnerID: &other}); err != nil {
		t.Fatal(err)
	}
	if repo.purchaseCalls != 2 {
		t.Errorf("storage queried %d times, want 2", repo.purchaseCalls)
	}
}

func TestProfit_ZeroTTLDisablesCache(t *testing.T) {
	repo := &fakeReportRepo{profit: &ProfitReport{NetProfit: types.NewMoney(150000)}}
	cache := newMemCache()
	svc := NewService(repo, nil, cache, 0)
	ctx := context.Background()

	if _, err := svc.Profit(ctx, testRange()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Profit(ctx, testRange()); err != nil {
		t.Fatal(err)
	}

	if repo.profitCalls != 2 {
		t.Errorf("storage queried %d times, want 2", repo.profitCalls)
	}
	if cache.sets != 0 {
		t.Errorf("cache written %d times, want 0", cache.sets)
	}
}

func TestProfit_RoundTripsDailyRows(t *testing.T) {
	repo := &fakeReportRepo{
		profit: &ProfitReport{
			Revenue:          types.NewMoney(500000),
			CostOfGoods:      types.NewMoney(300000),
			PurchaseSpending: types.NewMoney(120000),
			GrossProfit:      types.NewMoney(200000),
			NetProfit:        types.NewMoney(80000),
			Rows: []ProfitRow{
				{
					Date:             "2026-03-01",
					Revenue:          types.NewMoney(500000),
					CostOfGoods:      types.NewMoney(300000),
					PurchaseSpending: types.NewMoney(120000),
					GrossProfit:      types.NewMoney(200000),
					NetProfit:        types.NewMoney(80000),
				},
			},
		},
	}
	svc := NewService(repo, nil, newMemCache(), time.Minute)
	ctx := context.Background()

	if _, err := svc.Profit(ctx, testRange()); err != nil {
		t.Fatal(err)
	}

	// Second call comes back from the cache with the per-day shape intact.
	got, err := svc.Profit(ctx, testRange())
	if err != nil {
		t.Fatal(err)
	}
	if repo.profitCalls != 1 {
		t.Errorf("storage queried %d times, want 1", repo.profitCalls)
	}
	if len(got.Rows) != 1 || got.Rows[0].Date != "2026-03-01" {
		t.Fatalf("unexpected rows: %+v", got.Rows)
	}
	if !got.Rows[0].NetProfit.Equal(types.NewMoney(80000)) {
		t.Errorf("net profit = %s, want 80000", got.Rows[0].NetProfit)
	}
	if !got.PurchaseSpending.Equal(types.NewMoney(120000)) {
		t.Errorf("purchase spending = %s, want 120000", got.PurchaseSpending)
	}
}

func TestSales_InvalidRange(t *testing.T) {
	svc := NewService(&fakeReportRepo{}, nil, newMemCache(), time.Minute)

	r := testRange()
	r.To = r.From
	_, err := svc.Sales(context.Background(), SalesFilter{Range: r})
	if !apperror.HasCode(err, apperror.CodeValidation) {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}

	_, err = svc.Sales(context.Background(), SalesFilter{})
	if !apperror.HasCode(err, apperror.CodeValidation) {
		t.Fatalf("want VALIDATION_ERROR for zero range, got %v", err)
	}
}
