package transactions

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/clock"
	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
	"tokopos/internal/domain"
	"tokopos/internal/domain/catalogs/product"
)

// --- Fakes ---

type fakeLedger struct {
	products map[id.ID]*product.Product
	lockLog  []id.ID

	// onFirstLock runs once before the first GetForUpdate, simulating a
	// concurrent writer that slipped in between the pre-check and the lock.
	onFirstLock func()
	lockCalled  bool
}

func newFakeLedger(products ...*product.Product) *fakeLedger {
	m := make(map[id.ID]*product.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeLedger{products: m}
}

func (f *fakeLedger) GetBatch(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	out := make(map[id.ID]*product.Product, len(ids))
	for _, pid := range ids {
		if p, ok := f.products[pid]; ok {
			cp := *p
			out[pid] = &cp
		}
	}
	return out, nil
}

func (f *fakeLedger) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	if !f.lockCalled {
		f.lockCalled = true
		if f.onFirstLock != nil {
			f.onFirstLock()
		}
	}
	p, ok := f.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	f.lockLog = append(f.lockLog, productID)
	cp := *p
	return &cp, nil
}

func (f *fakeLedger) AdjustStock(ctx context.Context, productID id.ID, delta int64) error {
	p, ok := f.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.Stock += delta
	return nil
}

func (f *fakeLedger) UpdateCostPrice(ctx context.Context, productID id.ID, cost types.Money) error {
	p, ok := f.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.CostPrice = cost
	return nil
}

func (f *fakeLedger) stock(productID id.ID) int64 {
	return f.products[productID].Stock
}

type fakeRepo struct {
	headers map[id.ID]*Transaction
	items   map[id.ID][]Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		headers: make(map[id.ID]*Transaction),
		items:   make(map[id.ID][]Item),
	}
}

func (f *fakeRepo) Create(ctx context.Context, trx *Transaction) error {
	cp := *trx
	f.headers[trx.ID] = &cp
	return nil
}

func (f *fakeRepo) CreateItems(ctx context.Context, items []Item) error {
	for _, item := range items {
		f.items[item.TransactionID] = append(f.items[item.TransactionID], item)
	}
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, trxID id.ID) (*Transaction, error) {
	trx, ok := f.headers[trxID]
	if !ok {
		return nil, apperror.NewNotFound("transaction", trxID.String())
	}
	cp := *trx
	return &cp, nil
}

func (f *fakeRepo) GetByNumber(ctx context.Context, number string) (*Transaction, error) {
	for _, trx := range f.headers {
		if trx.Number == number {
			cp := *trx
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("transaction", number)
}

func (f *fakeRepo) GetItems(ctx context.Context, trxID id.ID) ([]Item, error) {
	return f.items[trxID], nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, trxID id.ID, from, to Status) error {
	trx, ok := f.headers[trxID]
	if !ok {
		return apperror.NewNotFound("transaction", trxID.String())
	}
	if trx.Status != from {
		return apperror.NewInvalidState("transaction", string(trx.Status))
	}
	trx.Status = to
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error) {
	var out []*Transaction
	for _, trx := range f.headers {
		cp := *trx
		out = append(out, &cp)
	}
	return domain.ListResult[*Transaction]{Items: out, TotalCount: int64(len(out))}, nil
}

func (f *fakeRepo) SumCompletedSales(ctx context.Context, cashierID id.ID, from, to time.Time) (types.Money, error) {
	sum := types.Zero()
	for _, trx := range f.headers {
		if trx.Type == TypeSale && trx.Status == StatusCompleted && trx.CashierID == cashierID &&
			!trx.Date.Before(from) && trx.Date.Before(to) {
			sum = sum.Add(trx.GrandTotal)
		}
	}
	return sum, nil
}

type fakeNumerator struct {
	serials map[string]int64
}

func (f *fakeNumerator) Next(ctx context.Context, prefix string, day time.Time) (string, error) {
	if f.serials == nil {
		f.serials = make(map[string]int64)
	}
	key := prefix + "-" + day.Format("2006-01-02")
	f.serials[key]++
	return fmt.Sprintf("%s-%03d", key, f.serials[key]), nil
}

// fakeTxManager mimics rollback by snapshotting the ledger and repo before
// running fn and restoring both when fn fails.
type fakeTxManager struct {
	ledger *fakeLedger
	repo   *fakeRepo
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	stocks := make(map[id.ID]int64)
	costs := make(map[id.ID]types.Money)
	for pid, p := range f.ledger.products {
		stocks[pid] = p.Stock
		costs[pid] = p.CostPrice
	}
	headers := make(map[id.ID]Transaction)
	for tid, trx := range f.repo.headers {
		headers[tid] = *trx
	}
	itemCounts := make(map[id.ID]int)
	for tid, list := range f.repo.items {
		itemCounts[tid] = len(list)
	}

	err := fn(ctx)
	if err == nil {
		return nil
	}

	for pid, p := range f.ledger.products {
		p.Stock = stocks[pid]
		p.CostPrice = costs[pid]
	}
	f.repo.headers = make(map[id.ID]*Transaction, len(headers))
	for tid, trx := range headers {
		cp := trx
		f.repo.headers[tid] = &cp
	}
	for tid := range f.repo.items {
		if _, existed := itemCounts[tid]; !existed {
			delete(f.repo.items, tid)
		}
	}
	return err
}

// --- Fixture ---

type fixture struct {
	svc    *Service
	ledger *fakeLedger
	repo   *fakeRepo
}

var testDay = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newFixture(products ...*product.Product) *fixture {
	ledger := newFakeLedger(products...)
	repo := newFakeRepo()
	txm := &fakeTxManager{ledger: ledger, repo: repo}
	svc := NewService(repo, ledger, &fakeNumerator{}, txm, clock.Fixed{T: testDay}, nil)
	return &fixture{svc: svc, ledger: ledger, repo: repo}
}

func newProduct(code string, stock int64, cost, selling string) *product.Product {
	p := product.New(code, "Product "+code)
	p.Stock = stock
	p.CostPrice = types.MustMoney(cost)
	p.SellingPrice = types.MustMoney(selling)
	return p
}

func saleInput(lines ...PostLine) PostInput {
	return PostInput{
		Type:          TypeSale,
		Lines:         lines,
		PaymentMethod: "cash",
		PaymentAmount: types.MustMoney("1000000"),
	}
}

// --- Posting ---

func TestPostSale_DecrementsStockAndComputesTotals(t *testing.T) {
	p := newProduct("P-001", 10, "8000", "15000")
	fx := newFixture(p)

	in := saleInput(PostLine{
		ProductID: p.ID,
		Quantity:  3,
		UnitPrice: types.MustMoney("15000"),
	})
	in.PaymentAmount = types.MustMoney("50000")

	trx, err := fx.svc.Post(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := fx.ledger.stock(p.ID); got != 7 {
		t.Errorf("stock = %d, want 7", got)
	}
	if !trx.GrandTotal.Equal(types.MustMoney("45000")) {
		t.Errorf("grand total = %s, want 45000", trx.GrandTotal)
	}
	if !trx.ChangeAmount.Equal(types.MustMoney("5000")) {
		t.Errorf("change = %s, want 5000", trx.ChangeAmount)
	}
	if trx.Status != StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", trx.Status)
	}
	if want := "tr-sale-2026-03-15-001"; trx.Number != want {
		t.Errorf("number = %s, want %s", trx.Number, want)
	}
	if len(trx.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(trx.Items))
	}
	// Sales snapshot the product's cost at posting time.
	if !trx.Items[0].CostPrice.Equal(types.MustMoney("8000")) {
		t.Errorf("item cost = %s, want 8000", trx.Items[0].CostPrice)
	}
}

func TestPostSale_DefaultsPaymentMethodToCash(t *testing.T) {
	p := newProduct("P-001", 10, "8000", "15000")
	fx := newFixture(p)

	in := saleInput(PostLine{
		ProductID: p.ID,
		Quantity:  1,
		UnitPrice: types.MustMoney("15000"),
	})
	in.PaymentMethod = ""

	trx, err := fx.svc.Post(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trx.PaymentMethod != PaymentMethodCash {
		t.Errorf("payment method = %q, want %q", trx.PaymentMethod, PaymentMethodCash)
	}

	// An explicit method is kept as sent.
	in2 := saleInput(PostLine{
		ProductID: p.ID,
		Quantity:  1,
		UnitPrice: types.MustMoney("15000"),
	})
	in2.PaymentMethod = "QRIS"
	trx2, err := fx.svc.Post(context.Background(), in2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trx2.PaymentMethod != "QRIS" {
		t.Errorf("payment method = %q, want QRIS", trx2.PaymentMethod)
	}

	// Purchases are not tendered; no default applies.
	purchase, err := fx.svc.Post(context.Background(), PostInput{
		Type: TypePurchase,
		Lines: []PostLine{{
			ProductID: p.ID,
			Quantity:  1,
			UnitPrice: types.MustMoney("8000"),
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purchase.PaymentMethod != "" {
		t.Errorf("purchase payment method = %q, want empty", purchase.PaymentMethod)
	}
}

func TestPostSale_LineDiscountAndTax(t *testing.T) {
	p := newProduct("P-001", 100, "5000", "10000")
	fx := newFixture(p)

	in := saleInput(PostLine{
		ProductID:      p.ID,
		Quantity:       2,
		UnitPrice:      types.MustMoney("10000"),
		DiscountAmount: types.MustMoney("1500"),
		TaxAmount:      types.MustMoney("500"),
	})
	in.DiscountAmount = types.MustMoney("1000")
	in.TaxAmount = types.MustMoney("2000")

	trx, err := fx.svc.Post(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// line: 2*10000 - 1500 + 500 = 19000; grand: 19000 - 1000 + 2000 = 20000
	if !trx.Items[0].LineTotal.Equal(types.MustMoney("19000")) {
		t.Errorf("line total = %s, want 19000", trx.Items[0].LineTotal)
	}
	if !trx.GrandTotal.Equal(types.MustMoney("20000")) {
		t.Errorf("grand total = %s, want 20000", trx.GrandTotal)
	}
}

func TestPostSale_RoundsToTwoDecimals(t *testing.T) {
	p := newProduct("P-001", 100, "1", "3.335")
	fx := newFixture(p)

	in := saleInput(PostLine{
		ProductID: p.ID,
		Quantity:  3,
		UnitPrice: types.MustMoney("3.335"),
	})

	trx, err := fx.svc.Post(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 * 3.335 = 10.005, rounds half away from zero to 10.01
	if !trx.Items[0].LineTotal.Equal(types.MustMoney("10.01")) {
		t.Errorf("line total = %s, want 10.01", trx.Items[0].LineTotal)
	}
}

func TestPostSale_NegativeGrandTotalAllowed(t *testing.T) {
	p := newProduct("P-001", 10, "100", "200")
	fx := newFixture(p)

	in := saleInput(PostLine{
		ProductID: p.ID,
		Quantity:  1,
		UnitPrice: types.MustMoney("200"),
	})
	in.DiscountAmount = types.MustMoney("500")

	trx, err := fx.svc.Post(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !trx.GrandTotal.Equal(types.MustMoney("-300")) {
		t.Errorf("grand total = %s, want -300", trx.GrandTotal)
	}
}

func TestPostSale_InsufficientStock(t *testing.T) {
	p := newProduct("P-001", 2, "8000", "15000")
	fx := newFixture(p)

	_, err := fx.svc.Post(context.Background(), saleInput(PostLine{
		ProductID: p.ID,
		Quantity:  5,
		UnitPrice: types.MustMoney("15000"),
	}))
	if !apperror.HasCode(err, apperror.CodeInsufficientStock) {
		t.Fatalf("error = %v, want INSUFFICIENT_STOCK", err)
	}
	appErr, _ := apperror.AsAppError(err)
	if got := appErr.Details["product_code"]; got != "P-001" {
		t.Errorf("product_code detail = %v, want P-001", got)
	}

	if got := fx.ledger.stock(p.ID); got != 2 {
		t.Errorf("stock = %d, want 2 (unchanged)", got)
	}
	if len(fx.repo.headers) != 0 {
		t.Errorf("transactions persisted = %d, want 0", len(fx.repo.headers))
	}
}

func TestPostSale_StockRaceDetectedUnderLock(t *testing.T) {
	p := newProduct("P-001", 5, "8000", "15000")
	fx := newFixture(p)

	// A concurrent sale drains the stock after the pre-check passed.
	fx.ledger.onFirstLock = func() {
		fx.ledger.products[p.ID].Stock = 1
	}

	_, err := fx.svc.Post(context.Background(), saleInput(PostLine{
		ProductID: p.ID,
		Quantity:  3,
		UnitPrice: types.MustMoney("15000"),
	}))
	if !apperror.HasCode(err, apperror.CodeInsufficientStock) {
		t.Fatalf("error = %v, want INSUFFICIENT_STOCK", err)
	}
	if len(fx.repo.headers) != 0 {
		t.Errorf("header survived a rolled back posting")
	}
}

func TestPostSale_InsufficientPayment(t *testing.T) {
	p := newProduct("P-001", 10, "8000", "15000")
	fx := newFixture(p)

	in := saleInput(PostLine{
		ProductID: p.ID,
		Quantity:  3,
		UnitPrice: types.MustMoney("15000"),
	})
	in.PaymentAmount = types.MustMoney("40000") // total is 45000

	_, err := fx.svc.Post(context.Background(), in)
	if !apperror.HasCode(err, apperror.CodeInsufficientPayment) {
		t.Fatalf("error = %v, want INSUFFICIENT_PAYMENT", err)
	}
	if got := fx.ledger.stock(p.ID); got != 10 {
		t.Errorf("stock = %d, want 10 (unchanged)", got)
	}
	if len(fx.repo.headers) != 0 {
		t.Errorf("transactions persisted = %d, want 0", len(fx.repo.headers))
	}
}

func TestPostSale_UnknownProduct(t *testing.T) {
	fx := newFixture(newProduct("P-001", 10, "100", "200"))

	_, err := fx.svc.Post(context.Background(), saleInput(PostLine{
		ProductID: id.New(),
		Quantity:  1,
		UnitPrice: types.MustMoney("200"),
	}))
	if !apperror.IsNotFound(err) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}

func TestPost_EmptyCart(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Post(context.Background(), saleInput())
	if !apperror.HasCode(err, apperror.CodeValidation) {
		t.Fatalf("error = %v, want VALIDATION_ERROR", err)
	}
}

func TestPostPurchase_IncrementsStockAndUpdatesCost(t *testing.T) {
	p := newProduct("P-001", 0, "8000", "15000")
	fx := newFixture(p)

	cost := types.MustMoney("9500")
	trx, err := fx.svc.Post(context.Background(), PostInput{
		Type: TypePurchase,
		Lines: []PostLine{{
			ProductID: p.ID,
			Quantity:  20,
			UnitPrice: types.MustMoney("10000"),
			CostPrice: &cost,
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := fx.ledger.stock(p.ID); got != 20 {
		t.Errorf("stock = %d, want 20", got)
	}
	if !fx.ledger.products[p.ID].CostPrice.Equal(cost) {
		t.Errorf("cost price = %s, want 9500", fx.ledger.products[p.ID].CostPrice)
	}
	if want := "tr-purchase-2026-03-15-001"; trx.Number != want {
		t.Errorf("number = %s, want %s", trx.Number, want)
	}
}

func TestPostPurchase_CostFallsBackToUnitPrice(t *testing.T) {
	p := newProduct("P-001", 0, "8000", "15000")
	fx := newFixture(p)

	trx, err := fx.svc.Post(context.Background(), PostInput{
		Type: TypePurchase,
		Lines: []PostLine{{
			ProductID: p.ID,
			Quantity:  5,
			UnitPrice: types.MustMoney("7500"),
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !trx.Items[0].CostPrice.Equal(types.MustMoney("7500")) {
		t.Errorf("item cost = %s, want 7500", trx.Items[0].CostPrice)
	}
	if !fx.ledger.products[p.ID].CostPrice.Equal(types.MustMoney("7500")) {
		t.Errorf("product cost = %s, want 7500", fx.ledger.products[p.ID].CostPrice)
	}
}

func TestPost_LocksProductsInAscendingOrder(t *testing.T) {
	a := newProduct("P-A", 10, "100", "200")
	b := newProduct("P-B", 10, "100", "200")
	c := newProduct("P-C", 10, "100", "200")
	fx := newFixture(a, b, c)

	_, err := fx.svc.Post(context.Background(), saleInput(
		PostLine{ProductID: c.ID, Quantity: 1, UnitPrice: types.MustMoney("200")},
		PostLine{ProductID: a.ID, Quantity: 1, UnitPrice: types.MustMoney("200")},
		PostLine{ProductID: b.ID, Quantity: 1, UnitPrice: types.MustMoney("200")},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := make([]string, len(fx.ledger.lockLog))
	for i, pid := range fx.ledger.lockLog {
		got[i] = pid.String()
	}
	if !sort.StringsAreSorted(got) {
		t.Errorf("lock order not ascending: %v", got)
	}
}

func TestPost_RepeatedProductAggregatesQuantity(t *testing.T) {
	p := newProduct("P-001", 5, "100", "200")
	fx := newFixture(p)

	// Two lines of 3 each: total 6 > stock 5, must be rejected even though
	// each line alone fits.
	_, err := fx.svc.Post(context.Background(), saleInput(
		PostLine{ProductID: p.ID, Quantity: 3, UnitPrice: types.MustMoney("200")},
		PostLine{ProductID: p.ID, Quantity: 3, UnitPrice: types.MustMoney("200")},
	))
	if !apperror.HasCode(err, apperror.CodeInsufficientStock) {
		t.Fatalf("error = %v, want INSUFFICIENT_STOCK", err)
	}
	if got := fx.ledger.stock(p.ID); got != 5 {
		t.Errorf("stock = %d, want 5 (unchanged)", got)
	}
}

func TestPost_SequentialNumbersPerTypeAndDay(t *testing.T) {
	p := newProduct("P-001", 100, "100", "200")
	fx := newFixture(p)

	line := PostLine{ProductID: p.ID, Quantity: 1, UnitPrice: types.MustMoney("200")}

	first, err := fx.svc.Post(context.Background(), saleInput(line))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := fx.svc.Post(context.Background(), saleInput(line))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	purchase, err := fx.svc.Post(context.Background(), PostInput{Type: TypePurchase, Lines: []PostLine{line}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Number != "tr-sale-2026-03-15-001" || second.Number != "tr-sale-2026-03-15-002" {
		t.Errorf("sale numbers = %s, %s", first.Number, second.Number)
	}
	// Purchases count independently.
	if purchase.Number != "tr-purchase-2026-03-15-001" {
		t.Errorf("purchase number = %s", purchase.Number)
	}
}

// --- Reversal ---

func postSale(t *testing.T, fx *fixture, p *product.Product, qty int64) *Transaction {
	t.Helper()
	trx, err := fx.svc.Post(context.Background(), saleInput(PostLine{
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: types.MustMoney("15000"),
	}))
	if err != nil {
		t.Fatalf("post sale: %v", err)
	}
	return trx
}

func TestCancelSale_RestoresStock(t *testing.T) {
	p := newProduct("P-001", 10, "8000", "15000")
	fx := newFixture(p)

	trx := postSale(t, fx, p, 3)
	if got := fx.ledger.stock(p.ID); got != 7 {
		t.Fatalf("stock after sale = %d, want 7", got)
	}

	reversed, err := fx.svc.Cancel(context.Background(), trx.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reversed.Status != StatusCanceled {
		t.Errorf("status = %s, want CANCELED", reversed.Status)
	}
	if got := fx.ledger.stock(p.ID); got != 10 {
		t.Errorf("stock = %d, want 10", got)
	}
}

func TestReturnSale_RestoresStock(t *testing.T) {
	p := newProduct("P-001", 10, "8000", "15000")
	fx := newFixture(p)

	trx := postSale(t, fx, p, 4)

	reversed, err := fx.svc.Return(context.Background(), trx.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reversed.Status != StatusReturned {
		t.Errorf("status = %s, want RETURNED", reversed.Status)
	}
	if got := fx.ledger.stock(p.ID); got != 10 {
		t.Errorf("stock = %d, want 10", got)
	}
}

func TestCancelPurchase_MayDriveStockNegative(t *testing.T) {
	p := newProduct("P-001", 0, "8000", "15000")
	fx := newFixture(p)

	trx, err := fx.svc.Post(context.Background(), PostInput{
		Type:  TypePurchase,
		Lines: []PostLine{{ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("9000")}},
	})
	if err != nil {
		t.Fatalf("post purchase: %v", err)
	}

	// The purchased goods were since sold down to 2.
	fx.ledger.products[p.ID].Stock = 2

	if _, err := fx.svc.Cancel(context.Background(), trx.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fx.ledger.stock(p.ID); got != -8 {
		t.Errorf("stock = %d, want -8", got)
	}
}

func TestReturnPurchase_RequiresStock(t *testing.T) {
	p := newProduct("P-001", 0, "8000", "15000")
	fx := newFixture(p)

	trx, err := fx.svc.Post(context.Background(), PostInput{
		Type:  TypePurchase,
		Lines: []PostLine{{ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("9000")}},
	})
	if err != nil {
		t.Fatalf("post purchase: %v", err)
	}

	fx.ledger.products[p.ID].Stock = 4

	_, err = fx.svc.Return(context.Background(), trx.ID)
	if !apperror.HasCode(err, apperror.CodeInsufficientStock) {
		t.Fatalf("error = %v, want INSUFFICIENT_STOCK", err)
	}
	if got := fx.ledger.stock(p.ID); got != 4 {
		t.Errorf("stock = %d, want 4 (unchanged)", got)
	}
	stored, _ := fx.repo.GetByID(context.Background(), trx.ID)
	if stored.Status != StatusCompleted {
		t.Errorf("status = %s, want COMPLETED (reversal rolled back)", stored.Status)
	}
}

func TestReverse_SecondCallRejected(t *testing.T) {
	p := newProduct("P-001", 10, "8000", "15000")
	fx := newFixture(p)

	trx := postSale(t, fx, p, 3)

	if _, err := fx.svc.Cancel(context.Background(), trx.ID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}

	_, err := fx.svc.Cancel(context.Background(), trx.ID)
	if !apperror.HasCode(err, apperror.CodeInvalidState) {
		t.Fatalf("error = %v, want INVALID_STATE", err)
	}
	_, err = fx.svc.Return(context.Background(), trx.ID)
	if !apperror.HasCode(err, apperror.CodeInvalidState) {
		t.Fatalf("error = %v, want INVALID_STATE", err)
	}

	// Stock untouched by the rejected calls.
	if got := fx.ledger.stock(p.ID); got != 10 {
		t.Errorf("stock = %d, want 10", got)
	}
}

func TestReverse_UnknownTransaction(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Cancel(context.Background(), id.New())
	if !apperror.IsNotFound(err) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}
