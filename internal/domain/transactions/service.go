package transactions

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/clock"
	appctx "tokopos/internal/core/context"
	"tokopos/internal/core/id"
	"tokopos/internal/core/tx"
	"tokopos/internal/core/types"
	"tokopos/internal/domain"
	"tokopos/internal/domain/catalogs/product"
	"tokopos/pkg/logger"
)

// Service posts and reverses transactions. All stock mutation goes through
// the ledger inside one database transaction, with product rows locked in
// ascending id order.
type Service struct {
	repo      Repository
	ledger    StockLedger
	numerator Numerator
	txManager tx.Manager
	clock     clock.Clock
	audit     domain.AuditRecorder
}

// NewService creates a new transaction service.
func NewService(
	repo Repository,
	ledger StockLedger,
	num Numerator,
	txManager tx.Manager,
	clk clock.Clock,
	audit domain.AuditRecorder,
) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		repo:      repo,
		ledger:    ledger,
		numerator: num,
		txManager: txManager,
		clock:     clk,
		audit:     audit,
	}
}

// productDelta is the aggregated stock effect of one operation on one product.
type productDelta struct {
	productID id.ID
	quantity  int64
}

// aggregateDeltas sums quantities per product and returns them ordered by
// ascending product id. Locking in this order prevents deadlock between
// operations that touch overlapping product sets.
func aggregateDeltas(productIDs []id.ID, quantities []int64) []productDelta {
	byID := make(map[id.ID]int64, len(productIDs))
	order := make([]id.ID, 0, len(productIDs))
	for i, pid := range productIDs {
		if _, seen := byID[pid]; !seen {
			order = append(order, pid)
		}
		byID[pid] += quantities[i]
	}
	deltas := make([]productDelta, 0, len(order))
	for _, pid := range order {
		deltas = append(deltas, productDelta{productID: pid, quantity: byID[pid]})
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].productID.String() < deltas[j].productID.String()
	})
	return deltas
}

// Post validates a cart, computes totals, allocates a number and atomically
// persists the transaction while mutating stock. On any error no partial
// state survives.
func (s *Service) Post(ctx context.Context, in PostInput) (*Transaction, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	postedAt := in.Date
	if postedAt.IsZero() {
		postedAt = s.clock.Now()
	}

	// Resolve every referenced product in one read.
	productIDs := make([]id.ID, len(in.Lines))
	quantities := make([]int64, len(in.Lines))
	for i, line := range in.Lines {
		productIDs[i] = line.ProductID
		quantities[i] = line.Quantity
	}
	products, err := s.ledger.GetBatch(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	for _, line := range in.Lines {
		if _, ok := products[line.ProductID]; !ok {
			return nil, apperror.NewNotFound("product", line.ProductID.String())
		}
	}

	deltas := aggregateDeltas(productIDs, quantities)

	// Optimistic stock pre-check for sales. The authoritative check runs
	// again under lock.
	if in.Type == TypeSale {
		for _, d := range deltas {
			p := products[d.productID]
			if p.Stock < d.quantity {
				return nil, apperror.NewInsufficientStock(p.Code, d.quantity, p.Stock)
			}
		}
	}

	cashierID := currentUserID(ctx)
	trx, items, lastCost := s.build(in, products, postedAt, cashierID)

	if in.Type == TypeSale {
		if trx.PaymentAmount.LessThan(trx.GrandTotal) {
			return nil, apperror.NewInsufficientPayment(
				trx.GrandTotal.String(), trx.PaymentAmount.String())
		}
		trx.ChangeAmount = types.Round2(trx.PaymentAmount.Sub(trx.GrandTotal))
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Number allocation joins this transaction: the sequence row stays
		// locked until commit and the serial rolls back with the posting.
		number, err := s.numerator.Next(ctx, in.Type.NumberPrefix(), postedAt)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		trx.Number = number

		if err := s.repo.Create(ctx, trx); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		for _, d := range deltas {
			locked, err := s.ledger.GetForUpdate(ctx, d.productID)
			if err != nil {
				return fmt.Errorf("lock product: %w", err)
			}

			switch in.Type {
			case TypeSale:
				if locked.Stock < d.quantity {
					return apperror.NewInsufficientStock(locked.Code, d.quantity, locked.Stock)
				}
				if err := s.ledger.AdjustStock(ctx, d.productID, -d.quantity); err != nil {
					return fmt.Errorf("decrement stock: %w", err)
				}
			case TypePurchase:
				if err := s.ledger.AdjustStock(ctx, d.productID, d.quantity); err != nil {
					return fmt.Errorf("increment stock: %w", err)
				}
				// The purchase price becomes the new standard cost.
				if err := s.ledger.UpdateCostPrice(ctx, d.productID, lastCost[d.productID]); err != nil {
					return fmt.Errorf("update cost price: %w", err)
				}
			}
		}

		for i := range items {
			items[i].TransactionID = trx.ID
		}
		if err := s.repo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create items: %w", err)
		}

		return s.recordAudit(ctx, trx.ID, "post", cashierID, trx)
	})
	if err != nil {
		return nil, err
	}

	trx.Items = items

	logger.Info(ctx, "transaction posted",
		"id", trx.ID,
		"number", trx.Number,
		"type", trx.Type,
		"grand_total", trx.GrandTotal)

	return trx, nil
}

// build assembles the header and its items with all totals computed. The
// returned map carries the effective cost per product for purchases (the
// last line's cost wins when a product repeats).
func (s *Service) build(
	in PostInput,
	products map[id.ID]*product.Product,
	postedAt time.Time,
	cashierID id.ID,
) (*Transaction, []Item, map[id.ID]types.Money) {
	now := s.clock.Now()

	paymentMethod := in.PaymentMethod
	if in.Type == TypeSale && paymentMethod == "" {
		paymentMethod = PaymentMethodCash
	}

	trx := &Transaction{
		ID:             id.New(),
		Type:           in.Type,
		Status:         StatusCompleted,
		Date:           postedAt,
		PartnerID:      in.PartnerID,
		CashierID:      cashierID,
		DiscountAmount: types.Round2(in.DiscountAmount),
		TaxAmount:      types.Round2(in.TaxAmount),
		PaymentMethod:  paymentMethod,
		PaymentAmount:  types.Round2(in.PaymentAmount),
		ChangeAmount:   types.Zero(),
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}

	items := make([]Item, len(in.Lines))
	lastCost := make(map[id.ID]types.Money)
	subtotal := types.Zero()

	for i, line := range in.Lines {
		p := products[line.ProductID]

		// Sales snapshot the product's standard cost for margin history;
		// purchases carry the submitted cost, falling back to unit price.
		var cost types.Money
		if in.Type == TypeSale {
			cost = p.CostPrice
		} else if line.CostPrice != nil {
			cost = *line.CostPrice
		} else {
			cost = line.UnitPrice
		}
		lastCost[line.ProductID] = cost

		lineTotal := line.LineTotal()
		subtotal = subtotal.Add(lineTotal)

		items[i] = Item{
			ID:             id.New(),
			TransactionID:  trx.ID,
			ProductID:      line.ProductID,
			ProductName:    p.Name,
			Quantity:       line.Quantity,
			UnitPrice:      types.Round2(line.UnitPrice),
			CostPrice:      types.Round2(cost),
			DiscountAmount: types.Round2(line.DiscountAmount),
			TaxAmount:      types.Round2(line.TaxAmount),
			LineTotal:      lineTotal,
			CreatedAt:      now,
		}
	}

	trx.Subtotal = types.Round2(subtotal)
	// Negative grand totals are not rejected: an oversized header discount
	// is the operator's call.
	trx.GrandTotal = types.Round2(subtotal.Sub(trx.DiscountAmount).Add(trx.TaxAmount))

	return trx, items, lastCost
}

// Cancel undoes a COMPLETED transaction's stock effect and marks it
// CANCELED. Canceling a purchase removes the goods even if that drives
// stock negative.
func (s *Service) Cancel(ctx context.Context, trxID id.ID) (*Transaction, error) {
	return s.reverse(ctx, trxID, StatusCanceled, "cancel")
}

// Return undoes a COMPLETED transaction's stock effect and marks it
// RETURNED. Returning a purchase requires the goods to still be in stock.
func (s *Service) Return(ctx context.Context, trxID id.ID) (*Transaction, error) {
	return s.reverse(ctx, trxID, StatusReturned, "return")
}

func (s *Service) reverse(ctx context.Context, trxID id.ID, target Status, action string) (*Transaction, error) {
	trx, err := s.repo.GetByID(ctx, trxID)
	if err != nil {
		return nil, err
	}
	if trx.Status != StatusCompleted {
		return nil, apperror.NewInvalidState("transaction", string(trx.Status))
	}

	items, err := s.repo.GetItems(ctx, trxID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	productIDs := make([]id.ID, len(items))
	quantities := make([]int64, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
		quantities[i] = item.Quantity
	}
	deltas := aggregateDeltas(productIDs, quantities)

	userID := currentUserID(ctx)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, d := range deltas {
			locked, err := s.ledger.GetForUpdate(ctx, d.productID)
			if err != nil {
				return fmt.Errorf("lock product: %w", err)
			}

			delta := d.quantity // sale reversal restores stock
			if trx.Type == TypePurchase {
				// Purchase reversal removes the goods. A return requires
				// them to physically exist; a cancel does not.
				if target == StatusReturned && locked.Stock < d.quantity {
					return apperror.NewInsufficientStock(locked.Code, d.quantity, locked.Stock)
				}
				delta = -d.quantity
			}
			if err := s.ledger.AdjustStock(ctx, d.productID, delta); err != nil {
				return fmt.Errorf("adjust stock: %w", err)
			}
		}

		// Guarded transition: a concurrent reversal that won the race makes
		// this fail with InvalidState and roll everything back.
		if err := s.repo.UpdateStatus(ctx, trxID, StatusCompleted, target); err != nil {
			return err
		}

		return s.recordAudit(ctx, trxID, action, userID, trx)
	})
	if err != nil {
		return nil, err
	}

	trx.Status = target
	trx.Items = items

	logger.Info(ctx, "transaction reversed",
		"id", trx.ID,
		"number", trx.Number,
		"status", trx.Status)

	return trx, nil
}

// GetByID retrieves a transaction with its items.
func (s *Service) GetByID(ctx context.Context, trxID id.ID) (*Transaction, error) {
	trx, err := s.repo.GetByID(ctx, trxID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, trxID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	trx.Items = items
	return trx, nil
}

// GetByNumber retrieves a transaction by its formatted number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Transaction, error) {
	trx, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, trx.ID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	trx.Items = items
	return trx, nil
}

// List retrieves transactions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error) {
	return s.repo.List(ctx, filter)
}

func currentUserID(ctx context.Context) id.ID {
	if uid := appctx.GetUserID(ctx); uid != "" {
		if parsed, err := id.Parse(uid); err == nil {
			return parsed
		}
	}
	return id.Nil()
}

func (s *Service) recordAudit(ctx context.Context, entityID id.ID, action string, userID id.ID, payload any) error {
	if s.audit == nil {
		return nil
	}
	if err := s.audit.Record(ctx, "transaction", entityID, action, userID, payload); err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}
