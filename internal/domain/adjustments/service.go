package adjustments

import (
	"context"
	"fmt"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/clock"
	appctx "tokopos/internal/core/context"
	"tokopos/internal/core/id"
	"tokopos/internal/core/tx"
	"tokopos/internal/domain"
	"tokopos/internal/domain/catalogs/product"
	"tokopos/pkg/logger"
)

// Ledger is the slice of the product repository needed for locked stock
// mutation. The product repository satisfies it directly.
type Ledger interface {
	GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error)
	AdjustStock(ctx context.Context, productID id.ID, delta int64) error
}

// Service applies ad-hoc stock deltas under the same lock discipline as
// transaction posting. Negative resulting stock is allowed; a manual
// correction states reality rather than requesting it.
type Service struct {
	repo      Repository
	ledger    Ledger
	txManager tx.Manager
	clock     clock.Clock
	audit     domain.AuditRecorder
}

// NewService creates a new adjustment service.
func NewService(repo Repository, ledger Ledger, txManager tx.Manager, clk clock.Clock, audit domain.AuditRecorder) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		repo:      repo,
		ledger:    ledger,
		txManager: txManager,
		clock:     clk,
		audit:     audit,
	}
}

// Adjust locks the product, applies the delta and appends the audit record
// in one transaction.
func (s *Service) Adjust(ctx context.Context, in Input) (*StockAdjustment, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	userID := id.Nil()
	if uid := appctx.GetUserID(ctx); uid != "" {
		if parsed, err := id.Parse(uid); err == nil {
			userID = parsed
		}
	}

	adj := &StockAdjustment{
		ID:             id.New(),
		ProductID:      in.ProductID,
		UserID:         userID,
		QuantityChange: in.QuantityChange,
		Reason:         in.Reason,
		Notes:          in.Notes,
		CreatedAt:      s.clock.Now(),
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.ledger.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		adj.StockBefore = locked.Stock
		adj.StockAfter = locked.Stock + in.QuantityChange

		if err := s.ledger.AdjustStock(ctx, in.ProductID, in.QuantityChange); err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		if err := s.repo.Create(ctx, adj); err != nil {
			return fmt.Errorf("create adjustment: %w", err)
		}
		if s.audit != nil {
			if err := s.audit.Record(ctx, "stock_adjustment", adj.ID, "adjust", userID, adj); err != nil {
				return fmt.Errorf("record audit: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock adjusted",
		"product_id", in.ProductID,
		"delta", in.QuantityChange,
		"stock_after", adj.StockAfter)

	return adj, nil
}

// GetByID retrieves an adjustment.
func (s *Service) GetByID(ctx context.Context, adjID id.ID) (*StockAdjustment, error) {
	adj, err := s.repo.GetByID(ctx, adjID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewNotFound("stock adjustment", adjID.String())
	}
	return adj, nil
}

// List retrieves adjustments with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockAdjustment], error) {
	return s.repo.List(ctx, filter)
}
