package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/core/tx"
	"tokopos/pkg/logger"
)

// Cache is the byte-level cache the service stores rendered reports in.
// The redis store satisfies it; a nil cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Service serves reports, caching rendered results per query key.
// Repository calls run in a read-only transaction so multi-statement
// aggregates see one snapshot.
type Service struct {
	repo  Repository
	txm   tx.ReadOnlyManager
	cache Cache
	ttl   time.Duration
}

// NewService creates a new report service. ttl <= 0 disables caching.
func NewService(repo Repository, txm tx.ReadOnlyManager, cache Cache, ttl time.Duration) *Service {
	return &Service{repo: repo, txm: txm, cache: cache, ttl: ttl}
}

func (s *Service) readOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txm == nil {
		return fn(ctx)
	}
	return s.txm.ReadOnly(ctx, fn)
}

func validateRange(r Range) error {
	if r.From.IsZero() || r.To.IsZero() {
		return apperror.NewValidation("report range is required")
	}
	if !r.To.After(r.From) {
		return apperror.NewValidation("report range end must be after start")
	}
	return nil
}

// idKey renders an optional id filter into a cache key segment.
func idKey(v *id.ID) string {
	if v == nil {
		return "-"
	}
	return v.String()
}

// Sales returns the sales summary for a range, optionally narrowed to
// one cashier or partner. The cache key carries the filters so filtered
// and unfiltered requests never share an entry.
func (s *Service) Sales(ctx context.Context, f SalesFilter) (*SalesReport, error) {
	if err := validateRange(f.Range); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("report:sales:%d:%d:%s:%s",
		f.Range.From.Unix(), f.Range.To.Unix(), idKey(f.CashierID), idKey(f.PartnerID))
	return cached(ctx, s, key, func(ctx context.Context) (out *SalesReport, err error) {
		err = s.readOnly(ctx, func(ctx context.Context) error {
			out, err = s.repo.SalesSummary(ctx, f)
			return err
		})
		return out, err
	})
}

// Purchases returns the purchases summary for a range, optionally
// narrowed to one supplier.
func (s *Service) Purchases(ctx context.Context, f PurchasesFilter) (*PurchasesReport, error) {
	if err := validateRange(f.Range); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("report:purchases:%d:%d:%s",
		f.Range.From.Unix(), f.Range.To.Unix(), idKey(f.PartnerID))
	return cached(ctx, s, key, func(ctx context.Context) (out *PurchasesReport, err error) {
		err = s.readOnly(ctx, func(ctx context.Context) error {
			out, err = s.repo.Purchases(ctx, f)
			return err
		})
		return out, err
	})
}

// Profit returns per-day margins for a range.
func (s *Service) Profit(ctx context.Context, r Range) (*ProfitReport, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("report:profit:%d:%d", r.From.Unix(), r.To.Unix())
	return cached(ctx, s, key, func(ctx context.Context) (out *ProfitReport, err error) {
		err = s.readOnly(ctx, func(ctx context.Context) error {
			out, err = s.repo.ProfitDaily(ctx, r)
			return err
		})
		return out, err
	})
}

// Inventory returns the current stock valuation. Not cached: it reflects
// live stock and reads a single table.
func (s *Service) Inventory(ctx context.Context) (*InventoryReport, error) {
	var out *InventoryReport
	err := s.readOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.repo.Inventory(ctx)
		return err
	})
	return out, err
}

// cached wraps a report query with cache lookup and store. Cache failures
// are logged and ignored; the report still comes from storage.
func cached[T any](ctx context.Context, s *Service, key string, load func(ctx context.Context) (*T, error)) (*T, error) {
	if s.cache != nil && s.ttl > 0 {
		if raw, err := s.cache.Get(ctx, key); err == nil && len(raw) > 0 {
			var out T
			if err := json.Unmarshal(raw, &out); err == nil {
				return &out, nil
			}
		}
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
				logger.Warn(ctx, "report cache write failed", "key", key, "error", err)
			}
		}
	}

	return out, nil
}
