// Package numerator provides transaction auto-numbering.
//
// Serials are allocated from the sys_sequences table with an atomic
// UPSERT ... RETURNING, keyed by (sequence key, business date). When the
// allocation runs inside the caller's database transaction, the updated
// sequence row stays locked until commit, which serializes concurrent
// postings for the same (date, type) pair and rolls the serial back
// together with an aborted posting. The unique index on the formatted
// number is the backstop, not the primary mechanism.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier is the minimal database capability the numerator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds numbering configuration for one document kind.
type Config struct {
	// Prefix added to all numbers (e.g., "tr-sale")
	Prefix string

	// PadWidth is the minimum serial width (default 3)
	PadWidth int
}

// DefaultConfig returns the standard per-day numbering configuration.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:   prefix,
		PadWidth: 3,
	}
}

// Service provides transaction numbering functionality.
type Service struct {
	// staticQuerier is used when the service is bound to a fixed connection
	// (tests, CLI tools).
	staticQuerier Querier

	// provider, when set, resolves the querier per call. Production wiring
	// passes the TxManager's querier lookup here so the allocation joins
	// the ambient transaction.
	provider func(ctx context.Context) Querier
}

// New creates a numerator bound to a fixed querier.
func New(querier Querier) *Service {
	return &Service{staticQuerier: querier}
}

// NewWithProvider creates a numerator that resolves its querier per call.
func NewWithProvider(provider func(ctx context.Context) Querier) *Service {
	return &Service{provider: provider}
}

func (s *Service) getQuerier(ctx context.Context) Querier {
	if s.provider != nil {
		return s.provider(ctx)
	}
	return s.staticQuerier
}

// Next allocates the next serial for (cfg.Prefix, day) and returns the
// formatted number: <prefix>-<yyyy-mm-dd>-<serial, zero padded>.
//
// Serials are strictly increasing per key and are never reused, even when
// the transaction that consumed one is later canceled.
func (s *Service) Next(ctx context.Context, cfg Config, day time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	date := day.Format("2006-01-02")

	var serial int64
	err := s.getQuerier(ctx).QueryRow(ctx, `
        INSERT INTO sys_sequences (seq_key, seq_date, current_val)
        VALUES ($1, $2, 1)
        ON CONFLICT (seq_key, seq_date) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, cfg.Prefix, date).Scan(&serial)
	if err != nil {
		return "", fmt.Errorf("next serial: %w", err)
	}

	return FormatNumber(cfg, day, serial), nil
}

// FormatNumber renders a transaction number without touching storage.
func FormatNumber(cfg Config, day time.Time, serial int64) string {
	pad := cfg.PadWidth
	if pad <= 0 {
		pad = 3
	}
	return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, day.Format("2006-01-02"), pad, serial)
}
