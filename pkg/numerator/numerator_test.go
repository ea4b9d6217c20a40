package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences upsert: one counter per
// (seq_key, seq_date) pair.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := args[0].(string) + "|" + args[1].(string)
	m.counters[key]++
	return &mockRow{val: m.counters[key]}
}

func TestNext_SequentialSerials(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("tr-sale")
	day := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	num, err := svc.Next(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "tr-sale-2026-03-14-001" {
		t.Errorf("expected tr-sale-2026-03-14-001, got %s", num)
	}

	num, err = svc.Next(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "tr-sale-2026-03-14-002" {
		t.Errorf("expected tr-sale-2026-03-14-002, got %s", num)
	}
}

func TestNext_KeysAreIndependent(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	sale, _ := svc.Next(ctx, DefaultConfig("tr-sale"), day)
	purchase, _ := svc.Next(ctx, DefaultConfig("tr-purchase"), day)
	saleNextDay, _ := svc.Next(ctx, DefaultConfig("tr-sale"), nextDay)

	if sale != "tr-sale-2026-03-14-001" {
		t.Errorf("sale serial not independent: %s", sale)
	}
	if purchase != "tr-purchase-2026-03-14-001" {
		t.Errorf("purchase serial not independent: %s", purchase)
	}
	if saleNextDay != "tr-sale-2026-03-15-001" {
		t.Errorf("serial did not reset on new date: %s", saleNextDay)
	}
}

func TestFormatNumber_Padding(t *testing.T) {
	cfg := DefaultConfig("tr-sale")
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		serial int64
		want   string
	}{
		{1, "tr-sale-2026-01-02-001"},
		{42, "tr-sale-2026-01-02-042"},
		{999, "tr-sale-2026-01-02-999"},
		{1000, "tr-sale-2026-01-02-1000"},
	}

	for _, tt := range tests {
		if got := FormatNumber(cfg, day, tt.serial); got != tt.want {
			t.Errorf("FormatNumber(%d) = %s, want %s", tt.serial, got, tt.want)
		}
	}
}

func TestNext_Concurrent_NoDuplicates(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := DefaultConfig("tr-sale")
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	const n = 50
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.Next(context.Background(), cfg, day)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, n)
	for num := range results {
		if seen[num] {
			t.Fatalf("duplicate number allocated: %s", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d unique numbers, got %d", n, len(seen))
	}
}
