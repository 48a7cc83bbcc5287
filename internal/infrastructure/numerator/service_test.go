package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "dealerdesk/internal/core/numerator"
	"dealerdesk/internal/core/security"
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

type mockQuerier struct {
	mu sync.Mutex

	// values simulates the sys_sequences table, keyed by owner:key
	values map[string]int64
	calls  int
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{values: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	// Strict passes (owner, key); cached passes (owner, key, rangeSize).
	owner, _ := args[0].(string)
	key, _ := args[1].(string)
	var increment int64 = 1
	if len(args) == 3 {
		if v, ok := args[2].(int64); ok {
			increment = v
		}
	}

	rowKey := owner + ":" + key
	m.values[rowKey] += increment
	return &mockRow{val: m.values[rowKey]}
}

func authedCtx(owner string) context.Context {
	return security.WithIdentity(context.Background(), &security.Identity{
		OwnerID: owner,
		UserID:  "user-1",
	})
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := authedCtx("owner-1")
	cfg := corenumerator.DefaultConfig("PUR")
	period := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PUR-2026-00001" {
		t.Errorf("expected PUR-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PUR-2026-00002" {
		t.Errorf("expected PUR-2026-00002, got %s", num)
	}
}

func TestGetNextNumber_RequiresOwner(t *testing.T) {
	svc := New(newMockQuerier())

	_, err := svc.GetNextNumber(context.Background(), corenumerator.DefaultConfig("PUR"), nil, time.Now())
	if err == nil {
		t.Fatal("expected error for unauthenticated context")
	}
}

func TestGetNextNumber_OwnersAreIndependent(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := corenumerator.DefaultConfig("PUR")
	period := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	num1, err := svc.GetNextNumber(authedCtx("dealer-a"), cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	num2, err := svc.GetNextNumber(authedCtx("dealer-b"), cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both dealers start their own sequence at 1
	if num1 != "PUR-2026-00001" || num2 != "PUR-2026-00001" {
		t.Errorf("expected both owners to start at PUR-2026-00001, got %s and %s", num1, num2)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := authedCtx("owner-1")
	cfg := corenumerator.DefaultConfig("LD")
	period := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	opts := &corenumerator.Options{
		Strategy:  corenumerator.StrategyCached,
		RangeSize: 10,
	}

	// First call allocates the range 1..10 in one DB round trip
	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "LD-2026-00001" {
		t.Errorf("expected LD-2026-00001, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected 1 DB call, got %d", q.calls)
	}

	// Second call comes from memory
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "LD-2026-00002" {
		t.Errorf("expected LD-2026-00002, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected DB calls to stay at 1, got %d", q.calls)
	}

	// Exhaust the range; the 11th number needs a fresh allocation
	for i := 0; i < 8; i++ {
		if _, err := svc.GetNextNumber(ctx, cfg, opts, period); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "LD-2026-00011" {
		t.Errorf("expected LD-2026-00011, got %s", num)
	}
	if q.calls != 2 {
		t.Errorf("expected 2 DB calls, got %d", q.calls)
	}
}

func TestFormatNumber(t *testing.T) {
	svc := New(newMockQuerier())
	period := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		cfg  corenumerator.Config
		num  int64
		want string
	}{
		{corenumerator.DefaultConfig("PUR"), 1, "PUR-2026-00001"},
		{corenumerator.DefaultConfig("SL"), 17, "SL-2026-00017"},
		{corenumerator.Config{Prefix: "VEH", PadWidth: 3}, 42, "VEH-042"},
		{corenumerator.Config{Prefix: "X", IncludeYear: true}, 99999, "X-2026-99999"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := svc.formatNumber(tt.cfg, period, tt.num)
			if got != tt.want {
				t.Errorf("formatNumber() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"PUR-2026-00001", 1},
		{"SL-2026-00017", 17},
		{"VEH-042", 42},
		{"garbage", -1},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBuildKey(t *testing.T) {
	svc := New(newMockQuerier())
	period := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		cfg  corenumerator.Config
		want string
	}{
		{corenumerator.Config{Prefix: "PUR", ResetPeriod: "year"}, "PUR_2026"},
		{corenumerator.Config{Prefix: "PUR", ResetPeriod: "month"}, "PUR_2026_08"},
		{corenumerator.Config{Prefix: "PUR", ResetPeriod: "never"}, "PUR"},
	}
	for _, tt := range tests {
		if got := svc.buildKey(tt.cfg, period); got != tt.want {
			t.Errorf("buildKey(%s) = %s, want %s", tt.cfg.ResetPeriod, got, tt.want)
		}
	}
}

func TestGetNextNumber_ConcurrentStrict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := authedCtx("owner-1")
	cfg := corenumerator.DefaultConfig("PUR")
	period := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	const n = 20
	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.GetNextNumber(ctx, cfg, nil, period)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for num := range results {
		if seen[num] {
			t.Errorf("duplicate number generated: %s", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d unique numbers, got %d", n, len(seen))
	}
	if !seen[fmt.Sprintf("PUR-2026-%05d", n)] {
		t.Errorf("expected sequence to reach %d", n)
	}
}
