// Package numerator provides the PostgreSQL implementation of document
// auto-numbering. It implements the core/numerator.Generator interface.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "dealerdesk/internal/core/numerator"
	"dealerdesk/internal/core/security"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document numbering backed by the sys_sequences table.
// Sequences are independent per owner account: two dealers both start
// their purchases at PUR-2026-00001.
type Service struct {
	querier Querier

	// cacheMu protects ranges
	cacheMu sync.Mutex
	// ranges stores active in-memory ranges for the Cached strategy,
	// keyed by owner plus sequence key
	ranges map[string]*cachedRange
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a new numerator service.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// GetNextNumber generates the next document number.
// Pattern: PREFIX-YEAR-XXXXX (e.g., PUR-2026-00001)
//
// Supports Strict (DB-level) and Cached (Memory-level) strategies.
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, opts *corenumerator.Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return "", err
	}

	if opts == nil {
		opts = corenumerator.DefaultOptions()
	}

	key := s.buildKey(cfg, period)

	var num int64
	switch opts.Strategy {
	case corenumerator.StrategyCached:
		num, err = s.getNextCached(ctx, owner, key, opts)
	case corenumerator.StrategyStrict:
		fallthrough
	default:
		num, err = s.getNextStrict(ctx, owner, key)
	}

	if err != nil {
		return "", err
	}

	return s.formatNumber(cfg, period, num), nil
}

// getNextStrict fetches the next number directly from DB using UPSERT + RETURNING.
// Guarantees gapless numbering under concurrency: the row lock taken by the
// UPSERT serializes competing requests.
func (s *Service) getNextStrict(ctx context.Context, owner, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (owner_id, key, current_val)
        VALUES ($1, $2, 1)
        ON CONFLICT (owner_id, key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, owner, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// getNextCached fetches the next number from memory, refilling from DB if needed.
func (s *Service) getNextCached(ctx context.Context, owner, key string, opts *corenumerator.Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	cacheKey := owner + ":" + key
	rng, exists := s.ranges[cacheKey]
	if !exists {
		rng = &cachedRange{}
		s.ranges[cacheKey] = rng
	}

	// allocate a new range if exhausted
	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (owner_id, key, current_val)
            VALUES ($1, $2, $3)
            ON CONFLICT (owner_id, key) DO UPDATE SET current_val = sys_sequences.current_val + $3
            RETURNING current_val
		`, owner, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		// newMax is the end of our range; the allocated range is
		// (newMax - size + 1) .. newMax.
		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber sets the next number value (for data imports).
func (s *Service) SetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	owner, err := security.RequireOwner(ctx)
	if err != nil {
		return err
	}

	key := s.buildKey(cfg, period)

	var result int64
	err = s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (owner_id, key, current_val)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, key) DO UPDATE SET current_val = $3
		RETURNING current_val
	`, owner, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, owner+":"+key)
	s.cacheMu.Unlock()

	return err
}

// buildKey creates the sequence key based on config and period.
func (s *Service) buildKey(cfg corenumerator.Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// formatNumber creates the final number string.
func (s *Service) formatNumber(cfg corenumerator.Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// ParseNumber extracts the numeric part from a formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	var num int64
	patterns := []string{
		"%*[^-]-%*d-%d",
		"%*[^-]-%d",
	}

	for _, pattern := range patterns {
		if _, err := fmt.Sscanf(formatted, pattern, &num); err == nil {
			return num
		}
	}

	return -1
}
