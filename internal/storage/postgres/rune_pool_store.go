package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/query"
	"thorchain-history/internal/storage"
)

// RunePoolStore implements storage.RunePoolStore using PostgreSQL.
type RunePoolStore struct {
	pool *Pool
}

// NewRunePoolStore creates a new RunePoolStore.
func NewRunePoolStore(pool *Pool) *RunePoolStore {
	return &RunePoolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunePoolStore = (*RunePoolStore)(nil)

// Insert adds one rune pool window.
func (s *RunePoolStore) Insert(ctx context.Context, row *domain.RunePoolHistory) error {
	sql := `
		INSERT INTO rune_pool_history (start_time, end_time, count, units)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, sql, row.StartTime, row.EndTime, row.Count, row.Units)
	if err != nil {
		return fmt.Errorf("insert rune pool window: %w", err)
	}
	return nil
}

// LatestEndTime returns max(end_time), the series watermark.
func (s *RunePoolStore) LatestEndTime(ctx context.Context) (time.Time, bool, error) {
	return latestEndTime(ctx, s.pool, "rune_pool_history")
}

// List executes a built read statement and decodes the result rows.
func (s *RunePoolStore) List(ctx context.Context, spec query.Spec) ([]*domain.RunePoolHistory, error) {
	sql, args := query.BuildSelect("rune_pool_history", spec)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query rune pool history: %w", err)
	}
	defer rows.Close()

	return scanRunePoolRows(rows)
}

func scanRunePoolRows(rows pgx.Rows) ([]*domain.RunePoolHistory, error) {
	var out []*domain.RunePoolHistory

	for rows.Next() {
		var r domain.RunePoolHistory

		if err := rows.Scan(&r.ID, &r.StartTime, &r.EndTime, &r.Count, &r.Units); err != nil {
			return nil, fmt.Errorf("scan rune pool row: %w", err)
		}

		out = append(out, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rune pool rows: %w", err)
	}

	return out, nil
}
