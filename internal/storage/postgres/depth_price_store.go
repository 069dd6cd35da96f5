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

// DepthPriceStore implements storage.DepthPriceStore using PostgreSQL.
type DepthPriceStore struct {
	pool *Pool
}

// NewDepthPriceStore creates a new DepthPriceStore.
func NewDepthPriceStore(pool *Pool) *DepthPriceStore {
	return &DepthPriceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DepthPriceStore = (*DepthPriceStore)(nil)

// Insert adds one depth/price window.
func (s *DepthPriceStore) Insert(ctx context.Context, row *domain.DepthPriceHistory) error {
	sql := `
		INSERT INTO depth_price_history (
			start_time, end_time, asset_depth, rune_depth, asset_price, asset_price_usd,
			liquidity_units, members_count, synth_units, synth_supply, units, luvi
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.pool.Exec(ctx, sql,
		row.StartTime,
		row.EndTime,
		row.AssetDepth,
		row.RuneDepth,
		row.AssetPrice,
		row.AssetPriceUSD,
		row.LiquidityUnits,
		row.MembersCount,
		row.SynthUnits,
		row.SynthSupply,
		row.Units,
		row.Luvi,
	)
	if err != nil {
		return fmt.Errorf("insert depth price window: %w", err)
	}
	return nil
}

// LatestEndTime returns max(end_time), the series watermark.
func (s *DepthPriceStore) LatestEndTime(ctx context.Context) (time.Time, bool, error) {
	return latestEndTime(ctx, s.pool, "depth_price_history")
}

// List executes a built read statement and decodes the result rows.
func (s *DepthPriceStore) List(ctx context.Context, spec query.Spec) ([]*domain.DepthPriceHistory, error) {
	sql, args := query.BuildSelect("depth_price_history", spec)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query depth price history: %w", err)
	}
	defer rows.Close()

	return scanDepthPriceRows(rows)
}

func scanDepthPriceRows(rows pgx.Rows) ([]*domain.DepthPriceHistory, error) {
	var out []*domain.DepthPriceHistory

	for rows.Next() {
		var r domain.DepthPriceHistory

		err := rows.Scan(
			&r.ID,
			&r.StartTime,
			&r.EndTime,
			&r.AssetDepth,
			&r.RuneDepth,
			&r.AssetPrice,
			&r.AssetPriceUSD,
			&r.LiquidityUnits,
			&r.MembersCount,
			&r.SynthUnits,
			&r.SynthSupply,
			&r.Units,
			&r.Luvi,
		)
		if err != nil {
			return nil, fmt.Errorf("scan depth price row: %w", err)
		}

		out = append(out, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate depth price rows: %w", err)
	}

	return out, nil
}
