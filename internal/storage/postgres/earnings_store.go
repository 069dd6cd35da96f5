package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/query"
	"thorchain-history/internal/storage"
)

// EarningsStore implements storage.EarningsStore using PostgreSQL.
// Each earnings window is a parent row plus pool_earnings child rows
// linked by the generated parent id.
type EarningsStore struct {
	pool *Pool
}

// NewEarningsStore creates a new EarningsStore.
func NewEarningsStore(pool *Pool) *EarningsStore {
	return &EarningsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EarningsStore = (*EarningsStore)(nil)

// Insert adds one earnings window and its per-pool breakdown. The
// parent and child rows commit together so a window is never visible
// half-written.
func (s *EarningsStore) Insert(ctx context.Context, row *domain.EarningsHistory) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	parentSQL := `
		INSERT INTO earnings_history (
			start_time, end_time, liquidity_fees, block_rewards, earnings,
			bonding_earnings, liquidity_earnings, avg_node_count, rune_price_usd
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var parentID int64
	err = tx.QueryRow(ctx, parentSQL,
		row.StartTime,
		row.EndTime,
		row.LiquidityFees,
		row.BlockRewards,
		row.Earnings,
		row.BondingEarnings,
		row.LiquidityEarnings,
		row.AvgNodeCount,
		row.RunePriceUSD,
	).Scan(&parentID)
	if err != nil {
		return fmt.Errorf("insert earnings window: %w", err)
	}

	childSQL := `
		INSERT INTO pool_earnings (
			earnings_history_id, pool, asset_liquidity_fees, rune_liquidity_fees,
			total_liquidity_fees_rune, saver_earning, rewards, earnings
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, pe := range row.Pools {
		_, err := tx.Exec(ctx, childSQL,
			parentID,
			pe.Pool,
			pe.AssetLiquidityFees,
			pe.RuneLiquidityFees,
			pe.TotalLiquidityFeesRune,
			pe.SaverEarning,
			pe.Rewards,
			pe.Earnings,
		)
		if err != nil {
			return fmt.Errorf("insert pool earnings for %s: %w", pe.Pool, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LatestEndTime returns max(end_time), the series watermark.
func (s *EarningsStore) LatestEndTime(ctx context.Context) (time.Time, bool, error) {
	return latestEndTime(ctx, s.pool, "earnings_history")
}

// List executes the aggregated read statement and decodes each row,
// including the JSON-aggregated pools array.
func (s *EarningsStore) List(ctx context.Context, spec query.Spec) ([]*domain.EarningsHistory, error) {
	sql, args := query.BuildEarningsSelect(spec)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query earnings history: %w", err)
	}
	defer rows.Close()

	return scanEarningsRows(rows)
}

func scanEarningsRows(rows pgx.Rows) ([]*domain.EarningsHistory, error) {
	var out []*domain.EarningsHistory

	for rows.Next() {
		var r domain.EarningsHistory
		var poolsJSON []byte

		err := rows.Scan(
			&r.StartTime,
			&r.EndTime,
			&r.LiquidityFees,
			&r.BlockRewards,
			&r.Earnings,
			&r.BondingEarnings,
			&r.LiquidityEarnings,
			&r.AvgNodeCount,
			&r.RunePriceUSD,
			&poolsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan earnings row: %w", err)
		}

		if err := json.Unmarshal(poolsJSON, &r.Pools); err != nil {
			return nil, fmt.Errorf("decode pools aggregate: %w", err)
		}

		out = append(out, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate earnings rows: %w", err)
	}

	return out, nil
}
