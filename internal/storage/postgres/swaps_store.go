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

// SwapsStore implements storage.SwapsStore using PostgreSQL.
type SwapsStore struct {
	pool *Pool
}

// NewSwapsStore creates a new SwapsStore.
func NewSwapsStore(pool *Pool) *SwapsStore {
	return &SwapsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SwapsStore = (*SwapsStore)(nil)

// Insert adds one swaps window.
func (s *SwapsStore) Insert(ctx context.Context, row *domain.SwapsHistory) error {
	sql := `
		INSERT INTO swaps_history (
			start_time, end_time,
			to_asset_count, to_rune_count, to_trade_count, from_trade_count,
			synth_mint_count, synth_redeem_count, total_count,
			to_asset_volume, to_rune_volume, to_trade_volume, from_trade_volume,
			synth_mint_volume, synth_redeem_volume, total_volume,
			to_asset_volume_usd, to_rune_volume_usd, to_trade_volume_usd, from_trade_volume_usd,
			synth_mint_volume_usd, synth_redeem_volume_usd, total_volume_usd,
			to_asset_fees, to_rune_fees, to_trade_fees, from_trade_fees,
			synth_mint_fees, synth_redeem_fees, total_fees,
			to_asset_average_slip, to_rune_average_slip, to_trade_average_slip, from_trade_average_slip,
			synth_mint_average_slip, synth_redeem_average_slip, average_slip,
			rune_price_usd
		) VALUES (
			$1, $2,
			$3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, $19, $20,
			$21, $22, $23,
			$24, $25, $26, $27,
			$28, $29, $30,
			$31, $32, $33, $34,
			$35, $36, $37,
			$38
		)
	`

	_, err := s.pool.Exec(ctx, sql,
		row.StartTime,
		row.EndTime,
		row.ToAssetCount,
		row.ToRuneCount,
		row.ToTradeCount,
		row.FromTradeCount,
		row.SynthMintCount,
		row.SynthRedeemCount,
		row.TotalCount,
		row.ToAssetVolume,
		row.ToRuneVolume,
		row.ToTradeVolume,
		row.FromTradeVolume,
		row.SynthMintVolume,
		row.SynthRedeemVolume,
		row.TotalVolume,
		row.ToAssetVolumeUSD,
		row.ToRuneVolumeUSD,
		row.ToTradeVolumeUSD,
		row.FromTradeVolumeUSD,
		row.SynthMintVolumeUSD,
		row.SynthRedeemVolumeUSD,
		row.TotalVolumeUSD,
		row.ToAssetFees,
		row.ToRuneFees,
		row.ToTradeFees,
		row.FromTradeFees,
		row.SynthMintFees,
		row.SynthRedeemFees,
		row.TotalFees,
		row.ToAssetAverageSlip,
		row.ToRuneAverageSlip,
		row.ToTradeAverageSlip,
		row.FromTradeAverageSlip,
		row.SynthMintAverageSlip,
		row.SynthRedeemAverageSlip,
		row.AverageSlip,
		row.RunePriceUSD,
	)
	if err != nil {
		return fmt.Errorf("insert swaps window: %w", err)
	}
	return nil
}

// LatestEndTime returns max(end_time), the series watermark.
func (s *SwapsStore) LatestEndTime(ctx context.Context) (time.Time, bool, error) {
	return latestEndTime(ctx, s.pool, "swaps_history")
}

// List executes a built read statement and decodes the result rows.
func (s *SwapsStore) List(ctx context.Context, spec query.Spec) ([]*domain.SwapsHistory, error) {
	sql, args := query.BuildSelect("swaps_history", spec)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query swaps history: %w", err)
	}
	defer rows.Close()

	return scanSwapsRows(rows)
}

func scanSwapsRows(rows pgx.Rows) ([]*domain.SwapsHistory, error) {
	var out []*domain.SwapsHistory

	for rows.Next() {
		var r domain.SwapsHistory

		err := rows.Scan(
			&r.ID,
			&r.StartTime,
			&r.EndTime,
			&r.ToAssetCount,
			&r.ToRuneCount,
			&r.ToTradeCount,
			&r.FromTradeCount,
			&r.SynthMintCount,
			&r.SynthRedeemCount,
			&r.TotalCount,
			&r.ToAssetVolume,
			&r.ToRuneVolume,
			&r.ToTradeVolume,
			&r.FromTradeVolume,
			&r.SynthMintVolume,
			&r.SynthRedeemVolume,
			&r.TotalVolume,
			&r.ToAssetVolumeUSD,
			&r.ToRuneVolumeUSD,
			&r.ToTradeVolumeUSD,
			&r.FromTradeVolumeUSD,
			&r.SynthMintVolumeUSD,
			&r.SynthRedeemVolumeUSD,
			&r.TotalVolumeUSD,
			&r.ToAssetFees,
			&r.ToRuneFees,
			&r.ToTradeFees,
			&r.FromTradeFees,
			&r.SynthMintFees,
			&r.SynthRedeemFees,
			&r.TotalFees,
			&r.ToAssetAverageSlip,
			&r.ToRuneAverageSlip,
			&r.ToTradeAverageSlip,
			&r.FromTradeAverageSlip,
			&r.SynthMintAverageSlip,
			&r.SynthRedeemAverageSlip,
			&r.AverageSlip,
			&r.RunePriceUSD,
		)
		if err != nil {
			return nil, fmt.Errorf("scan swaps row: %w", err)
		}

		out = append(out, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swaps rows: %w", err)
	}

	return out, nil
}
