// Package ingestion advances the four history series from their upstream
// source into storage. The depth/price series' high-water mark gates all
// four: a pass fetches hourly windows starting at that mark and stops one
// full hour behind the current time, so only closed windows are stored.
package ingestion

import (
	"context"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/midgard"
)

// HistorySource provides interval windows for each history series.
// *midgard.Client satisfies it; tests substitute stub sources.
type HistorySource interface {
	DepthPriceHistory(ctx context.Context, p midgard.Params) ([]*domain.DepthPriceHistory, error)
	EarningsHistory(ctx context.Context, p midgard.Params) ([]*domain.EarningsHistory, error)
	RunePoolHistory(ctx context.Context, p midgard.Params) ([]*domain.RunePoolHistory, error)
	SwapsHistory(ctx context.Context, p midgard.Params) ([]*domain.SwapsHistory, error)
}

var _ HistorySource = (*midgard.Client)(nil)
