package storage

import (
	"context"
	"time"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/query"
)

// Series stores are append-only: rows are created by the ingestion
// pass in non-decreasing end_time order and never updated or deleted.
// LatestEndTime is the series watermark, max(end_time); the second
// return is false when the series is empty.

// DepthPriceStore provides access to the depth_price_history table.
type DepthPriceStore interface {
	Insert(ctx context.Context, row *domain.DepthPriceHistory) error
	LatestEndTime(ctx context.Context) (time.Time, bool, error)
	List(ctx context.Context, spec query.Spec) ([]*domain.DepthPriceHistory, error)
}

// EarningsStore provides access to earnings_history and its
// pool_earnings child table. Insert writes the parent row and the
// per-pool breakdown under the generated parent id; List re-assembles
// Pools from the child rows.
type EarningsStore interface {
	Insert(ctx context.Context, row *domain.EarningsHistory) error
	LatestEndTime(ctx context.Context) (time.Time, bool, error)
	List(ctx context.Context, spec query.Spec) ([]*domain.EarningsHistory, error)
}

// RunePoolStore provides access to the rune_pool_history table.
type RunePoolStore interface {
	Insert(ctx context.Context, row *domain.RunePoolHistory) error
	LatestEndTime(ctx context.Context) (time.Time, bool, error)
	List(ctx context.Context, spec query.Spec) ([]*domain.RunePoolHistory, error)
}

// SwapsStore provides access to the swaps_history table.
type SwapsStore interface {
	Insert(ctx context.Context, row *domain.SwapsHistory) error
	LatestEndTime(ctx context.Context) (time.Time, bool, error)
	List(ctx context.Context, spec query.Spec) ([]*domain.SwapsHistory, error)
}
