package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/midgard"
	"thorchain-history/internal/observability"
	"thorchain-history/internal/storage"
)

const (
	// DefaultLookback seeds the watermark when storage is empty.
	DefaultLookback = 90 * 24 * time.Hour
	// DefaultWindowCount is the number of hourly windows requested per fetch.
	DefaultWindowCount = 400
)

// OrchestratorOptions configures an Orchestrator.
type OrchestratorOptions struct {
	Source   HistorySource
	Depths   storage.DepthPriceStore
	Earnings storage.EarningsStore
	RunePool storage.RunePoolStore
	Swaps    storage.SwapsStore

	// Lookback bounds the initial backfill when no rows exist yet.
	Lookback time.Duration
	// WindowCount is passed as the count parameter on every fetch.
	WindowCount int
	// Now is the clock; defaults to time.Now. Tests pin it.
	Now     func() time.Time
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// Orchestrator runs sync passes: repeated fetch-and-store rounds that
// move the watermark forward until it reaches the last closed hour.
type Orchestrator struct {
	source   HistorySource
	depths   storage.DepthPriceStore
	earnings storage.EarningsStore
	runePool storage.RunePoolStore
	swaps    storage.SwapsStore

	lookback    time.Duration
	windowCount int
	now         func() time.Time
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// PassResult summarizes one completed sync pass.
type PassResult struct {
	Rounds       int
	Depths       int
	Earnings     int
	RunePool     int
	Swaps        int
	SwapsSkipped int
}

// NewOrchestrator validates options and creates an Orchestrator.
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	if opts.Source == nil {
		return nil, errors.New("ingestion: source is required")
	}
	if opts.Depths == nil || opts.Earnings == nil || opts.RunePool == nil || opts.Swaps == nil {
		return nil, errors.New("ingestion: all four stores are required")
	}
	if opts.Lookback <= 0 {
		opts.Lookback = DefaultLookback
	}
	if opts.WindowCount <= 0 {
		opts.WindowCount = DefaultWindowCount
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Orchestrator{
		source:      opts.Source,
		depths:      opts.Depths,
		earnings:    opts.Earnings,
		runePool:    opts.RunePool,
		swaps:       opts.Swaps,
		lookback:    opts.Lookback,
		windowCount: opts.WindowCount,
		now:         opts.Now,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}, nil
}

// RunPass advances the watermark until it is within one hour of now().
// Fetch failures and depth/earnings/runepool insert failures abort the
// pass; a swaps insert failure only skips that row. The counters in
// PassResult cover everything stored before any abort.
func (o *Orchestrator) RunPass(ctx context.Context) (PassResult, error) {
	started := time.Now()
	res, err := o.runPass(ctx)

	o.metrics.RecordRows(res.Depths, res.Earnings, res.RunePool, res.Swaps, res.SwapsSkipped)
	if err != nil {
		o.metrics.RecordPass("error", time.Since(started))
	} else {
		o.metrics.RecordPass("ok", time.Since(started))
	}
	return res, err
}

func (o *Orchestrator) runPass(ctx context.Context) (PassResult, error) {
	var res PassResult

	watermark, err := o.watermark(ctx)
	if err != nil {
		return res, err
	}
	cutoff := o.now().UTC().Truncate(time.Hour).Add(-time.Hour)

	for !watermark.After(cutoff) {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		res.Rounds++
		o.metrics.RecordRound()
		if err := o.runRound(ctx, watermark, &res); err != nil {
			return res, err
		}

		next, err := o.watermark(ctx)
		if err != nil {
			return res, err
		}
		if !next.After(watermark) {
			// The upstream returned no new closed windows; without
			// forward progress the loop would spin on the same range.
			o.logger.Warn("watermark did not advance, ending pass",
				zap.Time("watermark", watermark))
			return res, nil
		}
		watermark = next
	}

	return res, nil
}

// watermark returns the time the next fetch starts from: the newest
// stored depth end_time, or now minus the lookback when storage is empty.
func (o *Orchestrator) watermark(ctx context.Context) (time.Time, error) {
	latest, ok, err := o.depths.LatestEndTime(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("read depth watermark: %w", err)
	}
	if !ok {
		return o.now().UTC().Truncate(time.Hour).Add(-o.lookback), nil
	}
	o.metrics.RecordWatermark(latest)
	return latest.UTC(), nil
}

// runRound handles one window batch, series by series: each series is
// fetched and stored before the next series is fetched. A failure
// mid-round therefore leaves earlier series already ahead of the
// watermark's peers; the next pass resumes from the depth watermark
// and does not re-level them.
func (o *Orchestrator) runRound(ctx context.Context, from time.Time, res *PassResult) error {
	params := midgard.Params{
		Interval: domain.IntervalHour,
		From:     from,
		Count:    o.windowCount,
	}

	depths, err := o.source.DepthPriceHistory(ctx, params)
	if err != nil {
		return fmt.Errorf("fetch depth history: %w", err)
	}
	for _, row := range depths {
		if err := o.depths.Insert(ctx, row); err != nil {
			return fmt.Errorf("insert depth row at %s: %w", row.StartTime.UTC(), err)
		}
		res.Depths++
	}

	earnings, err := o.source.EarningsHistory(ctx, params)
	if err != nil {
		return fmt.Errorf("fetch earnings history: %w", err)
	}
	for _, row := range earnings {
		if err := o.earnings.Insert(ctx, row); err != nil {
			return fmt.Errorf("insert earnings row at %s: %w", row.StartTime.UTC(), err)
		}
		res.Earnings++
	}

	runePool, err := o.source.RunePoolHistory(ctx, params)
	if err != nil {
		return fmt.Errorf("fetch runepool history: %w", err)
	}
	for _, row := range runePool {
		if err := o.runePool.Insert(ctx, row); err != nil {
			return fmt.Errorf("insert runepool row at %s: %w", row.StartTime.UTC(), err)
		}
		res.RunePool++
	}

	swaps, err := o.source.SwapsHistory(ctx, params)
	if err != nil {
		return fmt.Errorf("fetch swaps history: %w", err)
	}
	for _, row := range swaps {
		if err := o.swaps.Insert(ctx, row); err != nil {
			// Swaps are not the watermark series; a bad row must not
			// stall the other three.
			o.logger.Warn("skipping swaps row",
				zap.Time("start", row.StartTime.Time),
				zap.Error(err))
			res.SwapsSkipped++
			continue
		}
		res.Swaps++
	}

	o.logger.Debug("round complete",
		zap.Time("from", from),
		zap.Int("depths", len(depths)),
		zap.Int("earnings", len(earnings)),
		zap.Int("runepool", len(runePool)),
		zap.Int("swaps", len(swaps)),
	)

	return nil
}
