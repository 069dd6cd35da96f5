package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/ingestion/stub"
	"thorchain-history/internal/midgard"
	"thorchain-history/internal/query"
	"thorchain-history/internal/storage"
	"thorchain-history/internal/storage/memory"
)

func depthRow(start time.Time) *domain.DepthPriceHistory {
	return &domain.DepthPriceHistory{
		StartTime:  domain.UnixTime{Time: start},
		EndTime:    domain.UnixTime{Time: start.Add(time.Hour)},
		AssetDepth: 100,
		RuneDepth:  200,
	}
}

func earningsRow(start time.Time) *domain.EarningsHistory {
	return &domain.EarningsHistory{
		StartTime: domain.UnixTime{Time: start},
		EndTime:   domain.UnixTime{Time: start.Add(time.Hour)},
		Earnings:  1800,
		Pools:     []domain.PoolEarnings{{Pool: "BTC.BTC", Earnings: 30}},
	}
}

func runePoolRow(start time.Time) *domain.RunePoolHistory {
	return &domain.RunePoolHistory{
		StartTime: domain.UnixTime{Time: start},
		EndTime:   domain.UnixTime{Time: start.Add(time.Hour)},
		Count:     5,
		Units:     500,
	}
}

func swapsRow(start time.Time) *domain.SwapsHistory {
	return &domain.SwapsHistory{
		StartTime:  domain.UnixTime{Time: start},
		EndTime:    domain.UnixTime{Time: start.Add(time.Hour)},
		TotalCount: 12,
	}
}

// recordingSource captures the From parameter of every depth fetch.
type recordingSource struct {
	*stub.StubHistorySource
	froms []time.Time
}

func (r *recordingSource) DepthPriceHistory(ctx context.Context, p midgard.Params) ([]*domain.DepthPriceHistory, error) {
	r.froms = append(r.froms, p.From)
	return r.StubHistorySource.DepthPriceHistory(ctx, p)
}

type fixture struct {
	source   *recordingSource
	depths   *memory.DepthPriceStore
	earnings *memory.EarningsStore
	runePool *memory.RunePoolStore
	swaps    *memory.SwapsStore
}

func newFixture() *fixture {
	return &fixture{
		source:   &recordingSource{StubHistorySource: stub.NewStubHistorySource()},
		depths:   memory.NewDepthPriceStore(),
		earnings: memory.NewEarningsStore(),
		runePool: memory.NewRunePoolStore(),
		swaps:    memory.NewSwapsStore(),
	}
}

func (f *fixture) orchestrator(t *testing.T, now time.Time, opts func(*OrchestratorOptions)) *Orchestrator {
	t.Helper()
	o := OrchestratorOptions{
		Source:   f.source,
		Depths:   f.depths,
		Earnings: f.earnings,
		RunePool: f.runePool,
		Swaps:    f.swaps,
		Now:      func() time.Time { return now },
	}
	if opts != nil {
		opts(&o)
	}
	orch, err := NewOrchestrator(o)
	require.NoError(t, err)
	return orch
}

func TestOrchestrator_InitialBackfillStartsAtLookback(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)
	seed := time.Date(2023, 10, 12, 12, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	f := newFixture()
	for _, start := range []time.Time{seed, recent} {
		f.source.Depths = append(f.source.Depths, depthRow(start))
		f.source.Earnings = append(f.source.Earnings, earningsRow(start))
		f.source.RunePool = append(f.source.RunePool, runePoolRow(start))
		f.source.Swaps = append(f.source.Swaps, swapsRow(start))
	}

	orch := f.orchestrator(t, now, nil)
	res, err := orch.RunPass(context.Background())
	require.NoError(t, err)

	// 90 days before the truncated hour, not before the raw clock.
	require.NotEmpty(t, f.source.froms)
	assert.Equal(t, seed, f.source.froms[0])

	assert.Equal(t, 2, res.Depths)
	assert.Equal(t, 2, res.Earnings)
	assert.Equal(t, 2, res.RunePool)
	assert.Equal(t, 2, res.Swaps)
	assert.Zero(t, res.SwapsSkipped)

	rows, err := f.depths.List(context.Background(), query.Spec{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestOrchestrator_ResumesFromStoredWatermark(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)
	stored := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	f := newFixture()
	require.NoError(t, f.depths.Insert(context.Background(), depthRow(stored)))

	orch := f.orchestrator(t, now, nil)
	_, err := orch.RunPass(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, f.source.froms)
	assert.Equal(t, stored.Add(time.Hour), f.source.froms[0])
}

func TestOrchestrator_SecondPassAddsNothing(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)
	start := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	f := newFixture()
	f.source.Depths = append(f.source.Depths, depthRow(start))
	f.source.Earnings = append(f.source.Earnings, earningsRow(start))
	f.source.RunePool = append(f.source.RunePool, runePoolRow(start))
	f.source.Swaps = append(f.source.Swaps, swapsRow(start))

	orch := f.orchestrator(t, now, nil)

	first, err := orch.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Depths)

	second, err := orch.RunPass(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Depths)

	rows, err := f.depths.List(context.Background(), query.Spec{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestOrchestrator_UpToDateDoesNothing(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)
	// end_time 12:00 is already past the 11:00 cutoff.
	stored := time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC)

	f := newFixture()
	require.NoError(t, f.depths.Insert(context.Background(), depthRow(stored)))

	orch := f.orchestrator(t, now, nil)
	res, err := orch.RunPass(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Rounds)
	assert.Empty(t, f.source.froms)
}

func TestOrchestrator_FetchFailureAbortsPass(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)
	start := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	f := newFixture()
	f.source.Depths = append(f.source.Depths, depthRow(start))
	f.source.EarningsErr = errors.New("upstream unavailable")

	orch := f.orchestrator(t, now, nil)
	res, err := orch.RunPass(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch earnings history")

	// Depth was fetched and stored before the earnings fetch failed,
	// so the watermark series runs ahead of the other three. The next
	// pass resumes from the advanced watermark and does not re-level.
	assert.Equal(t, 1, res.Depths)
	rows, listErr := f.depths.List(context.Background(), query.Spec{Limit: 10})
	require.NoError(t, listErr)
	assert.Len(t, rows, 1)

	earningsRows, listErr := f.earnings.List(context.Background(), query.Spec{Limit: 10})
	require.NoError(t, listErr)
	assert.Empty(t, earningsRows)
}

func TestOrchestrator_NextPassResumesPastFailedRound(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)
	start := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	f := newFixture()
	f.source.Depths = append(f.source.Depths, depthRow(start))
	f.source.EarningsErr = errors.New("upstream unavailable")

	orch := f.orchestrator(t, now, nil)
	_, err := orch.RunPass(context.Background())
	require.Error(t, err)

	f.source.EarningsErr = nil
	res, err := orch.RunPass(context.Background())
	require.NoError(t, err)

	// The second pass starts past the depth row stored by the aborted
	// round, so the earnings window it failed on is never re-fetched.
	require.Len(t, f.source.froms, 2)
	assert.Equal(t, start.Add(time.Hour), f.source.froms[1])
	assert.Zero(t, res.Earnings)
}

// failingRunePoolStore rejects every insert.
type failingRunePoolStore struct {
	storage.RunePoolStore
}

func (f *failingRunePoolStore) Insert(context.Context, *domain.RunePoolHistory) error {
	return errors.New("constraint violation")
}

func TestOrchestrator_RunePoolInsertFailureAbortsPass(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)
	start := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	f := newFixture()
	f.source.Depths = append(f.source.Depths, depthRow(start))
	f.source.RunePool = append(f.source.RunePool, runePoolRow(start))
	f.source.Swaps = append(f.source.Swaps, swapsRow(start))

	orch := f.orchestrator(t, now, func(o *OrchestratorOptions) {
		o.RunePool = &failingRunePoolStore{RunePoolStore: f.runePool}
	})

	res, err := orch.RunPass(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert runepool row")

	// Depth rows land before the failure; swaps never get their turn.
	assert.Equal(t, 1, res.Depths)
	assert.Zero(t, res.Swaps)
}

// failingSwapsStore rejects every insert.
type failingSwapsStore struct {
	storage.SwapsStore
}

func (f *failingSwapsStore) Insert(context.Context, *domain.SwapsHistory) error {
	return errors.New("constraint violation")
}

func TestOrchestrator_SwapsInsertFailureOnlySkips(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)
	start := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	f := newFixture()
	f.source.Depths = append(f.source.Depths, depthRow(start))
	f.source.Swaps = append(f.source.Swaps, swapsRow(start))

	orch := f.orchestrator(t, now, func(o *OrchestratorOptions) {
		o.Swaps = &failingSwapsStore{SwapsStore: f.swaps}
	})

	res, err := orch.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Depths)
	assert.Zero(t, res.Swaps)
	assert.Equal(t, 1, res.SwapsSkipped)
}

func TestOrchestrator_EmptyFetchEndsPass(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)

	f := newFixture()
	orch := f.orchestrator(t, now, nil)

	res, err := orch.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rounds)
	assert.Zero(t, res.Depths)
}

func TestOrchestrator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newFixture()
	orch := f.orchestrator(t, time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC), nil)

	_, err := orch.RunPass(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
