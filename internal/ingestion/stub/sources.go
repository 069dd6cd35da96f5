// Package stub provides a fixed in-memory history source for testing.
package stub

import (
	"context"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/midgard"
)

// StubHistorySource serves canned hourly windows for all four series.
// A fetch returns the windows starting at or after Params.From, capped
// at Params.Count, as copies to prevent mutation. Per-series errors can
// be injected to simulate upstream failures.
// Implements ingestion.HistorySource.
type StubHistorySource struct {
	Depths   []*domain.DepthPriceHistory
	Earnings []*domain.EarningsHistory
	RunePool []*domain.RunePoolHistory
	Swaps    []*domain.SwapsHistory

	DepthsErr   error
	EarningsErr error
	RunePoolErr error
	SwapsErr    error
}

// NewStubHistorySource creates an empty stub source.
func NewStubHistorySource() *StubHistorySource {
	return &StubHistorySource{}
}

// DepthPriceHistory returns the canned depth windows in range.
func (s *StubHistorySource) DepthPriceHistory(_ context.Context, p midgard.Params) ([]*domain.DepthPriceHistory, error) {
	if s.DepthsErr != nil {
		return nil, s.DepthsErr
	}
	return window(s.Depths, p, func(r *domain.DepthPriceHistory) domain.UnixTime { return r.StartTime })
}

// EarningsHistory returns the canned earnings windows in range.
func (s *StubHistorySource) EarningsHistory(_ context.Context, p midgard.Params) ([]*domain.EarningsHistory, error) {
	if s.EarningsErr != nil {
		return nil, s.EarningsErr
	}
	return window(s.Earnings, p, func(r *domain.EarningsHistory) domain.UnixTime { return r.StartTime })
}

// RunePoolHistory returns the canned runepool windows in range.
func (s *StubHistorySource) RunePoolHistory(_ context.Context, p midgard.Params) ([]*domain.RunePoolHistory, error) {
	if s.RunePoolErr != nil {
		return nil, s.RunePoolErr
	}
	return window(s.RunePool, p, func(r *domain.RunePoolHistory) domain.UnixTime { return r.StartTime })
}

// SwapsHistory returns the canned swaps windows in range.
func (s *StubHistorySource) SwapsHistory(_ context.Context, p midgard.Params) ([]*domain.SwapsHistory, error) {
	if s.SwapsErr != nil {
		return nil, s.SwapsErr
	}
	return window(s.Swaps, p, func(r *domain.SwapsHistory) domain.UnixTime { return r.StartTime })
}

func window[T any](rows []*T, p midgard.Params, startTime func(*T) domain.UnixTime) ([]*T, error) {
	var result []*T
	for _, row := range rows {
		if startTime(row).Before(p.From) {
			continue
		}
		if p.Count > 0 && len(result) >= p.Count {
			break
		}
		copy := *row
		result = append(result, &copy)
	}
	return result, nil
}
