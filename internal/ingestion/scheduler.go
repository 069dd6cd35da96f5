package ingestion

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSyncInterval is the pause between scheduled sync passes.
const DefaultSyncInterval = 120 * time.Second

// Scheduler fires sync passes on a fixed cadence, the first one
// immediately. At most one pass runs at a time; a tick that lands
// while a pass is still working is skipped.
type Scheduler struct {
	orchestrator *Orchestrator
	interval     time.Duration
	logger       *zap.Logger

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// NewScheduler creates a Scheduler. A non-positive interval selects
// DefaultSyncInterval.
func NewScheduler(orchestrator *Orchestrator, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		orchestrator: orchestrator,
		interval:     interval,
		logger:       logger,
	}
}

// Run blocks until ctx is canceled, firing passes on the schedule.
// It waits for an in-flight pass to finish before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	s.fire(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

// fire starts a pass unless one is already in flight.
func (s *Scheduler) fire(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Info("previous sync pass still running, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		started := time.Now()
		res, err := s.orchestrator.RunPass(ctx)
		if err != nil {
			s.logger.Error("sync pass aborted",
				zap.Duration("elapsed", time.Since(started)),
				zap.Int("rounds", res.Rounds),
				zap.Error(err))
			return
		}
		s.logger.Info("sync pass complete",
			zap.Duration("elapsed", time.Since(started)),
			zap.Int("rounds", res.Rounds),
			zap.Int("depths", res.Depths),
			zap.Int("earnings", res.Earnings),
			zap.Int("runepool", res.RunePool),
			zap.Int("swaps", res.Swaps),
			zap.Int("swaps_skipped", res.SwapsSkipped))
	}()
}
