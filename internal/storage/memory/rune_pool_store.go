package memory

import (
	"context"
	"sync"
	"time"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/query"
	"thorchain-history/internal/storage"
)

// RunePoolStore is an in-memory implementation of storage.RunePoolStore.
type RunePoolStore struct {
	mu   sync.RWMutex
	rows []*domain.RunePoolHistory
}

// NewRunePoolStore creates a new in-memory rune pool store.
func NewRunePoolStore() *RunePoolStore {
	return &RunePoolStore{}
}

var _ storage.RunePoolStore = (*RunePoolStore)(nil)

func (s *RunePoolStore) Insert(_ context.Context, row *domain.RunePoolHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowCopy := *row
	rowCopy.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, &rowCopy)
	return nil
}

func (s *RunePoolStore) LatestEndTime(_ context.Context) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max, ok := maxEndTime(s.rows, func(r *domain.RunePoolHistory) time.Time { return r.EndTime.Time })
	return max, ok, nil
}

func (s *RunePoolStore) List(_ context.Context, spec query.Spec) ([]*domain.RunePoolHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := applySpec(s.rows, spec,
		func(r *domain.RunePoolHistory) time.Time { return r.StartTime.Time },
		func(r *domain.RunePoolHistory) time.Time { return r.EndTime.Time },
	)

	out := make([]*domain.RunePoolHistory, 0, len(rows))
	for _, r := range rows {
		rowCopy := *r
		out = append(out, &rowCopy)
	}
	return out, nil
}
