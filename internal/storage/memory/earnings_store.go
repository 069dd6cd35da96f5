package memory

import (
	"context"
	"sync"
	"time"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/query"
	"thorchain-history/internal/storage"
)

// EarningsStore is an in-memory implementation of storage.EarningsStore.
type EarningsStore struct {
	mu   sync.RWMutex
	rows []*domain.EarningsHistory
}

// NewEarningsStore creates a new in-memory earnings store.
func NewEarningsStore() *EarningsStore {
	return &EarningsStore{}
}

var _ storage.EarningsStore = (*EarningsStore)(nil)

func (s *EarningsStore) Insert(_ context.Context, row *domain.EarningsHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowCopy := *row
	rowCopy.ID = int64(len(s.rows) + 1)
	rowCopy.Pools = append([]domain.PoolEarnings(nil), row.Pools...)
	s.rows = append(s.rows, &rowCopy)
	return nil
}

func (s *EarningsStore) LatestEndTime(_ context.Context) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max, ok := maxEndTime(s.rows, func(r *domain.EarningsHistory) time.Time { return r.EndTime.Time })
	return max, ok, nil
}

func (s *EarningsStore) List(_ context.Context, spec query.Spec) ([]*domain.EarningsHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := applySpec(s.rows, spec,
		func(r *domain.EarningsHistory) time.Time { return r.StartTime.Time },
		func(r *domain.EarningsHistory) time.Time { return r.EndTime.Time },
	)

	out := make([]*domain.EarningsHistory, 0, len(rows))
	for _, r := range rows {
		rowCopy := *r
		rowCopy.Pools = append([]domain.PoolEarnings(nil), r.Pools...)
		out = append(out, &rowCopy)
	}
	return out, nil
}
