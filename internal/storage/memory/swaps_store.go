package memory

import (
	"context"
	"sync"
	"time"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/query"
	"thorchain-history/internal/storage"
)

// SwapsStore is an in-memory implementation of storage.SwapsStore.
type SwapsStore struct {
	mu   sync.RWMutex
	rows []*domain.SwapsHistory
}

// NewSwapsStore creates a new in-memory swaps store.
func NewSwapsStore() *SwapsStore {
	return &SwapsStore{}
}

var _ storage.SwapsStore = (*SwapsStore)(nil)

func (s *SwapsStore) Insert(_ context.Context, row *domain.SwapsHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowCopy := *row
	rowCopy.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, &rowCopy)
	return nil
}

func (s *SwapsStore) LatestEndTime(_ context.Context) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max, ok := maxEndTime(s.rows, func(r *domain.SwapsHistory) time.Time { return r.EndTime.Time })
	return max, ok, nil
}

func (s *SwapsStore) List(_ context.Context, spec query.Spec) ([]*domain.SwapsHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := applySpec(s.rows, spec,
		func(r *domain.SwapsHistory) time.Time { return r.StartTime.Time },
		func(r *domain.SwapsHistory) time.Time { return r.EndTime.Time },
	)

	out := make([]*domain.SwapsHistory, 0, len(rows))
	for _, r := range rows {
		rowCopy := *r
		out = append(out, &rowCopy)
	}
	return out, nil
}
