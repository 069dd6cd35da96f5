package memory

import (
	"context"
	"sync"
	"time"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/query"
	"thorchain-history/internal/storage"
)

// DepthPriceStore is an in-memory implementation of storage.DepthPriceStore.
type DepthPriceStore struct {
	mu   sync.RWMutex
	rows []*domain.DepthPriceHistory
}

// NewDepthPriceStore creates a new in-memory depth/price store.
func NewDepthPriceStore() *DepthPriceStore {
	return &DepthPriceStore{}
}

var _ storage.DepthPriceStore = (*DepthPriceStore)(nil)

func (s *DepthPriceStore) Insert(_ context.Context, row *domain.DepthPriceHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowCopy := *row
	rowCopy.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, &rowCopy)
	return nil
}

func (s *DepthPriceStore) LatestEndTime(_ context.Context) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max, ok := maxEndTime(s.rows, func(r *domain.DepthPriceHistory) time.Time { return r.EndTime.Time })
	return max, ok, nil
}

func (s *DepthPriceStore) List(_ context.Context, spec query.Spec) ([]*domain.DepthPriceHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := applySpec(s.rows, spec,
		func(r *domain.DepthPriceHistory) time.Time { return r.StartTime.Time },
		func(r *domain.DepthPriceHistory) time.Time { return r.EndTime.Time },
	)

	out := make([]*domain.DepthPriceHistory, 0, len(rows))
	for _, r := range rows {
		rowCopy := *r
		out = append(out, &rowCopy)
	}
	return out, nil
}
