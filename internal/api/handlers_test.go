package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/observability"
	"thorchain-history/internal/storage/memory"
)

type testServer struct {
	router   *gin.Engine
	depths   *memory.DepthPriceStore
	earnings *memory.EarningsStore
	runePool *memory.RunePoolStore
	swaps    *memory.SwapsStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		depths:   memory.NewDepthPriceStore(),
		earnings: memory.NewEarningsStore(),
		runePool: memory.NewRunePoolStore(),
		swaps:    memory.NewSwapsStore(),
	}
	h := NewHandler(s.depths, s.earnings, s.runePool, s.swaps, nil)
	s.router = NewRouter(h, nil, observability.NewMetrics("test"))
	return s
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seedDepths(t *testing.T, starts ...time.Time) {
	t.Helper()
	for i, start := range starts {
		row := &domain.DepthPriceHistory{
			StartTime:  domain.UnixTime{Time: start},
			EndTime:    domain.UnixTime{Time: start.Add(time.Hour)},
			AssetDepth: int64(100 + i),
			RuneDepth:  int64(200 + i),
		}
		require.NoError(t, s.depths.Insert(context.Background(), row))
	}
}

func TestDepthHistory_ReturnsStoredRows(t *testing.T) {
	s := newTestServer(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.seedDepths(t, base, base.Add(time.Hour))

	rec := s.get("/history/depth")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.DepthPriceHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, base, rows[0].StartTime.UTC())
	assert.Equal(t, int64(100), rows[0].AssetDepth)

	// Numbers go over the wire as strings, timestamps as epoch seconds.
	assert.Contains(t, rec.Body.String(), `"assetDepth":"100"`)
	assert.Contains(t, rec.Body.String(), `"startTime":"1704067200"`)
}

func TestDepthHistory_EmptyIsArray(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/history/depth")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestDepthHistory_Pagination(t *testing.T) {
	s := newTestServer(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.seedDepths(t, base.Add(time.Duration(i)*time.Hour))
	}

	rec := s.get("/history/depth?limit=2&page=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.DepthPriceHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, base.Add(2*time.Hour), rows[0].StartTime.UTC())
	assert.Equal(t, base.Add(3*time.Hour), rows[1].StartTime.UTC())
}

func TestDepthHistory_OrderDesc(t *testing.T) {
	s := newTestServer(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.seedDepths(t, base, base.Add(time.Hour))

	rec := s.get("/history/depth?order=desc")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.DepthPriceHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, base.Add(time.Hour), rows[0].StartTime.UTC())
}

func TestDepthHistory_DayInterval(t *testing.T) {
	s := newTestServer(t)
	// Two rows on Jan 1, one on Jan 2.
	s.seedDepths(t,
		time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC),
	)

	rec := s.get("/history/depth?interval=day")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.DepthPriceHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC), rows[0].StartTime.UTC())
	assert.Equal(t, time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC), rows[1].StartTime.UTC())
}

func TestDepthHistory_DateRange(t *testing.T) {
	s := newTestServer(t)
	s.seedDepths(t,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
	)

	rec := s.get("/history/depth?dateRange=2024-01-04,2024-01-06")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.DepthPriceHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), rows[0].StartTime.UTC())
}

func TestDepthHistory_InvalidInterval(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/history/depth?interval=decade")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid interval")
}

func TestDepthHistory_SortByOutsideAllowList(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/history/depth?sortBy=total_count")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid sortBy")
}

func TestSwapsHistory_SortByAllowsOwnColumns(t *testing.T) {
	s := newTestServer(t)

	// total_count is a swaps column, so the same value the depth
	// endpoint rejects is accepted here.
	rec := s.get("/history/swaps?sortBy=total_count")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDepthHistory_MalformedLimit(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/history/depth?limit=lots")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDepthHistory_NegativePagination(t *testing.T) {
	s := newTestServer(t)
	s.seedDepths(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	for _, q := range []string{"limit=-5", "page=-1"} {
		rec := s.get("/history/depth?" + q)
		require.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, rec.Body.String(), "must not be negative")
	}
}

func TestEarningsHistory_IncludesPools(t *testing.T) {
	s := newTestServer(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	row := &domain.EarningsHistory{
		StartTime: domain.UnixTime{Time: start},
		EndTime:   domain.UnixTime{Time: start.Add(time.Hour)},
		Earnings:  1800,
		Pools: []domain.PoolEarnings{
			{Pool: "BTC.BTC", Earnings: 30, Rewards: 20},
			{Pool: "ETH.ETH", Earnings: 9},
		},
	}
	require.NoError(t, s.earnings.Insert(context.Background(), row))

	rec := s.get("/history/earnings")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.EarningsHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Pools, 2)
	assert.Equal(t, "BTC.BTC", rows[0].Pools[0].Pool)
	assert.Contains(t, rec.Body.String(), `"earnings":"30"`)
}

func TestRunePoolHistory_ReturnsRows(t *testing.T) {
	s := newTestServer(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	row := &domain.RunePoolHistory{
		StartTime: domain.UnixTime{Time: start},
		EndTime:   domain.UnixTime{Time: start.Add(time.Hour)},
		Count:     5,
		Units:     500,
	}
	require.NoError(t, s.runePool.Insert(context.Background(), row))

	rec := s.get("/history/rune-pool")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"units":"500"`)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestMetrics_ExposesRequestCounters(t *testing.T) {
	s := newTestServer(t)

	// Observe one request first so its counter exists.
	s.get("/health")

	rec := s.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}

func TestIndex_ListsEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/history/swaps")
}
