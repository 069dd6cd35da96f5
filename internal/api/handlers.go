// Package api serves the stored history series over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"thorchain-history/internal/domain"
	"thorchain-history/internal/query"
	"thorchain-history/internal/storage"
)

// Handler holds the stores the read endpoints serve from.
type Handler struct {
	depths   storage.DepthPriceStore
	earnings storage.EarningsStore
	runePool storage.RunePoolStore
	swaps    storage.SwapsStore
	logger   *zap.Logger
}

// NewHandler creates a Handler over the given stores.
func NewHandler(
	depths storage.DepthPriceStore,
	earnings storage.EarningsStore,
	runePool storage.RunePoolStore,
	swaps storage.SwapsStore,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		depths:   depths,
		earnings: earnings,
		runePool: runePool,
		swaps:    swaps,
		logger:   logger,
	}
}

// historyParams are the raw query options shared by every series endpoint.
type historyParams struct {
	Interval  string `form:"interval"`
	DateRange string `form:"dateRange"`
	SortBy    string `form:"sortBy"`
	Order     string `form:"order"`
	Limit     int64  `form:"limit"`
	Page      int64  `form:"page"`
}

func (p historyParams) toQuery() query.Params {
	return query.Params{
		Interval:  p.Interval,
		DateRange: p.DateRange,
		SortBy:    p.SortBy,
		Order:     p.Order,
		Limit:     p.Limit,
		Page:      p.Page,
	}
}

// DepthHistory serves GET /history/depth.
func (h *Handler) DepthHistory(c *gin.Context) {
	serveList(h, c, storage.DepthPriceSortColumns, h.depths.List)
}

// EarningsHistory serves GET /history/earnings.
func (h *Handler) EarningsHistory(c *gin.Context) {
	serveList(h, c, storage.EarningsSortColumns, h.earnings.List)
}

// RunePoolHistory serves GET /history/rune-pool.
func (h *Handler) RunePoolHistory(c *gin.Context) {
	serveList(h, c, storage.RunePoolSortColumns, h.runePool.List)
}

// SwapsHistory serves GET /history/swaps.
func (h *Handler) SwapsHistory(c *gin.Context) {
	serveList(h, c, storage.SwapsSortColumns, h.swaps.List)
}

// serveList binds params, validates them against the table's sortable
// columns, and renders the rows as a JSON array. Validation problems
// come back as 400; store failures as 500 with the detail kept in logs.
func serveList[T any](h *Handler, c *gin.Context, sortColumns []string, list func(context.Context, query.Spec) ([]*T, error)) {
	var params historyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec, err := query.ParseSpec(params.toQuery(), sortColumns)
	if err != nil {
		var verr *query.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		h.logger.Error("parse query spec", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	rows, err := list(c.Request.Context(), spec)
	if err != nil {
		h.logger.Error("list history rows",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if rows == nil {
		rows = []*T{}
	}
	c.JSON(http.StatusOK, rows)
}

// Health serves GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Index serves GET / with a short endpoint listing.
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "thorchain-history",
		"endpoints": []string{
			"/health",
			"/history/depth",
			"/history/earnings",
			"/history/rune-pool",
			"/history/swaps",
		},
		"parameters": gin.H{
			"interval":  domain.Intervals,
			"dateRange": "YYYY-MM-DD,YYYY-MM-DD",
			"sortBy":    "column name, per endpoint",
			"order":     []string{"ASC", "DESC"},
			"limit":     "rows per page, default 10",
			"page":      "1-based page number, default 1",
		},
	})
}
