package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"thorchain-history/internal/observability"
)

// NewRouter builds the HTTP routing table over the given handler.
// A nil logger or metrics disables the respective middleware.
func NewRouter(h *Handler, logger *zap.Logger, metrics *observability.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if logger != nil {
		router.Use(requestLogger(logger))
	}
	if metrics != nil {
		router.Use(requestMetrics(metrics))
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	router.GET("/", h.Index)
	router.GET("/health", h.Health)

	history := router.Group("/history")
	history.GET("/depth", h.DepthHistory)
	history.GET("/earnings", h.EarningsHistory)
	history.GET("/rune-pool", h.RunePoolHistory)
	history.GET("/swaps", h.SwapsHistory)

	return router
}

// requestLogger records one structured line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(started)),
		)
	}
}

// requestMetrics observes request counts and latency per route.
func requestMetrics(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(path, strconv.Itoa(c.Writer.Status()), time.Since(started))
	}
}
