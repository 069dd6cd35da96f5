// Package midgard fetches history intervals from the Midgard API.
// Each endpoint returns an envelope whose rows sit under "intervals";
// the client decodes that envelope and nothing else. Retry policy
// belongs to the caller: every failure here is terminal.
package midgard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"thorchain-history/internal/domain"
)

// DefaultBaseURL is the public Midgard history endpoint.
const DefaultBaseURL = "https://midgard.ninerealms.com/v2/history"

// defaultDepthAsset is the pool whose depth/price series is mirrored.
const defaultDepthAsset = "BTC.BTC"

// Distinct failure kinds, matchable with errors.Is.
var (
	ErrInvalidEndpoint  = errors.New("invalid midgard endpoint")
	ErrRequestFailed    = errors.New("midgard request failed")
	ErrMissingIntervals = errors.New("midgard response missing intervals field")
	ErrDecode           = errors.New("midgard response decode failed")
)

// Params identify one upstream fetch window.
type Params struct {
	Interval domain.Interval
	From     time.Time
	Count    int
}

// Client is an HTTP client for the Midgard history endpoints.
type Client struct {
	baseURL    string
	depthAsset string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithDepthAsset overrides the pool used for the depth/price series.
func WithDepthAsset(asset string) Option {
	return func(c *Client) { c.depthAsset = asset }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Midgard client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		depthAsset: defaultDepthAsset,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DepthPriceHistory fetches depth/price windows for the configured pool.
func (c *Client) DepthPriceHistory(ctx context.Context, p Params) ([]*domain.DepthPriceHistory, error) {
	return fetchTyped[domain.DepthPriceHistory](ctx, c, "depths/"+c.depthAsset, p)
}

// EarningsHistory fetches earnings windows with per-pool breakdowns.
func (c *Client) EarningsHistory(ctx context.Context, p Params) ([]*domain.EarningsHistory, error) {
	return fetchTyped[domain.EarningsHistory](ctx, c, "earnings", p)
}

// RunePoolHistory fetches RUNEPool windows.
func (c *Client) RunePoolHistory(ctx context.Context, p Params) ([]*domain.RunePoolHistory, error) {
	return fetchTyped[domain.RunePoolHistory](ctx, c, "runepool", p)
}

// SwapsHistory fetches swap activity windows.
func (c *Client) SwapsHistory(ctx context.Context, p Params) ([]*domain.SwapsHistory, error) {
	return fetchTyped[domain.SwapsHistory](ctx, c, "swaps", p)
}

func fetchTyped[T any](ctx context.Context, c *Client, resource string, p Params) ([]*T, error) {
	raw, err := c.fetchIntervals(ctx, resource, p)
	if err != nil {
		return nil, err
	}

	var out []*T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %s intervals: %v", ErrDecode, resource, err)
	}
	return out, nil
}

// fetchIntervals performs one GET and extracts the intervals payload.
func (c *Client) fetchIntervals(ctx context.Context, resource string, p Params) (json.RawMessage, error) {
	u, err := url.Parse(c.baseURL + "/" + resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}

	q := u.Query()
	q.Set("interval", p.Interval.String())
	q.Set("from", strconv.FormatInt(p.From.Unix(), 10))
	q.Set("count", strconv.Itoa(p.Count))
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	c.logger.Debug("midgard fetch",
		zap.String("resource", resource),
		zap.Time("from", p.From),
		zap.Int("count", p.Count),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrRequestFailed, resource, resp.Status)
	}

	var envelope struct {
		Intervals json.RawMessage `json:"intervals"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %s envelope: %v", ErrDecode, resource, err)
	}
	if envelope.Intervals == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingIntervals, resource)
	}

	return envelope.Intervals, nil
}
