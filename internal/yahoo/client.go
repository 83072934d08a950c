// Package yahoo provides a Yahoo! Shopping V3 item search client.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/donaldgifford/pricediff/internal/market"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

const (
	defaultSearchURL = "https://shopping.yahooapis.jp/ShoppingWebService/V3/itemSearch"
	defaultResults   = 30
)

// Client implements market.Searcher using the itemSearch API.
type Client struct {
	appID       string
	searchURL   string
	results     int
	client      *http.Client
	rateLimiter *market.RateLimiter
}

// Option configures the Client.
type Option func(*Client)

// WithSearchURL overrides the default search endpoint.
func WithSearchURL(u string) Option {
	return func(c *Client) {
		c.searchURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimiter paces Search calls through r.
func WithRateLimiter(r *market.RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithResults sets the page size.
func WithResults(n int) Option {
	return func(c *Client) {
		c.results = n
	}
}

// NewClient creates a Yahoo! Shopping client. An empty appID leaves the
// client unconfigured.
func NewClient(appID string, opts ...Option) *Client {
	c := &Client{
		appID:     appID,
		searchURL: defaultSearchURL,
		results:   defaultResults,
		client:    &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source implements market.Searcher.
func (*Client) Source() domain.Source {
	return domain.SourceYahoo
}

// Configured reports whether an application ID is set.
func (c *Client) Configured() bool {
	return c.appID != ""
}

// Search requests one page of hits sorted by ascending price.
func (c *Client) Search(ctx context.Context, term string) ([]domain.Candidate, error) {
	if !c.Configured() {
		return nil, market.ErrNotConfigured
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildSearchURL(term), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	var resp searchResponse
	if err := market.DoJSON(c.client, req, &resp); err != nil {
		return nil, fmt.Errorf("yahoo search: %w", err)
	}

	return ToCandidates(resp.Hits), nil
}

func (c *Client) buildSearchURL(term string) string {
	params := url.Values{}
	params.Set("appid", c.appID)
	params.Set("query", term)
	params.Set("results", strconv.Itoa(c.results))
	params.Set("sort", "+price")
	return c.searchURL + "?" + params.Encode()
}
