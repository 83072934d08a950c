// Package rakuten provides a Rakuten Ichiba Item Search API client that maps
// results into comparison candidates.
package rakuten

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
	defaultSearchURL = "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20220601"
	defaultHits      = 30
)

// Client implements market.Searcher using the Ichiba Item Search API.
type Client struct {
	appID       string
	searchURL   string
	hits        int
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

// WithHits sets the page size (1-30).
func WithHits(n int) Option {
	return func(c *Client) {
		c.hits = n
	}
}

// NewClient creates a Rakuten client. An empty appID leaves the client
// unconfigured.
func NewClient(appID string, opts ...Option) *Client {
	c := &Client{
		appID:     appID,
		searchURL: defaultSearchURL,
		hits:      defaultHits,
		client:    &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source implements market.Searcher.
func (*Client) Source() domain.Source {
	return domain.SourceRakuten
}

// Configured reports whether an application ID is set.
func (c *Client) Configured() bool {
	return c.appID != ""
}

// Search requests one page of results sorted by ascending price.
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
		return nil, fmt.Errorf("rakuten search: %w", err)
	}

	items := make([]Item, 0, len(resp.Items))
	for i := range resp.Items {
		items = append(items, resp.Items[i].Item)
	}
	return ToCandidates(items), nil
}

func (c *Client) buildSearchURL(term string) string {
	params := url.Values{}
	params.Set("applicationId", c.appID)
	params.Set("keyword", term)
	params.Set("format", "json")
	params.Set("hits", strconv.Itoa(c.hits))
	params.Set("page", "1")
	params.Set("sort", "+itemPrice")
	return c.searchURL + "?" + params.Encode()
}
