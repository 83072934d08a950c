// Package amazon provides a Product Advertising API 5.0 SearchItems client
// with AWS Signature Version 4 request signing.
package amazon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/donaldgifford/pricediff/internal/market"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

const (
	defaultHost        = "webservices.amazon.co.jp"
	defaultRegion      = "us-west-2"
	defaultMarketplace = "www.amazon.co.jp"
	defaultItemCount   = 10

	errCodeNoResults = "NoResults"
)

var searchResources = []string{
	"Images.Primary.Medium",
	"ItemInfo.Title",
	"Offers.Listings.Price",
	"Offers.Listings.DeliveryInfo.IsFreeShippingEligible",
	"Offers.Listings.DeliveryInfo.IsPrimeEligible",
	"Offers.Listings.DeliveryInfo.ShippingCharges",
}

// Credentials identify an Associates account.
type Credentials struct {
	AccessKey   string
	SecretKey   string
	PartnerTag  string
	Host        string
	Region      string
	Marketplace string
}

// Client implements market.Searcher using PA-API 5 SearchItems.
type Client struct {
	creds       Credentials
	endpoint    string
	itemCount   int
	signer      *Signer
	client      *http.Client
	rateLimiter *market.RateLimiter
	nowFunc     func() time.Time
}

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the request URL. The signature still covers the
// configured host.
func WithEndpoint(u string) Option {
	return func(c *Client) {
		c.endpoint = u
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

// WithItemCount sets the number of items requested (1-10).
func WithItemCount(n int) Option {
	return func(c *Client) {
		c.itemCount = n
	}
}

// WithNowFunc overrides the signing clock for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = f
	}
}

// NewClient creates a PA-API client. Missing host, region and marketplace
// fall back to the amazon.co.jp defaults.
func NewClient(creds Credentials, opts ...Option) *Client {
	if creds.Host == "" {
		creds.Host = defaultHost
	}
	if creds.Region == "" {
		creds.Region = defaultRegion
	}
	if creds.Marketplace == "" {
		creds.Marketplace = defaultMarketplace
	}

	c := &Client{
		creds:     creds,
		endpoint:  "https://" + creds.Host + searchItemsPath,
		itemCount: defaultItemCount,
		signer:    NewSigner(creds.AccessKey, creds.SecretKey, creds.Region, creds.Host),
		client:    &http.Client{Timeout: 20 * time.Second},
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source implements market.Searcher.
func (*Client) Source() domain.Source {
	return domain.SourceAmazon
}

// Configured reports whether access key, secret key and partner tag are set.
func (c *Client) Configured() bool {
	return c.creds.AccessKey != "" && c.creds.SecretKey != "" && c.creds.PartnerTag != ""
}

// Search sends one signed SearchItems request.
func (c *Client) Search(ctx context.Context, term string) ([]domain.Candidate, error) {
	if !c.Configured() {
		return nil, market.ErrNotConfigured
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	body, err := json.Marshal(searchItemsRequest{
		Keywords:    term,
		SearchIndex: "All",
		ItemCount:   c.itemCount,
		PartnerTag:  c.creds.PartnerTag,
		PartnerType: "Associates",
		Marketplace: c.creds.Marketplace,
		Resources:   searchResources,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding SearchItems request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	c.signer.Apply(req, c.signer.Sign(body, c.nowFunc()))

	var resp searchItemsResponse
	if err := market.DoJSON(c.client, req, &resp); err != nil {
		return nil, fmt.Errorf("amazon search: %w", err)
	}

	if len(resp.Errors) > 0 {
		if resp.Errors[0].Code == errCodeNoResults {
			return []domain.Candidate{}, nil
		}
		return nil, fmt.Errorf("amazon search: %s", joinErrors(resp.Errors))
	}

	if resp.SearchResult == nil {
		return []domain.Candidate{}, nil
	}
	return ToCandidates(resp.SearchResult.Items), nil
}

func joinErrors(errs []APIError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Code+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}
