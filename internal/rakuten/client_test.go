package rakuten_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pricediff/internal/market"
	"github.com/donaldgifford/pricediff/internal/rakuten"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

const fixtureResponse = `{
	"count": 5,
	"page": 1,
	"hits": 30,
	"Items": [
		{"Item": {"itemName": "Widget A", "itemPrice": 1200, "itemUrl": "https://item.rakuten.co.jp/a", "postageFlag": 0,
			"mediumImageUrls": [{"imageUrl": ""}, {"imageUrl": "https://thumbnail.image.rakuten.co.jp/a.jpg"}]}},
		{"Item": {"itemName": "Widget B (中古)", "itemPrice": 900, "itemUrl": "https://item.rakuten.co.jp/b", "postageFlag": 1}},
		{"Item": {"itemName": "", "itemPrice": 100, "itemUrl": "https://item.rakuten.co.jp/untitled"}},
		{"Item": {"itemName": "Widget No Price", "itemUrl": "https://item.rakuten.co.jp/np"}},
		{"Item": {"itemName": "Widget C", "itemPrice": 1200, "itemUrl": "https://item.rakuten.co.jp/c", "postageFlag": 1}}
	]
}`

func TestClient_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantErr    bool
		errContain string
		wantCount  int
	}{
		{
			name: "successful search",
			handler: func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "test-app", q.Get("applicationId"))
				assert.Equal(t, "ABC-123", q.Get("keyword"))
				assert.Equal(t, "json", q.Get("format"))
				assert.Equal(t, "30", q.Get("hits"))
				assert.Equal(t, "1", q.Get("page"))
				assert.Equal(t, "+itemPrice", q.Get("sort"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(fixtureResponse))
			},
			wantCount: 5,
		},
		{
			name: "missing Items is empty",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"count": 0}`))
			},
			wantCount: 0,
		},
		{
			name: "wrong parameter error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error": "wrong_parameter", "error_description": "specify valid applicationId"}`))
			},
			wantErr:    true,
			errContain: "status 400",
		},
		{
			name: "invalid JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
			wantErr:    true,
			errContain: "parsing search response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := rakuten.NewClient("test-app", rakuten.WithSearchURL(srv.URL))
			cands, err := c.Search(context.Background(), "ABC-123")

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
				assert.Contains(t, err.Error(), "rakuten search")
				return
			}
			require.NoError(t, err)
			assert.Len(t, cands, tt.wantCount)
		})
	}
}

func TestClient_Unconfigured(t *testing.T) {
	t.Parallel()

	c := rakuten.NewClient("")
	assert.False(t, c.Configured())
	assert.Equal(t, domain.SourceRakuten, c.Source())

	_, err := c.Search(context.Background(), "ABC-123")
	assert.True(t, errors.Is(err, market.ErrNotConfigured))
}

func TestClient_RateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Items": []}`))
	}))
	defer srv.Close()

	c := rakuten.NewClient("test-app",
		rakuten.WithSearchURL(srv.URL),
		rakuten.WithRateLimiter(market.NewRateLimiter(100, 1, 1)),
	)

	_, err := c.Search(context.Background(), "ABC-123")
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "ABC-123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, market.ErrDailyLimitReached))
}

func TestLookup_SelectsCheapestEligible(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(fixtureResponse))
	}))
	defer srv.Close()

	c := rakuten.NewClient("test-app", rakuten.WithSearchURL(srv.URL))
	out := market.Lookup(
		context.Background(),
		c,
		market.Query{Term: "ABC-123", Exclude: []string{"中古"}},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	require.Equal(t, domain.OutcomeFound, out.Status)
	require.NotNil(t, out.Listing)
	assert.Equal(t, "Widget A", out.Listing.Name)
	assert.Equal(t, int64(1200), out.Listing.Price)
	assert.Equal(t, "https://item.rakuten.co.jp/a", out.Listing.URL)
	assert.Equal(t, "https://thumbnail.image.rakuten.co.jp/a.jpg", out.Listing.ImageURL)
	assert.Nil(t, out.Listing.Shipping)
}

func TestLookup_TransportFailureIsAbsent(t *testing.T) {
	t.Parallel()

	c := rakuten.NewClient("test-app", rakuten.WithSearchURL("http://127.0.0.1:1"))
	out := market.Lookup(
		context.Background(),
		c,
		market.Query{Term: "ABC-123"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	assert.Equal(t, domain.OutcomeFailed, out.Status)
	assert.Nil(t, out.Listing)
	assert.Error(t, out.Err)
}
