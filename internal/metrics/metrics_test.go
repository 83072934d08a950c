package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, MarketplaceRequestsTotal)
	assert.NotNil(t, MarketplaceRequestDuration)
	assert.NotNil(t, MarketplaceDailyLimitHits)
	assert.NotNil(t, LookupOutcomesTotal)
	assert.NotNil(t, CandidatesFilteredTotal)
	assert.NotNil(t, RunDuration)
	assert.NotNil(t, ReportsWrittenTotal)
	assert.NotNil(t, NotificationDuration)
	assert.NotNil(t, NotificationsSentTotal)
	assert.NotNil(t, NotificationFailuresTotal)
	assert.NotNil(t, SchedulerNextRunTimestamp)
	assert.NotNil(t, LastRunTimestamp)
	assert.NotNil(t, LastRunSuccess)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
}

func TestPushFrom(t *testing.T) {
	t.Parallel()

	var (
		gotMethod string
		gotPath   string
		gotBody   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_pushed_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	err := PushFrom(context.Background(), srv.URL, "pricediff", reg)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/metrics/job/pricediff", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPushFrom_GatewayError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := PushFrom(context.Background(), srv.URL, "pricediff", prometheus.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pushing metrics")
}
