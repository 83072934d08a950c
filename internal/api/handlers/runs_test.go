package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pricediff/internal/api/handlers"
	"github.com/donaldgifford/pricediff/internal/engine"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

type fakeRunner struct {
	result *engine.Result
	err    error
	last   *engine.RunRecord
	calls  int
}

func (f *fakeRunner) RunNow(context.Context) (*engine.Result, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeRunner) LastRun() (engine.RunRecord, bool) {
	if f.last == nil {
		return engine.RunRecord{}, false
	}
	return *f.last, true
}

func sampleResult() *engine.Result {
	shipping := int64(0)
	listing := &domain.Listing{
		Name:     "Widget",
		Price:    1280,
		Shipping: &shipping,
		URL:      "https://example.com/widget",
	}
	outcomes := []domain.Outcome{
		{Source: domain.SourceRakuten, Status: domain.OutcomeFound, Listing: listing},
		{Source: domain.SourceAmazon, Status: domain.OutcomeSkipped},
		{Source: domain.SourceYahoo, Status: domain.OutcomeFailed, Err: errors.New("yahoo search: status 503")},
	}
	return &engine.Result{
		RunID:      "run-1",
		Row:        domain.NewComparisonRow("ABC-123", outcomes),
		Outcomes:   outcomes,
		ReportPath: "/tmp/20260301_093015_result.csv",
	}
}

func newRunAPI(t *testing.T, r handlers.Runner) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	handlers.RegisterRunRoutes(api, handlers.NewRunHandler(r))
	return api
}

func TestRunHandler_Trigger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		runner     *fakeRunner
		wantStatus int
	}{
		{
			name:       "success",
			runner:     &fakeRunner{result: sampleResult()},
			wantStatus: http.StatusOK,
		},
		{
			name:       "delivery failure",
			runner:     &fakeRunner{err: errors.New("sending report: smtp down")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newRunAPI(t, tt.runner)
			resp := api.Post("/api/v1/runs")

			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, 1, tt.runner.calls)
		})
	}
}

func TestRunHandler_Trigger_Body(t *testing.T) {
	t.Parallel()

	api := newRunAPI(t, &fakeRunner{result: sampleResult()})
	resp := api.Post("/api/v1/runs")
	require.Equal(t, http.StatusOK, resp.Code)

	var got handlers.RunSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))

	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "ABC-123", got.SearchTerm)
	assert.Equal(t, "Widget", got.Name)
	require.Len(t, got.Outcomes, 3)

	rakuten := got.Outcomes[0]
	assert.Equal(t, domain.OutcomeFound, rakuten.Status)
	require.NotNil(t, rakuten.Price)
	assert.Equal(t, int64(1280), *rakuten.Price)
	require.NotNil(t, rakuten.Shipping)
	assert.Equal(t, int64(0), *rakuten.Shipping)

	assert.Equal(t, domain.OutcomeSkipped, got.Outcomes[1].Status)
	assert.Nil(t, got.Outcomes[1].Price)
	assert.Equal(t, "yahoo search: status 503", got.Outcomes[2].Error)
}

func TestRunHandler_Latest(t *testing.T) {
	t.Parallel()

	finished := time.Date(2026, 3, 1, 9, 30, 15, 0, time.UTC)

	tests := []struct {
		name        string
		runner      *fakeRunner
		wantStatus  int
		wantTrigger string
	}{
		{
			name:       "no run yet",
			runner:     &fakeRunner{},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "last cron run",
			runner: &fakeRunner{last: &engine.RunRecord{
				Result:     sampleResult(),
				FinishedAt: finished,
				Trigger:    "cron",
			}},
			wantStatus:  http.StatusOK,
			wantTrigger: "cron",
		},
		{
			name: "failed run without result",
			runner: &fakeRunner{last: &engine.RunRecord{
				Error:      "search term is required",
				FinishedAt: finished,
				Trigger:    "manual",
			}},
			wantStatus:  http.StatusOK,
			wantTrigger: "manual",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newRunAPI(t, tt.runner)
			resp := api.Get("/api/v1/runs/latest")
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var got handlers.RunSummary
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
			assert.Equal(t, tt.wantTrigger, got.Trigger)
			require.NotNil(t, got.FinishedAt)
			assert.True(t, finished.Equal(*got.FinishedAt))
			assert.Equal(t, tt.runner.last.Error, got.Error)
			assert.Equal(t, 0, tt.runner.calls)
		})
	}
}
