package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/pricediff/internal/engine"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

// Runner triggers a comparison run and reports the last finished one.
type Runner interface {
	RunNow(ctx context.Context) (*engine.Result, error)
	LastRun() (engine.RunRecord, bool)
}

// RunHandler serves the run trigger and status endpoints.
type RunHandler struct {
	runner Runner
}

// NewRunHandler creates a RunHandler.
func NewRunHandler(r Runner) *RunHandler {
	return &RunHandler{runner: r}
}

// OutcomeSummary is one marketplace result in a run summary.
type OutcomeSummary struct {
	Source   domain.Source        `json:"source"`
	Status   domain.OutcomeStatus `json:"status"`
	Name     string               `json:"name,omitempty"`
	Price    *int64               `json:"price,omitempty"`
	Shipping *int64               `json:"shipping,omitempty"`
	URL      string               `json:"url,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// RunSummary is the API view of a comparison run.
type RunSummary struct {
	RunID      string           `json:"run_id"`
	SearchTerm string           `json:"search_term"`
	Name       string           `json:"name"`
	ReportPath string           `json:"report_path,omitempty"`
	Trigger    string           `json:"trigger,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Error      string           `json:"error,omitempty"`
	Outcomes   []OutcomeSummary `json:"outcomes"`
}

// RunOutput is the response for run endpoints.
type RunOutput struct {
	Body *RunSummary
}

// Trigger runs a comparison now. Marketplace failures are reported per
// outcome; only report or delivery failures make the request fail.
func (h *RunHandler) Trigger(ctx context.Context, _ *struct{}) (*RunOutput, error) {
	res, err := h.runner.RunNow(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("comparison run failed: " + err.Error())
	}
	return &RunOutput{Body: summarize(res)}, nil
}

// Latest returns the most recent finished run.
func (h *RunHandler) Latest(_ context.Context, _ *struct{}) (*RunOutput, error) {
	rec, ok := h.runner.LastRun()
	if !ok {
		return nil, huma.Error404NotFound("no run has finished yet")
	}

	sum := summarize(rec.Result)
	sum.Trigger = rec.Trigger
	sum.Error = rec.Error
	finished := rec.FinishedAt
	sum.FinishedAt = &finished
	return &RunOutput{Body: sum}, nil
}

func summarize(res *engine.Result) *RunSummary {
	sum := &RunSummary{Outcomes: []OutcomeSummary{}}
	if res == nil {
		return sum
	}

	sum.RunID = res.RunID
	sum.SearchTerm = res.Row.SearchTerm
	sum.Name = res.Row.Name
	sum.ReportPath = res.ReportPath

	for i := range res.Outcomes {
		o := &res.Outcomes[i]
		summary := OutcomeSummary{Source: o.Source, Status: o.Status}
		if o.Listing != nil {
			price := o.Listing.Price
			summary.Name = o.Listing.Name
			summary.Price = &price
			summary.Shipping = o.Listing.Shipping
			summary.URL = o.Listing.URL
		}
		if o.Err != nil {
			summary.Error = o.Err.Error()
		}
		sum.Outcomes = append(sum.Outcomes, summary)
	}
	return sum
}

// RegisterRunRoutes registers the run routes on the Huma API.
func RegisterRunRoutes(api huma.API, h *RunHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-run",
		Method:      http.MethodPost,
		Path:        "/api/v1/runs",
		Summary:     "Trigger a comparison run",
		Description: "Queries every configured marketplace, writes the CSV report and sends it.",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Trigger)

	huma.Register(api, huma.Operation{
		OperationID: "get-latest-run",
		Method:      http.MethodGet,
		Path:        "/api/v1/runs/latest",
		Summary:     "Get the latest run",
		Description: "Returns the most recent finished comparison run.",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusNotFound},
	}, h.Latest)
}
