// Package engine runs the price comparison pipeline: one lookup per
// marketplace, a CSV report, and report delivery.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/pricediff/internal/market"
	"github.com/donaldgifford/pricediff/internal/metrics"
	"github.com/donaldgifford/pricediff/internal/notify"
	"github.com/donaldgifford/pricediff/internal/telemetry"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

// ErrEmptySearchTerm is returned when Run is called without a search term.
var ErrEmptySearchTerm = errors.New("search term is required")

// ReportWriter persists a comparison row and returns the written path.
type ReportWriter interface {
	Write(row *domain.ComparisonRow, ts time.Time) (string, error)
}

// Result is the outcome of one comparison run. ReportPath is set once the
// report has been written, even when delivery later fails.
type Result struct {
	RunID      string               `json:"run_id"`
	StartedAt  time.Time            `json:"started_at"`
	Row        domain.ComparisonRow `json:"row"`
	Outcomes   []domain.Outcome     `json:"outcomes"`
	ReportPath string               `json:"report_path,omitempty"`
}

// Engine orchestrates marketplace lookups, report writing and delivery.
type Engine struct {
	searchers []market.Searcher
	writer    ReportWriter
	notifier  notify.Notifier
	log       *slog.Logger
	nowFunc   func() time.Time
}

// NewEngine creates a new Engine with injected dependencies. Searchers are
// queried in the order given.
func NewEngine(
	searchers []market.Searcher,
	w ReportWriter,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		searchers: searchers,
		writer:    w,
		notifier:  n,
		log:       slog.Default(),
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithNowFunc overrides the clock used for report timestamps.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// Run performs one comparison for q. Marketplace failures never fail the
// run. A report write error or a delivery error is returned together with
// the partial Result.
func (eng *Engine) Run(ctx context.Context, q market.Query) (*Result, error) {
	q.Term = strings.TrimSpace(q.Term)
	if q.Term == "" {
		return nil, ErrEmptySearchTerm
	}

	start := time.Now()
	defer func() {
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: eng.nowFunc(),
	}
	log := eng.log.With("run_id", res.RunID)

	inst, instErr := telemetry.Default()
	if instErr != nil {
		log.Warn("otel instruments unavailable", "error", instErr)
	}

	ctx, span := telemetry.Tracer().Start(ctx, "engine.Run",
		trace.WithAttributes(
			attribute.String("run.id", res.RunID),
			attribute.String("search.term", q.Term),
		),
	)
	defer span.End()

	log.Info("price comparison starting", "search_term", q.Term, "exclude_words", q.Exclude)

	res.Outcomes = make([]domain.Outcome, 0, len(eng.searchers))
	for _, s := range eng.searchers {
		res.Outcomes = append(res.Outcomes, market.Lookup(ctx, s, q, log))
	}
	res.Row = domain.NewComparisonRow(q.Term, res.Outcomes)

	ts := eng.nowFunc()
	path, err := eng.writer.Write(&res.Row, ts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		inst.RecordRun(ctx, "report_failed")
		return res, fmt.Errorf("writing report: %w", err)
	}
	res.ReportPath = path
	metrics.ReportsWrittenTotal.Inc()
	log.Info("report written", "path", path)

	if err := eng.notifier.Send(ctx, &notify.Report{
		SearchTerm: q.Term,
		Path:       path,
		CreatedAt:  ts,
	}); err != nil {
		log.Error("report delivery failed", "path", path, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		inst.RecordRun(ctx, "notify_failed")
		return res, fmt.Errorf("sending report: %w", err)
	}
	inst.RecordRun(ctx, "ok")

	log.Info("price comparison complete",
		"found", countFound(res.Outcomes),
		"duration", time.Since(start),
	)
	return res, nil
}

func countFound(outcomes []domain.Outcome) int {
	var n int
	for i := range outcomes {
		if outcomes[i].Found() {
			n++
		}
	}
	return n
}
