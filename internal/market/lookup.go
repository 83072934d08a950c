package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/pricediff/internal/metrics"
	"github.com/donaldgifford/pricediff/internal/telemetry"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

// ErrSearchPanicked wraps a panic recovered from a Searcher.
var ErrSearchPanicked = errors.New("marketplace search panicked")

// Lookup runs one marketplace adapter end to end and always returns an
// Outcome. Unset credentials yield OutcomeSkipped without calling Search;
// errors and panics from Search yield OutcomeFailed.
func Lookup(ctx context.Context, s Searcher, q Query, log *slog.Logger) (out domain.Outcome) {
	src := s.Source()
	out.Source = src

	ctx, span := telemetry.Tracer().Start(ctx, "market.Lookup",
		trace.WithAttributes(attribute.String("marketplace.source", string(src))),
	)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out = domain.Outcome{
				Source: src,
				Status: domain.OutcomeFailed,
				Err:    fmt.Errorf("%w: %v", ErrSearchPanicked, r),
			}
			log.Error("marketplace search panicked", "source", src, "panic", r)
		}

		metrics.LookupOutcomesTotal.WithLabelValues(string(src), string(out.Status)).Inc()
		if inst, err := telemetry.Default(); err == nil {
			inst.RecordOutcome(ctx, string(src), string(out.Status))
		}
		span.SetAttributes(attribute.String("marketplace.outcome", string(out.Status)))
		if out.Err != nil {
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, out.Err.Error())
		}
		span.End()
	}()

	if !s.Configured() {
		log.Info("credentials not configured, skipping marketplace", "source", src)
		out.Status = domain.OutcomeSkipped
		return out
	}

	metrics.MarketplaceRequestsTotal.WithLabelValues(string(src)).Inc()
	cands, err := s.Search(ctx, q.Term)
	metrics.MarketplaceRequestDuration.WithLabelValues(string(src)).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			log.Info("credentials not configured, skipping marketplace", "source", src)
			out.Status = domain.OutcomeSkipped
			return out
		}
		if errors.Is(err, ErrDailyLimitReached) {
			metrics.MarketplaceDailyLimitHits.WithLabelValues(string(src)).Inc()
		}
		log.Error("marketplace search failed", "source", src, "error", err)
		out.Status = domain.OutcomeFailed
		out.Err = err
		return out
	}

	sel := Cheapest(cands, q.Exclude)
	recordFiltered(src, &sel)

	log.Info("marketplace results filtered",
		"source", src,
		"results", len(cands),
		"eligible", sel.Eligible,
		"excluded", sel.Excluded,
		"untitled", sel.Untitled,
		"unpriced", sel.Unpriced,
	)

	if sel.Best == nil {
		log.Info("no eligible listing", "source", src)
		out.Status = domain.OutcomeEmpty
		return out
	}

	log.Info("cheapest listing", "source", src, "name", sel.Best.Name, "price", sel.Best.Price)
	out.Status = domain.OutcomeFound
	out.Listing = sel.Best
	return out
}

func recordFiltered(src domain.Source, sel *Selection) {
	counts := map[string]int{
		"untitled": sel.Untitled,
		"excluded": sel.Excluded,
		"unpriced": sel.Unpriced,
	}
	for reason, n := range counts {
		if n > 0 {
			metrics.CandidatesFilteredTotal.WithLabelValues(string(src), reason).Add(float64(n))
		}
	}
}
