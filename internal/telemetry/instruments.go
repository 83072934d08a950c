package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instruments are the OTLP counterparts of the run-level Prometheus
// metrics, for deployments that collect through an OpenTelemetry collector
// instead of a Pushgateway.
type Instruments struct {
	Runs     metric.Int64Counter
	Outcomes metric.Int64Counter
}

var (
	instOnce sync.Once
	inst     *Instruments
	instErr  error
)

// Default returns the process instruments, created once from the global
// meter provider. The global provider delegates to whatever provider Setup
// installs later.
func Default() (*Instruments, error) {
	instOnce.Do(func() {
		inst, instErr = NewInstruments(Meter())
	})
	return inst, instErr
}

// NewInstruments creates the instruments on m.
func NewInstruments(m metric.Meter) (*Instruments, error) {
	runs, err := m.Int64Counter("pricediff.runs",
		metric.WithDescription("Comparison runs by result."),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	outcomes, err := m.Int64Counter("pricediff.lookup.outcomes",
		metric.WithDescription("Marketplace lookups by source and outcome."),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &Instruments{Runs: runs, Outcomes: outcomes}, nil
}

// RecordRun counts one finished run. result is "ok", "report_failed" or
// "notify_failed".
func (i *Instruments) RecordRun(ctx context.Context, result string) {
	if i == nil {
		return
	}
	i.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordOutcome counts one marketplace lookup.
func (i *Instruments) RecordOutcome(ctx context.Context, source, status string) {
	if i == nil {
		return
	}
	i.Outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	))
}
