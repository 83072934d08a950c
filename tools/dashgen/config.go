package main

import "errors"

// KnownMetrics is the set of metric names exported by pricediff plus the
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// Marketplace lookups.
	"pricediff_marketplace_requests_total":           true,
	"pricediff_marketplace_request_duration_seconds": true,
	"pricediff_marketplace_daily_limit_hits_total":   true,
	"pricediff_lookup_outcomes_total":                true,
	"pricediff_candidates_filtered_total":            true,

	// Runs and reports.
	"pricediff_run_duration_seconds":  true,
	"pricediff_reports_written_total": true,

	// Delivery.
	"pricediff_notification_duration_seconds": true,
	"pricediff_notifications_sent_total":      true,
	"pricediff_notification_failures_total":   true,

	// Scheduler.
	"pricediff_scheduler_next_run_timestamp": true,
	"pricediff_last_run_timestamp":           true,
	"pricediff_last_run_success":             true,

	// Ops HTTP and probes.
	"pricediff_http_request_duration_seconds": true,
	"pricediff_http_requests_total":           true,
	"pricediff_healthz_up":                    true,
	"pricediff_readyz_up":                     true,

	// Recording rules.
	"pricediff:marketplace_requests:rate5m":  true,
	"pricediff:lookup_failures:rate5m":       true,
	"pricediff:candidates_filtered:rate5m":   true,
	"pricediff:http_requests:rate5m":         true,
	"pricediff:http_errors:rate5m":           true,
	"pricediff:notification_failures:rate1h": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
