package rules

// RecordingRules returns the pre-computed rates shared by the overview
// dashboard and the alert rules.
func RecordingRules() PrometheusRule {
	return newResource("pricediff-recording-rules", "pricediff-recording",
		record("pricediff:marketplace_requests:rate5m",
			`sum by (source) (rate(pricediff_marketplace_requests_total[5m]))`),
		record("pricediff:lookup_failures:rate5m",
			`sum by (source) (rate(pricediff_lookup_outcomes_total{status="failed"}[5m]))`),
		record("pricediff:candidates_filtered:rate5m",
			`sum by (source, reason) (rate(pricediff_candidates_filtered_total[5m]))`),
		record("pricediff:http_requests:rate5m",
			`sum(rate(pricediff_http_requests_total[5m]))`),
		record("pricediff:http_errors:rate5m",
			`sum(rate(pricediff_http_requests_total{status=~"5.."}[5m]))`),
		record("pricediff:notification_failures:rate1h",
			`sum(rate(pricediff_notification_failures_total[1h]))`),
	)
}
