package rules

// AlertRules returns the alerts for a pricediff schedule deployment.
func AlertRules() PrometheusRule {
	return newResource("pricediff-alerts", "pricediff-alerts",
		alert("PricediffDown",
			`absent(up{job="pricediff"})`, "5m", "critical",
			"pricediff scheduler is down",
			"The pricediff job has been absent for more than 5 minutes."),
		alert("PricediffSchedulerNotReady",
			`pricediff_readyz_up == 0`, "5m", "critical",
			"pricediff scheduler is not running",
			"The readiness probe has reported a stopped scheduler for more than 5 minutes."),
		alert("PricediffLastRunFailed",
			`pricediff_last_run_success == 0`, "0m", "warning",
			"Last comparison run failed",
			"The most recent run could not write or deliver its report."),
		alert("PricediffRunOverdue",
			`time() > pricediff_scheduler_next_run_timestamp + 3600`, "10m", "warning",
			"Scheduled comparison run is overdue",
			"The next scheduled run is more than an hour past due."),
		alert("PricediffMarketplaceFailing",
			`pricediff:lookup_failures:rate5m / on (source) pricediff:marketplace_requests:rate5m >= 1`, "15m", "warning",
			"A marketplace lookup is failing",
			"Every lookup against {{ $labels.source }} failed over the last 15 minutes."),
		alert("PricediffDailyLimitReached",
			`increase(pricediff_marketplace_daily_limit_hits_total[1h]) > 0`, "0m", "warning",
			"Marketplace daily call limit reached",
			"The {{ $labels.source }} daily quota is exhausted; lookups are skipped until reset."),
		alert("PricediffDeliveryFailures",
			`pricediff:notification_failures:rate1h > 0`, "1m", "warning",
			"Report email delivery failures",
			"One or more report emails failed to send in the last hour."),
	)
}
