package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

func bySourceSeries(title, description, expr, unit string) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(expr, BySourceLegend, "A")).
		Unit(unit).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// MarketplaceRequests shows search API calls per marketplace.
func MarketplaceRequests() *timeseries.PanelBuilder {
	return bySourceSeries(
		"Search Requests",
		"Marketplace search API calls per second",
		`pricediff:marketplace_requests:rate5m`,
		"reqps",
	)
}

// MarketplaceLatency shows p95 lookup duration per marketplace.
func MarketplaceLatency() *timeseries.PanelBuilder {
	return bySourceSeries(
		"Lookup Latency p95",
		"95th percentile marketplace lookup duration",
		`histogram_quantile(0.95, sum by (le, source) (rate(pricediff_marketplace_request_duration_seconds_bucket{job="pricediff"}[1h])))`,
		"s",
	)
}

// LookupFailures shows failed lookups per marketplace.
func LookupFailures() *timeseries.PanelBuilder {
	return bySourceSeries(
		"Lookup Failures",
		"Lookups that ended in a transport or parse failure",
		`pricediff:lookup_failures:rate5m`,
		"ops",
	).Thresholds(ThresholdsGreenYellowRed(0.001, 0.01)).
		ColorScheme(ColorSchemeThresholds())
}

// LookupOutcomes shows how lookups ended over the last day.
func LookupOutcomes() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Lookup Outcomes (24h)").
		Description("Marketplace lookups by outcome: found, empty, skipped, failed").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum by (source, status) (increase(pricediff_lookup_outcomes_total{job="pricediff"}[24h]))`,
			"{{source}} {{status}}",
			"A",
		)).
		FillOpacity(80).
		Legend(TableLegend("lastNotNull")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// CandidatesFiltered shows why search results were discarded.
func CandidatesFiltered() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Filtered Results").
		Description("Search results dropped before comparison, by reason").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`pricediff:candidates_filtered:rate5m`, "{{source}} {{reason}}", "A")).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DailyLimitHits shows how often a marketplace daily quota was reached.
func DailyLimitHits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Daily Limit Hits (24h)").
		Description("Times a marketplace daily call limit was reached in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum by (source) (increase(pricediff_marketplace_daily_limit_hits_total{job="pricediff"}[24h]))`,
			BySourceLegend,
			"A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
