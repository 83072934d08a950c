package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate returns a timeseries panel showing the ops API request rate.
func RequestRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Ops API Requests").
		Description("Run API requests per second (probes and scrapes excluded)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`pricediff:http_requests:rate5m`, "req/s", "A")).
		WithTarget(PromQuery(`pricediff:http_errors:rate5m`, "5xx/s", "B")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RequestLatency returns a timeseries panel with p95 ops API latency by
// route. Triggered runs dominate this.
func RequestLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Ops API Latency p95").
		Description("95th percentile request duration by route").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum by (le, path) (rate(pricediff_http_request_duration_seconds_bucket{job="pricediff"}[5m])))`,
			"{{path}}",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
