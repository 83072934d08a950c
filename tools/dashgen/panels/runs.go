package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RunDuration shows p50 and p95 full-run duration.
func RunDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Run Duration").
		Description("Duration of a full comparison run, lookups through delivery").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum by (le) (rate(pricediff_run_duration_seconds_bucket{job="pricediff"}[6h])))`,
			"p50",
			"A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum by (le) (rate(pricediff_run_duration_seconds_bucket{job="pricediff"}[6h])))`,
			"p95",
			"B",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ReportsWritten shows CSV reports written over the last day.
func ReportsWritten() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Reports (24h)").
		Description("CSV reports written in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(pricediff_reports_written_total{job="pricediff"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// Deliveries shows sent and failed report emails.
func Deliveries() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Report Emails").
		Description("Report emails sent and failed per hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(pricediff_notifications_sent_total{job="pricediff"}[1h])`, "sent", "A")).
		WithTarget(PromQuery(`increase(pricediff_notification_failures_total{job="pricediff"}[1h])`, "failed", "B")).
		FillOpacity(80).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}
