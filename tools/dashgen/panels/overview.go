package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

func upDownStat(title, description, expr string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(expr, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// ReadyzStat shows whether the scheduler is running.
func ReadyzStat() *stat.PanelBuilder {
	return upDownStat(
		"Scheduler Ready",
		"Readiness probe of the schedule command (1 = running, 0 = stopped)",
		`pricediff_readyz_up`,
	)
}

// LastRunStat shows whether the most recent run succeeded.
func LastRunStat() *stat.PanelBuilder {
	return upDownStat(
		"Last Run",
		"Outcome of the most recent comparison run (1 = ok, 0 = report or delivery failed)",
		`pricediff_last_run_success`,
	)
}

// LastRunAge shows the time since the last finished run.
func LastRunAge() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Since Last Run").
		Description("Time since the last comparison run finished").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`time() - pricediff_last_run_timestamp`, "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenYellowRed(86400, 172800)).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}

// NextRunIn shows the time until the next scheduled run.
func NextRunIn() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Next Run In").
		Description("Time until the next scheduled comparison run").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`pricediff_scheduler_next_run_timestamp - time()`, "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
