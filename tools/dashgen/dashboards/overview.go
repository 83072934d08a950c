// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/pricediff/tools/dashgen/panels"
)

// BuildOverview constructs the pricediff overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("pricediff Overview").
		Uid("pricediff-overview").
		Tags([]string{"pricediff"}).
		Refresh("1m").
		Time("now-7d", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Schedule").
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.LastRunStat()).
		WithPanel(panels.LastRunAge()).
		WithPanel(panels.NextRunIn()))

	b.WithRow(dashboard.NewRowBuilder("Marketplaces").
		WithPanel(panels.MarketplaceRequests()).
		WithPanel(panels.MarketplaceLatency()).
		WithPanel(panels.LookupFailures()).
		WithPanel(panels.LookupOutcomes()).
		WithPanel(panels.CandidatesFiltered()).
		WithPanel(panels.DailyLimitHits()))

	b.WithRow(dashboard.NewRowBuilder("Reports").
		WithPanel(panels.RunDuration()).
		WithPanel(panels.ReportsWritten()).
		WithPanel(panels.Deliveries()))

	b.WithRow(dashboard.NewRowBuilder("Ops API").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.RequestLatency()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
