package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/pricediff/tools/dashgen/rules"
)

var known = map[string]bool{
	"pricediff_run_duration_seconds": true,
	"pricediff_readyz_up":            true,
}

func TestExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		expr       string
		wantErrors int
	}{
		{name: "known gauge", expr: `pricediff_readyz_up == 0`},
		{name: "histogram bucket", expr: `histogram_quantile(0.9, sum by (le) (rate(pricediff_run_duration_seconds_bucket[5m])))`},
		{name: "unknown metric", expr: `rate(pricediff_nope_total[5m])`, wantErrors: 1},
		{name: "syntax error", expr: `sum(rate(`, wantErrors: 1},
		{name: "function only", expr: `time()`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Expr("test", tt.expr, known)
			assert.Len(t, res.Errors, tt.wantErrors, "errors: %v", res.Errors)
		})
	}
}

func TestRules_RecordedNamesBecomeKnown(t *testing.T) {
	t.Parallel()

	groups := []rules.RuleGroup{{
		Name: "g",
		Rules: []rules.Rule{
			{Record: "pricediff:up:max", Expr: `max(pricediff_readyz_up)`},
			{Alert: "Down", Expr: `pricediff:up:max == 0`, Labels: map[string]string{"severity": "critical"}},
			{Alert: "NoSeverity", Expr: `pricediff_readyz_up == 0`},
			{Expr: `pricediff_readyz_up`},
		},
	}}

	res := Rules(groups, known)
	assert.Len(t, res.Errors, 1)
	assert.Len(t, res.Warnings, 1)
	assert.Error(t, res.Err())
}

func TestDashboard_WalksRows(t *testing.T) {
	t.Parallel()

	dash := map[string]any{
		"panels": []any{
			map[string]any{
				"type": "row",
				"panels": []any{
					map[string]any{"title": "ok", "targets": []any{map[string]any{"expr": "pricediff_readyz_up"}}},
					map[string]any{"title": "bad", "targets": []any{map[string]any{"expr": "missing_metric"}}},
				},
			},
			map[string]any{"title": "empty"},
		},
	}

	res := Dashboard(dash, known)
	assert.Len(t, res.Errors, 1)
	assert.Len(t, res.Warnings, 1)
	assert.False(t, res.Ok())
}
