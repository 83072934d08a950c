package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearMarketEnv blanks credentials so a developer's environment cannot
// reach real APIs from tests.
func clearMarketEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"RAKUTEN_APP_ID", "YAHOO_APP_ID",
		"AMAZON_ACCESS_KEY", "AMAZON_SECRET_KEY", "AMAZON_PARTNER_TAG",
		"SMTP_HOST", "SMTP_FROM", "SMTP_TO",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "METRICS_PUSHGATEWAY_URL",
		"PRICEDIFF_FORMAT", "PRICEDIFF_EXCLUDE_WORDS", "PRICEDIFF_OUTPUT_DIR",
	} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand(viper.New())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRoot_Args(t *testing.T) {
	clearMarketEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no model", args: nil},
		{name: "two models", args: []string{"A", "B"}},
		{name: "bad format", args: []string{"A", "--format", "xml"}},
		{name: "blank model", args: []string{"  ", "--output-dir", t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRoot_RunWithoutCredentials(t *testing.T) {
	clearMarketEnv(t)
	dir := t.TempDir()

	out, err := execute(t, "ABC-123", "--output-dir", dir, "--format", "json", "--log-level", "error")
	require.NoError(t, err)

	var got resultView
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ABC-123", got.SearchTerm)
	assert.Empty(t, got.Name)
	require.Len(t, got.Outcomes, 3)
	for _, o := range got.Outcomes {
		assert.EqualValues(t, "skipped", o.Status)
	}

	require.Equal(t, dir, filepath.Dir(got.ReportPath))
	data, err := os.ReadFile(got.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ABC-123")
}

func TestRoot_EnvOverridesOutputDir(t *testing.T) {
	clearMarketEnv(t)
	dir := t.TempDir()
	t.Setenv("PRICEDIFF_OUTPUT_DIR", dir)
	t.Setenv("PRICEDIFF_FORMAT", "json")

	out, err := execute(t, "XYZ-9", "--log-level", "error")
	require.NoError(t, err)

	var got resultView
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, dir, filepath.Dir(got.ReportPath))
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	clearMarketEnv(t)

	v := viper.New()
	root := newRootCommand(v)
	require.NoError(t, root.ParseFlags([]string{"--log-level", "debug", "--log-format", "json", "--output-dir", "/tmp/reports"}))

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/tmp/reports", cfg.Output.Dir)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pricediff dev")
}

func TestOpenAPICommand(t *testing.T) {
	out, err := execute(t, "openapi")
	require.NoError(t, err)
	assert.Contains(t, out, `"/api/v1/runs"`)

	out, err = execute(t, "openapi", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "/api/v1/runs/latest:")
}

func TestSchedule_RequiresCron(t *testing.T) {
	clearMarketEnv(t)
	t.Setenv("SCHEDULE_CRON", "")

	_, err := execute(t, "schedule", "ABC-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cron spec is required")
}
