package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/pricediff/internal/market"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

// runCompare performs one comparison run. Marketplace failures only show up
// in the result; report or delivery failures fail the command.
func runCompare(cmd *cobra.Command, v *viper.Viper, term string) error {
	format := v.GetString(keyFormat)
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("unknown output format %q (want table or json)", format)
	}

	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	ctx := cmd.Context()

	stopTelemetry, err := startTelemetry(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	eng := newEngine(cfg, log)
	res, runErr := eng.Run(ctx, market.Query{
		Term:    term,
		Exclude: domain.ParseWordList(v.GetString(keyExcludeWords)),
	})

	pushMetrics(ctx, cfg, log)

	if res != nil {
		if err := printResult(cmd.OutOrStdout(), format, res); err != nil {
			return err
		}
	}
	return runErr
}
