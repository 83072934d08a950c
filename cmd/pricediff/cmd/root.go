// Package cmd implements the pricediff CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/pricediff/internal/config"
)

const envPrefix = "PRICEDIFF"

// Flag keys. They double as viper keys, so PRICEDIFF_EXCLUDE_WORDS sets
// exclude-words.
const (
	keyConfig       = "config"
	keyLogLevel     = "log-level"
	keyLogFormat    = "log-format"
	keyExcludeWords = "exclude-words"
	keyOutputDir    = "output-dir"
	keyFormat       = "format"
	keyCron         = "cron"
	keyAddr         = "addr"
)

var rootCmd = newRootCommand(viper.New())

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "pricediff <model>",
		Short: "Compare a product's price across Rakuten, Amazon and Yahoo Shopping",
		Long: "pricediff searches Rakuten Ichiba, Amazon (PA-API 5) and Yahoo! Shopping\n" +
			"for a model number, picks the cheapest eligible listing on each,\n" +
			"writes a one-row CSV report and emails it when SMTP is configured.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, v, args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.String(keyConfig, "", "optional YAML config file")
	pf.String(keyLogLevel, "", "log level (debug, info, warn, error)")
	pf.String(keyLogFormat, "", "log format (text, json)")
	pf.String(keyExcludeWords, "", "comma-separated words; listings whose title contains one are skipped")
	pf.String(keyOutputDir, "", "directory for the CSV report")

	root.Flags().String(keyFormat, "table", "result output format (table, json)")

	cobra.CheckErr(v.BindPFlags(pf))
	cobra.CheckErr(v.BindPFlags(root.Flags()))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		scheduleCommand(v),
		versionCommand(),
		openAPICommand(),
	)

	return root
}

// loadConfig reads configuration and applies flag and PRICEDIFF_ overrides.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.Load(v.GetString(keyConfig))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if v.IsSet(keyLogLevel) {
		cfg.Logging.Level = v.GetString(keyLogLevel)
	}
	if v.IsSet(keyLogFormat) {
		cfg.Logging.Format = v.GetString(keyLogFormat)
	}
	if v.IsSet(keyOutputDir) {
		cfg.Output.Dir = v.GetString(keyOutputDir)
	}
	return cfg, nil
}
