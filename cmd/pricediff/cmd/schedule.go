package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/pricediff/internal/api"
	"github.com/donaldgifford/pricediff/internal/engine"
	"github.com/donaldgifford/pricediff/internal/market"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

func scheduleCommand(v *viper.Viper) *cobra.Command {
	c := &cobra.Command{
		Use:   "schedule <model>",
		Short: "Run the comparison on a cron schedule",
		Long: "Runs the comparison for one model on a cron schedule until interrupted.\n" +
			"Serves /healthz, /readyz, /metrics and the run API on --addr.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, v, args[0])
		},
	}
	c.Flags().String(keyCron, "", `cron spec, e.g. "0 9 * * *" or "@every 6h" (default $SCHEDULE_CRON)`)
	c.Flags().String(keyAddr, "", "ops server listen address (default $SCHEDULE_ADDR or :9090)")
	cobra.CheckErr(v.BindPFlags(c.Flags()))
	return c
}

func runSchedule(cmd *cobra.Command, v *viper.Viper, term string) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	if v.IsSet(keyCron) {
		cfg.Schedule.Cron = v.GetString(keyCron)
	}
	if v.IsSet(keyAddr) {
		cfg.Schedule.Addr = v.GetString(keyAddr)
	}
	if cfg.Schedule.Cron == "" {
		return errors.New("a cron spec is required (--cron or SCHEDULE_CRON)")
	}

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopTelemetry, err := startTelemetry(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	sched, err := engine.NewScheduler(newEngine(cfg, log), cfg.Schedule.Cron, market.Query{
		Term:    term,
		Exclude: domain.ParseWordList(v.GetString(keyExcludeWords)),
	}, log)
	if err != nil {
		return err
	}

	srv := api.NewServer(sched, Version, log)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start(cfg.Schedule.Addr)
	}()

	sched.Start()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-serveErr:
		if runErr == nil {
			runErr = errors.New("ops server exited unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("timed out waiting for running comparison to finish")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr != nil {
		return fmt.Errorf("schedule: %w", runErr)
	}

	log.Info("scheduler stopped")
	return nil
}
