package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/donaldgifford/pricediff/internal/amazon"
	"github.com/donaldgifford/pricediff/internal/config"
	"github.com/donaldgifford/pricediff/internal/engine"
	"github.com/donaldgifford/pricediff/internal/market"
	"github.com/donaldgifford/pricediff/internal/metrics"
	"github.com/donaldgifford/pricediff/internal/notify"
	"github.com/donaldgifford/pricediff/internal/rakuten"
	"github.com/donaldgifford/pricediff/internal/report"
	"github.com/donaldgifford/pricediff/internal/telemetry"
	"github.com/donaldgifford/pricediff/internal/yahoo"
	"github.com/donaldgifford/pricediff/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Logging.Level, cfg.Logging.Format)
}

func newRateLimiter(rl config.RateLimitConfig) *market.RateLimiter {
	if rl.PerSecond <= 0 {
		return nil
	}
	return market.NewRateLimiter(rl.PerSecond, rl.Burst, rl.DailyLimit)
}

// newSearchers builds the marketplace clients in report column order.
// Unconfigured clients are kept; the lookup reports them as skipped.
func newSearchers(cfg *config.Config) []market.Searcher {
	hc := &http.Client{Timeout: cfg.HTTP.Timeout}

	rk := rakuten.NewClient(cfg.Rakuten.AppID,
		rakuten.WithSearchURL(cfg.Rakuten.SearchURL),
		rakuten.WithHTTPClient(hc),
		rakuten.WithRateLimiter(newRateLimiter(cfg.Rakuten.RateLimit)),
	)

	amzOpts := []amazon.Option{
		amazon.WithHTTPClient(hc),
		amazon.WithRateLimiter(newRateLimiter(cfg.Amazon.RateLimit)),
	}
	if cfg.Amazon.Endpoint != "" {
		amzOpts = append(amzOpts, amazon.WithEndpoint(cfg.Amazon.Endpoint))
	}
	amz := amazon.NewClient(amazon.Credentials{
		AccessKey:   cfg.Amazon.AccessKey,
		SecretKey:   cfg.Amazon.SecretKey,
		PartnerTag:  cfg.Amazon.PartnerTag,
		Host:        cfg.Amazon.Host,
		Region:      cfg.Amazon.Region,
		Marketplace: cfg.Amazon.Marketplace,
	}, amzOpts...)

	yh := yahoo.NewClient(cfg.Yahoo.AppID,
		yahoo.WithSearchURL(cfg.Yahoo.SearchURL),
		yahoo.WithHTTPClient(hc),
		yahoo.WithRateLimiter(newRateLimiter(cfg.Yahoo.RateLimit)),
	)

	return []market.Searcher{rk, amz, yh}
}

// newNotifier returns the email notifier when SMTP is fully configured and
// the no-op notifier otherwise.
func newNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if !cfg.SMTP.Enabled() {
		return notify.NewNoOpNotifier(log)
	}
	return notify.NewEmailNotifier(notify.EmailConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		To:       cfg.SMTP.Recipients(),
		StartTLS: cfg.SMTP.UseStartTLS(),
	}, notify.WithLogger(log))
}

func newEngine(cfg *config.Config, log *slog.Logger) *engine.Engine {
	return engine.NewEngine(
		newSearchers(cfg),
		report.NewWriter(cfg.Output.Dir),
		newNotifier(cfg, log),
		engine.WithLogger(log),
	)
}

// startTelemetry installs OTLP exporters and returns a shutdown func that
// never fails the command.
func startTelemetry(ctx context.Context, cfg *config.Config, log *slog.Logger) (func(), error) {
	tp, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
	}, log)
	if err != nil {
		return nil, err
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}, nil
}

// pushMetrics publishes the run's metrics when a Pushgateway is configured.
// Failures are logged only.
func pushMetrics(ctx context.Context, cfg *config.Config, log *slog.Logger) {
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
		log.Warn("metrics push failed", "error", err)
		return
	}
	log.Debug("metrics pushed", "gateway", cfg.Metrics.PushgatewayURL, "job", cfg.Metrics.Job)
}
