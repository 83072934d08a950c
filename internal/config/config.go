// Package config handles loading and validating the application configuration
// from an optional YAML file, a .env file, and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/pricediff/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Rakuten  RakutenConfig  `yaml:"rakuten"  envPrefix:"RAKUTEN_"`
	Yahoo    YahooConfig    `yaml:"yahoo"    envPrefix:"YAHOO_"`
	Amazon   AmazonConfig   `yaml:"amazon"   envPrefix:"AMAZON_"`
	SMTP     SMTPConfig     `yaml:"smtp"     envPrefix:"SMTP_"`
	HTTP     HTTPConfig     `yaml:"http"     envPrefix:"HTTP_"`
	Output   OutputConfig   `yaml:"output"   envPrefix:"OUTPUT_"`
	Logging  LoggingConfig  `yaml:"logging"  envPrefix:"LOG_"`
	Metrics  MetricsConfig  `yaml:"metrics"  envPrefix:"METRICS_"`
	Tracing  TracingConfig  `yaml:"tracing"  envPrefix:"OTEL_"`
	Schedule ScheduleConfig `yaml:"schedule" envPrefix:"SCHEDULE_"`
}

// RakutenConfig defines Rakuten Ichiba Item Search settings.
type RakutenConfig struct {
	AppID     string          `yaml:"app_id"     env:"APP_ID"`
	SearchURL string          `yaml:"search_url" env:"SEARCH_URL"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envPrefix:"RATE_"`
}

// YahooConfig defines Yahoo! Shopping item search settings.
type YahooConfig struct {
	AppID     string          `yaml:"app_id"     env:"APP_ID"`
	SearchURL string          `yaml:"search_url" env:"SEARCH_URL"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envPrefix:"RATE_"`
}

// AmazonConfig defines Product Advertising API settings. The search is
// skipped unless access key, secret key and partner tag are all set.
type AmazonConfig struct {
	AccessKey   string          `yaml:"access_key"  env:"ACCESS_KEY"`
	SecretKey   string          `yaml:"secret_key"  env:"SECRET_KEY"`
	PartnerTag  string          `yaml:"partner_tag" env:"PARTNER_TAG"`
	Host        string          `yaml:"host"        env:"HOST"`
	Region      string          `yaml:"region"      env:"REGION"`
	Marketplace string          `yaml:"marketplace" env:"MARKETPLACE"`
	Endpoint    string          `yaml:"endpoint"    env:"ENDPOINT"` // overrides https://{host}/paapi5/searchitems
	RateLimit   RateLimitConfig `yaml:"rate_limit"  envPrefix:"RATE_"`
}

// RateLimitConfig defines outbound pacing for one marketplace. A zero
// PerSecond disables pacing; a zero DailyLimit means no daily cap.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"  env:"PER_SECOND"`
	Burst      int     `yaml:"burst"       env:"BURST"`
	DailyLimit int64   `yaml:"daily_limit" env:"DAILY_LIMIT"`
}

// SMTPConfig defines email delivery settings.
type SMTPConfig struct {
	Host     string `yaml:"host"     env:"HOST"`
	Port     int    `yaml:"port"     env:"PORT"`
	User     string `yaml:"user"     env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	From     string `yaml:"from"     env:"FROM"`
	To       string `yaml:"to"       env:"TO"` // comma separated
	StartTLS *bool  `yaml:"starttls" env:"STARTTLS"`
}

// Recipients returns the parsed To list.
func (s *SMTPConfig) Recipients() []string {
	return domain.ParseWordList(s.To)
}

// Enabled reports whether enough is configured to attempt delivery.
func (s *SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != "" && len(s.Recipients()) > 0
}

// UseStartTLS reports whether STARTTLS is required. Defaults to true.
func (s *SMTPConfig) UseStartTLS() bool {
	return s.StartTLS == nil || *s.StartTLS
}

// HTTPConfig defines outbound HTTP client settings.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// OutputConfig defines where reports are written.
type OutputConfig struct {
	Dir string `yaml:"dir" env:"DIR"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"  env:"LEVEL"`  // debug, info, warn, error
	Format string `yaml:"format" env:"FORMAT"` // text, json
}

// MetricsConfig defines metric export. Metrics are pushed at the end of a
// run only when PushgatewayURL is set.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url" env:"PUSHGATEWAY_URL"`
	Job            string `yaml:"job"             env:"JOB"`
}

// TracingConfig defines OTLP trace export. Tracing is a no-op when Endpoint
// is empty.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"     env:"EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool   `yaml:"insecure"     env:"INSECURE"`
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}

// ScheduleConfig defines the repeat-run settings of the schedule command.
type ScheduleConfig struct {
	Cron string `yaml:"cron" env:"CRON"`
	Addr string `yaml:"addr" env:"ADDR"`
}

// Load builds the configuration. The YAML file at path is optional; an empty
// path skips it. Values from a .env file in the working directory and from
// the process environment override the file.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading .env: %w", err)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parsing config YAML: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyRakutenDefaults(&cfg.Rakuten)
	applyYahooDefaults(&cfg.Yahoo)
	applyAmazonDefaults(&cfg.Amazon)
	applySMTPDefaults(&cfg.SMTP)
	applyHTTPDefaults(&cfg.HTTP)
	applyOutputDefaults(&cfg.Output)
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applyTracingDefaults(&cfg.Tracing)
	applyScheduleDefaults(&cfg.Schedule)
}

func applyRakutenDefaults(r *RakutenConfig) {
	if r.SearchURL == "" {
		r.SearchURL = "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20220601"
	}
	applyRateLimitDefaults(&r.RateLimit, 1, 1)
}

func applyYahooDefaults(y *YahooConfig) {
	if y.SearchURL == "" {
		y.SearchURL = "https://shopping.yahooapis.jp/ShoppingWebService/V3/itemSearch"
	}
	applyRateLimitDefaults(&y.RateLimit, 1, 1)
}

func applyAmazonDefaults(a *AmazonConfig) {
	if a.Host == "" {
		a.Host = "webservices.amazon.co.jp"
	}
	if a.Region == "" {
		a.Region = "us-west-2"
	}
	if a.Marketplace == "" {
		a.Marketplace = "www.amazon.co.jp"
	}
	applyRateLimitDefaults(&a.RateLimit, 1, 1)
}

func applyRateLimitDefaults(r *RateLimitConfig, perSecond float64, burst int) {
	if r.PerSecond == 0 {
		r.PerSecond = perSecond
	}
	if r.Burst == 0 {
		r.Burst = burst
	}
}

func applySMTPDefaults(s *SMTPConfig) {
	if s.Port == 0 {
		s.Port = 587
	}
}

func applyHTTPDefaults(h *HTTPConfig) {
	if h.Timeout == 0 {
		h.Timeout = 20 * time.Second
	}
}

func applyOutputDefaults(o *OutputConfig) {
	if o.Dir == "" {
		o.Dir = "."
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	if l.Level == "warning" {
		l.Level = "warn"
	}
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applyMetricsDefaults(m *MetricsConfig) {
	if m.Job == "" {
		m.Job = "pricediff"
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "pricediff"
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.Addr == "" {
		s.Addr = ":9090"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.SMTP.Port < 1 || cfg.SMTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("smtp.port must be between 1 and 65535 (got %d)", cfg.SMTP.Port))
	}
	if cfg.HTTP.Timeout < 0 {
		errs = append(errs, fmt.Errorf("http.timeout must be positive (got %s)", cfg.HTTP.Timeout))
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(
			errs,
			fmt.Errorf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level),
		)
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(
			errs,
			fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format),
		)
	}

	for name, rl := range map[string]RateLimitConfig{
		"rakuten": cfg.Rakuten.RateLimit,
		"yahoo":   cfg.Yahoo.RateLimit,
		"amazon":  cfg.Amazon.RateLimit,
	} {
		if rl.PerSecond < 0 || rl.Burst < 0 || rl.DailyLimit < 0 {
			errs = append(errs, fmt.Errorf("%s.rate_limit values must not be negative", name))
		}
	}

	return errors.Join(errs...)
}
