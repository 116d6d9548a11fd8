package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the LokerSync scraper.
type Config struct {
	Schedule     string
	Sources      []SourceConfig
	HTTP         HTTPConfig
	Delays       DelayConfig
	Storage      StorageConfig
	RateLimit    RateLimitConfig
	Notification NotificationConfig
}

// SourceConfig describes a single job board to scrape.
type SourceConfig struct {
	Name     string `yaml:"name"` // "loker", "jobstreet", or "glints"
	Enabled  bool   `yaml:"enabled"`
	MaxPages int    `yaml:"max_pages"` // 0 means paginate until exhausted
}

// HTTPConfig holds shared HTTP client settings for all boards.
type HTTPConfig struct {
	Timeout  time.Duration
	ProxyURL string // expanded from env var by Load
}

// DelayConfig controls the politeness pauses during a run.
type DelayConfig struct {
	Page time.Duration // between pages of the same board
	Job  time.Duration // between stored listings
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Backend  string         `yaml:"backend"` // "sqlite" or "postgres"
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	DSN   string `yaml:"dsn"`   // expanded from env var by Load
	Table string `yaml:"table"` // defaults to job_listings
}

// RateLimitConfig caps storage traffic. Zero values fall back to the
// limiter defaults.
type RateLimitConfig struct {
	ReadsPerMinute     int `yaml:"reads_per_minute"`
	WritesPerMinute    int `yaml:"writes_per_minute"`
	TotalPer100Seconds int `yaml:"total_per_100s"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log", "slack", or "none"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// Enabled returns only the sources turned on in the config.
func (c *Config) Enabled() []SourceConfig {
	var out []SourceConfig
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

const (
	defaultSchedule    = "@every 6h"
	defaultSQLitePath  = "lokersync.db"
	defaultHTTPTimeout = 30 * time.Second
	defaultPageDelay   = 1 * time.Second
	defaultJobDelay    = 2 * time.Second
)

var knownSources = map[string]bool{
	"loker":     true,
	"jobstreet": true,
	"glints":    true,
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Schedule     string             `yaml:"schedule"`
	Sources      []SourceConfig     `yaml:"sources"`
	HTTP         rawHTTPConfig      `yaml:"http"`
	Delays       rawDelayConfig     `yaml:"delays"`
	Storage      StorageConfig      `yaml:"storage"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawHTTPConfig struct {
	Timeout  string `yaml:"timeout"`
	ProxyURL string `yaml:"proxy_url"`
}

type rawDelayConfig struct {
	Page string `yaml:"page"`
	Job  string `yaml:"job"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	schedule := raw.Schedule
	if schedule == "" {
		schedule = defaultSchedule
	}

	timeout := defaultHTTPTimeout
	if raw.HTTP.Timeout != "" {
		timeout, err = time.ParseDuration(raw.HTTP.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse http.timeout %q: %w", raw.HTTP.Timeout, err)
		}
	}

	pageDelay := defaultPageDelay
	if raw.Delays.Page != "" {
		pageDelay, err = time.ParseDuration(raw.Delays.Page)
		if err != nil {
			return nil, fmt.Errorf("parse delays.page %q: %w", raw.Delays.Page, err)
		}
	}

	jobDelay := defaultJobDelay
	if raw.Delays.Job != "" {
		jobDelay, err = time.ParseDuration(raw.Delays.Job)
		if err != nil {
			return nil, fmt.Errorf("parse delays.job %q: %w", raw.Delays.Job, err)
		}
	}

	storage := raw.Storage
	if storage.Backend == "" {
		storage.Backend = "sqlite"
	}
	if storage.SQLite.Path == "" {
		storage.SQLite.Path = defaultSQLitePath
	}
	if storage.Postgres.Table == "" {
		storage.Postgres.Table = "job_listings"
	}

	cfg := &Config{
		Schedule: schedule,
		Sources:  raw.Sources,
		HTTP: HTTPConfig{
			Timeout:  timeout,
			ProxyURL: raw.HTTP.ProxyURL,
		},
		Delays: DelayConfig{
			Page: pageDelay,
			Job:  jobDelay,
		},
		Storage:      storage,
		RateLimit:    raw.RateLimit,
		Notification: raw.Notification,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	enabled := 0
	for _, s := range cfg.Sources {
		if !knownSources[s.Name] {
			return fmt.Errorf("unknown source %q (want loker, jobstreet, or glints)", s.Name)
		}
		if s.MaxPages < 0 {
			return fmt.Errorf("sources[%s].max_pages must not be negative, got %d", s.Name, s.MaxPages)
		}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Delays.Page < 0 || cfg.Delays.Job < 0 {
		return fmt.Errorf("delays must not be negative")
	}

	switch cfg.Storage.Backend {
	case "sqlite":
	case "postgres":
		if cfg.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required when backend is \"postgres\"")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q (want sqlite or postgres)", cfg.Storage.Backend)
	}

	if cfg.RateLimit.ReadsPerMinute < 0 || cfg.RateLimit.WritesPerMinute < 0 || cfg.RateLimit.TotalPer100Seconds < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}

	switch cfg.Notification.Type {
	case "", "log", "none":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		const prefix = "https://hooks.slack.com/"
		if len(cfg.Notification.WebhookURL) < len(prefix) || cfg.Notification.WebhookURL[:len(prefix)] != prefix {
			return fmt.Errorf("notification.webhook_url must start with %s", prefix)
		}
	default:
		return fmt.Errorf("unknown notification.type %q (want log, slack, or none)", cfg.Notification.Type)
	}

	return nil
}
