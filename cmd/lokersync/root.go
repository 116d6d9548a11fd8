package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lokersync/lokersync/internal/config"
	"github.com/lokersync/lokersync/internal/model"
	"github.com/lokersync/lokersync/internal/notifier"
	"github.com/lokersync/lokersync/internal/ratelimit"
	"github.com/lokersync/lokersync/internal/scraper"
	"github.com/lokersync/lokersync/internal/source"
	"github.com/lokersync/lokersync/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "lokersync",
	Short: "Indonesian job board scraper",
	Long:  "LokerSync scrapes Loker.id, JobStreet, and Glints into one normalized listing table.",
	// Default to `start` so that `lokersync` with no args runs the daemon.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: LOKERSYNC_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > LOKERSYNC_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("LOKERSYNC_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	case "none":
		return nil
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func createBoard(name string, opts source.Options, logger *slog.Logger) (model.Board, bool) {
	switch name {
	case "loker":
		return source.NewLokerBoard(opts), true
	case "jobstreet":
		return source.NewJobStreetBoard(opts), true
	case "glints":
		return source.NewGlintsBoard(opts), true
	default:
		logger.Warn("unsupported source, skipping", "source", name)
		return nil, false
	}
}

func buildBoards(cfg *config.Config, logger *slog.Logger) []scraper.BoardConfig {
	opts := source.Options{
		Timeout:  cfg.HTTP.Timeout,
		ProxyURL: cfg.HTTP.ProxyURL,
	}

	var boards []scraper.BoardConfig
	for _, sc := range cfg.Enabled() {
		board, ok := createBoard(sc.Name, opts, logger)
		if !ok {
			continue
		}
		boards = append(boards, scraper.BoardConfig{Board: board, MaxPages: sc.MaxPages})
		logger.Info("registered source", "name", board.Name(), "max_pages", sc.MaxPages)
	}
	return boards
}

// buildStorage picks the configured backend and wraps it with the
// shared quota limiter.
func buildStorage(cfg *config.Config, logger *slog.Logger) model.StorageClient {
	var inner model.StorageClient
	switch cfg.Storage.Backend {
	case "postgres":
		logger.Info("using postgres storage", "table", cfg.Storage.Postgres.Table)
		inner = store.NewPostgresStore(cfg.Storage.Postgres.DSN, cfg.Storage.Postgres.Table)
	default:
		logger.Info("using sqlite storage", "path", cfg.Storage.SQLite.Path)
		inner = store.NewSQLiteStore(cfg.Storage.SQLite.Path)
	}

	limiter := ratelimit.NewQuotaLimiter(ratelimit.Quota{
		ReadsPerMinute:     cfg.RateLimit.ReadsPerMinute,
		WritesPerMinute:    cfg.RateLimit.WritesPerMinute,
		TotalPer100Seconds: cfg.RateLimit.TotalPer100Seconds,
	})
	return ratelimit.NewRateLimitedStorage(inner, limiter)
}

func buildScraper(cfg *config.Config, storage model.StorageClient, logger *slog.Logger) (*scraper.Scraper, error) {
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	n := setupNotifier(cfg, httpClient, logger)

	boards := buildBoards(cfg, logger)
	if len(boards) == 0 {
		return nil, errNoSources
	}

	return scraper.New(boards, storage, n, logger, cfg.Delays.Page, cfg.Delays.Job), nil
}
