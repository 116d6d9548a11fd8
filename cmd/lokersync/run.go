package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape once and exit",
	Long:  "One-shot scrape: runs every enabled source once, stores new listings, exits.",
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	storage := buildStorage(cfg, logger)
	s, err := buildScraper(cfg, storage, logger)
	if err != nil {
		logger.Error("failed to build scraper", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := s.Run(ctx)
	if err != nil {
		logger.Error("scrape run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("run complete", "added", summary.TotalAdded())
	return nil
}
