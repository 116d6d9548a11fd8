package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lokersync/lokersync/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scrape one page per source, print what would be stored, exit",
	Long:  "Dry run: fetches the first page of every enabled source and prints the listings without writing to storage.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: nothing will be written to storage")

	// Cap every source at one page so a check stays quick.
	for i := range cfg.Sources {
		cfg.Sources[i].MaxPages = 1
	}

	nop := store.NewNopStore()
	s, err := buildScraper(cfg, nop, logger)
	if err != nil {
		logger.Error("failed to build scraper", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := s.Run(ctx); err != nil {
		logger.Error("scrape run failed", "error", err)
		os.Exit(1)
	}

	headers := nop.Headers()
	titleCol, sourceCol, cityCol := colIndex(headers, "title"), colIndex(headers, "job_source"), colIndex(headers, "city")
	for _, row := range nop.Rows() {
		fmt.Printf("%-10s %-30s %s\n", row[sourceCol], row[cityCol], row[titleCol])
	}

	logger.Info("check complete", "listings", len(nop.Rows()))
	return nil
}

func colIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return 0
}
