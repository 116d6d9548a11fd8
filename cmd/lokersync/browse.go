package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lokersync/lokersync/internal/browse"
	"github.com/lokersync/lokersync/internal/store"
)

var browseLimit int

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored listings interactively (TUI)",
	Long:  "Opens a terminal viewer over the listings already stored in the local SQLite database.",
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().IntVar(&browseLimit, "limit", 500, "maximum number of listings to load")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Storage.Backend != "sqlite" {
		fmt.Fprintln(os.Stderr, "browse works on the local sqlite database only")
		os.Exit(1)
	}

	ctx := context.Background()
	db := store.NewSQLiteStore(cfg.Storage.SQLite.Path)
	if err := db.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Disconnect()

	records, err := db.ListRecords(ctx, browseLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load listings: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("No listings stored yet. Run `lokersync run` first.")
		return nil
	}

	return browse.Run(records)
}
