package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List all configured sources",
	Long:  "Reads the config and prints a table of all configured job boards.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-15s %-10s %s\n", "Source", "Status", "Max Pages")
	fmt.Println(strings.Repeat("─", 36))

	enabled := 0
	for _, s := range cfg.Sources {
		status := "disabled"
		if s.Enabled {
			status = "enabled"
			enabled++
		}
		pages := "all"
		if s.MaxPages > 0 {
			pages = fmt.Sprintf("%d", s.MaxPages)
		}
		fmt.Printf("%-15s %-10s %s\n", s.Name, status, pages)
	}

	fmt.Printf("\nTotal: %d sources (%d enabled)\n", len(cfg.Sources), enabled)
	return nil
}
