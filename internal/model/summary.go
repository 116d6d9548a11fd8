package model

import "time"

// SourceResult is the outcome of scraping one board during a run.
type SourceResult struct {
	Source  string
	Pages   int
	Added   int
	Skipped int // duplicates and filtered listings
	Errors  int
}

// RunSummary is the outcome of one full scraping run.
type RunSummary struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []SourceResult
}

// TotalAdded sums the new listings stored across all boards.
func (s RunSummary) TotalAdded() int {
	total := 0
	for _, r := range s.Results {
		total += r.Added
	}
	return total
}

// TotalErrors sums the errors tolerated across all boards.
func (s RunSummary) TotalErrors() int {
	total := 0
	for _, r := range s.Results {
		total += r.Errors
	}
	return total
}

// Notifier reports the outcome of a scraping run.
type Notifier interface {
	Notify(summary RunSummary) error
}
