// Package scraper runs the full scrape pipeline across the configured
// job boards: paginate → dedup → transform → store.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lokersync/lokersync/internal/model"
)

// BoardConfig pairs a board with its per-source page limit.
// MaxPages of zero means paginate until the board is exhausted.
type BoardConfig struct {
	Board    model.Board
	MaxPages int
}

// Scraper owns one scraping run over a set of boards, appending every
// previously unseen listing to the storage backend.
type Scraper struct {
	boards    []BoardConfig
	storage   model.StorageClient
	notifier  model.Notifier
	logger    *slog.Logger
	pageDelay time.Duration
	jobDelay  time.Duration
}

// New creates a scraper wired with all its dependencies. The notifier
// may be nil when no run summaries should be sent.
func New(
	boards []BoardConfig,
	storage model.StorageClient,
	notifier model.Notifier,
	logger *slog.Logger,
	pageDelay, jobDelay time.Duration,
) *Scraper {
	return &Scraper{
		boards:    boards,
		storage:   storage,
		notifier:  notifier,
		logger:    logger,
		pageDelay: pageDelay,
		jobDelay:  jobDelay,
	}
}

// Run executes one full scraping cycle over every configured board and
// returns a per-source summary. Failures on individual listings or pages
// are logged and tolerated; only storage connectivity and context
// cancellation abort the run.
func (s *Scraper) Run(ctx context.Context) (model.RunSummary, error) {
	summary := model.RunSummary{StartedAt: time.Now()}

	if err := s.storage.Connect(ctx); err != nil {
		return summary, fmt.Errorf("connecting storage: %w", err)
	}
	defer func() {
		if err := s.storage.Disconnect(); err != nil {
			s.logger.Error("disconnecting storage", "error", err)
		}
	}()

	existing, err := s.storage.ExistingIDs(ctx)
	if err != nil {
		return summary, fmt.Errorf("loading existing listing ids: %w", err)
	}
	s.logger.Info("loaded existing listings", "count", len(existing))

	headers := s.storage.Headers()

	for _, bc := range s.boards {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		result := s.scrapeBoard(ctx, bc, headers, existing)
		summary.Results = append(summary.Results, result)
	}
	summary.FinishedAt = time.Now()

	s.logger.Info("scrape run finished",
		"sources", len(summary.Results),
		"added", summary.TotalAdded(),
		"errors", summary.TotalErrors(),
		"took", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second),
	)

	if s.notifier != nil {
		if err := s.notifier.Notify(summary); err != nil {
			s.logger.Error("sending run summary", "error", err)
		}
	}

	return summary, nil
}

// scrapeBoard paginates one board until it is exhausted, its page limit
// is reached, or a page fetch fails. A page fetch failure ends that
// board only; later boards still run.
func (s *Scraper) scrapeBoard(
	ctx context.Context,
	bc BoardConfig,
	headers []string,
	existing map[string]struct{},
) model.SourceResult {
	board := bc.Board
	result := model.SourceResult{Source: board.Name()}

	for page := 1; bc.MaxPages == 0 || page <= bc.MaxPages; page++ {
		if ctx.Err() != nil {
			return result
		}

		postings, hasMore, err := board.FetchPage(ctx, page)
		if err != nil {
			s.logger.Error("fetching page",
				"source", board.Name(), "page", page, "error", err)
			result.Errors++
			break
		}
		if len(postings) == 0 {
			break
		}
		result.Pages++

		added := 0
		for _, p := range postings {
			if ctx.Err() != nil {
				return result
			}
			key := model.DedupKey(board.Name(), p.ID)
			if _, seen := existing[key]; seen {
				result.Skipped++
				continue
			}

			row, ok, err := board.Row(ctx, p, headers)
			if err != nil {
				s.logger.Error("transforming listing",
					"source", board.Name(), "id", p.ID, "error", err)
				result.Errors++
				continue
			}
			if !ok {
				result.Skipped++
				continue
			}

			if err := s.storage.AppendRow(ctx, row); err != nil {
				s.logger.Error("storing listing",
					"source", board.Name(), "id", p.ID, "error", err)
				result.Errors++
				continue
			}
			existing[key] = struct{}{}
			result.Added++
			added++

			if err := sleep(ctx, s.jobDelay); err != nil {
				return result
			}
		}

		s.logger.Info("scraped page",
			"source", board.Name(),
			"page", page,
			"listings", len(postings),
			"added", added,
		)

		if !hasMore {
			break
		}
		if err := sleep(ctx, s.pageDelay); err != nil {
			return result
		}
	}

	return result
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
