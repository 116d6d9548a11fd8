package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/lokersync/lokersync/internal/model"
)

// Runner is the unit of work the scheduler drives, normally the scraper.
type Runner interface {
	Run(ctx context.Context) (model.RunSummary, error)
}

// Scheduler owns the main loop: runs one immediate scrape, then fires
// on a cron schedule until the context is cancelled.
type Scheduler struct {
	runner   Runner
	schedule string
	logger   *slog.Logger
}

// New creates a scheduler driving the runner on the given cron spec.
// Both "@every 6h" and standard five-field expressions are accepted.
func New(runner Runner, schedule string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		schedule: schedule,
		logger:   logger,
	}
}

// Run starts the loop with one immediate scrape, then ticks on the
// schedule. A tick that lands while the previous run is still going is
// skipped. Returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "schedule", s.schedule)

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger{s.logger}),
	))
	if _, err := c.AddFunc(s.schedule, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.schedule, err)
	}

	s.runOnce(ctx)
	c.Start()

	<-ctx.Done()
	s.logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.runner.Run(ctx); err != nil {
		s.logger.Error("scrape run failed", "error", err)
	}
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
