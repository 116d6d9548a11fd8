package notifier

import (
	"log/slog"
	"time"

	"github.com/lokersync/lokersync/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes run summaries to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each run summary via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the per-source counts of a finished run.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(summary model.RunSummary) error {
	for _, r := range summary.Results {
		n.logger.Info("source scraped",
			"source", r.Source,
			"pages", r.Pages,
			"added", r.Added,
			"skipped", r.Skipped,
			"errors", r.Errors,
		)
	}
	n.logger.Info("run summary",
		"added", summary.TotalAdded(),
		"errors", summary.TotalErrors(),
		"took", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second),
	)
	return nil
}
