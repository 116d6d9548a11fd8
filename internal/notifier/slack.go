package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lokersync/lokersync/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier sends run summaries to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts run summaries to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify posts one Block Kit message summarizing the run. A webhook
// rate limit (429) is retried once after the advertised delay.
func (s *SlackNotifier) Notify(summary model.RunSummary) error {
	body, err := json.Marshal(buildPayload(summary))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		secs, _ := strconv.Atoi(retryAfter)
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		s.logger.Info("slack summary sent", "added", summary.TotalAdded(), "retried", true)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack summary sent", "added", summary.TotalAdded())
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a dummy summary to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	now := time.Now()
	return n.Notify(model.RunSummary{
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
		Results: []model.SourceResult{
			{Source: "Loker.id", Pages: 1, Added: 3},
			{Source: "JobStreet", Pages: 1, Added: 2},
		},
	})
}

func buildPayload(summary model.RunSummary) slackPayload {
	took := summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second)

	header := fmt.Sprintf("📋 Scrape finished: %d new listings", summary.TotalAdded())
	if errs := summary.TotalErrors(); errs > 0 {
		header = fmt.Sprintf("📋 Scrape finished: %d new listings, %d errors", summary.TotalAdded(), errs)
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: header},
		},
	}

	for _, r := range summary.Results {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*" + r.Source + ":*\n" + strconv.Itoa(r.Added) + " new"},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Pages:* %d   *Skipped:* %d   *Errors:* %d",
					r.Pages, r.Skipped, r.Errors)},
			},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf("Finished %s, took %s",
				summary.FinishedAt.Format(time.RFC1123), took)},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}
}
