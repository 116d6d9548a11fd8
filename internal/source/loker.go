package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lokersync/lokersync/internal/model"
	"github.com/lokersync/lokersync/internal/transform"
)

const lokerBaseURL = "https://www.loker.id/cari-lowongan-kerja"

// lokerPage is the JSON document behind a Loker.id listing page.
type lokerPage struct {
	Jobs []transform.LokerJob `json:"jobs"`
}

// LokerBoard fetches listings from the Loker.id JSON API. Every listing is
// complete in the page payload, so no per-listing detail fetch is needed.
type LokerBoard struct {
	client    *http.Client
	userAgent string
}

// NewLokerBoard creates a Loker.id board client.
func NewLokerBoard(opts Options) *LokerBoard {
	return &LokerBoard{
		client:    opts.httpClient(),
		userAgent: userAgent(),
	}
}

func (b *LokerBoard) Name() string { return model.SourceLoker }

// FetchPage fetches one listing page. A 404 marks the end of pagination.
func (b *LokerBoard) FetchPage(ctx context.Context, page int) ([]model.Posting, bool, error) {
	url := fmt.Sprintf("%s/page/%d?_data", lokerBaseURL, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("loker page %d: %w", page, err)
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("loker page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("loker page %d: unexpected status %d", page, resp.StatusCode),
		}
	}

	var pageDoc lokerPage
	if err := json.NewDecoder(resp.Body).Decode(&pageDoc); err != nil {
		return nil, false, fmt.Errorf("loker page %d: %w", page, err)
	}

	postings := make([]model.Posting, 0, len(pageDoc.Jobs))
	for _, job := range pageDoc.Jobs {
		postings = append(postings, model.Posting{ID: job.ID.String(), Payload: job})
	}
	return postings, len(postings) > 0, nil
}

// Row converts a posting into a canonical row.
func (b *LokerBoard) Row(ctx context.Context, p model.Posting, headerOrder []string) ([]string, bool, error) {
	job, ok := p.Payload.(transform.LokerJob)
	if !ok {
		return nil, false, fmt.Errorf("loker posting %s: unexpected payload type %T", p.ID, p.Payload)
	}
	return transform.TransformLoker(job).Row(headerOrder), true, nil
}
