package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	xhtml "golang.org/x/net/html"

	"github.com/lokersync/lokersync/internal/model"
	"github.com/lokersync/lokersync/internal/transform"
)

const (
	jobstreetSearchURL = "https://id.jobstreet.com/api/jobsearch/v5/search"
	jobstreetJobURL    = "https://id.jobstreet.com/id/job"
	jobstreetPageSize  = 30
)

// jobstreetSearchPage is the search API response envelope.
type jobstreetSearchPage struct {
	Data        []transform.JobStreetJob `json:"data"`
	SolMetadata struct {
		TotalJobCount int `json:"totalJobCount"`
	} `json:"solMetadata"`
}

// JobStreetBoard fetches listings in two steps: the search API yields the
// basic listing, and the listing's HTML detail page yields the description
// plus the requirements buried in its text.
type JobStreetBoard struct {
	client    *http.Client
	detail    *colly.Collector
	userAgent string
}

// NewJobStreetBoard creates a JobStreet board client.
func NewJobStreetBoard(opts Options) *JobStreetBoard {
	client := opts.httpClient()
	ua := userAgent()

	detail := colly.NewCollector(colly.UserAgent(ua))
	detail.WithTransport(client.Transport)
	detail.SetRequestTimeout(opts.timeout())

	return &JobStreetBoard{
		client:    client,
		detail:    detail,
		userAgent: ua,
	}
}

func (b *JobStreetBoard) Name() string { return model.SourceJobStreet }

// FetchPage fetches one search page. A 404 marks the end of pagination;
// otherwise paging is derived from the reported total job count.
func (b *JobStreetBoard) FetchPage(ctx context.Context, page int) ([]model.Posting, bool, error) {
	params := url.Values{}
	params.Set("siteKey", "ID")
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(jobstreetPageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jobstreetSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("jobstreet page %d: %w", page, err)
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("jobstreet page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("jobstreet page %d: unexpected status %d", page, resp.StatusCode),
		}
	}

	var searchPage jobstreetSearchPage
	if err := json.NewDecoder(resp.Body).Decode(&searchPage); err != nil {
		return nil, false, fmt.Errorf("jobstreet page %d: %w", page, err)
	}

	totalPages := (searchPage.SolMetadata.TotalJobCount + jobstreetPageSize - 1) / jobstreetPageSize
	hasMore := page < totalPages

	postings := make([]model.Posting, 0, len(searchPage.Data))
	for _, job := range searchPage.Data {
		postings = append(postings, model.Posting{ID: job.SourceID(), Payload: job})
	}
	return postings, hasMore, nil
}

// Row scrapes the posting's detail page and converts the combined listing
// into a canonical row.
func (b *JobStreetBoard) Row(ctx context.Context, p model.Posting, headerOrder []string) ([]string, bool, error) {
	job, ok := p.Payload.(transform.JobStreetJob)
	if !ok {
		return nil, false, fmt.Errorf("jobstreet posting %s: unexpected payload type %T", p.ID, p.Payload)
	}

	detail, err := b.fetchDetail(ctx, p.ID)
	if err != nil {
		return nil, false, err
	}
	job.Detail = detail

	return transform.TransformJobStreet(job).Row(headerOrder), true, nil
}

// fetchDetail scrapes the listing's HTML page for the description and the
// requirements stated in its text.
func (b *JobStreetBoard) fetchDetail(ctx context.Context, id string) (*transform.JobStreetDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body []byte
	col := b.detail.Clone()
	col.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	if err := col.Visit(jobstreetJobURL + "/" + id); err != nil {
		return nil, fmt.Errorf("jobstreet detail %s: %w", id, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("jobstreet detail %s: %w", id, err)
	}

	text := doc.Text()
	return &transform.JobStreetDetail{
		Content:    extractDescription(doc),
		Education:  transform.EducationFromText(text),
		Experience: transform.ExperienceFromText(text),
		Gender:     transform.GenderFromText(text),
	}, nil
}

// extractDescription stitches the description out of the page's strong
// headings and whatever block elements follow each of them. Falls back to
// the jobDescription container when the page carries no strong sections.
func extractDescription(doc *goquery.Document) string {
	var b bytes.Buffer
	doc.Find("strong").Each(func(_ int, s *goquery.Selection) {
		fmt.Fprintf(&b, "<strong>%s</strong><br />", s.Text())
		for n := s.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
			if n.Type != xhtml.ElementNode {
				continue
			}
			if n.Data == "strong" {
				break
			}
			switch n.Data {
			case "ul", "ol", "p", "div", "br":
				xhtml.Render(&b, n)
			}
		}
	})
	if b.Len() > 0 {
		return b.String()
	}

	if sel := doc.Find(`div[data-automation="jobDescription"]`).First(); sel.Length() > 0 {
		if outer, err := goquery.OuterHtml(sel); err == nil {
			return outer
		}
	}
	return ""
}
