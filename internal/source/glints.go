package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lokersync/lokersync/internal/model"
	"github.com/lokersync/lokersync/internal/transform"
)

const glintsGraphQLURL = "https://glints.com/api/v2-alc/graphql"

const glintsPageSize = 20

// glintsSearchQuery requests one page of listings. The selection mirrors
// the fields the transformer reads.
const glintsSearchQuery = `query searchJobsV3($data: JobSearchConditionInput!) {
  searchJobsV3(data: $data) {
    jobsInPage {
      id
      title
      status
      type
      workArrangementOption
      educationLevel
      minYearsOfExperience
      maxYearsOfExperience
      traceInfo
      company {
        name
        industry {
          name
        }
      }
      location {
        name
        formattedName
        level
        administrativeLevelName
        parents {
          name
          formattedName
          level
          administrativeLevelName
        }
      }
      hierarchicalJobCategory {
        name
      }
      skills {
        mustHave
        skill {
          name
        }
      }
      salaries {
        minAmount
        maxAmount
      }
    }
    hasMore
  }
}`

// glintsDetailQuery requests one listing by ID, with the same selection.
const glintsDetailQuery = `query getJobDetailsById($opportunityId: String!, $traceInfo: String, $source: String) {
  getJobById(id: $opportunityId, traceInfo: $traceInfo, source: $source) {
    id
    title
    status
    type
    workArrangementOption
    educationLevel
    minYearsOfExperience
    maxYearsOfExperience
    company {
      name
      industry {
        name
      }
    }
    location {
      name
      formattedName
      level
      administrativeLevelName
      parents {
        name
        formattedName
        level
        administrativeLevelName
      }
    }
    hierarchicalJobCategory {
      name
    }
    skills {
      mustHave
      skill {
        name
      }
    }
    salaries {
      minAmount
      maxAmount
    }
  }
}`

type glintsSearchResponse struct {
	Data struct {
		SearchJobsV3 struct {
			JobsInPage []transform.GlintsJob `json:"jobsInPage"`
			HasMore    bool                  `json:"hasMore"`
		} `json:"searchJobsV3"`
	} `json:"data"`
}

type glintsDetailResponse struct {
	Data struct {
		GetJobByID *transform.GlintsJob `json:"getJobById"`
	} `json:"data"`
}

// GlintsBoard fetches listings from the Glints GraphQL API. The search
// query already carries every field the transformer needs; the detail
// query re-fetches a listing for its authoritative state before storing.
type GlintsBoard struct {
	client    *http.Client
	userAgent string
}

// NewGlintsBoard creates a Glints board client.
func NewGlintsBoard(opts Options) *GlintsBoard {
	return &GlintsBoard{
		client:    opts.httpClient(),
		userAgent: userAgent(),
	}
}

func (b *GlintsBoard) Name() string { return model.SourceGlints }

// post sends one GraphQL operation and decodes the response into out.
func (b *GlintsBoard) post(ctx context.Context, operation string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("glints %s: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, glintsGraphQLURL+"?op="+operation, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("glints %s: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", b.userAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("glints %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("glints %s: unexpected status %d", operation, resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("glints %s: %w", operation, err)
	}
	return nil
}

// FetchPage fetches one page of listings via the search query.
func (b *GlintsBoard) FetchPage(ctx context.Context, page int) ([]model.Posting, bool, error) {
	payload := map[string]any{
		"operationName": "searchJobsV3",
		"variables": map[string]any{
			"data": map[string]any{
				"CountryCode":         "ID",
				"includeExternalJobs": true,
				"pageSize":            glintsPageSize,
				"page":                page,
				"sortBy":              "LATEST",
			},
		},
		"query": glintsSearchQuery,
	}

	var searchResp glintsSearchResponse
	if err := b.post(ctx, "searchJobsV3", payload, &searchResp); err != nil {
		return nil, false, fmt.Errorf("glints page %d: %w", page, err)
	}

	results := searchResp.Data.SearchJobsV3
	postings := make([]model.Posting, 0, len(results.JobsInPage))
	for _, job := range results.JobsInPage {
		postings = append(postings, model.Posting{ID: job.ID, Payload: job})
	}
	return postings, results.HasMore, nil
}

// Row re-fetches the listing's detail and converts it into a canonical row.
// When the detail fetch fails the search payload stands in, since it
// carries the same fields. ok is false for listings no longer open.
func (b *GlintsBoard) Row(ctx context.Context, p model.Posting, headerOrder []string) ([]string, bool, error) {
	job, ok := p.Payload.(transform.GlintsJob)
	if !ok {
		return nil, false, fmt.Errorf("glints posting %s: unexpected payload type %T", p.ID, p.Payload)
	}
	if job.Status != "OPEN" {
		return nil, false, nil
	}

	if detail, err := b.fetchDetail(ctx, job.ID, job.TraceInfo); err == nil && detail != nil {
		job = *detail
	}

	rec, open := transform.TransformGlints(job)
	if !open {
		return nil, false, nil
	}
	return rec.Row(headerOrder), true, nil
}

func (b *GlintsBoard) fetchDetail(ctx context.Context, id, traceInfo string) (*transform.GlintsJob, error) {
	payload := map[string]any{
		"operationName": "getJobDetailsById",
		"variables": map[string]any{
			"opportunityId": id,
			"traceInfo":     traceInfo,
			"source":        "Explore",
		},
		"query": glintsDetailQuery,
	}

	var detailResp glintsDetailResponse
	if err := b.post(ctx, "getJobDetailsById", payload, &detailResp); err != nil {
		return nil, err
	}
	return detailResp.Data.GetJobByID, nil
}
