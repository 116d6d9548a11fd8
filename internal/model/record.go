package model

import (
	"context"
	"strconv"
	"strings"
)

// Job source names as stored in the job_source column.
const (
	SourceLoker     = "Loker.id"
	SourceJobStreet = "JobStreet"
	SourceGlints    = "Glints"
)

// Documented defaults for enumerated fields. Mappers fall back to these when
// the raw value is absent or unrecognized; they never fail.
const (
	DefaultEducation  = "Tanpa Minimal Pendidikan"
	DefaultExperience = "1-3 Tahun"
	DefaultWorkPolicy = "On-site Working"
	DefaultGender     = "Laki-laki/Perempuan"
	DefaultLevel      = "Mid Level"
)

// Record is the canonical job listing persisted regardless of source.
// Field order mirrors the canonical column order.
type Record struct {
	InternalID  string // generated UUID
	SourceID    string // board's native identifier, dedup key within a source
	JobSource   string // SourceLoker | SourceJobStreet | SourceGlints
	Link        string
	CompanyName string
	JobCategory string
	Title       string
	Content     string // cleaned HTML
	Province    string
	City        string
	Experience  string
	JobType     string
	Level       string
	SalaryMin   int // currency units, 0 = unknown/negotiable
	SalaryMax   int
	Education   string
	WorkPolicy  string
	Industry    string
	Gender      string
	Tags        string // comma-joined summary assembled by the mappers
}

// headers is the canonical column order, fixed at 20 columns.
var headers = []string{
	"internal_id", "source_id", "job_source", "link", "company_name",
	"job_category", "title", "content", "province", "city",
	"experience", "job_type", "level", "salary_min", "salary_max",
	"education", "work_policy", "industry", "gender", "tags",
}

// Headers returns a copy of the canonical column order.
func Headers() []string {
	out := make([]string, len(headers))
	copy(out, headers)
	return out
}

// fields maps column names to this record's serialized values.
func (r Record) fields() map[string]string {
	return map[string]string{
		"internal_id":  r.InternalID,
		"source_id":    r.SourceID,
		"job_source":   r.JobSource,
		"link":         r.Link,
		"company_name": r.CompanyName,
		"job_category": r.JobCategory,
		"title":        r.Title,
		"content":      r.Content,
		"province":     r.Province,
		"city":         r.City,
		"experience":   r.Experience,
		"job_type":     r.JobType,
		"level":        r.Level,
		"salary_min":   strconv.Itoa(r.SalaryMin),
		"salary_max":   strconv.Itoa(r.SalaryMax),
		"education":    r.Education,
		"work_policy":  r.WorkPolicy,
		"industry":     r.Industry,
		"gender":       r.Gender,
		"tags":         r.Tags,
	}
}

// Row serializes the record into values aligned to headerOrder. Unknown
// column names produce empty strings, so a backend with extra columns still
// gets a row of the right width.
func (r Record) Row(headerOrder []string) []string {
	f := r.fields()
	row := make([]string, len(headerOrder))
	for i, col := range headerOrder {
		row[i] = f[strings.TrimSpace(col)]
	}
	return row
}

// DedupKey builds the composite key held in the existing-ID set. Native IDs
// are only unique within one board, so the key carries the source name.
func DedupKey(jobSource, sourceID string) string {
	return jobSource + "\x00" + sourceID
}

// StorageClient is a storage backend for canonical records: a spreadsheet,
// a relational table, or anything else that can append ordered rows.
type StorageClient interface {
	// Connect establishes the connection and loads the header row.
	Connect(ctx context.Context) error

	// Headers returns the backend's column order. Valid after Connect.
	Headers() []string

	// ExistingIDs returns the dedup keys (see DedupKey) already persisted.
	ExistingIDs(ctx context.Context) (map[string]struct{}, error)

	// AppendRow persists one row of values matching Headers.
	AppendRow(ctx context.Context, values []string) error

	// Disconnect releases the connection.
	Disconnect() error
}

// Posting is one raw listing from a board page: the native identifier used
// for dedup plus the board-specific payload.
type Posting struct {
	ID      string
	Payload any
}

// Board is a job board: it lists postings page by page and converts a
// posting into a canonical row, fetching per-job detail where the board
// requires it.
type Board interface {
	// Name returns the job_source value for this board.
	Name() string

	// FetchPage fetches one page of postings (1-indexed) and reports
	// whether more pages exist. An empty page also ends pagination.
	FetchPage(ctx context.Context, page int) ([]Posting, bool, error)

	// Row resolves a posting into a row aligned to headerOrder. ok is
	// false when the posting must be filtered out (e.g. closed listing).
	Row(ctx context.Context, p Posting, headerOrder []string) (row []string, ok bool, err error)
}
