// Package store provides the storage backends for canonical job records:
// an embedded SQLite database, a PostgreSQL table, and an in-memory store
// for dry runs. All of them implement model.StorageClient.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/lokersync/lokersync/internal/model"
)

// recordColumns is the column list shared by the SQL backends, in
// canonical header order.
var recordColumns = strings.Join(model.Headers(), ", ")

// SQLiteStore persists job records in an embedded SQLite database.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// NewSQLiteStore creates a store backed by the database file at path.
// The file is opened on Connect.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Connect opens (or creates) the database and ensures the job_listings
// table exists.
func (s *SQLiteStore) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS job_listings (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		internal_id TEXT NOT NULL,
		source_id   TEXT NOT NULL,
		job_source  TEXT NOT NULL,
		link        TEXT,
		company_name TEXT,
		job_category TEXT,
		title       TEXT,
		content     TEXT,
		province    TEXT,
		city        TEXT,
		experience  TEXT,
		job_type    TEXT,
		level       TEXT,
		salary_min  INTEGER NOT NULL DEFAULT 0,
		salary_max  INTEGER NOT NULL DEFAULT 0,
		education   TEXT,
		work_policy TEXT,
		industry    TEXT,
		gender      TEXT,
		tags        TEXT,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (job_source, source_id)
	)`
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return fmt.Errorf("creating job_listings table: %w", err)
	}

	s.db = db
	return nil
}

// Headers returns the canonical column order.
func (s *SQLiteStore) Headers() []string {
	return model.Headers()
}

// ExistingIDs returns the dedup keys of every stored listing.
func (s *SQLiteStore) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT job_source, source_id FROM job_listings")
	if err != nil {
		return nil, fmt.Errorf("loading existing ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var jobSource, sourceID string
		if err := rows.Scan(&jobSource, &sourceID); err != nil {
			return nil, fmt.Errorf("scanning existing id: %w", err)
		}
		ids[model.DedupKey(jobSource, sourceID)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading existing ids: %w", err)
	}
	return ids, nil
}

// AppendRow inserts one row of values in canonical header order. A row
// whose (job_source, source_id) already exists is ignored.
func (s *SQLiteStore) AppendRow(ctx context.Context, values []string) error {
	args, err := rowArgs(values)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT OR IGNORE INTO job_listings (%s) VALUES (%s)",
		recordColumns, placeholders(len(args)),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting job listing: %w", err)
	}
	return nil
}

// Disconnect closes the database.
func (s *SQLiteStore) Disconnect() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// ListRecords returns stored listings, newest first, up to limit
// (0 = all).
func (s *SQLiteStore) ListRecords(ctx context.Context, limit int) ([]model.Record, error) {
	query := "SELECT " + recordColumns + " FROM job_listings ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT " + strconv.Itoa(limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		err := rows.Scan(
			&r.InternalID, &r.SourceID, &r.JobSource, &r.Link, &r.CompanyName,
			&r.JobCategory, &r.Title, &r.Content, &r.Province, &r.City,
			&r.Experience, &r.JobType, &r.Level, &r.SalaryMin, &r.SalaryMax,
			&r.Education, &r.WorkPolicy, &r.Industry, &r.Gender, &r.Tags,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// rowArgs converts a row of string values into insert arguments, parsing
// the salary columns into integers. Non-numeric salaries become 0.
func rowArgs(values []string) ([]any, error) {
	headers := model.Headers()
	if len(values) != len(headers) {
		return nil, fmt.Errorf("row has %d values, want %d", len(values), len(headers))
	}
	args := make([]any, len(values))
	for i, col := range headers {
		if col == "salary_min" || col == "salary_max" {
			n, err := strconv.Atoi(values[i])
			if err != nil {
				n = 0
			}
			args[i] = n
			continue
		}
		args[i] = values[i]
	}
	return args, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
