package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lokersync/lokersync/internal/model"
)

// PostgresStore persists job records in a PostgreSQL table.
type PostgresStore struct {
	dsn   string
	table string
	pool  *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given connection string.
// An empty table name defaults to "job_listings".
func NewPostgresStore(dsn, table string) *PostgresStore {
	if table == "" {
		table = "job_listings"
	}
	return &PostgresStore{dsn: dsn, table: table}
}

// Connect opens the connection pool and ensures the table exists.
func (s *PostgresStore) Connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("opening postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("pinging postgres: %w", err)
	}

	createTable := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id          BIGSERIAL PRIMARY KEY,
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
		salary_min  BIGINT NOT NULL DEFAULT 0,
		salary_max  BIGINT NOT NULL DEFAULT 0,
		education   TEXT,
		work_policy TEXT,
		industry    TEXT,
		gender      TEXT,
		tags        TEXT,
		status      TEXT NOT NULL DEFAULT 'active',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (job_source, source_id)
	)`, s.table)
	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return fmt.Errorf("creating %s table: %w", s.table, err)
	}

	s.pool = pool
	return nil
}

// Headers returns the canonical column order.
func (s *PostgresStore) Headers() []string {
	return model.Headers()
}

// ExistingIDs returns the dedup keys of every stored listing.
func (s *PostgresStore) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT job_source, source_id FROM %s", s.table))
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
func (s *PostgresStore) AppendRow(ctx context.Context, values []string) error {
	args, err := rowArgs(values)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (job_source, source_id) DO NOTHING",
		s.table, recordColumns, pgPlaceholders(len(args)),
	)
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting job listing: %w", err)
	}
	return nil
}

// Disconnect closes the connection pool.
func (s *PostgresStore) Disconnect() error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}

func pgPlaceholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}
