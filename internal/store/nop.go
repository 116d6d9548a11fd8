package store

import (
	"context"
	"sync"

	"github.com/lokersync/lokersync/internal/model"
)

// NopStore is an in-memory store used in dry-run mode. Rows are kept for
// inspection but nothing is persisted, and every listing appears new.
type NopStore struct {
	mu   sync.Mutex
	rows [][]string
}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Connect(ctx context.Context) error { return nil }

func (s *NopStore) Headers() []string { return model.Headers() }

func (s *NopStore) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (s *NopStore) AppendRow(ctx context.Context, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := make([]string, len(values))
	copy(row, values)
	s.rows = append(s.rows, row)
	return nil
}

func (s *NopStore) Disconnect() error { return nil }

// Rows returns the rows collected during the dry run.
func (s *NopStore) Rows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	copy(out, s.rows)
	return out
}
