// Package memory provides in-memory store implementations, used for
// tests and for runs where no history database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
)

// Ensure ExportStore implements the interface.
var _ driven.ExportStore = (*ExportStore)(nil)

// ExportStore is an in-memory implementation of driven.ExportStore.
type ExportStore struct {
	mu      sync.RWMutex
	records map[string]domain.ExportRecord
}

// NewExportStore creates a new in-memory export store.
func NewExportStore() *ExportStore {
	return &ExportStore{
		records: make(map[string]domain.ExportRecord),
	}
}

// Save stores or updates an export record.
func (s *ExportStore) Save(_ context.Context, record domain.ExportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

// Get retrieves an export record by invocation id.
func (s *ExportStore) Get(_ context.Context, id string) (*domain.ExportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// List returns all export records, most recent first.
func (s *ExportStore) List(_ context.Context) ([]domain.ExportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]domain.ExportRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records, nil
}
