package memory

import (
	"context"
	"sync"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Records are copied on the way in and out.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]*domain.DocumentRecord
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]*domain.DocumentRecord),
	}
}

// SaveRecord stores or replaces a record.
func (s *RecordStore) SaveRecord(_ context.Context, record *domain.DocumentRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record.Clone()
	return nil
}

// GetRecord retrieves a record by ID.
func (s *RecordStore) GetRecord(_ context.Context, id string) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record.Clone(), nil
}

// ListRecords returns every record keyed by ID.
func (s *RecordStore) ListRecords(_ context.Context) (map[string]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]domain.DocumentRecord, len(s.records))
	for id, record := range s.records {
		result[id] = *record.Clone()
	}
	return result, nil
}
