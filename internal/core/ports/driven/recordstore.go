package driven

import (
	"context"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

// RecordStore persists one DocumentRecord per document.
// The store is the sole authority for record state.
type RecordStore interface {
	// SaveRecord upserts a record by ID, overwriting every field.
	SaveRecord(ctx context.Context, record *domain.DocumentRecord) error

	// GetRecord retrieves a record by ID.
	// Returns domain.ErrNotFound for unknown IDs.
	GetRecord(ctx context.Context, id string) (*domain.DocumentRecord, error)

	// ListRecords returns all records keyed by ID. No ordering guarantee.
	ListRecords(ctx context.Context) (map[string]domain.DocumentRecord, error)
}
