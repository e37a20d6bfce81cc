package driving

import (
	"context"
	"io"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

// AnalysisService accepts documents and tracks their analysis.
type AnalysisService interface {
	// Ingest stores an upload, creates a processing record and schedules
	// background analysis. It returns without waiting for the analysis.
	// Type and size policy failures are returned before any record exists.
	Ingest(ctx context.Context, filename string, content io.Reader) (*domain.DocumentRecord, error)

	// Analyze runs the pipeline synchronously for an existing record and
	// stores the terminal state. The returned error is the pipeline failure,
	// already recorded on the record.
	Analyze(ctx context.Context, documentID string, parsed *domain.ParsedDocument) (*domain.DocumentRecord, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, documentID string) (*domain.DocumentRecord, error)

	// List returns all records keyed by ID.
	List(ctx context.Context) (map[string]domain.DocumentRecord, error)

	// Artifacts returns the artifacts of a completed record.
	Artifacts(ctx context.Context, documentID string) (*domain.DocumentArtifacts, error)

	// Wait blocks until every scheduled background analysis has finished.
	Wait()
}
