package driven

import (
	"context"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

// AnalysisState carries one pipeline run's locally owned data between stages.
type AnalysisState struct {
	// DocumentID identifies the record being analysed.
	DocumentID string

	// Filename is the uploaded name, for logging.
	Filename string

	// Text is the full extracted text. Only used when Sections is empty.
	Text string

	// Sections are the pre-segmented document windows, in document order.
	Sections []domain.Section

	// Vectors holds one pseudo-embedding per section. Never persisted.
	Vectors []domain.FeatureVector

	// Summary is the extracted summary.
	Summary string

	// MindMap is the keyword graph.
	MindMap domain.MindMap

	// Glossary is the ordered list of glossary entries.
	Glossary []domain.GlossaryEntry
}

// Stage is one step of the analysis pipeline.
// Stages are chained in a fixed order and each fills part of the state.
type Stage interface {
	// Name returns the stage name for logging, metrics and error messages.
	Name() string

	// Process reads and updates the state.
	Process(ctx context.Context, state *AnalysisState) error
}

// AnalysisPipeline runs all stages and assembles the artifacts.
type AnalysisPipeline interface {
	// Run processes the state through every stage in order.
	// The first failing stage aborts the run with a *domain.StageError.
	Run(ctx context.Context, state *AnalysisState) (*domain.DocumentArtifacts, error)
}
