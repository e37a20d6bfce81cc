package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Ensure Pipeline implements the AnalysisPipeline interface.
var _ driven.AnalysisPipeline = (*Pipeline)(nil)

// StageObserver is told how long each stage took and whether it failed.
type StageObserver func(stage string, elapsed time.Duration, err error)

// Pipeline chains stages and runs them in order.
type Pipeline struct {
	stages    []driven.Stage
	observers []StageObserver
}

// NewPipeline creates a pipeline with the given stages.
// Stages are executed in the order provided.
func NewPipeline(stages ...driven.Stage) *Pipeline {
	return &Pipeline{
		stages: stages,
	}
}

// Add appends a stage to the pipeline.
func (p *Pipeline) Add(stage driven.Stage) {
	p.stages = append(p.stages, stage)
}

// Observe registers a callback run after every stage.
func (p *Pipeline) Observe(fn StageObserver) {
	if fn != nil {
		p.observers = append(p.observers, fn)
	}
}

// Len returns the number of stages in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run processes the state through every stage and assembles the artifacts.
// A failing or panicking stage aborts the run with a *domain.StageError.
// Cancellation is checked between stages.
func (p *Pipeline) Run(ctx context.Context, state *driven.AnalysisState) (*domain.DocumentArtifacts, error) {
	if state == nil {
		return nil, fmt.Errorf("analysis state is nil: %w", domain.ErrInvalidInput)
	}

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, &domain.StageError{Stage: stage.Name(), Err: err}
		}

		start := time.Now()
		err := runStage(ctx, stage, state)
		elapsed := time.Since(start)

		for _, fn := range p.observers {
			fn(stage.Name(), elapsed, err)
		}

		if err != nil {
			return nil, &domain.StageError{Stage: stage.Name(), Err: err}
		}
	}

	return assemble(state), nil
}

// runStage converts a stage panic into an error.
func runStage(ctx context.Context, stage driven.Stage, state *driven.AnalysisState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return stage.Process(ctx, state)
}

func assemble(state *driven.AnalysisState) *domain.DocumentArtifacts {
	mindMap := state.MindMap
	if mindMap.Nodes == nil {
		mindMap.Nodes = []domain.MindMapNode{}
	}
	if mindMap.Edges == nil {
		mindMap.Edges = []domain.MindMapEdge{}
	}

	glossary := state.Glossary
	if glossary == nil {
		glossary = []domain.GlossaryEntry{}
	}

	return &domain.DocumentArtifacts{
		Summary:  state.Summary,
		MindMap:  mindMap,
		Glossary: glossary,
	}
}
