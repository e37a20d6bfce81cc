// Package glossary derives glossary entries from the most frequent
// keywords of a document.
package glossary

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/SJF-ECNU/paperhelper/internal/analysis/lexical"
	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Ensure Builder implements the Stage interface.
var _ driven.Stage = (*Builder)(nil)

const (
	// DefaultTopK is the default number of glossary entries.
	DefaultTopK = 8

	// DefaultMaxReferences caps the section headings cited per entry.
	DefaultMaxReferences = 2

	// ScoreStep is the score decrement per rank.
	ScoreStep = 0.05
)

// Builder produces glossary entries.
type Builder struct {
	topK          int
	maxReferences int
}

// Option configures the builder.
type Option func(*Builder)

// WithTopK sets the number of entries.
func WithTopK(k int) Option {
	return func(b *Builder) {
		if k > 0 {
			b.topK = k
		}
	}
}

// WithMaxReferences sets the reference cap per entry.
func WithMaxReferences(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.maxReferences = n
		}
	}
}

// New creates a glossary builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		topK:          DefaultTopK,
		maxReferences: DefaultMaxReferences,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the stage name.
func (b *Builder) Name() string {
	return "glossary"
}

// Process builds the glossary from all section bodies.
func (b *Builder) Process(_ context.Context, state *driven.AnalysisState) error {
	state.Glossary = b.Build(state.Sections)
	return nil
}

// Build returns one entry per top keyword, in rank order.
func (b *Builder) Build(sections []domain.Section) []domain.GlossaryEntry {
	keywords := lexical.Keywords(lexical.JoinBodies(sections), b.topK)

	// Casers keep state and are not safe to share between goroutines.
	title := cases.Title(language.English)

	lowered := make([]string, len(sections))
	for i, s := range sections {
		lowered[i] = strings.ToLower(s.Body)
	}

	entries := make([]domain.GlossaryEntry, 0, len(keywords))
	for rank, kw := range keywords {
		refs := make([]string, 0, b.maxReferences)
		for i, body := range lowered {
			if len(refs) == b.maxReferences {
				break
			}
			if strings.Contains(body, kw) {
				refs = append(refs, sections[i].Heading)
			}
		}

		entries = append(entries, domain.GlossaryEntry{
			Term:       title.String(kw),
			Definition: Definition(kw),
			Score:      Score(rank),
			References: refs,
		})
	}

	return entries
}

// Definition returns the templated definition for a keyword.
func Definition(keyword string) string {
	return fmt.Sprintf("Key concept related to %s discovered in the document.", keyword)
}

// Score returns 1.0 decreasing by ScoreStep per rank.
func Score(rank int) float64 {
	return 1.0 - ScoreStep*float64(rank)
}
