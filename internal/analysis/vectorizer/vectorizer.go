// Package vectorizer turns section bodies into fixed-length hashed
// term-frequency vectors.
package vectorizer

import (
	"context"

	"github.com/cespare/xxhash/v2"

	"github.com/SJF-ECNU/paperhelper/internal/analysis/lexical"
	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Ensure Vectorizer implements the Stage interface.
var _ driven.Stage = (*Vectorizer)(nil)

// DefaultDimensions is the default vector length.
const DefaultDimensions = 10

// Vectorizer hashes tokens into a fixed number of buckets.
type Vectorizer struct {
	dimensions int
}

// New creates a vectorizer. Non-positive dimensions use DefaultDimensions.
func New(dimensions int) *Vectorizer {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Vectorizer{dimensions: dimensions}
}

// Name returns the stage name.
func (v *Vectorizer) Name() string {
	return "vectorize"
}

// Dimensions returns the vector length.
func (v *Vectorizer) Dimensions() int {
	return v.dimensions
}

// Process computes one vector per section.
func (v *Vectorizer) Process(_ context.Context, state *driven.AnalysisState) error {
	state.Vectors = v.Vectorize(state.Sections)
	return nil
}

// Vectorize computes one vector per section, in section order.
func (v *Vectorizer) Vectorize(sections []domain.Section) []domain.FeatureVector {
	vectors := make([]domain.FeatureVector, len(sections))
	for i, s := range sections {
		vectors[i] = v.Vector(s.Body)
	}
	return vectors
}

// Vector returns the normalised bucket counts of text's tokens.
// Components sum to 1, or are all zero when text has no tokens.
func (v *Vectorizer) Vector(text string) domain.FeatureVector {
	vec := make(domain.FeatureVector, v.dimensions)

	tokens := lexical.Tokens(text)
	if len(tokens) == 0 {
		return vec
	}

	for _, tok := range tokens {
		vec[xxhash.Sum64String(tok)%uint64(v.dimensions)]++
	}

	total := float64(len(tokens))
	for i := range vec {
		vec[i] /= total
	}

	return vec
}
