package glossary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

func TestScore(t *testing.T) {
	assert.InDelta(t, 1.0, Score(0), 1e-9)
	assert.InDelta(t, 0.95, Score(1), 1e-9)
	assert.InDelta(t, 0.65, Score(7), 1e-9)
}

func TestDefinition(t *testing.T) {
	assert.Equal(t, "Key concept related to learning discovered in the document.", Definition("learning"))
}

func TestBuild_SingleSection(t *testing.T) {
	sections := []domain.Section{{Heading: "Deep learning works", Body: "Deep learning works. It is great."}}

	entries := New().Build(sections)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "Learning", entry.Term)
	assert.Equal(t, "Key concept related to learning discovered in the document.", entry.Definition)
	assert.InDelta(t, 1.0, entry.Score, 1e-9)
	assert.Equal(t, []string{"Deep learning works"}, entry.References)
}

func TestBuild_ReferencesCapped(t *testing.T) {
	sections := []domain.Section{
		{Heading: "One", Body: "Graphs here."},
		{Heading: "Two", Body: "no match"},
		{Heading: "Three", Body: "GRAPHS again"},
		{Heading: "Four", Body: "graphs once more"},
	}

	entries := New().Build(sections)
	require.NotEmpty(t, entries)
	assert.Equal(t, "Graphs", entries[0].Term)
	assert.Equal(t, []string{"One", "Three"}, entries[0].References)
}

func TestBuild_SubstringMatch(t *testing.T) {
	sections := []domain.Section{
		{Heading: "A", Body: "model model"},
		{Heading: "B", Body: "remodeling"},
	}

	entries := New().Build(sections)
	require.NotEmpty(t, entries)
	assert.Equal(t, "Model", entries[0].Term)
	assert.Equal(t, []string{"A", "B"}, entries[0].References)
}

func TestBuild_TopKAndScores(t *testing.T) {
	sections := []domain.Section{{
		Heading: "H",
		Body:    "alpha bravo charlie delta echoes foxtrot golfer hotel india juliet",
	}}

	entries := New().Build(sections)
	require.Len(t, entries, DefaultTopK)
	for i, e := range entries {
		assert.InDelta(t, 1.0-0.05*float64(i), e.Score, 1e-9)
	}
	assert.Equal(t, "Alpha", entries[0].Term)
	assert.Equal(t, "Hotel", entries[7].Term)
}

func TestBuild_NoKeywords(t *testing.T) {
	entries := New().Build([]domain.Section{{Heading: "Empty", Body: ""}})
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestBuild_ZeroReferences(t *testing.T) {
	sections := []domain.Section{{Heading: "A", Body: "graphs graphs"}}
	entries := New(WithMaxReferences(0)).Build(sections)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].References)
}

func TestProcess(t *testing.T) {
	b := New(WithTopK(1))
	assert.Equal(t, "glossary", b.Name())

	state := &driven.AnalysisState{
		Sections: []domain.Section{{Heading: "X", Body: "vectors vectors matrices"}},
	}
	require.NoError(t, b.Process(context.Background(), state))
	require.Len(t, state.Glossary, 1)
	assert.Equal(t, "Vectors", state.Glossary[0].Term)
}
