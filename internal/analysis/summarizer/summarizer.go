// Package summarizer builds an extractive summary from the leading
// sentences of each section.
package summarizer

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Ensure Summarizer implements the Stage interface.
var _ driven.Stage = (*Summarizer)(nil)

// DefaultMaxSentences is the default summary length in sentences.
const DefaultMaxSentences = 3

// Summarizer collects sentences in document order.
type Summarizer struct {
	maxSentences int
}

// New creates a summarizer. Non-positive limits use DefaultMaxSentences.
func New(maxSentences int) *Summarizer {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	return &Summarizer{maxSentences: maxSentences}
}

// Name returns the stage name.
func (s *Summarizer) Name() string {
	return "summarize"
}

// Process writes the summary of the sections to the state.
func (s *Summarizer) Process(_ context.Context, state *driven.AnalysisState) error {
	state.Summary = s.Summarize(state.Sections)
	return nil
}

// Summarize joins the first sentences across all sections with a space.
func (s *Summarizer) Summarize(sections []domain.Section) string {
	picked := make([]string, 0, s.maxSentences)

	for _, sec := range sections {
		for _, sentence := range Sentences(sec.Body) {
			picked = append(picked, sentence)
			if len(picked) == s.maxSentences {
				return strings.Join(picked, " ")
			}
		}
	}

	return strings.Join(picked, " ")
}

// Sentences splits text after '.', '!' or '?' when followed by whitespace.
// Pieces are trimmed and empty pieces dropped.
func Sentences(text string) []string {
	text = strings.TrimSpace(text)
	var sentences []string

	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		next, _ := utf8.DecodeRuneInString(text[i:])
		if i >= len(text) || !unicode.IsSpace(next) {
			continue
		}

		if piece := strings.TrimSpace(text[start:i]); piece != "" {
			sentences = append(sentences, piece)
		}

		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(r) {
				break
			}
			i += size
		}
		start = i
	}

	if piece := strings.TrimSpace(text[start:]); piece != "" {
		sentences = append(sentences, piece)
	}

	return sentences
}
