// Package segmenter splits extracted document text into overlapping
// word windows and names each window with a heading.
package segmenter

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Ensure Segmenter implements the Stage interface.
var _ driven.Stage = (*Segmenter)(nil)

// DefaultChunkSize is the default number of words per section.
const DefaultChunkSize = 1200

// DefaultOverlap is the default number of words shared by adjacent sections.
const DefaultOverlap = 150

// MaxHeadingLength is the longest derived heading, in runes.
const MaxHeadingLength = 120

// EmptyHeading names the single section produced for text with no words.
const EmptyHeading = "Empty"

// Segmenter splits text into word windows.
type Segmenter struct {
	chunkSize int
	overlap   int
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) Option {
	return func(s *Segmenter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the number of words repeated between windows.
func WithOverlap(overlap int) Option {
	return func(s *Segmenter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the stage name.
func (s *Segmenter) Name() string {
	return "segment"
}

// Process segments state.Text when no sections were supplied.
func (s *Segmenter) Process(_ context.Context, state *driven.AnalysisState) error {
	if len(state.Sections) > 0 {
		return nil
	}
	state.Sections = s.Segment(state.Text)
	return nil
}

// Step returns how far each window advances. Always at least one word.
func (s *Segmenter) Step() int {
	if step := s.chunkSize - s.overlap; step > 0 {
		return step
	}
	return 1
}

// word is one whitespace-delimited token and the line it came from.
type word struct {
	text      string
	line      int
	lineStart bool
}

func splitWords(text string) []word {
	var words []word
	for lineNo, line := range strings.Split(text, "\n") {
		for i, f := range strings.Fields(line) {
			words = append(words, word{text: f, line: lineNo, lineStart: i == 0})
		}
	}
	return words
}

// Segment splits text into windows of chunkSize words.
// Text without words yields a single "Empty" section.
func (s *Segmenter) Segment(text string) []domain.Section {
	words := splitWords(text)
	if len(words) == 0 {
		return []domain.Section{{Heading: EmptyHeading, Body: ""}}
	}

	step := s.Step()
	sections := make([]domain.Section, 0, len(words)/step+1)

	for start := 0; start < len(words); start += step {
		end := start + s.chunkSize
		if end > len(words) {
			end = len(words)
		}

		window := words[start:end]
		body := joinWords(window)
		sections = append(sections, domain.Section{
			Heading: inferHeading(window, body, len(sections)+1),
			Body:    body,
		})

		if end == len(words) {
			break
		}
	}

	return sections
}

func joinWords(words []word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.text
	}
	return strings.Join(parts, " ")
}

// inferHeading picks the first markdown-style heading line in the window,
// then the first sentence, then a positional name. A heading must start its
// source line; a window that opens mid-line on a #word does not count.
func inferHeading(window []word, body string, index int) string {
	for i := 0; i < len(window); i++ {
		if !window[i].lineStart || !strings.HasPrefix(window[i].text, "#") {
			continue
		}

		j := i + 1
		for j < len(window) && window[j].line == window[i].line {
			j++
		}
		line := joinWords(window[i:j])
		if heading := strings.TrimSpace(strings.TrimLeft(line, "#")); heading != "" {
			return heading
		}
	}

	sentence, _, _ := strings.Cut(strings.TrimSpace(body), ".")
	if utf8.RuneCountInString(sentence) > MaxHeadingLength {
		runes := []rune(sentence)
		return string(runes[:MaxHeadingLength-3]) + "..."
	}
	if sentence != "" {
		return sentence
	}

	return fmt.Sprintf("Section %d", index)
}
