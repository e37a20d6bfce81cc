// Package lexical provides the tokenizer and keyword ranking shared by the
// analysis stages.
package lexical

import (
	"sort"
	"strings"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

// MinKeywordLength is the shortest token considered a keyword.
const MinKeywordLength = 5

// TermCount is a keyword and the number of times it occurs.
type TermCount struct {
	Term  string
	Count int
}

// Tokens lower-cases text and returns every maximal run of ASCII letters.
// Digits, punctuation and non-ASCII letters separate tokens.
func Tokens(text string) []string {
	lower := strings.ToLower(text)
	tokens := make([]string, 0, len(lower)/6)

	var current strings.Builder
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'z' {
			current.WriteByte(c)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// Frequencies counts the keyword-length tokens of text.
// Terms are returned in order of first appearance.
func Frequencies(text string) []TermCount {
	index := make(map[string]int)
	var counts []TermCount

	for _, tok := range Tokens(text) {
		if len(tok) < MinKeywordLength {
			continue
		}
		if i, ok := index[tok]; ok {
			counts[i].Count++
			continue
		}
		index[tok] = len(counts)
		counts = append(counts, TermCount{Term: tok, Count: 1})
	}

	return counts
}

// Ranked returns the topK most frequent keywords with their counts.
// Ties keep first-appearance order.
func Ranked(text string, topK int) []TermCount {
	if topK <= 0 {
		return nil
	}

	counts := Frequencies(text)
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > topK {
		counts = counts[:topK]
	}
	return counts
}

// Keywords returns the topK most frequent keywords of text.
func Keywords(text string, topK int) []string {
	ranked := Ranked(text, topK)
	keywords := make([]string, len(ranked))
	for i, tc := range ranked {
		keywords[i] = tc.Term
	}
	return keywords
}

// JoinBodies concatenates section bodies with a single space.
func JoinBodies(sections []domain.Section) string {
	bodies := make([]string, len(sections))
	for i, s := range sections {
		bodies[i] = s.Body
	}
	return strings.Join(bodies, " ")
}
