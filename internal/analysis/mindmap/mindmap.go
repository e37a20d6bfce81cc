// Package mindmap builds a keyword graph where each top keyword links to
// the next few keywords in rank order.
package mindmap

import (
	"context"
	"fmt"
	"math"

	"github.com/SJF-ECNU/paperhelper/internal/analysis/lexical"
	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Ensure Builder implements the Stage interface.
var _ driven.Stage = (*Builder)(nil)

const (
	// DefaultTopK is the default number of keyword nodes.
	DefaultTopK = 12

	// DefaultFanOut is how many following nodes each node links to.
	DefaultFanOut = 3

	// EdgeWeight is the weight of every edge.
	EdgeWeight = 0.5

	// MinNodeWeight is the floor for node weights.
	MinNodeWeight = 1.0
)

// Builder produces mind maps from section text.
type Builder struct {
	topK   int
	fanOut int
}

// Option configures the builder.
type Option func(*Builder)

// WithTopK sets the number of keyword nodes.
func WithTopK(k int) Option {
	return func(b *Builder) {
		if k > 0 {
			b.topK = k
		}
	}
}

// WithFanOut sets the number of forward edges per node.
func WithFanOut(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.fanOut = n
		}
	}
}

// New creates a mind map builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		topK:   DefaultTopK,
		fanOut: DefaultFanOut,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the stage name.
func (b *Builder) Name() string {
	return "mindmap"
}

// Process builds the mind map from all section bodies.
func (b *Builder) Process(_ context.Context, state *driven.AnalysisState) error {
	state.MindMap = b.Build(state.Sections)
	return nil
}

// Build ranks keywords across all sections and links them.
func (b *Builder) Build(sections []domain.Section) domain.MindMap {
	return b.FromKeywords(lexical.Keywords(lexical.JoinBodies(sections), b.topK))
}

// FromKeywords builds the graph for keywords already in rank order.
func (b *Builder) FromKeywords(keywords []string) domain.MindMap {
	nodes := make([]domain.MindMapNode, len(keywords))
	for i, kw := range keywords {
		rank := i + 1
		nodes[i] = domain.MindMapNode{
			ID:     NodeID(rank),
			Label:  kw,
			Weight: NodeWeight(rank),
		}
	}

	edges := make([]domain.MindMapEdge, 0, len(nodes)*b.fanOut)
	for i := range nodes {
		for j := i + 1; j < len(nodes) && j <= i+b.fanOut; j++ {
			edges = append(edges, domain.MindMapEdge{
				Source: nodes[i].ID,
				Target: nodes[j].ID,
				Weight: EdgeWeight,
			})
		}
	}

	return domain.MindMap{Nodes: nodes, Edges: edges}
}

// NodeID returns the identifier of the node at 1-based rank.
func NodeID(rank int) string {
	return fmt.Sprintf("node-%d", rank)
}

// NodeWeight returns 1.5 decreasing by 0.05 per 1-based rank, floored at 1.0.
func NodeWeight(rank int) float64 {
	return math.Max(MinNodeWeight, 1.5-0.05*float64(rank))
}
