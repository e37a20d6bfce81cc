package analysis

import (
	"fmt"

	"github.com/SJF-ECNU/paperhelper/internal/analysis/glossary"
	"github.com/SJF-ECNU/paperhelper/internal/analysis/mindmap"
	"github.com/SJF-ECNU/paperhelper/internal/analysis/segmenter"
	"github.com/SJF-ECNU/paperhelper/internal/analysis/summarizer"
	"github.com/SJF-ECNU/paperhelper/internal/analysis/vectorizer"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Stage names, in execution order.
const (
	StageSegment   = "segment"
	StageVectorize = "vectorize"
	StageSummarize = "summarize"
	StageMindMap   = "mindmap"
	StageGlossary  = "glossary"
)

// StageOrder is the fixed order the default pipeline runs stages in.
var StageOrder = []string{StageSegment, StageVectorize, StageSummarize, StageMindMap, StageGlossary}

// Config holds per-stage settings keyed by stage name.
type Config map[string]map[string]any

// RegisterDefaults registers all built-in stages with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(StageSegment, buildSegmenter)
	r.Register(StageVectorize, buildVectorizer)
	r.Register(StageSummarize, buildSummarizer)
	r.Register(StageMindMap, buildMindMap)
	r.Register(StageGlossary, buildGlossary)
}

// NewDefaultPipeline builds the standard pipeline from config.
// Stages missing from cfg use their defaults.
func NewDefaultPipeline(cfg Config) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)

	p := NewPipeline()
	for _, name := range StageOrder {
		stage, err := r.Build(name, cfg[name])
		if err != nil {
			return nil, fmt.Errorf("build stage %s: %w", name, err)
		}
		p.Add(stage)
	}
	return p, nil
}

// buildSegmenter supports:
//   - chunk_size (int): words per section (default: 1200)
//   - overlap (int): words shared by adjacent sections (default: 150)
func buildSegmenter(cfg map[string]any) (driven.Stage, error) {
	var opts []segmenter.Option
	if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
		opts = append(opts, segmenter.WithChunkSize(size))
	}
	if _, ok := cfg["overlap"]; ok {
		opts = append(opts, segmenter.WithOverlap(getIntFromConfig(cfg, "overlap")))
	}
	return segmenter.New(opts...), nil
}

// buildVectorizer supports dimensions (int, default 10).
func buildVectorizer(cfg map[string]any) (driven.Stage, error) {
	return vectorizer.New(getIntFromConfig(cfg, "dimensions")), nil
}

// buildSummarizer supports max_sentences (int, default 3).
func buildSummarizer(cfg map[string]any) (driven.Stage, error) {
	return summarizer.New(getIntFromConfig(cfg, "max_sentences")), nil
}

// buildMindMap supports top_k (default 12) and fan_out (default 3).
func buildMindMap(cfg map[string]any) (driven.Stage, error) {
	var opts []mindmap.Option
	if k := getIntFromConfig(cfg, "top_k"); k > 0 {
		opts = append(opts, mindmap.WithTopK(k))
	}
	if _, ok := cfg["fan_out"]; ok {
		opts = append(opts, mindmap.WithFanOut(getIntFromConfig(cfg, "fan_out")))
	}
	return mindmap.New(opts...), nil
}

// buildGlossary supports top_k (default 8) and max_references (default 2).
func buildGlossary(cfg map[string]any) (driven.Stage, error) {
	var opts []glossary.Option
	if k := getIntFromConfig(cfg, "top_k"); k > 0 {
		opts = append(opts, glossary.WithTopK(k))
	}
	if _, ok := cfg["max_references"]; ok {
		opts = append(opts, glossary.WithMaxReferences(getIntFromConfig(cfg, "max_references")))
	}
	return glossary.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
