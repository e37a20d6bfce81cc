package domain

// Section is a contiguous, possibly overlapping chunk of document text
// with an inferred heading. Sections keep document order.
type Section struct {
	Heading string
	Body    string
}

// FeatureVector is a fixed-length hash-bucketed term-frequency vector.
// Values sum to 1, or are all zero when the section had no tokens.
type FeatureVector []float64

// MindMapNode is one keyword in the mind map.
type MindMapNode struct {
	ID     string  `json:"id" yaml:"id"`
	Label  string  `json:"label" yaml:"label"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// MindMapEdge connects a keyword to a lower-ranked keyword.
type MindMapEdge struct {
	Source string  `json:"source" yaml:"source"`
	Target string  `json:"target" yaml:"target"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// MindMap is a directed keyword graph ordered by extraction rank.
type MindMap struct {
	Nodes []MindMapNode `json:"nodes" yaml:"nodes"`
	Edges []MindMapEdge `json:"edges" yaml:"edges"`
}

// GlossaryEntry is a generated term definition with section back-references.
type GlossaryEntry struct {
	Term       string   `json:"term" yaml:"term"`
	Definition string   `json:"definition" yaml:"definition"`
	Score      float64  `json:"score" yaml:"score"`
	References []string `json:"references" yaml:"references"`
}

// DocumentArtifacts is the output of one successful analysis.
type DocumentArtifacts struct {
	Summary  string          `json:"summary" yaml:"summary"`
	MindMap  MindMap         `json:"mind_map" yaml:"mind_map"`
	Glossary []GlossaryEntry `json:"glossary" yaml:"glossary"`
}

// Clone returns a deep copy of the artifacts.
func (a DocumentArtifacts) Clone() DocumentArtifacts {
	c := DocumentArtifacts{Summary: a.Summary}

	if a.MindMap.Nodes != nil {
		c.MindMap.Nodes = append([]MindMapNode{}, a.MindMap.Nodes...)
	}
	if a.MindMap.Edges != nil {
		c.MindMap.Edges = append([]MindMapEdge{}, a.MindMap.Edges...)
	}

	if a.Glossary != nil {
		c.Glossary = make([]GlossaryEntry, len(a.Glossary))
		for i, e := range a.Glossary {
			e.References = append([]string(nil), e.References...)
			c.Glossary[i] = e
		}
	}

	return c
}
