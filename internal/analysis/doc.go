// Package analysis chains the document analysis stages into a pipeline.
//
// Stages run in a fixed order: segment, vectorize, summarize, mindmap,
// glossary. The pipeline then assembles the persisted artifacts.
package analysis
