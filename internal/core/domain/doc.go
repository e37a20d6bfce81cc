// Package domain defines the core business entities for PaperHelper.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRecord: An uploaded document and its analysis lifecycle
//   - DocumentArtifacts: Summary, mind map and glossary of one analysis
//   - Section: A heading/body window of document text
//   - RawDocument: Stored bytes handed to a loader
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
