// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RecordStore: Document record persistence (JSON file, SQLite or memory)
//   - LoaderRegistry: Selects a DocumentLoader by file extension
//   - DocumentLoader: Extracts text from stored bytes
//   - Stage: One step of the analysis pipeline
//   - AnalysisPipeline: Runs the stages in fixed order
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader, or analysis package
package driven
