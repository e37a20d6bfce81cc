// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never import adapters; stores, loaders and the pipeline
// arrive through constructor arguments.
package services
