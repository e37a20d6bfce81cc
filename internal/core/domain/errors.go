package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Upload Errors.

	// ErrUnsupportedType indicates a file extension outside the supported set.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrDocumentTooLarge indicates an upload above the configured size limit.
	ErrDocumentTooLarge = errors.New("document too large")

	// Analysis Errors.

	// ErrPipelineStage indicates a failure inside an analysis stage.
	ErrPipelineStage = errors.New("pipeline stage failure")

	// ErrInvalidTransition indicates a status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrArtifactsUnavailable indicates the record has no artifacts yet.
	ErrArtifactsUnavailable = errors.New("artifacts not available")
)

// StageError wraps the failure of a named pipeline stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Is matches ErrPipelineStage.
func (e *StageError) Is(target error) bool {
	return target == ErrPipelineStage
}
