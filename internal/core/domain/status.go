package domain

import "fmt"

// DocumentStatus is the lifecycle state of a document analysis.
type DocumentStatus string

// Lifecycle states.
const (
	// StatusPending is a record that has been created but not yet accepted.
	StatusPending DocumentStatus = "pending"

	// StatusProcessing is a record whose analysis is scheduled or running.
	StatusProcessing DocumentStatus = "processing"

	// StatusCompleted is a record whose artifacts are available.
	StatusCompleted DocumentStatus = "completed"

	// StatusFailed is a record whose analysis failed.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for completed and failed.
// Terminal records are never retried automatically.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
//
//	pending -> processing -> completed
//	pending -> failed
//	processing -> failed
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusFailed
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// UnmarshalText decodes a status, defaulting an empty value to pending.
func (s *DocumentStatus) UnmarshalText(text []byte) error {
	status := DocumentStatus(text)
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown document status %q", ErrInvalidInput, string(text))
	}
	*s = status
	return nil
}

// TransitionError reports a lifecycle move the state machine forbids.
type TransitionError struct {
	From DocumentStatus
	To   DocumentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// Is matches ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
