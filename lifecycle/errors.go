package lifecycle

import (
	"errors"
	"fmt"
)

// Lifecycle violations.
var (
	// ErrOutOfOrder indicates a phase was started before the phases ahead of
	// it were completed, or after the guard moved past it.
	ErrOutOfOrder = errors.New("lifecycle: phase out of order")

	// ErrAlreadyCompleted indicates a completed phase was started again
	// without an explicit restart.
	ErrAlreadyCompleted = errors.New("lifecycle: phase already completed")

	// ErrNotStarted indicates a phase was completed before it was started.
	ErrNotStarted = errors.New("lifecycle: phase not started")

	// ErrAlreadyStarted indicates the guard is expected to be idle but a phase
	// is already running.
	ErrAlreadyStarted = errors.New("lifecycle: phase already started")
)

// PhaseError describes a rejected transition.
type PhaseError struct {
	Op      string
	Phase   string
	Current string
	Status  Status
	Err     error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s %q (current %q is %s): %v",
		e.Op, e.Phase, e.Current, e.Status, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
