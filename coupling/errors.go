package coupling

import (
	"errors"
	"fmt"

	"github.com/sarchlab/coupler/sim"
)

var (
	// ErrComponentFailure indicates a component that returned an error.
	ErrComponentFailure = errors.New("coupling: component failure")

	// ErrUnknownPort indicates a port name the driver does not have.
	ErrUnknownPort = errors.New("coupling: unknown port")

	// ErrUnknownComponent indicates a component kind with no factory.
	ErrUnknownComponent = errors.New("coupling: unknown component")

	// ErrInfiniteTarget indicates a run that could never reach its target.
	ErrInfiniteTarget = errors.New("coupling: target time must be finite")
)

// ComponentFailureError reports which port failed, in which phase and when.
type ComponentFailureError struct {
	Port  string
	Phase string
	Time  sim.VTimeInSec
	Err   error
}

func (e *ComponentFailureError) Error() string {
	return fmt.Sprintf("coupling: port %s failed in %s at %v: %v",
		e.Port, e.Phase, e.Time, e.Err)
}

func (e *ComponentFailureError) Unwrap() []error {
	return []error{ErrComponentFailure, e.Err}
}
