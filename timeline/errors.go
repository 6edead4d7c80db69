package timeline

import "errors"

// Scheduler misuse.
var (
	// ErrEmptyTimeline indicates there is no event left to peek or pop.
	ErrEmptyTimeline = errors.New("timeline: no events scheduled")

	// ErrStopBeforeNow indicates a stop time earlier than the current time.
	ErrStopBeforeNow = errors.New("timeline: stop time is before the current time")

	// ErrInThePast indicates an event scheduled before the current time.
	ErrInThePast = errors.New("timeline: cannot schedule an event in the past")

	// ErrInvalidInterval indicates a recurrence interval that is not positive.
	ErrInvalidInterval = errors.New("timeline: recurrence interval must be positive")
)
