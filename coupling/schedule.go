package coupling

import (
	"fmt"
	"math"

	"github.com/sarchlab/coupler/sim"
	"github.com/sarchlab/coupler/timeline"
)

// snapTolerance is the relative distance under which a boundary is merged
// into the target.
const snapTolerance = 1e-9

type stepEvent struct{}

// StepBoundaries lists the times a run from now to target stops at: every
// interval after now, and target itself as the last one. Boundaries close
// enough to target to be rounding noise are merged into it. An infinite
// interval gives a single boundary at target; target equal to now gives none.
// An infinite target is rejected with ErrInfiniteTarget.
func StepBoundaries(
	now, target, interval sim.VTimeInSec,
) ([]sim.VTimeInSec, error) {
	if math.IsNaN(target) || target < now {
		return nil, timeline.ErrStopBeforeNow
	}

	if math.IsInf(target, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInfiniteTarget, target)
	}

	if target == now {
		return nil, nil
	}

	tl := timeline.New(now)
	if err := tl.AddRecurringEvent(stepEvent{}, interval); err != nil {
		return nil, err
	}

	events, err := tl.IterUntil(target)
	if err != nil {
		return nil, err
	}

	slack := snapTolerance * math.Max(1, math.Abs(target))

	var boundaries []sim.VTimeInSec
	for t := range events {
		if target-t <= slack {
			break
		}

		boundaries = append(boundaries, t)
	}

	return append(boundaries, target), nil
}
