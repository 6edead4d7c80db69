// Package timeline orders and fires recurring and one-time events.
//
// A Timeline keeps its events sorted by fire time. Popping an event advances
// the current time to the fire time of the event. Recurring events are put
// back at their fire time plus their interval, computed by repeated addition,
// so very long runs with intervals that are not exactly representable in
// binary accumulate rounding drift.
package timeline

import (
	"iter"
	"math"
	"sort"

	"github.com/sarchlab/coupler/sim"
)

// A Timeline is an ordered schedule of events plus a current time.
type Timeline struct {
	now     sim.VTimeInSec
	events  eventHeap
	nextSeq uint64
}

// New creates an empty timeline whose current time is start.
func New(start sim.VTimeInSec) *Timeline {
	return &Timeline{now: start}
}

// Time returns the current time of the timeline.
func (t *Timeline) Time() sim.VTimeInSec {
	return t.now
}

// Len returns the number of scheduled events.
func (t *Timeline) Len() int {
	return t.events.Len()
}

// AddRecurringEvent schedules an event that first fires one interval after
// the current time and then every interval after that.
func (t *Timeline) AddRecurringEvent(event any, interval sim.VTimeInSec) error {
	if !(interval > 0) {
		return ErrInvalidInterval
	}

	t.insert(&scheduledEvent{
		payload:   event,
		time:      t.now + interval,
		interval:  interval,
		recurring: true,
	})

	return nil
}

// AddOneTimeEvent schedules an event that fires once, at the given time.
func (t *Timeline) AddOneTimeEvent(event any, at sim.VTimeInSec) error {
	if at < t.now {
		return ErrInThePast
	}

	t.insert(&scheduledEvent{payload: event, time: at})

	return nil
}

func (t *Timeline) insert(evt *scheduledEvent) {
	evt.seq = t.nextSeq
	t.nextSeq++
	t.events.push(evt)
}

// NextEvent returns the event that fires next without removing it.
func (t *Timeline) NextEvent() (any, error) {
	if t.events.Len() == 0 {
		return nil, ErrEmptyTimeline
	}

	return t.events.peek().payload, nil
}

// TimeOfNextEvent returns the fire time of the next event.
func (t *Timeline) TimeOfNextEvent() (sim.VTimeInSec, error) {
	if t.events.Len() == 0 {
		return 0, ErrEmptyTimeline
	}

	return t.events.peek().time, nil
}

// Pop removes the next event, moves the current time to its fire time and
// returns it. A recurring event is scheduled again one interval later.
func (t *Timeline) Pop() (any, error) {
	if t.events.Len() == 0 {
		return nil, ErrEmptyTimeline
	}

	evt := t.events.pop()
	t.now = evt.time

	if evt.recurring {
		evt.time += evt.interval
		t.insert(evt)
	}

	return evt.payload, nil
}

// PopUntil pops every event that fires no later than stop, in firing order,
// and then moves the current time to stop.
func (t *Timeline) PopUntil(stop sim.VTimeInSec) ([]any, error) {
	seq, err := t.IterUntil(stop)
	if err != nil {
		return nil, err
	}

	var fired []any
	for _, evt := range seq {
		fired = append(fired, evt)
	}

	return fired, nil
}

// IterUntil returns an iterator over the events that fire no later than stop,
// yielding the fire time along with each event. The events are popped as the
// iteration goes. The current time moves to stop once the iteration runs to
// completion; if the caller stops early, it stays at the last fired event.
// An iterator consumed after the timeline has moved past stop yields nothing
// and leaves the current time alone.
func (t *Timeline) IterUntil(
	stop sim.VTimeInSec,
) (iter.Seq2[sim.VTimeInSec, any], error) {
	if math.IsNaN(stop) || stop < t.now {
		return nil, ErrStopBeforeNow
	}

	return func(yield func(sim.VTimeInSec, any) bool) {
		if stop < t.now {
			return
		}

		for t.events.Len() > 0 && t.events.peek().time <= stop {
			evt, _ := t.Pop()
			if !yield(t.now, evt) {
				return
			}
		}

		t.now = stop
	}, nil
}

// Events returns the scheduled events in the order they will fire.
func (t *Timeline) Events() []any {
	sorted := append(eventHeap(nil), t.events...)
	sort.Sort(sorted)

	events := make([]any, len(sorted))
	for i, evt := range sorted {
		events[i] = evt.payload
	}

	return events
}
