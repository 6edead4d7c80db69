package tracing

import (
	"sync"
	"time"

	"github.com/sarchlab/coupler/coupling"
)

// WallTimeTracer measures the real time spent in port updates, transfers and
// whole steps. Calls of a step happen one after the other, so the time since
// the previous call is charged to the port or binding that just finished.
type WallTimeTracer struct {
	clock WallClock

	lock         sync.Mutex
	last         time.Time
	stepStart    time.Time
	stepTime     time.Duration
	portTime     map[string]time.Duration
	transferTime map[string]time.Duration
}

// NewWallTimeTracer creates a tracer that reads the given clock. A nil clock
// means the system clock.
func NewWallTimeTracer(clock WallClock) *WallTimeTracer {
	if clock == nil {
		clock = SystemClock()
	}

	return &WallTimeTracer{
		clock:        clock,
		portTime:     make(map[string]time.Duration),
		transferTime: make(map[string]time.Duration),
	}
}

// StepTime returns the time spent in all steps.
func (t *WallTimeTracer) StepTime() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.stepTime
}

// PortTime returns the time spent advancing a port.
func (t *WallTimeTracer) PortTime(port string) time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.portTime[port]
}

// TransferTime returns the time spent in a binding.
func (t *WallTimeTracer) TransferTime(binding string) time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.transferTime[binding]
}

// StartStep starts the clock of the step.
func (t *WallTimeTracer) StartStep(coupling.Step) {
	now := t.clock.Now()

	t.lock.Lock()
	t.last = now
	t.stepStart = now
	t.lock.Unlock()
}

// EndPortUpdate charges the port.
func (t *WallTimeTracer) EndPortUpdate(port *coupling.Port, _ coupling.Step) {
	now := t.clock.Now()

	t.lock.Lock()
	t.portTime[port.Name()] += now.Sub(t.last)
	t.last = now
	t.lock.Unlock()
}

// EndTransfer charges the binding.
func (t *WallTimeTracer) EndTransfer(b *coupling.Binding, _ coupling.Step) {
	now := t.clock.Now()

	t.lock.Lock()
	t.transferTime[b.String()] += now.Sub(t.last)
	t.last = now
	t.lock.Unlock()
}

// EndStep adds the step to the total.
func (t *WallTimeTracer) EndStep(coupling.Step) {
	now := t.clock.Now()

	t.lock.Lock()
	t.stepTime += now.Sub(t.stepStart)
	t.last = now
	t.lock.Unlock()
}
