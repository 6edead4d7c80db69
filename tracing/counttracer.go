package tracing

import (
	"sync"

	"github.com/sarchlab/coupler/coupling"
)

// CountTracer counts steps, port updates and transfers. It can be read from
// other goroutines while the run goes on.
type CountTracer struct {
	lock      sync.Mutex
	steps     int
	portNames []string
	updates   map[string]int
	transfers map[string]int
}

// NewCountTracer creates a new CountTracer
func NewCountTracer() *CountTracer {
	return &CountTracer{
		updates:   make(map[string]int),
		transfers: make(map[string]int),
	}
}

// Steps returns the number of completed steps.
func (t *CountTracer) Steps() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.steps
}

// PortNames returns the ports seen so far, in the order they were first
// updated.
func (t *CountTracer) PortNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.portNames...)
}

// Updates returns how many times a port was advanced.
func (t *CountTracer) Updates(port string) int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.updates[port]
}

// Transfers returns how many times a binding delivered values.
func (t *CountTracer) Transfers(binding string) int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.transfers[binding]
}

// StartStep does nothing
func (t *CountTracer) StartStep(coupling.Step) {}

// EndPortUpdate counts the update.
func (t *CountTracer) EndPortUpdate(port *coupling.Port, _ coupling.Step) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.updates[port.Name()]; !ok {
		t.portNames = append(t.portNames, port.Name())
	}

	t.updates[port.Name()]++
}

// EndTransfer counts the transfer.
func (t *CountTracer) EndTransfer(b *coupling.Binding, _ coupling.Step) {
	t.lock.Lock()
	t.transfers[b.String()]++
	t.lock.Unlock()
}

// EndStep counts the step.
func (t *CountTracer) EndStep(coupling.Step) {
	t.lock.Lock()
	t.steps++
	t.lock.Unlock()
}
