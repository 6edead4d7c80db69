package coupling

import (
	"strings"

	"github.com/sarchlab/coupler/lifecycle"
	"github.com/sarchlab/coupler/sim"
)

// PortStatus is the state of a port at the time of a snapshot.
type PortStatus struct {
	Name      string         `json:"name"`
	Component string         `json:"component"`
	Optional  bool           `json:"optional"`
	Active    bool           `json:"active"`
	Phase     string         `json:"phase"`
	Status    string         `json:"status"`
	Time      sim.VTimeInSec `json:"time"`
	Error     string         `json:"error,omitempty"`
}

// Snapshot is a copy of the driver state that other goroutines can read.
type Snapshot struct {
	Name   string         `json:"name"`
	State  string         `json:"state"`
	Now    sim.VTimeInSec `json:"now"`
	Target sim.VTimeInSec `json:"target"`
	Steps  int            `json:"steps"`
	Ports  []PortStatus   `json:"ports"`
}

// Port returns the status of the named port.
func (s Snapshot) Port(name string) (PortStatus, bool) {
	for _, p := range s.Ports {
		if p.Name == name {
			return p, true
		}
	}

	return PortStatus{}, false
}

// State returns where the driver is in its lifecycle: created,
// initializing, initialized, updating, updated, finalizing or finalized.
func (d *Driver) State() string {
	return stateName(d.guard)
}

func stateName(g *lifecycle.Guard) string {
	phase := g.Current()
	status := g.Status()

	if phase == lifecycle.PhaseCreate {
		if status == lifecycle.Completed {
			return "created"
		}

		return "creating"
	}

	if status == lifecycle.Completed {
		return phase + "d"
	}

	return strings.TrimSuffix(phase, "e") + "ing"
}

// publish refreshes the snapshot.
func (d *Driver) publish() {
	s := Snapshot{
		Name:   d.Name(),
		State:  d.State(),
		Now:    d.now,
		Target: d.target,
		Steps:  d.steps,
		Ports:  make([]PortStatus, 0, len(d.declared)),
	}

	d.componentMu.Lock()
	for _, name := range d.declared {
		p := d.ports[name]
		ps := PortStatus{
			Name:      name,
			Component: p.kind,
			Optional:  p.optional,
			Active:    p.active,
			Phase:     p.guard.Current(),
			Status:    p.guard.Status().String(),
		}

		if p.component != nil && p.initialized() {
			ps.Time = p.component.CurrentTime()
		}

		if p.err != nil {
			ps.Error = p.err.Error()
		}

		s.Ports = append(s.Ports, ps)
	}
	d.componentMu.Unlock()

	d.snapshotMu.Lock()
	d.snapshot = s
	d.snapshotMu.Unlock()
}

// Snapshot returns the latest published state. It is safe to call from any
// goroutine.
func (d *Driver) Snapshot() Snapshot {
	d.snapshotMu.RLock()
	defer d.snapshotMu.RUnlock()

	return d.snapshot
}

// Inspect calls fn with the component of a port while no component call is
// in flight. It is safe to call from any goroutine.
func (d *Driver) Inspect(name string, fn func(Component)) error {
	p, ok := d.ports[name]
	if !ok {
		return ErrUnknownPort
	}

	d.componentMu.Lock()
	defer d.componentMu.Unlock()

	fn(p.component)

	return nil
}
