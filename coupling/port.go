package coupling

import (
	"github.com/sarchlab/coupler/lifecycle"
	"github.com/sarchlab/coupler/sim"
)

// A Port connects the driver to one component. The port owns the component
// and the guard that keeps its phases in order.
type Port struct {
	sim.NamedBase

	kind      string
	component Component
	guard     *lifecycle.Guard
	optional  bool
	active    bool
	inbound   []*Binding
	err       error
}

func newPort(name, kind string, optional bool) *Port {
	return &Port{
		NamedBase: sim.MakeNamedBase(name),
		kind:      kind,
		guard:     lifecycle.New(),
		optional:  optional,
	}
}

// Kind returns the component kind the port was created with.
func (p *Port) Kind() string {
	return p.kind
}

// Component returns the component, or nil if it could not be created.
func (p *Port) Component() Component {
	return p.component
}

// Guard returns the lifecycle guard of the component.
func (p *Port) Guard() *lifecycle.Guard {
	return p.guard
}

// Optional tells if the port may fail without failing the driver.
func (p *Port) Optional() bool {
	return p.optional
}

// Active tells if the driver still drives the port.
func (p *Port) Active() bool {
	return p.active
}

// Err returns the failure that deactivated the port, if any.
func (p *Port) Err() error {
	return p.err
}

// Inbound returns the bindings that write into this port.
func (p *Port) Inbound() []*Binding {
	return p.inbound
}

func (p *Port) deactivate(err error) {
	p.active = false
	if err != nil {
		p.err = err
	}
}

// create runs the factory under the create phase.
func (p *Port) create(reg *Registry) error {
	if err := p.guard.Start(lifecycle.PhaseCreate, false); err != nil {
		return err
	}

	c, err := reg.New(p.kind, p.Name())
	if err != nil {
		return err
	}

	p.component = c
	p.active = true

	return p.guard.Complete()
}

// guarded runs fn within a phase. If fn fails, the phase stays started and
// the first result is true.
func (p *Port) guarded(phase string, restart bool, fn func() error) (bool, error) {
	if err := p.guard.Start(phase, restart); err != nil {
		return false, err
	}

	if err := fn(); err != nil {
		return true, err
	}

	return false, p.guard.Complete()
}

func (p *Port) initialize(args InitArgs) (bool, error) {
	return p.guarded(lifecycle.PhaseInitialize, false, func() error {
		return p.component.Initialize(args)
	})
}

func (p *Port) update(until sim.VTimeInSec) (bool, error) {
	return p.guarded(lifecycle.PhaseUpdate, true, func() error {
		return p.component.Update(until)
	})
}

// finalize closes an aborted update and skips an update that never ran
// before finalizing.
func (p *Port) finalize() (bool, error) {
	g := p.guard

	if g.Current() == lifecycle.PhaseUpdate && g.Status() == lifecycle.Started {
		if err := g.Complete(); err != nil {
			return false, err
		}
	}

	if g.Current() == lifecycle.PhaseInitialize {
		if err := g.Skip(lifecycle.PhaseUpdate); err != nil {
			return false, err
		}
	}

	return p.guarded(lifecycle.PhaseFinalize, false, p.component.Finalize)
}

// initialized tells if the component completed its initialization.
func (p *Port) initialized() bool {
	return p.component != nil &&
		p.guard.Reached(lifecycle.PhaseInitialize) &&
		p.guard.StatusOf(lifecycle.PhaseInitialize) == lifecycle.Completed
}
