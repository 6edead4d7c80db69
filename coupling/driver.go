// Package coupling drives a set of components through one synchronized run.
//
// Every component sits behind a named Port. The Driver initializes the ports
// in one order, advances them in another and finalizes them in a third, and
// moves values between them through mapping Bindings at every coupling step.
// All calls run on the caller's goroutine and block until the components
// return. Only Snapshot and Inspect may be called from other goroutines.
package coupling

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/sarchlab/coupler/config"
	"github.com/sarchlab/coupler/lifecycle"
	"github.com/sarchlab/coupler/namespace"
	"github.com/sarchlab/coupler/sim"
	"github.com/sarchlab/coupler/timeline"
)

// An Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger of the driver. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// A Driver advances coupled ports to common target times.
type Driver struct {
	*sim.HookableBase

	cfg      *config.Config
	registry *Registry
	guard    *lifecycle.Guard
	scope    *namespace.Store
	logger   *slog.Logger

	ports         map[string]*Port
	declared      []string
	initOrder     []string
	runOrder      []string
	finalizeOrder []string
	primary       string
	bindings      []*Binding

	now    sim.VTimeInSec
	target sim.VTimeInSec
	steps  int

	componentMu sync.Mutex
	snapshotMu  sync.RWMutex
	snapshot    Snapshot
}

// NewDriver creates a driver and the components of all its ports. An
// optional port whose component cannot be created stays inactive.
func NewDriver(
	cfg *config.Config,
	reg *Registry,
	opts ...Option,
) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		HookableBase: sim.NewHookableBase(),
		cfg:          cfg,
		registry:     reg,
		guard:        lifecycle.New(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		ports:        make(map[string]*Port),
		declared:     cfg.AllPorts(),
		primary:      cfg.Driver,
	}

	for _, o := range opts {
		o(d)
	}

	d.initOrder, d.runOrder, d.finalizeOrder = cfg.Orders()

	if err := d.guard.Start(lifecycle.PhaseCreate, false); err != nil {
		return nil, err
	}

	if err := d.buildScope(); err != nil {
		return nil, err
	}

	for _, name := range d.declared {
		if err := d.createPort(name); err != nil {
			return nil, err
		}
	}

	for i := range cfg.Mappers {
		b := &Binding{
			cfg: cfg.Mappers[i],
			src: d.ports[cfg.Mappers[i].SrcPort],
			dst: d.ports[cfg.Mappers[i].DstPort],
		}
		b.dst.inbound = append(b.dst.inbound, b)
		d.bindings = append(d.bindings, b)
	}

	if err := d.guard.Complete(); err != nil {
		return nil, err
	}

	d.publish()

	return d, nil
}

// buildScope loads the parameters and the component arguments into the
// namespace. Arguments of a port live under /<port>.
func (d *Driver) buildScope() error {
	scope, err := namespace.FromMap(d.cfg.Parameters)
	if err != nil {
		return fmt.Errorf("%w: parameters: %v", config.ErrConfiguration, err)
	}

	for _, name := range d.declared {
		if err := scope.Merge("/"+name, d.cfg.Components[name].Args); err != nil {
			return fmt.Errorf("%w: %s args: %v", config.ErrConfiguration, name, err)
		}
	}

	d.scope = scope

	return nil
}

func (d *Driver) createPort(name string) error {
	p := newPort(name, d.cfg.Components[name].Component, d.cfg.IsOptional(name))
	d.ports[name] = p

	err := p.create(d.registry)
	if err == nil {
		d.logger.Debug("port created", "port", name, "component", p.kind)
		return nil
	}

	failure := &ComponentFailureError{Port: name, Phase: lifecycle.PhaseCreate, Err: err}
	if !p.optional {
		return failure
	}

	d.deactivatePort(p, failure)
	d.logger.Warn("optional port disabled", "port", name, "error", err)

	return nil
}

// Name returns the name of the run.
func (d *Driver) Name() string {
	if d.cfg.Name == "" {
		return "coupler"
	}

	return d.cfg.Name
}

// Config returns the configuration the driver was built from.
func (d *Driver) Config() *config.Config {
	return d.cfg
}

// Scope returns the namespace of the run.
func (d *Driver) Scope() *namespace.Store {
	return d.scope
}

// Guard returns the lifecycle guard of the driver.
func (d *Driver) Guard() *lifecycle.Guard {
	return d.guard
}

// Now returns the time every port has been advanced to.
func (d *Driver) Now() sim.VTimeInSec {
	return d.now
}

// Primary returns the name of the driving port, which is advanced after the
// values are exchanged at every step. It is empty if there is none.
func (d *Driver) Primary() string {
	return d.primary
}

// Port returns a port by name.
func (d *Driver) Port(name string) (*Port, error) {
	p, ok := d.ports[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPort, name)
	}

	return p, nil
}

// Ports returns the ports in declaration order.
func (d *Driver) Ports() []*Port {
	ports := make([]*Port, len(d.declared))
	for i, name := range d.declared {
		ports[i] = d.ports[name]
	}

	return ports
}

// Bindings returns the bindings in configuration order.
func (d *Driver) Bindings() []*Binding {
	return d.bindings
}

// Orders returns the init, run and finalize orders.
func (d *Driver) Orders() (initOrder, runOrder, finalizeOrder []string) {
	return d.initOrder, d.runOrder, d.finalizeOrder
}

// Deactivate stops driving a port. Later steps skip it and every binding
// touching it. It must not be called from inside a component call.
func (d *Driver) Deactivate(name string) error {
	p, err := d.Port(name)
	if err != nil {
		return err
	}

	d.deactivatePort(p, nil)
	d.logger.Info("port deactivated", "port", name)
	d.publish()

	return nil
}

// deactivatePort flips the port off while no component call or Inspect is
// in flight, so readers holding the component lock see a stable value.
func (d *Driver) deactivatePort(p *Port, err error) {
	d.componentMu.Lock()
	defer d.componentMu.Unlock()

	p.deactivate(err)
}

func (d *Driver) context(p *Port) *HookContext {
	return &HookContext{Driver: d, Port: p.Name(), Now: d.now, Scope: d.portScope(p)}
}

func (d *Driver) portScope(p *Port) *namespace.Store {
	view, err := d.scope.View("/" + p.Name())
	if err != nil {
		return namespace.New()
	}

	return view
}

func (d *Driver) invoke(pos *sim.HookPos, item, detail any) {
	d.InvokeHook(sim.HookCtx{Domain: d, Pos: pos, Item: item, Detail: detail})
}

// locked runs a component call while the monitor cannot inspect components.
func (d *Driver) locked(fn func() error) error {
	d.componentMu.Lock()
	defer d.componentMu.Unlock()

	return fn()
}

// Initialize initializes the ports in init order and builds the bindings. A
// failing optional port is deactivated; a failing mandatory port fails the
// driver.
func (d *Driver) Initialize() error {
	if err := d.guard.Start(lifecycle.PhaseInitialize, false); err != nil {
		return err
	}

	d.publish()
	d.invoke(HookPosBeforeInitialize, nil, nil)

	for _, name := range d.initOrder {
		if err := d.initializePort(d.ports[name]); err != nil {
			return err
		}
	}

	d.now = d.startTime()

	if err := d.buildBindings(); err != nil {
		return err
	}

	if err := d.guard.Complete(); err != nil {
		return err
	}

	d.logger.Debug("driver initialized", "now", d.now)
	d.publish()
	d.invoke(HookPosAfterInitialize, nil, nil)

	return nil
}

func (d *Driver) initializePort(p *Port) error {
	if !p.active {
		return nil
	}

	err := d.locked(func() error {
		if pre, ok := p.component.(PreInitializer); ok {
			if err := pre.PreInitialize(d.context(p)); err != nil {
				return err
			}
		}

		byComponent, err := p.initialize(InitArgs{
			Port:          p.Name(),
			Scope:         d.portScope(p),
			Args:          d.cfg.Components[p.Name()].Args,
			TemplateFiles: d.cfg.Components[p.Name()].TemplateFiles,
		})
		if err != nil && !byComponent {
			return &phaseViolation{err}
		}

		return err
	})

	var violation *phaseViolation
	if errors.As(err, &violation) {
		return violation.err
	}

	if err == nil {
		d.logger.Debug("port initialized", "port", p.Name())
		return nil
	}

	failure := &ComponentFailureError{
		Port: p.Name(), Phase: lifecycle.PhaseInitialize, Time: d.now, Err: err,
	}

	if !p.optional {
		return failure
	}

	d.deactivatePort(p, failure)
	d.logger.Warn("optional port disabled", "port", p.Name(), "error", err)

	return nil
}

// phaseViolation marks a lifecycle error so it is not mistaken for a
// component failure.
type phaseViolation struct {
	err error
}

func (v *phaseViolation) Error() string {
	return v.err.Error()
}

func (v *phaseViolation) Unwrap() error {
	return v.err
}

// startTime is the current time of the primary port if it is active, or the
// earliest current time among the active ports, or 0.
func (d *Driver) startTime() sim.VTimeInSec {
	if p, ok := d.ports[d.primary]; ok && p.active {
		return p.component.CurrentTime()
	}

	start := math.Inf(1)
	for _, name := range d.declared {
		if p := d.ports[name]; p.active {
			start = math.Min(start, p.component.CurrentTime())
		}
	}

	if math.IsInf(start, 1) {
		return 0
	}

	return start
}

func (d *Driver) buildBindings() error {
	meshes := newMeshCache()

	for _, b := range d.bindings {
		if !b.src.active || !b.dst.active {
			d.logger.Info("binding skipped, port inactive", "binding", b.String())
			continue
		}

		err := d.locked(func() error { return b.build(meshes, d.registry) })
		if err != nil {
			return fmt.Errorf("coupling: binding %s: %w", b, err)
		}

		d.logger.Debug("binding built", "binding", b.String(), "method", b.mapper.Name())
	}

	return nil
}

// Interval returns the coupling interval: port_queue_dt if configured, else
// the smallest time step among the active ports, else +Inf.
func (d *Driver) Interval() sim.VTimeInSec {
	if d.cfg.PortQueueDt > 0 {
		return d.cfg.PortQueueDt
	}

	interval := math.Inf(1)
	for _, name := range d.declared {
		p := d.ports[name]
		if !p.active {
			continue
		}

		if s, ok := p.component.(TimeStepper); ok {
			if dt := s.TimeStep(); dt > 0 {
				interval = math.Min(interval, dt)
			}
		}
	}

	return interval
}

// Run advances every active port to target, one coupling interval at a time.
// At every boundary the non-primary ports are updated in run order, then
// values are exchanged through the bindings, then the primary port is
// updated. A component error aborts the run.
func (d *Driver) Run(target sim.VTimeInSec) error {
	if math.IsNaN(target) || target < d.now {
		return fmt.Errorf("coupling: run to %v from %v: %w",
			target, d.now, timeline.ErrStopBeforeNow)
	}

	if math.IsInf(target, 1) {
		return fmt.Errorf("coupling: run to %v: %w", target, ErrInfiniteTarget)
	}

	if err := d.guard.Start(lifecycle.PhaseUpdate, true); err != nil {
		return err
	}

	boundaries, err := StepBoundaries(d.now, target, d.Interval())
	if err != nil {
		return err
	}

	d.target = target
	d.publish()
	d.invoke(HookPosBeforeRun, target, nil)

	for _, t := range boundaries {
		step := Step{Index: d.steps, Time: t, Target: target}
		if err := d.step(step); err != nil {
			d.publish()
			d.invoke(HookPosRunAborted, target, err)

			return err
		}
	}

	if err := d.guard.Complete(); err != nil {
		return err
	}

	d.publish()
	d.invoke(HookPosAfterRun, target, nil)

	return nil
}

func (d *Driver) step(step Step) error {
	d.invoke(HookPosBeforeStep, step, nil)

	for _, name := range d.runOrder {
		p := d.ports[name]
		if name == d.primary || !p.active {
			continue
		}

		if err := d.updatePort(p, step); err != nil {
			return err
		}
	}

	for _, b := range d.bindings {
		if !b.Ready() {
			continue
		}

		if err := d.locked(func() error { return b.transfer(step) }); err != nil {
			return err
		}

		d.invoke(HookPosAfterTransfer, b, step)
	}

	if p, ok := d.ports[d.primary]; ok && p.active {
		if err := d.updatePort(p, step); err != nil {
			return err
		}
	}

	d.now = step.Time
	d.steps++
	d.publish()
	d.invoke(HookPosAfterStep, step, nil)

	return nil
}

func (d *Driver) updatePort(p *Port, step Step) error {
	var byComponent bool

	err := d.locked(func() error {
		var err error

		byComponent, err = p.update(step.Time)
		if err != nil {
			return err
		}

		if post, ok := p.component.(PostUpdater); ok {
			byComponent = true
			ctx := d.context(p)
			ctx.Now = step.Time

			return post.PostUpdate(ctx)
		}

		return nil
	})

	if err != nil && !byComponent {
		return err
	}

	if err != nil {
		return &ComponentFailureError{
			Port: p.Name(), Phase: lifecycle.PhaseUpdate, Time: step.Time, Err: err,
		}
	}

	d.invoke(HookPosAfterPortUpdate, p, step)

	return nil
}

// Finalize finalizes, in finalize order, every port whose component was
// initialized, then releases the mappers. The first mandatory port that
// fails aborts the call: later ports are left alone, the mappers are still
// released and the driver stays in the finalizing state. Calling Finalize
// again finalizes the ports that were left.
func (d *Driver) Finalize() error {
	if err := d.enterFinalize(); err != nil {
		return err
	}

	d.publish()
	d.invoke(HookPosBeforeFinalize, nil, nil)

	for _, name := range d.finalizeOrder {
		if err := d.finalizePort(d.ports[name]); err != nil {
			d.logger.Error("finalize aborted", "port", name, "error", err)
			_ = d.releaseBindings()
			d.publish()

			return err
		}
	}

	if err := d.releaseBindings(); err != nil {
		return err
	}

	if err := d.guard.Complete(); err != nil {
		return err
	}

	d.logger.Debug("driver finalized", "now", d.now)
	d.publish()
	d.invoke(HookPosAfterFinalize, nil, nil)

	return nil
}

// releaseBindings finalizes every mapper and returns the first failure.
func (d *Driver) releaseBindings() error {
	var first error

	for _, b := range d.bindings {
		err := d.locked(b.release)
		if err != nil && first == nil {
			first = fmt.Errorf("coupling: binding %s: %w", b, err)
		}
	}

	return first
}

// enterFinalize closes whatever phase an earlier failure left open and skips
// the phases that never ran.
func (d *Driver) enterFinalize() error {
	if d.guard.Current() == lifecycle.PhaseFinalize {
		return d.guard.Start(lifecycle.PhaseFinalize, false)
	}

	if d.guard.Status() == lifecycle.Started {
		if err := d.guard.Complete(); err != nil {
			return err
		}
	}

	for d.guard.Current() != lifecycle.PhaseUpdate &&
		d.guard.Current() != lifecycle.PhaseFinalize {
		if err := d.skipNext(); err != nil {
			return err
		}
	}

	return d.guard.Start(lifecycle.PhaseFinalize, false)
}

func (d *Driver) skipNext() error {
	phases := d.guard.Phases()
	for i, ph := range phases {
		if ph == d.guard.Current() && i+1 < len(phases) {
			return d.guard.Skip(phases[i+1])
		}
	}

	return fmt.Errorf("coupling: %w", lifecycle.ErrOutOfOrder)
}

func (d *Driver) finalizePort(p *Port) error {
	if !p.initialized() || p.guard.Reached(lifecycle.PhaseFinalize) {
		return nil
	}

	var byComponent bool

	err := d.locked(func() error {
		if pre, ok := p.component.(PreFinalizer); ok {
			if err := pre.PreFinalize(d.context(p)); err != nil {
				byComponent = true
				return err
			}
		}

		var err error
		byComponent, err = p.finalize()

		return err
	})

	if err == nil {
		d.logger.Debug("port finalized", "port", p.Name())
		return nil
	}

	if !byComponent {
		return err
	}

	failure := &ComponentFailureError{
		Port: p.Name(), Phase: lifecycle.PhaseFinalize, Time: d.now, Err: err,
	}

	if !p.optional {
		return failure
	}

	d.deactivatePort(p, failure)
	d.logger.Warn("optional port failed to finalize", "port", p.Name(), "error", err)

	return nil
}
