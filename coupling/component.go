package coupling

import (
	"github.com/sarchlab/coupler/grid"
	"github.com/sarchlab/coupler/namespace"
	"github.com/sarchlab/coupler/sim"
)

// A Component is a time-stepped model the driver advances. Every call blocks
// until the component returns; there is no way to cancel an Update.
type Component interface {
	StartTime() sim.VTimeInSec
	CurrentTime() sim.VTimeInSec
	EndTime() sim.VTimeInSec

	// Initialize prepares the component to run.
	Initialize(args InitArgs) error

	// Update advances the component until the given time.
	Update(until sim.VTimeInSec) error

	// Finalize releases whatever the component holds.
	Finalize() error

	// GetValue returns the values of a variable. The driver does not keep
	// the returned slice past the call that requested it.
	GetValue(name string) ([]float64, error)

	// SetValue replaces the values of a variable. The slice is owned by the
	// component once passed.
	SetValue(name string, values []float64) error

	// VarGrid returns the id of the grid a variable is defined on.
	VarGrid(name string) (int, error)

	// Grid describes a grid.
	Grid(id int) (grid.Descriptor, error)
}

// InitArgs is what a component receives on Initialize.
type InitArgs struct {
	Port          string
	Scope         *namespace.Store
	Args          map[string]any
	TemplateFiles []string
}

// A TimeStepper reports the interval it naturally advances by. The driver
// couples at the smallest interval among its active ports unless the
// configuration sets one.
type TimeStepper interface {
	TimeStep() sim.VTimeInSec
}

// A PreInitializer runs before the component is initialized.
type PreInitializer interface {
	PreInitialize(ctx *HookContext) error
}

// A PostUpdater runs after every update of the component.
type PostUpdater interface {
	PostUpdate(ctx *HookContext) error
}

// A PreFinalizer runs before the component is finalized.
type PreFinalizer interface {
	PreFinalize(ctx *HookContext) error
}

// A VarLocator tells where on its grid a variable is defined. Variables of
// components that are not VarLocators sit on nodes.
type VarLocator interface {
	VarLocation(name string) grid.Location
}

// HookContext is what the optional component hooks get to see.
type HookContext struct {
	Driver *Driver
	Port   string
	Now    sim.VTimeInSec
	Scope  *namespace.Store
}
