package testbed

import (
	"fmt"

	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/sim"
)

// A Ramp exposes "value", which equals offset + slope*t + gradient*x at
// every location. Any other variable can be set and read back.
type Ramp struct {
	model

	slope, offset, gradient float64
}

// NewRamp creates a ramp for a port.
func NewRamp(name string) *Ramp {
	return &Ramp{model: newModel(name)}
}

// Initialize reads slope, offset and gradient next to the common settings.
func (r *Ramp) Initialize(args coupling.InitArgs) error {
	if err := r.setup(args.Scope); err != nil {
		return err
	}

	var err error

	if r.slope, err = param(args.Scope, "slope", 1); err != nil {
		return fmt.Errorf("testbed: %s: %w", r.name, err)
	}

	if r.offset, err = param(args.Scope, "offset", 0); err != nil {
		return fmt.Errorf("testbed: %s: %w", r.name, err)
	}

	if r.gradient, err = param(args.Scope, "gradient", 0); err != nil {
		return fmt.Errorf("testbed: %s: %w", r.name, err)
	}

	r.fill()

	return nil
}

// Update moves the ramp to the given time.
func (r *Ramp) Update(until sim.VTimeInSec) error {
	if err := r.advance(until); err != nil {
		return err
	}

	r.fill()

	return nil
}

// SetValue stores any variable except "value".
func (r *Ramp) SetValue(name string, values []float64) error {
	if name == "value" {
		return fmt.Errorf("testbed: %s: value is read only", r.name)
	}

	r.values[name] = values

	return nil
}

// At returns what "value" is at a position and time.
func (r *Ramp) At(x float64, t sim.VTimeInSec) float64 {
	return r.offset + r.slope*t + r.gradient*x
}

func (r *Ramp) fill() {
	pts := r.mesh.Locations(r.location)

	v := make([]float64, len(pts))
	for i, p := range pts {
		v[i] = r.At(p.X, r.now)
	}

	r.values["value"] = v
}
