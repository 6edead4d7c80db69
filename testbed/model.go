// Package testbed provides small components to exercise coupled runs
// without real models behind them.
//
// A Ramp exposes a field that grows linearly in time and space. A Sink
// remembers every value it receives. Both read their settings from the scope
// of their port:
//
//	dt        time step (1)
//	nx, ny    node counts of a uniform grid (3, and 0 for a line)
//	dx        node spacing (1)
//	location  where "value" lives, node or face (node)
//	end_time  when the component stops (+Inf)
//	fail_at   fail every update reaching this time (never)
package testbed

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/grid"
	"github.com/sarchlab/coupler/namespace"
	"github.com/sarchlab/coupler/sim"
)

// ErrInjected is returned by updates reaching fail_at.
var ErrInjected = errors.New("testbed: injected failure")

// model holds what Ramp and Sink share: a clock, a grid and a set of
// variables.
type model struct {
	name     string
	now      sim.VTimeInSec
	dt       sim.VTimeInSec
	end      sim.VTimeInSec
	failAt   sim.VTimeInSec
	location grid.Location
	desc     grid.Descriptor
	mesh     *grid.Mesh
	values   map[string][]float64
}

func newModel(name string) model {
	return model{
		name:   name,
		values: make(map[string][]float64),
	}
}

func param(scope *namespace.Store, key string, fallback float64) (float64, error) {
	if scope == nil || !scope.Contains(key) {
		return fallback, nil
	}

	return scope.Float(key)
}

// setup reads the settings from the scope and builds the grid.
func (m *model) setup(scope *namespace.Store) error {
	var (
		err    error
		nx, ny float64
		dx     float64
	)

	settings := []struct {
		key      string
		dst      *float64
		fallback float64
	}{
		{"dt", &m.dt, 1},
		{"end_time", &m.end, math.Inf(1)},
		{"fail_at", &m.failAt, math.Inf(1)},
		{"nx", &nx, 3},
		{"ny", &ny, 0},
		{"dx", &dx, 1},
	}

	for _, s := range settings {
		if *s.dst, err = param(scope, s.key, s.fallback); err != nil {
			return fmt.Errorf("testbed: %s: %w", m.name, err)
		}
	}

	m.location = grid.Node
	if scope != nil && scope.Contains("location") {
		loc, err := scope.String("location")
		if err != nil {
			return fmt.Errorf("testbed: %s: %w", m.name, err)
		}

		if m.location, err = grid.ParseLocation(loc); err != nil {
			return fmt.Errorf("testbed: %s: %w", m.name, err)
		}
	}

	m.desc = grid.Descriptor{
		Type:    grid.UniformRectilinear,
		Shape:   []int{int(nx)},
		Spacing: []float64{dx},
	}

	if ny > 0 {
		m.desc.Shape = []int{int(ny), int(nx)}
		m.desc.Spacing = []float64{dx, dx}
	}

	m.mesh, err = grid.NewMesh(m.desc)
	if err != nil {
		return fmt.Errorf("testbed: %s: %w", m.name, err)
	}

	return nil
}

func (m *model) advance(until sim.VTimeInSec) error {
	if until >= m.failAt {
		return fmt.Errorf("%w: %s at %v", ErrInjected, m.name, until)
	}

	m.now = until

	return nil
}

func (m *model) StartTime() sim.VTimeInSec   { return 0 }
func (m *model) CurrentTime() sim.VTimeInSec { return m.now }
func (m *model) EndTime() sim.VTimeInSec     { return m.end }
func (m *model) TimeStep() sim.VTimeInSec    { return m.dt }

func (m *model) Finalize() error {
	m.values = nil
	return nil
}

func (m *model) GetValue(name string) ([]float64, error) {
	v, ok := m.values[name]
	if !ok {
		return nil, fmt.Errorf("testbed: %s has no variable %q", m.name, name)
	}

	return append([]float64(nil), v...), nil
}

func (m *model) VarGrid(string) (int, error) {
	return 0, nil
}

func (m *model) Grid(id int) (grid.Descriptor, error) {
	if id != 0 {
		return grid.Descriptor{}, fmt.Errorf("testbed: %s has no grid %d", m.name, id)
	}

	return m.desc, nil
}

// VarLocation places every variable where the location setting says.
func (m *model) VarLocation(string) grid.Location {
	return m.location
}

// Mesh returns the grid of the component.
func (m *model) Mesh() *grid.Mesh {
	return m.mesh
}

// Register adds the ramp and sink kinds to a registry.
func Register(reg *coupling.Registry) {
	reg.Register("ramp", func(port string) (coupling.Component, error) {
		return NewRamp(port), nil
	})
	reg.Register("sink", func(port string) (coupling.Component, error) {
		return NewSink(port), nil
	})
}

// Registry returns a registry that knows the testbed components.
func Registry() *coupling.Registry {
	reg := coupling.NewRegistry()
	Register(reg)

	return reg
}
