package coupling

import (
	"fmt"

	"github.com/sarchlab/coupler/config"
	"github.com/sarchlab/coupler/grid"
	"github.com/sarchlab/coupler/mapping"
)

// A Binding feeds a variable of one port into a variable of another through
// a mapper built once at initialization.
type Binding struct {
	cfg    config.Mapper
	src    *Port
	dst    *Port
	mapper mapping.Mapper
	last   []float64
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s.%s->%s.%s",
		b.cfg.SrcPort, b.cfg.SrcVar, b.cfg.DstPort, b.cfg.DstVar)
}

// Source returns the source port and variable.
func (b *Binding) Source() (*Port, string) {
	return b.src, b.cfg.SrcVar
}

// Destination returns the destination port and variable.
func (b *Binding) Destination() (*Port, string) {
	return b.dst, b.cfg.DstVar
}

// Mapper returns the mapper, or nil if the binding was never built.
func (b *Binding) Mapper() mapping.Mapper {
	return b.mapper
}

// Method returns the name of the mapper, or the configured method if the
// binding was never built.
func (b *Binding) Method() string {
	if b.mapper != nil {
		return b.mapper.Name()
	}

	if b.cfg.Method == "" {
		return mapping.MethodAuto
	}

	return b.cfg.Method
}

// FillValue returns the value unmapped destinations receive.
func (b *Binding) FillValue() float64 {
	return b.cfg.FillValue
}

// Last returns the values of the latest transfer.
func (b *Binding) Last() []float64 {
	return b.last
}

// Ready tells if the binding is built and both its ports are active.
func (b *Binding) Ready() bool {
	return b.mapper != nil && b.src.active && b.dst.active
}

// build creates and initializes the mapper between the grids of the two
// variables.
func (b *Binding) build(meshes *meshCache, reg *Registry) error {
	srcMesh, srcLoc, err := meshes.variable(b.src, b.cfg.SrcVar, b.cfg.SrcLocation)
	if err != nil {
		return err
	}

	dstMesh, dstLoc, err := meshes.variable(b.dst, b.cfg.DstVar, b.cfg.DstLocation)
	if err != nil {
		return err
	}

	m, err := b.newMapper(reg, dstMesh, srcMesh, dstLoc, srcLoc)
	if err != nil {
		return err
	}

	if d, s := m.Centering(); d != dstLoc || s != srcLoc {
		return fmt.Errorf("%w: %s maps %s to %s values, variables are %s and %s",
			mapping.ErrIncompatibleGrid, m.Name(), s, d, srcLoc, dstLoc)
	}

	if err := m.Initialize(dstMesh, srcMesh); err != nil {
		return err
	}

	b.mapper = m

	return nil
}

func (b *Binding) newMapper(
	reg *Registry,
	dst, src *grid.Mesh,
	dstLoc, srcLoc grid.Location,
) (mapping.Mapper, error) {
	if b.cfg.Method == mapping.MethodAuto || b.cfg.Method == "" {
		return mapping.FindAt(dst, src, dstLoc, srcLoc)
	}

	policy, err := mapping.ParsePolicy(b.cfg.Unmapped)
	if err != nil {
		return nil, err
	}

	return reg.NewMapper(b.cfg.Method, mapping.Options{
		SrcLocation: srcLoc,
		DstLocation: dstLoc,
		Unmapped:    policy,
	})
}

// transfer reads the source variable, maps it and writes the result into the
// destination variable.
func (b *Binding) transfer(step Step) error {
	values, err := b.src.component.GetValue(b.cfg.SrcVar)
	if err != nil {
		return &ComponentFailureError{
			Port: b.src.Name(), Phase: "get_value", Time: step.Time, Err: err,
		}
	}

	out, err := b.mapper.Run(values, nil, b.cfg.FillValue)
	if err != nil {
		return fmt.Errorf("coupling: %s: %w", b, err)
	}

	if err := b.dst.component.SetValue(b.cfg.DstVar, out); err != nil {
		return &ComponentFailureError{
			Port: b.dst.Name(), Phase: "set_value", Time: step.Time, Err: err,
		}
	}

	b.last = out

	return nil
}

func (b *Binding) release() error {
	if b.mapper == nil {
		return nil
	}

	err := b.mapper.Finalize()
	b.mapper = nil

	return err
}

type meshKey struct {
	port string
	id   int
}

// meshCache builds every grid of a port at most once.
type meshCache struct {
	meshes map[meshKey]*grid.Mesh
}

func newMeshCache() *meshCache {
	return &meshCache{meshes: make(map[meshKey]*grid.Mesh)}
}

// variable returns the mesh a variable lives on and its location. A location
// given in the configuration wins over the one the component reports.
func (c *meshCache) variable(
	p *Port,
	name, override string,
) (*grid.Mesh, grid.Location, error) {
	id, err := p.component.VarGrid(name)
	if err != nil {
		return nil, "", &ComponentFailureError{
			Port: p.Name(), Phase: "var_grid", Err: err,
		}
	}

	loc := grid.Node
	if l, ok := p.component.(VarLocator); ok {
		loc = l.VarLocation(name)
	}

	if override != "" {
		loc, err = grid.ParseLocation(override)
		if err != nil {
			return nil, "", err
		}
	}

	key := meshKey{port: p.Name(), id: id}
	if m, ok := c.meshes[key]; ok {
		return m, loc, nil
	}

	desc, err := p.component.Grid(id)
	if err != nil {
		return nil, "", &ComponentFailureError{
			Port: p.Name(), Phase: "grid", Err: err,
		}
	}

	m, err := grid.NewMesh(desc)
	if err != nil {
		return nil, "", err
	}

	c.meshes[key] = m

	return m, loc, nil
}
