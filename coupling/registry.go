package coupling

import (
	"fmt"
	"sort"

	"github.com/sarchlab/coupler/mapping"
)

// A Factory creates the component behind a port.
type Factory func(port string) (Component, error)

// A MapperFactory creates a mapper for a custom method.
type MapperFactory func(opts mapping.Options) (mapping.Mapper, error)

// A Registry maps component kinds to factories. It can also provide mapping
// methods beyond the built-in ones.
type Registry struct {
	factories map[string]Factory
	mappers   map[string]MapperFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		mappers:   make(map[string]MapperFactory),
	}
}

// Register adds a factory. Registering a kind twice panics.
func (r *Registry) Register(kind string, f Factory) {
	if _, ok := r.factories[kind]; ok {
		panic("coupling: duplicated component kind " + kind)
	}

	r.factories[kind] = f
}

// Kinds returns the registered kinds in order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}

	sort.Strings(kinds)

	return kinds
}

// New creates a component of the given kind for a port.
func (r *Registry) New(kind, port string) (Component, error) {
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, kind)
	}

	return f(port)
}

// RegisterMapper adds a mapping method. Registered methods take precedence
// over built-in ones with the same name.
func (r *Registry) RegisterMapper(method string, f MapperFactory) {
	if _, ok := r.mappers[method]; ok {
		panic("coupling: duplicated mapping method " + method)
	}

	r.mappers[method] = f
}

// NewMapper creates a mapper by method name.
func (r *Registry) NewMapper(method string, opts mapping.Options) (mapping.Mapper, error) {
	if f, ok := r.mappers[method]; ok {
		return f(opts)
	}

	return mapping.New(method, opts)
}
