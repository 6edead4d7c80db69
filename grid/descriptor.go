// Package grid describes the spatial discretizations components expose their
// values on, and normalizes every kind of grid into an unstructured Mesh.
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidDescriptor indicates a descriptor whose arrays do not agree with
// its type and shape.
var ErrInvalidDescriptor = errors.New("grid: invalid descriptor")

// Type names a kind of grid.
type Type string

// Grid types.
const (
	Scalar                  Type = "scalar"
	Points                  Type = "points"
	UniformRectilinear      Type = "uniform_rectilinear"
	Rectilinear             Type = "rectilinear"
	StructuredQuadrilateral Type = "structured_quadrilateral"
	Unstructured            Type = "unstructured"
)

// Location tells where on a grid a variable is defined.
type Location string

// Value locations.
const (
	Node Location = "node"
	Face Location = "face"
)

// ParseLocation accepts "node" and "face". Empty means node.
func ParseLocation(s string) (Location, error) {
	switch Location(s) {
	case "", Node:
		return Node, nil
	case Face:
		return Face, nil
	default:
		return "", fmt.Errorf("grid: unknown location %q", s)
	}
}

// A Descriptor describes a grid the way a component reports it.
//
// Shape, Spacing and Origin list the slowest varying dimension first, so a
// two dimensional grid has Shape [ny, nx]. Shape counts nodes. Offset holds,
// for every cell, the end of that cell's node list in Connectivity.
type Descriptor struct {
	Type         Type      `json:"type" yaml:"type"`
	Shape        []int     `json:"shape,omitempty" yaml:"shape,omitempty"`
	Spacing      []float64 `json:"spacing,omitempty" yaml:"spacing,omitempty"`
	Origin       []float64 `json:"origin,omitempty" yaml:"origin,omitempty"`
	X            []float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y            []float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Connectivity []int     `json:"connectivity,omitempty" yaml:"connectivity,omitempty"`
	Offset       []int     `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Rank returns the number of dimensions.
func (d Descriptor) Rank() int {
	switch d.Type {
	case Scalar:
		return 0
	case Points, Unstructured:
		return 2
	default:
		return len(d.Shape)
	}
}

func invalid(d Descriptor, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDescriptor, d.Type,
		fmt.Sprintf(format, args...))
}

func (d Descriptor) nodeCounts() (ny, nx int, err error) {
	switch len(d.Shape) {
	case 1:
		ny, nx = 1, d.Shape[0]
	case 2:
		ny, nx = d.Shape[0], d.Shape[1]
	default:
		return 0, 0, invalid(d, "rank %d not supported", len(d.Shape))
	}

	if ny < 1 || nx < 1 {
		return 0, 0, invalid(d, "shape %v has an empty dimension", d.Shape)
	}

	return ny, nx, nil
}

func (d Descriptor) axis(values []float64, i int, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}

	return values[i]
}
