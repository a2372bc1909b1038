// Package geom parses and models the 2D primitives emitted by simulation
// visualization dumps: one shape per text line, whitespace-separated
// coordinates, with an optional trailing RGBA color segment.
package geom

import "fmt"

// Kind identifies a shape variant. The set is closed; parsing goes through
// a lookup table so an unknown token fails before any coordinates are read.
type Kind int

const (
	KindCircle Kind = iota
	KindPoint
	KindTriangle
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "Circle"
	case KindPoint:
		return "Point"
	case KindTriangle:
		return "Triangle"
	case KindPolygon:
		return "Polygon"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Shape is one parsed primitive. Coords layout depends on Kind:
//
//	Circle:   x, y, radius
//	Point:    x, y
//	Triangle: x1, y1, x2, y2, x3, y3
//	Polygon:  x1, y1, ... (even count, at least three vertices)
//
// The arity invariant is enforced at parse time; a Shape obtained from
// ParseLine always satisfies it.
type Shape struct {
	Kind   Kind
	Coords []float64
	Color  Color
}

// Center returns the center of a Circle or the position of a Point.
func (s Shape) Center() (x, y float64) {
	return s.Coords[0], s.Coords[1]
}

// Radius returns the radius of a Circle.
// Calling it on any other kind is a programming error.
func (s Shape) Radius() float64 {
	if s.Kind != KindCircle {
		panic("geom: Radius on " + s.Kind.String())
	}
	return s.Coords[2]
}

// Vertex is one polygon corner.
type Vertex struct {
	X, Y float64
}

// Vertices returns the corner list of a Triangle or Polygon in input order.
func (s Shape) Vertices() []Vertex {
	vs := make([]Vertex, 0, len(s.Coords)/2)
	for i := 0; i+1 < len(s.Coords); i += 2 {
		vs = append(vs, Vertex{X: s.Coords[i], Y: s.Coords[i+1]})
	}
	return vs
}
