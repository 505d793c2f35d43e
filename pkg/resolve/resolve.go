// Package resolve maps an element's geometry to the single world-space
// point used for zone containment.
package resolve

import (
	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/scene"
)

// Source records which kind of geometry produced a representative point.
type Source int

const (
	SourceNone  Source = iota // no geometry; origin fallback
	SourcePoint               // point location
	SourceCurve               // curve midpoint
	SourceBox                 // bounding box midpoint
)

func (s Source) String() string {
	switch s {
	case SourcePoint:
		return "point"
	case SourceCurve:
		return "curve"
	case SourceBox:
		return "box"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Resolution is a representative point and where it came from.
type Resolution struct {
	Point  geom.Point3
	Source Source
}

// Resolve picks the representative point for g. It is total: point
// location wins over curve location, which wins over the bounding box
// midpoint; with no geometry at all the origin is returned with
// SourceNone so callers can tell the fallback apart.
func Resolve(g scene.Geometry) Resolution {
	switch {
	case g.Point != nil:
		return Resolution{Point: *g.Point, Source: SourcePoint}
	case g.Curve != nil:
		return Resolution{Point: geom.Midpoint(g.Curve), Source: SourceCurve}
	case g.Box != nil:
		return Resolution{Point: BoxMidpoint(*g.Box), Source: SourceBox}
	}
	return Resolution{Source: SourceNone}
}

// Point is Resolve without the source.
func Point(g scene.Geometry) geom.Point3 {
	return Resolve(g).Point
}

// BoxMidpoint is the midpoint of the box's min and max corners after
// both are mapped to world space.
func BoxMidpoint(v geom.Volume) geom.Point3 {
	lo := geom.Apply(v.Transform, v.Box.Min)
	hi := geom.Apply(v.Transform, v.Box.Max)
	return lo.Add(hi).MulScalar(0.5)
}
