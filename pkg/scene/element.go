package scene

import "github.com/chazu/zonelabel/pkg/geom"

// ElementID is the host's opaque identity for an element.
type ElementID string

// Geometry describes how an element is located. An element may carry
// more than one kind of location; the resolver picks by priority
// (point, then curve, then bounding box). All fields nil means the
// element has no geometry.
type Geometry struct {
	Point *geom.Point3 // point-located (fixtures, fittings)
	Curve geom.Curve   // curve-located (conduit runs)
	Box   *geom.Volume // host bounding box, possibly oriented
}

// PointAt returns a point-located geometry.
func PointAt(p geom.Point3) Geometry {
	return Geometry{Point: &p}
}

// CurveMidpoint returns a curve-located geometry.
func CurveMidpoint(c geom.Curve) Geometry {
	return Geometry{Curve: c}
}

// BoundingBox returns a geometry located only by its bounding box.
func BoundingBox(min, max geom.Point3, t geom.Transform) Geometry {
	v := geom.NewVolume(t, min, max)
	return Geometry{Box: &v}
}

// IsEmpty reports whether no location information is present.
func (g Geometry) IsEmpty() bool {
	return g.Point == nil && g.Curve == nil && g.Box == nil
}

// Element is a single spatial element to be labeled.
type Element struct {
	ID       ElementID
	Category Category
	Geometry Geometry
}
