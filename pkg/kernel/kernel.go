// Package kernel defines the solid-modeling interface used to preview
// scenes as triangle meshes. The sdfx subpackage implements it.
package kernel

import "github.com/chazu/zonelabel/pkg/geom"

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the world axis-aligned bounding box.
	BoundingBox() (min, max geom.Point3)
}

// Kernel builds solids and meshes them.
type Kernel interface {
	// Volume returns the solid occupied by an oriented box. It fails when
	// the box transform cannot be inverted.
	Volume(v geom.Volume) (Solid, error)
	// Cube returns an axis-aligned cube of the given edge centered on p.
	Cube(p geom.Point3, edge float64) Solid

	Union(a, b Solid) Solid

	ToMesh(s Solid) (*Mesh, error)
}
