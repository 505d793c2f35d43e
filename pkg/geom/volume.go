package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
)

// Volume is an oriented box: an axis-aligned box in local coordinates
// placed in the world by Transform.
type Volume struct {
	Transform Transform
	Box       sdf.Box3 // local-space min/max corners
}

// NewVolume returns a volume with local corners min and max.
func NewVolume(t Transform, min, max Point3) Volume {
	return Volume{Transform: t, Box: sdf.Box3{Min: min, Max: max}}
}

// Valid reports whether min <= max on every local axis.
func (v Volume) Valid() bool {
	return v.Box.Min.X <= v.Box.Max.X &&
		v.Box.Min.Y <= v.Box.Max.Y &&
		v.Box.Min.Z <= v.Box.Max.Z
}

// Contains reports whether the world point p lies inside the volume,
// boundary included. It inverts the transform on every call; use Prepare
// when testing many points.
func (v Volume) Contains(p Point3) (bool, error) {
	pv, err := v.Prepare()
	if err != nil {
		return false, err
	}
	return pv.Contains(p), nil
}

// Prepare caches the inverse transform for repeated containment tests.
func (v Volume) Prepare() (PreparedVolume, error) {
	inv, err := Invert(v.Transform)
	if err != nil {
		return PreparedVolume{}, err
	}
	return PreparedVolume{inverse: inv, box: v.Box}, nil
}

// Corners returns the eight world-space corners of the volume.
func (v Volume) Corners() [8]Point3 {
	lo, hi := v.Box.Min, v.Box.Max
	var out [8]Point3
	for i := 0; i < 8; i++ {
		c := lo
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		out[i] = Apply(v.Transform, c)
	}
	return out
}

// WorldBounds returns the world-space axis-aligned box enclosing the volume.
func (v Volume) WorldBounds() sdf.Box3 {
	corners := v.Corners()
	bb := sdf.Box3{Min: corners[0], Max: corners[0]}
	for _, c := range corners[1:] {
		bb.Min = Point3{X: math.Min(bb.Min.X, c.X), Y: math.Min(bb.Min.Y, c.Y), Z: math.Min(bb.Min.Z, c.Z)}
		bb.Max = Point3{X: math.Max(bb.Max.X, c.X), Y: math.Max(bb.Max.Y, c.Y), Z: math.Max(bb.Max.Z, c.Z)}
	}
	return bb
}

// PreparedVolume is a Volume with its inverse transform precomputed.
// It is immutable and safe for concurrent use.
type PreparedVolume struct {
	inverse Transform
	box     sdf.Box3
}

// Local maps a world point into the volume's local coordinates.
func (pv PreparedVolume) Local(p Point3) Point3 {
	return Apply(pv.inverse, p)
}

// Contains tests the closed intervals min <= p <= max on each local axis.
// No tolerance is applied; expand the box beforehand if one is needed.
func (pv PreparedVolume) Contains(p Point3) bool {
	l := pv.Local(p)
	lo, hi := pv.box.Min, pv.box.Max
	return lo.X <= l.X && l.X <= hi.X &&
		lo.Y <= l.Y && l.Y <= hi.Y &&
		lo.Z <= l.Z && l.Z <= hi.Z
}
