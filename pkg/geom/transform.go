package geom

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Point3 is a point (or vector) in world or local coordinates.
type Point3 = v3.Vec

// DegenerateTolerance is the relative determinant threshold below which a
// transform's linear part is treated as singular.
const DegenerateTolerance = 1e-9

// DegenerateTransformError reports a transform whose linear part cannot be
// inverted.
type DegenerateTransformError struct {
	Determinant float64
}

func (e *DegenerateTransformError) Error() string {
	return fmt.Sprintf("degenerate transform: determinant %g is not invertible", e.Determinant)
}

// Transform is an affine map from local to world coordinates. The linear
// part is stored as three basis columns; a local point p maps to
// Origin + BasisX*p.X + BasisY*p.Y + BasisZ*p.Z.
type Transform struct {
	Origin Point3 `json:"origin" yaml:"origin"`
	BasisX Point3 `json:"basis_x" yaml:"basis_x"`
	BasisY Point3 `json:"basis_y" yaml:"basis_y"`
	BasisZ Point3 `json:"basis_z" yaml:"basis_z"`
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		BasisX: Point3{X: 1},
		BasisY: Point3{Y: 1},
		BasisZ: Point3{Z: 1},
	}
}

// NewTransform builds a transform from an origin and three basis columns.
func NewTransform(origin, bx, by, bz Point3) Transform {
	return Transform{Origin: origin, BasisX: bx, BasisY: by, BasisZ: bz}
}

// FromMatrix converts an sdfx affine matrix into a Transform by sampling
// the images of the origin and the unit axes.
func FromMatrix(m sdf.M44) Transform {
	o := m.MulPosition(Point3{})
	return Transform{
		Origin: o,
		BasisX: m.MulPosition(Point3{X: 1}).Sub(o),
		BasisY: m.MulPosition(Point3{Y: 1}).Sub(o),
		BasisZ: m.MulPosition(Point3{Z: 1}).Sub(o),
	}
}

// Translation returns a pure translation by v.
func Translation(v Point3) Transform {
	return FromMatrix(sdf.Translate3d(v))
}

// Scaling returns a non-uniform scale about the origin.
func Scaling(v Point3) Transform {
	return FromMatrix(sdf.Scale3d(v))
}

// RotationX returns a rotation of deg degrees about the X axis.
func RotationX(deg float64) Transform {
	return FromMatrix(sdf.RotateX(radians(deg)))
}

// RotationY returns a rotation of deg degrees about the Y axis.
func RotationY(deg float64) Transform {
	return FromMatrix(sdf.RotateY(radians(deg)))
}

// RotationZ returns a rotation of deg degrees about the Z axis.
func RotationZ(deg float64) Transform {
	return FromMatrix(sdf.RotateZ(radians(deg)))
}

// Euler returns the rotation for angles in degrees about X, Y and Z,
// applied in that order (X first).
func Euler(deg Point3) Transform {
	m := sdf.RotateZ(radians(deg.Z)).Mul(sdf.RotateY(radians(deg.Y))).Mul(sdf.RotateX(radians(deg.X)))
	return FromMatrix(m)
}

// Placement composes scale, then Euler rotation, then translation to
// origin. A zero scale component is taken as 1.
func Placement(origin, eulerDeg, scale Point3) Transform {
	if scale.X == 0 {
		scale.X = 1
	}
	if scale.Y == 0 {
		scale.Y = 1
	}
	if scale.Z == 0 {
		scale.Z = 1
	}
	return Compose(Translation(origin), Compose(Euler(eulerDeg), Scaling(scale)))
}

// Apply maps a local point to world coordinates.
func Apply(t Transform, p Point3) Point3 {
	return t.Origin.Add(ApplyVector(t, p))
}

// ApplyVector applies only the linear part of t.
func ApplyVector(t Transform, v Point3) Point3 {
	return t.BasisX.MulScalar(v.X).
		Add(t.BasisY.MulScalar(v.Y)).
		Add(t.BasisZ.MulScalar(v.Z))
}

// Compose returns the transform that applies b first, then a.
func Compose(a, b Transform) Transform {
	return Transform{
		Origin: Apply(a, b.Origin),
		BasisX: ApplyVector(a, b.BasisX),
		BasisY: ApplyVector(a, b.BasisY),
		BasisZ: ApplyVector(a, b.BasisZ),
	}
}

// Determinant returns the determinant of the linear part.
func (t Transform) Determinant() float64 {
	return t.BasisX.Dot(t.BasisY.Cross(t.BasisZ))
}

// IsDegenerate reports whether the linear part is singular within
// DegenerateTolerance relative to the basis lengths.
func (t Transform) IsDegenerate() bool {
	scale := t.BasisX.Length() * t.BasisY.Length() * t.BasisZ.Length()
	if scale == 0 || math.IsNaN(scale) {
		return true
	}
	return math.Abs(t.Determinant()) <= DegenerateTolerance*scale
}

// Invert returns the inverse transform, mapping world points back into
// local coordinates.
func Invert(t Transform) (Transform, error) {
	det := t.Determinant()
	if t.IsDegenerate() {
		return Transform{}, &DegenerateTransformError{Determinant: det}
	}

	inv := 1 / det

	// Rows of the inverse linear part.
	r0 := t.BasisY.Cross(t.BasisZ).MulScalar(inv)
	r1 := t.BasisZ.Cross(t.BasisX).MulScalar(inv)
	r2 := t.BasisX.Cross(t.BasisY).MulScalar(inv)

	return Transform{
		Origin: Point3{X: -r0.Dot(t.Origin), Y: -r1.Dot(t.Origin), Z: -r2.Dot(t.Origin)},
		BasisX: Point3{X: r0.X, Y: r1.X, Z: r2.X},
		BasisY: Point3{X: r0.Y, Y: r1.Y, Z: r2.Y},
		BasisZ: Point3{X: r0.Z, Y: r1.Z, Z: r2.Z},
	}, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
