package geom

import "math"

// Curve is a parametric curve evaluated on its normalized parameter,
// where 0 is the start and 1 is the end.
type Curve interface {
	Evaluate(t float64) Point3
}

// Midpoint returns the point at normalized parameter 0.5. This is the
// midpoint by parameter, which is not the arc-length midpoint for every
// curve type.
func Midpoint(c Curve) Point3 {
	return c.Evaluate(0.5)
}

// Line is a straight segment.
type Line struct {
	Start Point3
	End   Point3
}

// Evaluate interpolates linearly between Start and End.
func (l Line) Evaluate(t float64) Point3 {
	return l.Start.Add(l.End.Sub(l.Start).MulScalar(t))
}

// Arc is a circular arc in the plane spanned by the unit vectors XAxis
// and YAxis. Angles are in radians measured from XAxis toward YAxis; the
// parameter is linear in angle.
type Arc struct {
	Center     Point3
	XAxis      Point3
	YAxis      Point3
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// Evaluate returns the point at angle StartAngle + t*(EndAngle-StartAngle).
func (a Arc) Evaluate(t float64) Point3 {
	angle := a.StartAngle + t*(a.EndAngle-a.StartAngle)
	return a.Center.
		Add(a.XAxis.MulScalar(a.Radius * math.Cos(angle))).
		Add(a.YAxis.MulScalar(a.Radius * math.Sin(angle)))
}

// Polyline is a chain of straight segments parameterized uniformly by
// segment: each segment covers an equal share of [0,1].
type Polyline struct {
	Points []Point3
}

// Evaluate returns the point at parameter t. An empty polyline evaluates
// to the origin and a single point to itself.
func (pl Polyline) Evaluate(t float64) Point3 {
	switch len(pl.Points) {
	case 0:
		return Point3{}
	case 1:
		return pl.Points[0]
	}
	segs := len(pl.Points) - 1
	t = math.Max(0, math.Min(1, t))
	f := t * float64(segs)
	i := int(math.Floor(f))
	if i >= segs {
		i = segs - 1
	}
	return Line{Start: pl.Points[i], End: pl.Points[i+1]}.Evaluate(f - float64(i))
}
