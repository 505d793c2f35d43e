package resolve

import (
	"math"
	"testing"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/scene"
)

func near(a, b geom.Point3) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestResolveKinds(t *testing.T) {
	line := geom.Line{Start: geom.Point3{}, End: geom.Point3{X: 8, Y: 2}}
	tests := []struct {
		name       string
		g          scene.Geometry
		want       geom.Point3
		wantSource Source
	}{
		{"point", scene.PointAt(geom.Point3{X: 1, Y: 2, Z: 3}), geom.Point3{X: 1, Y: 2, Z: 3}, SourcePoint},
		{"curve", scene.CurveMidpoint(line), geom.Point3{X: 4, Y: 1}, SourceCurve},
		{
			"box identity",
			scene.BoundingBox(geom.Point3{X: 2, Y: 2, Z: 2}, geom.Point3{X: 4, Y: 6, Z: 8}, geom.Identity()),
			geom.Point3{X: 3, Y: 4, Z: 5},
			SourceBox,
		},
		{
			"box translated",
			scene.BoundingBox(geom.Point3{}, geom.Point3{X: 2, Y: 2, Z: 2}, geom.Translation(geom.Point3{X: 10})),
			geom.Point3{X: 11, Y: 1, Z: 1},
			SourceBox,
		},
		{"none", scene.Geometry{}, geom.Point3{}, SourceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.g)
			if !near(got.Point, tt.want) {
				t.Errorf("Point = %v, want %v", got.Point, tt.want)
			}
			if got.Source != tt.wantSource {
				t.Errorf("Source = %s, want %s", got.Source, tt.wantSource)
			}
		})
	}
}

func TestResolvePriority(t *testing.T) {
	direct := geom.Point3{X: -5, Y: -5, Z: -5}
	line := geom.Line{Start: geom.Point3{X: 100}, End: geom.Point3{X: 200}}
	box := geom.NewVolume(geom.Identity(), geom.Point3{X: 50}, geom.Point3{X: 60})

	tests := []struct {
		name string
		g    scene.Geometry
		want Source
	}{
		{"point beats curve and box", scene.Geometry{Point: &direct, Curve: line, Box: &box}, SourcePoint},
		{"point beats box", scene.Geometry{Point: &direct, Box: &box}, SourcePoint},
		{"curve beats box", scene.Geometry{Curve: line, Box: &box}, SourceCurve},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.g).Source; got != tt.want {
				t.Errorf("Source = %s, want %s", got, tt.want)
			}
		})
	}

	if got := Point(scene.Geometry{Point: &direct, Box: &box}); got != direct {
		t.Errorf("Point = %v, want the direct point %v, not the box midpoint", got, direct)
	}
}

func TestBoxMidpointRotated(t *testing.T) {
	// Corners (0,0,0) and (2,0,0) rotated 90 degrees about Z land on
	// (0,0,0) and (0,2,0).
	v := geom.NewVolume(geom.RotationZ(90), geom.Point3{}, geom.Point3{X: 2})
	if got := BoxMidpoint(v); !near(got, geom.Point3{Y: 1}) {
		t.Errorf("BoxMidpoint = %v, want (0,1,0)", got)
	}
}
