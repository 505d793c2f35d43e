package geom

import (
	"math"
	"testing"
)

func TestMidpoint(t *testing.T) {
	tests := []struct {
		name string
		c    Curve
		want Point3
	}{
		{"line", Line{Start: Point3{}, End: Point3{X: 10, Y: 4}}, Point3{X: 5, Y: 2}},
		{
			"quarter arc",
			Arc{Center: Point3{}, XAxis: Point3{X: 1}, YAxis: Point3{Y: 1}, Radius: 2, StartAngle: 0, EndAngle: math.Pi / 2},
			Point3{X: math.Sqrt2, Y: math.Sqrt2},
		},
		{
			"polyline by segment",
			Polyline{Points: []Point3{{}, {X: 1}, {X: 1, Y: 9}}},
			Point3{X: 1},
		},
		{"single point polyline", Polyline{Points: []Point3{{X: 3, Y: 3, Z: 3}}}, Point3{X: 3, Y: 3, Z: 3}},
		{"empty polyline", Polyline{}, Point3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Midpoint(tt.c); !near(got, tt.want) {
				t.Errorf("Midpoint = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolylineEndpoints(t *testing.T) {
	pl := Polyline{Points: []Point3{{}, {X: 2}, {X: 2, Y: 2}}}
	if got := pl.Evaluate(0); !near(got, Point3{}) {
		t.Errorf("Evaluate(0) = %v", got)
	}
	if got := pl.Evaluate(1); !near(got, Point3{X: 2, Y: 2}) {
		t.Errorf("Evaluate(1) = %v", got)
	}
}
