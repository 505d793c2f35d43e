package host

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileFormats(t *testing.T) {
	for _, name := range []string{"bays.yaml", "bays.jsonc"} {
		t.Run(name, func(t *testing.T) {
			d, err := LoadFile(filepath.Join("testdata", name))
			require.NoError(t, err)

			assert.Equal(t, []string{"Existing", "Electrical"}, d.Phases())
			assert.Equal(t, 5, d.Len())

			elems := d.PhaseElements("Electrical")
			require.Len(t, elems, 3)
			require.NotNil(t, elems[0].Geometry.Curve)
			mid := geom.Midpoint(elems[0].Geometry.Curve)
			assert.InDelta(t, 5.0, mid.X, 1e-12)

			zones := d.ScopeZones(CategoryScopeBoxes)
			require.Len(t, zones, 2)
			ok, err := zones[1].Volume.Contains(geom.Point3{X: 20, Y: 5, Z: 5})
			require.NoError(t, err)
			assert.True(t, ok, "rotated box contains a point on its local diagonal")

			p, ok := d.Param("fixture-1", "SKU")
			require.True(t, ok)
			assert.True(t, p.ReadOnly)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"scene.yaml", FormatYAML, true},
		{"scene.YML", FormatYAML, true},
		{"scene.json", FormatJSON, true},
		{"scene.jsonc", FormatJSON, true},
		{"scene.zl", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FormatForPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecodeCurves(t *testing.T) {
	src := `
elements:
  - id: arc
    category: Conduits
    curve:
      arc: {center: [0, 0, 0], radius: 2, start_angle: 0, end_angle: 180}
  - id: poly
    category: Conduits
    curve:
      polyline: [[0, 0, 0], [2, 0, 0], [2, 2, 0]]
`
	d, err := Decode([]byte(src), FormatYAML)
	require.NoError(t, err)

	arc := d.byID["arc"].Geometry.Curve
	m := geom.Midpoint(arc)
	assert.InDelta(t, 0, m.X, 1e-12)
	assert.InDelta(t, 2, m.Y, 1e-12)

	poly := d.byID["poly"].Geometry.Curve
	m = geom.Midpoint(poly)
	assert.InDelta(t, 2, m.X, 1e-12)
	assert.InDelta(t, 0, m.Y, 1e-12)
	assert.False(t, math.IsNaN(m.Z))
}

func TestDecodeExplicitBasis(t *testing.T) {
	src := `{"elements": [{"id": "z", "name": "Z", "category": "Scope Boxes",
	  "box": {"min": [0,0,0], "max": [1,1,1],
	    "transform": {"origin": [5,0,0], "basis_x": [2,0,0], "basis_y": [0,2,0], "basis_z": [0,0,2]}}}]}`
	d, err := Decode([]byte(src), FormatJSON)
	require.NoError(t, err)
	zones := d.ScopeZones(CategoryScopeBoxes)
	require.Len(t, zones, 1)
	ok, err := zones[0].Volume.Contains(geom.Point3{X: 6.5, Y: 1.5, Z: 1.5})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format Format
	}{
		{"unknown field", "elements:\n  - id: a\n    colour: red\n", FormatYAML},
		{"two curves", "elements:\n  - id: a\n    curve:\n      line: [[0,0,0],[1,0,0]]\n      polyline: [[0,0,0],[1,0,0]]\n", FormatYAML},
		{"no curve", "elements:\n  - id: a\n    curve: {}\n", FormatYAML},
		{"partial basis", `{"elements":[{"id":"a","box":{"min":[0,0,0],"max":[1,1,1],"transform":{"basis_x":[1,0,0]}}}]}`, FormatJSON},
		{"tilted arc", "elements:\n  - id: a\n    curve:\n      arc: {radius: 1, normal: [1, 0, 0]}\n", FormatYAML},
		{"duplicate id", "elements:\n  - id: a\n  - id: a\n", FormatYAML},
		{"bad json", `{"elements": [`, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestLoadFileRejectsExtension(t *testing.T) {
	_, err := LoadFile("scene.txt")
	assert.Error(t, err)
}
