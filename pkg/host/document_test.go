package host

import (
	"testing"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y, z float64) *geom.Point3 {
	p := geom.Point3{X: x, Y: y, Z: z}
	return &p
}

func box(min, max geom.Point3) *geom.Volume {
	v := geom.NewVolume(geom.Identity(), min, max)
	return &v
}

func sku(v string) map[string]*Parameter {
	return map[string]*Parameter{"SKU": {Value: v}}
}

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	d := NewDocument()
	d.AddPhase("Existing")
	d.AddPhase("Electrical")
	elems := []*Element{
		{ID: "sb-1", Name: "Bay-1", Category: CategoryScopeBoxes,
			Geometry: scene.Geometry{Box: box(geom.Point3{}, geom.Point3{X: 10, Y: 10, Z: 10})}},
		{ID: "sb-2", Name: "Bay-2", Category: "scope boxes",
			Geometry: scene.Geometry{Box: box(geom.Point3{X: 10}, geom.Point3{X: 20, Y: 10, Z: 10})}},
		{ID: "sb-empty", Name: "NoBox", Category: CategoryScopeBoxes},
		{ID: "c-1", Category: CategoryConduits, Phase: "Electrical",
			Geometry: scene.Geometry{Point: pt(1, 1, 1)}, Params: sku("")},
		{ID: "f-1", Category: CategoryConduitFittings, Phase: "electrical",
			Geometry: scene.Geometry{Point: pt(15, 1, 1)}, Params: sku("")},
		{ID: "x-1", Category: CategoryElectricalFixtures, Phase: "Existing",
			Geometry: scene.Geometry{Point: pt(1, 1, 1)}, Params: sku("")},
		{ID: "t-1", Category: CategoryElectricalFixtures, Phase: "Electrical", IsType: true},
		{ID: "w-1", Category: "Walls", Phase: "Electrical"},
	}
	for _, e := range elems {
		require.NoError(t, d.Add(e))
	}
	return d
}

func TestAddRejectsBadIDs(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.Add(&Element{ID: "a"}))
	assert.Error(t, d.Add(&Element{ID: "a"}))
	assert.Error(t, d.Add(&Element{}))
	assert.Equal(t, 1, d.Len())
}

func TestAddPhaseDedupes(t *testing.T) {
	d := NewDocument()
	d.AddPhase("Electrical")
	d.AddPhase("ELECTRICAL")
	d.AddPhase("Existing")
	assert.Equal(t, []string{"Electrical", "Existing"}, d.Phases())

	name, ok := d.FindPhase("electrical")
	assert.True(t, ok)
	assert.Equal(t, "Electrical", name)
	_, ok = d.FindPhase("Demolition")
	assert.False(t, ok)
}

func TestPhaseElements(t *testing.T) {
	d := sampleDocument(t)

	got := d.PhaseElements("ELECTRICAL")
	require.Len(t, got, 2)
	assert.Equal(t, scene.ElementID("c-1"), got[0].ID)
	assert.Equal(t, scene.CategoryLinearConduit, got[0].Category)
	assert.Equal(t, scene.ElementID("f-1"), got[1].ID)
	assert.Equal(t, scene.CategoryConduitFitting, got[1].Category)

	assert.Empty(t, d.PhaseElements("Demolition"))
	assert.Len(t, d.PhaseElements("Existing"), 1)
}

func TestScopeZones(t *testing.T) {
	d := sampleDocument(t)
	zones := d.ScopeZones(CategoryScopeBoxes)
	require.Len(t, zones, 2)
	assert.Equal(t, "Bay-1", zones[0].Label)
	assert.Equal(t, "Bay-2", zones[1].Label)
	assert.Empty(t, d.ScopeZones("Levels"))
}

func TestHostCategory(t *testing.T) {
	tests := []struct {
		name string
		want scene.Category
	}{
		{"Conduits", scene.CategoryLinearConduit},
		{"conduit fittings", scene.CategoryConduitFitting},
		{"Electrical Fixtures", scene.CategoryPointFixture},
		{"linear-conduit", scene.CategoryLinearConduit},
		{"Walls", scene.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hostCategory(tt.name))
		})
	}
}

func TestParam(t *testing.T) {
	d := sampleDocument(t)
	p, ok := d.Param("c-1", "SKU")
	assert.True(t, ok)
	assert.Equal(t, "", p.Value)

	_, ok = d.Param("c-1", "Mark")
	assert.False(t, ok)
	_, ok = d.Param("nope", "SKU")
	assert.False(t, ok)
}

func TestSetParam(t *testing.T) {
	d := sampleDocument(t)
	require.NoError(t, d.SetParam("w-1", "SKU", Parameter{Value: "x", ReadOnly: true}))
	p, ok := d.Param("w-1", "SKU")
	require.True(t, ok)
	assert.Equal(t, Parameter{Value: "x", ReadOnly: true}, p)

	assert.Error(t, d.SetParam("nope", "SKU", Parameter{}))
	assert.Error(t, d.SetParam("w-1", "", Parameter{}))
}

func TestCategoryNameRoundTrip(t *testing.T) {
	for _, c := range scene.TrackedCategories {
		assert.Equal(t, c, hostCategory(CategoryName(c)))
	}
	assert.Equal(t, "", CategoryName(scene.CategoryOther))
}
