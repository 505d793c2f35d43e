package zone

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/scene"
)

func box(label string, t geom.Transform, max geom.Point3) scene.Zone {
	return scene.NewZone(label, t, geom.Point3{}, max)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	p := geom.Point3{X: 5, Y: 5, Z: 5}
	zones := []scene.Zone{
		box("A", geom.Identity(), geom.Point3{X: 10, Y: 10, Z: 10}),
		box("B", geom.Translation(geom.Point3{X: 2, Y: 2, Z: 2}), geom.Point3{X: 10, Y: 10, Z: 10}),
	}

	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{"linear", []Option{WithoutPruning()}},
		{"pruned", []Option{WithPruneThreshold(0)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			idx, err := NewIndex(zones, tc.opts...)
			if err != nil {
				t.Fatalf("NewIndex: %v", err)
			}
			for i := 0; i < 50; i++ {
				label, ok := idx.Classify(p)
				if !ok || label != "A" {
					t.Fatalf("Classify = %q, %v; want A", label, ok)
				}
			}
		})
	}

	// Insertion order is the only order that matters.
	reversed := []scene.Zone{zones[1], zones[0]}
	idx, err := NewIndex(reversed)
	if err != nil {
		t.Fatal(err)
	}
	if label, _ := idx.Classify(p); label != "B" {
		t.Errorf("reversed insertion: Classify = %q, want B", label)
	}
}

func TestClassifyNoContainment(t *testing.T) {
	idx, err := NewIndex([]scene.Zone{box("A", geom.Identity(), geom.Point3{X: 1, Y: 1, Z: 1})})
	if err != nil {
		t.Fatal(err)
	}
	if label, ok := idx.Classify(geom.Point3{X: 3}); ok {
		t.Errorf("Classify = %q, want no match", label)
	}
}

func TestClassifyEmptyIndex(t *testing.T) {
	idx, err := NewIndex(nil)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len = %d", idx.Len())
	}
	if _, ok := idx.Classify(geom.Point3{}); ok {
		t.Error("empty index matched a point")
	}
}

func TestClassifyRotatedZone(t *testing.T) {
	tr := geom.Compose(geom.Translation(geom.Point3{X: 20, Y: 20}), geom.RotationZ(90))
	idx, err := NewIndex([]scene.Zone{box("Rot", tr, geom.Point3{X: 2, Y: 1, Z: 1})})
	if err != nil {
		t.Fatal(err)
	}
	world := geom.Apply(tr, geom.Point3{X: 1, Y: 0.5, Z: 0.5})
	if label, ok := idx.Classify(world); !ok || label != "Rot" {
		t.Errorf("Classify(%v) = %q, %v", world, label, ok)
	}
}

func TestClassifyBoundaryPruned(t *testing.T) {
	zones := []scene.Zone{box("A", geom.Identity(), geom.Point3{X: 10, Y: 10, Z: 10})}
	idx, err := NewIndex(zones, WithPruneThreshold(0))
	if err != nil {
		t.Fatal(err)
	}
	if !idx.Pruned() {
		t.Fatal("expected pruned index")
	}
	if _, ok := idx.Classify(geom.Point3{X: 10}); !ok {
		t.Error("boundary point should be contained")
	}
	if _, ok := idx.Classify(geom.Point3{X: 10.0001}); ok {
		t.Error("point past the boundary should not be contained")
	}
}

func TestNewIndexDegenerate(t *testing.T) {
	zones := []scene.Zone{
		box("ok", geom.Identity(), geom.Point3{X: 1, Y: 1, Z: 1}),
		box("flat", geom.Transform{}, geom.Point3{X: 1, Y: 1, Z: 1}),
	}
	_, err := NewIndex(zones)
	var dte *geom.DegenerateTransformError
	if !errors.As(err, &dte) {
		t.Fatalf("NewIndex error = %v, want DegenerateTransformError", err)
	}
}

func TestNewIndexRejectsInvalidZones(t *testing.T) {
	if _, err := NewIndex([]scene.Zone{box("", geom.Identity(), geom.Point3{X: 1})}); !errors.Is(err, ErrEmptyLabel) {
		t.Errorf("empty label: err = %v", err)
	}
	bad := scene.NewZone("bad", geom.Identity(), geom.Point3{X: 2}, geom.Point3{X: 1})
	if _, err := NewIndex([]scene.Zone{bad}); !errors.Is(err, ErrInvalidBox) {
		t.Errorf("inverted box: err = %v", err)
	}
}

func TestPrunedMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var zones []scene.Zone
	for i := 0; i < 60; i++ {
		tr := geom.Compose(
			geom.Translation(geom.Point3{X: rng.Float64() * 100, Y: rng.Float64() * 100, Z: rng.Float64() * 10}),
			geom.RotationZ(rng.Float64()*360),
		)
		size := geom.Point3{X: 5 + rng.Float64()*20, Y: 5 + rng.Float64()*20, Z: 3}
		zones = append(zones, box(fmt.Sprintf("Z%02d", i), tr, size))
	}

	linear, err := NewIndex(zones, WithoutPruning())
	if err != nil {
		t.Fatal(err)
	}
	pruned, err := NewIndex(zones, WithPruneThreshold(1))
	if err != nil {
		t.Fatal(err)
	}
	if linear.Pruned() || !pruned.Pruned() {
		t.Fatalf("unexpected pruning state: linear=%v pruned=%v", linear.Pruned(), pruned.Pruned())
	}

	matched := 0
	for i := 0; i < 2000; i++ {
		p := geom.Point3{X: rng.Float64() * 120, Y: rng.Float64() * 120, Z: rng.Float64() * 12}
		wantLabel, wantOK := linear.Classify(p)
		gotLabel, gotOK := pruned.Classify(p)
		if wantOK != gotOK || wantLabel != gotLabel {
			t.Fatalf("point %v: pruned = (%q,%v), linear = (%q,%v)", p, gotLabel, gotOK, wantLabel, wantOK)
		}
		if wantOK {
			matched++
		}
	}
	if matched == 0 {
		t.Fatal("no sampled point hit any zone; test is not exercising containment")
	}
}

func TestLabelsOrder(t *testing.T) {
	idx, err := NewIndex([]scene.Zone{
		box("first", geom.Identity(), geom.Point3{X: 1}),
		box("second", geom.Identity(), geom.Point3{X: 1}),
	})
	if err != nil {
		t.Fatal(err)
	}
	got := idx.Labels()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("Labels = %v", got)
	}
}
