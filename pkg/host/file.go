package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/scene"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is a declarative document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON        // JSON with comments and trailing commas allowed
)

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json", ".jsonc":
		return FormatJSON, true
	}
	return 0, false
}

// vec is a point written as [x, y, z].
type vec [3]float64

func (v vec) point() geom.Point3 {
	return geom.Point3{X: v[0], Y: v[1], Z: v[2]}
}

// TransformFile places a box. Either the basis vectors are all given, or
// the transform is built from scale, Euler rotation (degrees) and origin.
type TransformFile struct {
	Origin vec  `json:"origin" yaml:"origin"`
	Rotate vec  `json:"rotate" yaml:"rotate"`
	Scale  *vec `json:"scale,omitempty" yaml:"scale,omitempty"`
	BasisX *vec `json:"basis_x,omitempty" yaml:"basis_x,omitempty"`
	BasisY *vec `json:"basis_y,omitempty" yaml:"basis_y,omitempty"`
	BasisZ *vec `json:"basis_z,omitempty" yaml:"basis_z,omitempty"`
}

func (t *TransformFile) build() (geom.Transform, error) {
	if t == nil {
		return geom.Identity(), nil
	}
	explicit := t.BasisX != nil || t.BasisY != nil || t.BasisZ != nil
	if explicit {
		if t.BasisX == nil || t.BasisY == nil || t.BasisZ == nil {
			return geom.Transform{}, fmt.Errorf("basis_x, basis_y and basis_z must be given together")
		}
		return geom.NewTransform(t.Origin.point(), t.BasisX.point(), t.BasisY.point(), t.BasisZ.point()), nil
	}
	var scale geom.Point3
	if t.Scale != nil {
		scale = t.Scale.point()
	}
	return geom.Placement(t.Origin.point(), t.Rotate.point(), scale), nil
}

// BoxFile is an oriented bounding box.
type BoxFile struct {
	Min       vec            `json:"min" yaml:"min"`
	Max       vec            `json:"max" yaml:"max"`
	Transform *TransformFile `json:"transform,omitempty" yaml:"transform,omitempty"`
}

// ArcFile is a circular arc; angles in degrees.
type ArcFile struct {
	Center     vec     `json:"center" yaml:"center"`
	Radius     float64 `json:"radius" yaml:"radius"`
	StartAngle float64 `json:"start_angle" yaml:"start_angle"`
	EndAngle   float64 `json:"end_angle" yaml:"end_angle"`
	Normal     *vec    `json:"normal,omitempty" yaml:"normal,omitempty"` // only +Z supported
}

// CurveFile is exactly one of a line, an arc or a polyline.
type CurveFile struct {
	Line     *[2]vec  `json:"line,omitempty" yaml:"line,omitempty"`
	Arc      *ArcFile `json:"arc,omitempty" yaml:"arc,omitempty"`
	Polyline []vec    `json:"polyline,omitempty" yaml:"polyline,omitempty"`
}

// ElementFile is one element record.
type ElementFile struct {
	ID       string                `json:"id" yaml:"id"`
	Name     string                `json:"name,omitempty" yaml:"name,omitempty"`
	Category string                `json:"category" yaml:"category"`
	Phase    string                `json:"phase,omitempty" yaml:"phase,omitempty"`
	IsType   bool                  `json:"is_type,omitempty" yaml:"is_type,omitempty"`
	Point    *vec                  `json:"point,omitempty" yaml:"point,omitempty"`
	Curve    *CurveFile            `json:"curve,omitempty" yaml:"curve,omitempty"`
	Box      *BoxFile              `json:"box,omitempty" yaml:"box,omitempty"`
	Params   map[string]*Parameter `json:"params,omitempty" yaml:"params,omitempty"`
}

// File is the on-disk document layout.
type File struct {
	Phases   []string      `json:"phases" yaml:"phases"`
	Elements []ElementFile `json:"elements" yaml:"elements"`
}

// Decode parses a document in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}
	return f.Document()
}

// LoadFile reads and decodes a YAML or JSON document.
func LoadFile(path string) (*Document, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported document extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Document converts the file layout into a Document.
func (f *File) Document() (*Document, error) {
	d := NewDocument()
	for _, p := range f.Phases {
		d.AddPhase(p)
	}
	for i, ef := range f.Elements {
		e, err := ef.element()
		if err != nil {
			return nil, fmt.Errorf("elements[%d] %q: %w", i, ef.ID, err)
		}
		if err := d.Add(e); err != nil {
			return nil, fmt.Errorf("elements[%d]: %w", i, err)
		}
	}
	return d, nil
}

func (ef ElementFile) element() (*Element, error) {
	e := &Element{
		ID:       scene.ElementID(ef.ID),
		Name:     ef.Name,
		Category: ef.Category,
		Phase:    ef.Phase,
		IsType:   ef.IsType,
		Params:   ef.Params,
	}
	if ef.Point != nil {
		p := ef.Point.point()
		e.Geometry.Point = &p
	}
	if ef.Curve != nil {
		c, err := ef.Curve.build()
		if err != nil {
			return nil, fmt.Errorf("curve: %w", err)
		}
		e.Geometry.Curve = c
	}
	if ef.Box != nil {
		t, err := ef.Box.Transform.build()
		if err != nil {
			return nil, fmt.Errorf("box transform: %w", err)
		}
		v := geom.NewVolume(t, ef.Box.Min.point(), ef.Box.Max.point())
		e.Geometry.Box = &v
	}
	return e, nil
}

func (cf *CurveFile) build() (geom.Curve, error) {
	set := 0
	var c geom.Curve
	if cf.Line != nil {
		set++
		c = geom.Line{Start: cf.Line[0].point(), End: cf.Line[1].point()}
	}
	if cf.Arc != nil {
		set++
		if cf.Arc.Normal != nil && cf.Arc.Normal.point() != (geom.Point3{Z: 1}) {
			return nil, fmt.Errorf("arc normal must be +Z")
		}
		c = geom.Arc{
			Center:     cf.Arc.Center.point(),
			XAxis:      geom.Point3{X: 1},
			YAxis:      geom.Point3{Y: 1},
			Radius:     cf.Arc.Radius,
			StartAngle: cf.Arc.StartAngle * math.Pi / 180,
			EndAngle:   cf.Arc.EndAngle * math.Pi / 180,
		}
	}
	if len(cf.Polyline) > 0 {
		set++
		pts := make([]geom.Point3, len(cf.Polyline))
		for i, v := range cf.Polyline {
			pts[i] = v.point()
		}
		c = geom.Polyline{Points: pts}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of line, arc or polyline is required, got %d", set)
	}
	return c, nil
}
