package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/host"
	"github.com/chazu/zonelabel/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpVec3 carries a point or vector between builtins.
type sexpVec3 struct {
	vec geom.Point3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpElementRef is returned by every element-creating builtin.
type sexpElementRef struct {
	id scene.ElementID
}

func (r *sexpElementRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(element %q)", r.id)
}
func (r *sexpElementRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a rewritten keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs splits args into keyword and positional arguments. A keyword
// in last position has the value SexpNull and reads as a set flag.
func parseArgs(args []zygo.Sexp) kwArgs {
	pa := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			pa.positional = append(pa.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			pa.kw[name] = args[i+1]
			i++
		} else {
			pa.kw[name] = zygo.SexpNull
		}
	}
	return pa
}

// ---------------------------------------------------------------------------
// Value extraction
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (geom.Point3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Point3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toElementID accepts an element reference or a plain id string.
func toElementID(s zygo.Sexp) (scene.ElementID, error) {
	switch v := s.(type) {
	case *sexpElementRef:
		return v.id, nil
	case *zygo.SexpStr:
		return scene.ElementID(v.S), nil
	}
	return "", fmt.Errorf("expected element or id, got %T (%s)", s, s.SexpString(nil))
}

func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// kwFloat, kwString, kwBool and kwVec3 read an optional keyword. The bool
// result reports presence.
func (pa kwArgs) kwFloat(name string) (float64, bool, error) {
	v, ok := pa.kw[name]
	if !ok {
		return 0, false, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", name, err)
	}
	return f, true, nil
}

func (pa kwArgs) kwString(name string) (string, bool, error) {
	v, ok := pa.kw[name]
	if !ok {
		return "", false, nil
	}
	s, err := toString(v)
	if err != nil {
		return "", true, fmt.Errorf("%s: %w", name, err)
	}
	return s, true, nil
}

func (pa kwArgs) kwBool(name string) (bool, error) {
	v, ok := pa.kw[name]
	if !ok {
		return false, nil
	}
	b, err := toBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

func (pa kwArgs) kwVec3(name string) (*geom.Point3, error) {
	v, ok := pa.kw[name]
	if !ok {
		return nil, nil
	}
	p, err := toVec3(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &p, nil
}

// kwVec3List reads a list of vec3 values, e.g. :points (list (vec3 ...) ...).
func (pa kwArgs) kwVec3List(name string) ([]geom.Point3, error) {
	v, ok := pa.kw[name]
	if !ok {
		return nil, nil
	}
	items, err := sexpListToSlice(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	pts := make([]geom.Point3, len(items))
	for i, item := range items {
		if pts[i], err = toVec3(item); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
	}
	return pts, nil
}

// placement reads :origin (or originKW), :rotate (Euler degrees) and
// :scale into a transform.
func (pa kwArgs) placement(originKW string) (geom.Transform, error) {
	var origin, rotate, scale geom.Point3
	for _, f := range []struct {
		name string
		dst  *geom.Point3
	}{{originKW, &origin}, {"rotate", &rotate}, {"scale", &scale}} {
		v, err := pa.kwVec3(f.name)
		if err != nil {
			return geom.Transform{}, err
		}
		if v != nil {
			*f.dst = *v
		}
	}
	return geom.Placement(origin, rotate, scale), nil
}

// box reads :min and :max plus a placement. Both corners or neither must
// be given.
func (pa kwArgs) box(originKW string) (*geom.Volume, error) {
	min, err := pa.kwVec3("min")
	if err != nil {
		return nil, err
	}
	max, err := pa.kwVec3("max")
	if err != nil {
		return nil, err
	}
	if min == nil && max == nil {
		return nil, nil
	}
	if min == nil || max == nil {
		return nil, fmt.Errorf(":min and :max must be given together")
	}
	t, err := pa.placement(originKW)
	if err != nil {
		return nil, err
	}
	v := geom.NewVolume(t, *min, *max)
	return &v, nil
}

// ---------------------------------------------------------------------------
// Script state
// ---------------------------------------------------------------------------

// scriptState is what builtins mutate during one evaluation.
type scriptState struct {
	doc          *host.Document
	phase        string // phase assigned to new elements
	defaultParam string // parameter every new element receives
	scopeBoxes   int
}

func newScriptState(doc *host.Document) *scriptState {
	return &scriptState{doc: doc}
}

// addElement applies the keywords shared by every element builtin
// (:name :phase :type :read-only :value), adds the element and gives it
// the default parameter.
func (st *scriptState) addElement(fn string, pa kwArgs, e *host.Element) (zygo.Sexp, error) {
	e.Phase = st.phase
	if s, ok, err := pa.kwString("name"); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	} else if ok {
		e.Name = s
	}
	if s, ok, err := pa.kwString("phase"); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	} else if ok {
		e.Phase = s
	}
	isType, err := pa.kwBool("type")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	e.IsType = isType

	readOnly, err := pa.kwBool("read-only")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	value, _, err := pa.kwString("value")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	if st.defaultParam != "" {
		e.Params = map[string]*host.Parameter{
			st.defaultParam: {Value: value, ReadOnly: readOnly},
		}
	}

	if err := st.doc.Add(e); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	return &sexpElementRef{id: e.ID}, nil
}

// elementID reads the leading positional id argument.
func elementID(fn string, pa kwArgs) (scene.ElementID, error) {
	if len(pa.positional) < 1 {
		return "", fmt.Errorf("%s requires an id as first argument", fn)
	}
	s, err := toString(pa.positional[0])
	if err != nil {
		return "", fmt.Errorf("%s: id: %w", fn, err)
	}
	return scene.ElementID(s), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins. Hyphenated names are
// registered with underscores; preprocessSource rewrites call sites.
func registerBuiltins(env *zygo.Zlisp, st *scriptState) {

	// (phase "Electrical")
	env.AddFunction("phase", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("phase requires exactly 1 argument, got %d", len(args))
		}
		s, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("phase: %w", err)
		}
		st.doc.AddPhase(s)
		st.phase = s
		return &zygo.SexpStr{S: s}, nil
	})

	// (default-param "SKU")
	env.AddFunction("default_param", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("default-param requires exactly 1 argument, got %d", len(args))
		}
		s, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("default-param: %w", err)
		}
		st.defaultParam = s
		return &zygo.SexpStr{S: s}, nil
	})

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: geom.Point3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// (scope-box "Bay-1" :min (vec3 0 0 0) :max (vec3 10 10 10)
	//            :at (vec3 20 0 0) :rotate (vec3 0 0 45))
	env.AddFunction("scope_box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("scope-box requires a label as first argument")
		}
		label, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scope-box: label: %w", err)
		}
		originKW := "origin"
		if _, ok := pa.kw["at"]; ok {
			originKW = "at"
		}
		v, err := pa.box(originKW)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scope-box %q: %w", label, err)
		}
		if v == nil {
			return zygo.SexpNull, fmt.Errorf("scope-box %q: :min and :max are required", label)
		}

		st.scopeBoxes++
		id := scene.ElementID(fmt.Sprintf("scope-box-%d", st.scopeBoxes))
		if s, ok, err := pa.kwString("id"); err != nil {
			return zygo.SexpNull, fmt.Errorf("scope-box %q: %w", label, err)
		} else if ok {
			id = scene.ElementID(s)
		}
		e := &host.Element{
			ID:       id,
			Name:     label,
			Category: host.CategoryScopeBoxes,
			Geometry: scene.Geometry{Box: v},
		}
		if err := st.doc.Add(e); err != nil {
			return zygo.SexpNull, fmt.Errorf("scope-box %q: %w", label, err)
		}
		return &sexpElementRef{id: id}, nil
	})

	// (conduit "c-1" :from (vec3 0 0 0) :to (vec3 10 0 0))
	// (conduit "c-2" :points (list (vec3 0 0 0) (vec3 5 0 0) (vec3 5 5 0)))
	env.AddFunction("conduit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		id, err := elementID("conduit", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		from, err := pa.kwVec3("from")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("conduit %q: %w", id, err)
		}
		to, err := pa.kwVec3("to")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("conduit %q: %w", id, err)
		}
		pts, err := pa.kwVec3List("points")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("conduit %q: %w", id, err)
		}
		box, err := pa.box("origin")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("conduit %q: %w", id, err)
		}

		var g scene.Geometry
		switch {
		case from != nil && to != nil:
			g.Curve = geom.Line{Start: *from, End: *to}
		case from != nil || to != nil:
			return zygo.SexpNull, fmt.Errorf("conduit %q: :from and :to must be given together", id)
		case len(pts) > 0:
			g.Curve = geom.Polyline{Points: pts}
		}
		g.Box = box
		return st.addElement("conduit", pa, &host.Element{ID: id, Category: host.CategoryConduits, Geometry: g})
	})

	// (arc-conduit "c-3" :center (vec3 0 0 0) :radius 5 :start 0 :end 90)
	// Angles in degrees, counterclockwise about +Z.
	env.AddFunction("arc_conduit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		id, err := elementID("arc-conduit", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		center, err := pa.kwVec3("center")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("arc-conduit %q: %w", id, err)
		}
		if center == nil {
			center = &geom.Point3{}
		}
		var vals [3]float64
		for i, kw := range []string{"radius", "start", "end"} {
			f, ok, err := pa.kwFloat(kw)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("arc-conduit %q: %w", id, err)
			}
			if !ok {
				return zygo.SexpNull, fmt.Errorf("arc-conduit %q: :%s is required", id, kw)
			}
			vals[i] = f
		}
		arc := geom.Arc{
			Center:     *center,
			XAxis:      geom.Point3{X: 1},
			YAxis:      geom.Point3{Y: 1},
			Radius:     vals[0],
			StartAngle: vals[1] * math.Pi / 180,
			EndAngle:   vals[2] * math.Pi / 180,
		}
		return st.addElement("arc-conduit", pa, &host.Element{
			ID: id, Category: host.CategoryConduits, Geometry: scene.Geometry{Curve: arc},
		})
	})

	pointElement := func(fn, category string) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			id, err := elementID(fn, pa)
			if err != nil {
				return zygo.SexpNull, err
			}
			at, err := pa.kwVec3("at")
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, id, err)
			}
			box, err := pa.box("origin")
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, id, err)
			}
			if cat, ok, err := pa.kwString("category"); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: %w", fn, id, err)
			} else if ok {
				category = cat
			}
			return st.addElement(fn, pa, &host.Element{
				ID: id, Category: category, Geometry: scene.Geometry{Point: at, Box: box},
			})
		}
	}

	// (fitting "f-1" :at (vec3 5 0 0))
	env.AddFunction("fitting", pointElement("fitting", host.CategoryConduitFittings))

	// (fixture "x-1" :at (vec3 5 5 3) :read-only true)
	env.AddFunction("fixture", pointElement("fixture", host.CategoryElectricalFixtures))

	// (element "e-1" :category "Walls" :min (vec3 0 0 0) :max (vec3 1 1 1))
	env.AddFunction("element", pointElement("element", ""))

	// (set-param "c-1" "SKU" "Bay-9" :read-only true)
	env.AddFunction("set_param", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("set-param requires element, name and value, got %d arguments", len(pa.positional))
		}
		id, err := toElementID(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-param: %w", err)
		}
		param, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-param: name: %w", err)
		}
		value, err := toString(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-param: value: %w", err)
		}
		readOnly, err := pa.kwBool("read-only")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-param: %w", err)
		}
		if err := st.doc.SetParam(id, param, host.Parameter{Value: value, ReadOnly: readOnly}); err != nil {
			return zygo.SexpNull, fmt.Errorf("set-param: %w", err)
		}
		return &sexpElementRef{id: id}, nil
	})
}
