package host

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chazu/zonelabel/pkg/scene"
)

// Host category names, matched case-insensitively.
const (
	CategoryConduits           = "Conduits"
	CategoryConduitFittings    = "Conduit Fittings"
	CategoryElectricalFixtures = "Electrical Fixtures"
	CategoryScopeBoxes         = "Scope Boxes"
)

// Parameter is a named, string-valued element parameter.
type Parameter struct {
	Value    string `json:"value" yaml:"value"`
	ReadOnly bool   `json:"read_only,omitempty" yaml:"read_only,omitempty"`
}

// Element is a document element as the host sees it.
type Element struct {
	ID       scene.ElementID
	Name     string
	Category string // host category name
	Phase    string // phase the element was created in
	IsType   bool   // type definitions are never classified
	Geometry scene.Geometry
	Params   map[string]*Parameter
}

// Document is an ordered set of elements plus the phases they may be
// created in. It is safe for concurrent use.
type Document struct {
	mu       sync.RWMutex
	phases   []string
	elements []*Element
	byID     map[scene.ElementID]*Element
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{byID: make(map[scene.ElementID]*Element)}
}

// AddPhase registers a phase name. Duplicates (ignoring case) are ignored.
func (d *Document) AddPhase(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.phases {
		if strings.EqualFold(p, name) {
			return
		}
	}
	d.phases = append(d.phases, name)
}

// Phases returns the registered phase names in order.
func (d *Document) Phases() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.phases...)
}

// Add appends an element. Ids must be unique and non-empty.
func (d *Document) Add(e *Element) error {
	if e.ID == "" {
		return fmt.Errorf("host: element has no id")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byID[e.ID]; exists {
		return fmt.Errorf("host: element %q already exists", e.ID)
	}
	if e.Params == nil {
		e.Params = make(map[string]*Parameter)
	}
	d.elements = append(d.elements, e)
	d.byID[e.ID] = e
	return nil
}

// Len returns the number of elements.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.elements)
}

// FindPhase returns the registered phase matching name, ignoring case.
func (d *Document) FindPhase(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.phases {
		if strings.EqualFold(p, name) {
			return p, true
		}
	}
	return "", false
}

// hostCategory maps a host category name to the classifier's closed set.
func hostCategory(name string) scene.Category {
	switch {
	case strings.EqualFold(name, CategoryConduits):
		return scene.CategoryLinearConduit
	case strings.EqualFold(name, CategoryConduitFittings):
		return scene.CategoryConduitFitting
	case strings.EqualFold(name, CategoryElectricalFixtures):
		return scene.CategoryPointFixture
	}
	if c, err := scene.ParseCategory(name); err == nil {
		return c
	}
	return scene.CategoryOther
}

// PhaseElements returns the non-type conduit, fitting and fixture
// elements created in the named phase, in document order. An unknown
// phase yields no elements.
func (d *Document) PhaseElements(phase string) []scene.Element {
	name, ok := d.FindPhase(phase)
	if !ok {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []scene.Element
	for _, e := range d.elements {
		if e.IsType || !strings.EqualFold(e.Phase, name) {
			continue
		}
		cat := hostCategory(e.Category)
		if !cat.Tracked() {
			continue
		}
		out = append(out, scene.Element{ID: e.ID, Category: cat, Geometry: e.Geometry})
	}
	return out
}

// ScopeZones returns one zone per element of the given host category
// (normally CategoryScopeBoxes), labeled with the element name and
// shaped by its bounding box. Elements without a box are dropped.
func (d *Document) ScopeZones(category string) []scene.Zone {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []scene.Zone
	for _, e := range d.elements {
		if e.IsType || !strings.EqualFold(e.Category, category) || e.Geometry.Box == nil {
			continue
		}
		out = append(out, scene.Zone{Label: e.Name, Volume: *e.Geometry.Box})
	}
	return out
}

// Param returns a copy of an element parameter.
func (d *Document) Param(id scene.ElementID, name string) (Parameter, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.byID[id]
	if !ok {
		return Parameter{}, false
	}
	p, ok := e.Params[name]
	if !ok || p == nil {
		return Parameter{}, false
	}
	return *p, true
}

// SetParam creates or replaces an element parameter.
func (d *Document) SetParam(id scene.ElementID, name string, p Parameter) error {
	if name == "" {
		return fmt.Errorf("host: parameter name is empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("host: no element %q", id)
	}
	e.Params[name] = &p
	return nil
}

// CategoryName returns the host category name for c, or "" for
// CategoryOther.
func CategoryName(c scene.Category) string {
	switch c {
	case scene.CategoryLinearConduit:
		return CategoryConduits
	case scene.CategoryConduitFitting:
		return CategoryConduitFittings
	case scene.CategoryPointFixture:
		return CategoryElectricalFixtures
	}
	return ""
}
