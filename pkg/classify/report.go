package classify

import (
	"fmt"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/resolve"
	"github.com/chazu/zonelabel/pkg/scene"
	"github.com/samber/lo"
)

// Status is the outcome of a single element.
type Status int

const (
	StatusUnwritten Status = iota // no zone contains the element
	StatusWritten                 // labeled and written
	StatusSkipped                 // labeled, but the host refused the write
)

func (s Status) String() string {
	switch s {
	case StatusUnwritten:
		return "unwritten"
	case StatusWritten:
		return "written"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Assignment is the planned classification of one element.
type Assignment struct {
	ElementID scene.ElementID `json:"element_id"`
	Category  scene.Category  `json:"category"`
	Point     geom.Point3     `json:"point"`
	Source    resolve.Source  `json:"source"`
	Label     string          `json:"label,omitempty"`
	Labeled   bool            `json:"labeled"`
}

// Result is an applied Assignment.
type Result struct {
	Assignment
	Status Status `json:"status"`
}

// Tally counts written and unwritten elements of one category.
type Tally struct {
	Written   int `json:"written"`
	Unwritten int `json:"unwritten"`
}

// Report aggregates a pass. Counts holds every tracked category, zero or
// not; untracked categories never appear. Skipped counts labeled elements
// the host refused, across all categories.
type Report struct {
	RunID      string                   `json:"run_id"`
	Total      int                      `json:"total"`
	Counts     map[scene.Category]Tally `json:"counts"`
	Skipped    int                      `json:"skipped"`
	NoGeometry int                      `json:"no_geometry"`
	Results    []Result                 `json:"results,omitempty"`
}

func newReport(runID string, total int) *Report {
	r := &Report{
		RunID:   runID,
		Total:   total,
		Counts:  make(map[scene.Category]Tally, len(scene.TrackedCategories)),
		Results: make([]Result, 0, total),
	}
	for _, c := range scene.TrackedCategories {
		r.Counts[c] = Tally{}
	}
	return r
}

// record appends res and updates the tallies.
func (r *Report) record(res Result) {
	r.Results = append(r.Results, res)
	if res.Source == resolve.SourceNone {
		r.NoGeometry++
	}
	if res.Status == StatusSkipped {
		r.Skipped++
		return
	}
	if !res.Category.Tracked() {
		return
	}
	t := r.Counts[res.Category]
	switch res.Status {
	case StatusWritten:
		t.Written++
	case StatusUnwritten:
		t.Unwritten++
	}
	r.Counts[res.Category] = t
}

// Tally returns the counts for c. Untracked categories are always zero.
func (r *Report) Tally(c scene.Category) Tally {
	return r.Counts[c]
}

// Written returns the written total over tracked categories.
func (r *Report) Written() int {
	return lo.SumBy(scene.TrackedCategories, func(c scene.Category) int { return r.Counts[c].Written })
}

// Unwritten returns the unwritten total over tracked categories.
func (r *Report) Unwritten() int {
	return lo.SumBy(scene.TrackedCategories, func(c scene.Category) int { return r.Counts[c].Unwritten })
}

// ByLabel counts written elements per zone label.
func (r *Report) ByLabel() map[string]int {
	written := lo.Filter(r.Results, func(res Result, _ int) bool { return res.Status == StatusWritten })
	return lo.CountValuesBy(written, func(res Result) string { return res.Label })
}

// WithStatus returns the results with status s, in input order.
func (r *Report) WithStatus(s Status) []Result {
	return lo.Filter(r.Results, func(res Result, _ int) bool { return res.Status == s })
}
