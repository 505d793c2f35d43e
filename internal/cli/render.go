package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chazu/zonelabel/pkg/classify"
	"github.com/chazu/zonelabel/pkg/host"
	"github.com/chazu/zonelabel/pkg/scene"
)

// reportView is a classification report as the CLI presents it.
type reportView struct {
	RunID        string            `json:"run_id"`
	Phase        string            `json:"phase"`
	Param        string            `json:"param"`
	ZoneCategory string            `json:"zone_category"`
	DryRun       bool              `json:"dry_run"`
	Total        int               `json:"total"`
	Written      map[string]int    `json:"written"`
	Unwritten    map[string]int    `json:"unwritten"`
	Skipped      int               `json:"skipped"`
	NoGeometry   int               `json:"no_geometry"`
	ByLabel      map[string]int    `json:"by_label"`
	Results      []classify.Result `json:"results,omitempty"`

	report *classify.Report
}

func newReportView(r *classify.Report, phase, param, zoneCategory string, dryRun bool) reportView {
	v := reportView{
		RunID:        r.RunID,
		Phase:        phase,
		Param:        param,
		ZoneCategory: zoneCategory,
		DryRun:       dryRun,
		Total:        r.Total,
		Written:      make(map[string]int, len(scene.TrackedCategories)),
		Unwritten:    make(map[string]int, len(scene.TrackedCategories)),
		Skipped:      r.Skipped,
		NoGeometry:   r.NoGeometry,
		ByLabel:      r.ByLabel(),
		report:       r,
	}
	for _, c := range scene.TrackedCategories {
		t := r.Tally(c)
		v.Written[c.String()] = t.Written
		v.Unwritten[c.String()] = t.Unwritten
	}
	return v
}

// renderText writes the summary in the layout of the host's report
// dialog, followed by optional extras.
func renderText(w io.Writer, v reportView, withResults bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Phase '%s': %d elements\n\n", v.Phase, v.Total)

	fmt.Fprintf(&b, "Written to '%s':\n", v.Param)
	for _, c := range scene.TrackedCategories {
		fmt.Fprintf(&b, "  %s: %d\n", host.CategoryName(c), v.Written[c.String()])
	}
	fmt.Fprintf(&b, "\nUnwritten (outside any %s):\n", singular(v.ZoneCategory))
	for _, c := range scene.TrackedCategories {
		fmt.Fprintf(&b, "  %s: %d\n", host.CategoryName(c), v.Unwritten[c.String()])
	}

	if v.Skipped > 0 {
		fmt.Fprintf(&b, "\nSkipped (no writable '%s'): %d\n", v.Param, v.Skipped)
	}
	if v.NoGeometry > 0 {
		fmt.Fprintf(&b, "Located at the origin (no geometry): %d\n", v.NoGeometry)
	}

	if len(v.ByLabel) > 0 {
		labels := make([]string, 0, len(v.ByLabel))
		for l := range v.ByLabel {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		fmt.Fprintf(&b, "\nBy %s:\n", singular(v.ZoneCategory))
		for _, l := range labels {
			fmt.Fprintf(&b, "  %s: %d\n", l, v.ByLabel[l])
		}
	}

	if withResults {
		b.WriteString("\nElements:\n")
		for _, res := range v.report.Results {
			label := res.Label
			if !res.Labeled {
				label = "-"
			}
			fmt.Fprintf(&b, "  %-20s %-16s %-10s %s\n", res.ElementID, res.Category, res.Status, label)
		}
	}

	if v.DryRun {
		b.WriteString("\nDry run: no changes committed.\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderJSON(w io.Writer, v reportView, withResults bool) error {
	if withResults {
		v.Results = v.report.Results
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// singular turns "Scope Boxes" into "Scope Box" for prose.
func singular(category string) string {
	switch {
	case strings.HasSuffix(category, "xes"), strings.HasSuffix(category, "ses"):
		return strings.TrimSuffix(category, "es")
	case strings.HasSuffix(category, "s"):
		return strings.TrimSuffix(category, "s")
	}
	return category
}
