package scene

import (
	"fmt"

	"github.com/chazu/zonelabel/pkg/geom"
)

// ValidationSeverity indicates whether a finding blocks classification or
// is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks classification
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Subject  string             // "zone[2] \"Bay-1\"", "element \"c-7\"", or empty
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Subject, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Subject string
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

func zoneSubject(i int, z Zone) string {
	return fmt.Sprintf("zone[%d] %q", i, z.Label)
}

func elementSubject(e Element) string {
	return fmt.Sprintf("element %q", e.ID)
}

// Validate runs the structural checks and returns blocking findings. An
// empty slice means a classification pass over s cannot fail. It never
// mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateZones(s)...)
	errs = append(errs, validateElements(s)...)
	return errs
}

// ValidateAll runs every tier and separates errors from warnings.
func ValidateAll(s *Scene) ValidationResult {
	var result ValidationResult
	result.Errors = Validate(s)
	result.Warnings = append(result.Warnings, warnZoneOverlaps(s)...)
	result.Warnings = append(result.Warnings, warnDuplicateLabels(s)...)
	result.Warnings = append(result.Warnings, warnMissingGeometry(s)...)
	return result
}

// validateZones checks labels, box ordering and transform invertibility.
func validateZones(s *Scene) []ValidationError {
	var errs []ValidationError
	for i, z := range s.Zones {
		if z.Label == "" {
			errs = append(errs, ValidationError{
				Subject:  zoneSubject(i, z),
				Message:  "zone label must not be empty",
				Severity: SeverityError,
			})
		}
		if !z.Volume.Valid() {
			errs = append(errs, ValidationError{
				Subject:  zoneSubject(i, z),
				Message:  fmt.Sprintf("box min %v exceeds max %v", z.Volume.Box.Min, z.Volume.Box.Max),
				Severity: SeverityError,
			})
		}
		if z.Volume.Transform.IsDegenerate() {
			errs = append(errs, ValidationError{
				Subject:  zoneSubject(i, z),
				Message:  fmt.Sprintf("transform is not invertible (determinant %g)", z.Volume.Transform.Determinant()),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateElements checks identity uniqueness and bounding-box transforms.
func validateElements(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[ElementID]bool, len(s.Elements))
	for _, e := range s.Elements {
		if e.ID == "" {
			errs = append(errs, ValidationError{
				Message:  "element with empty id",
				Severity: SeverityError,
			})
		} else if seen[e.ID] {
			errs = append(errs, ValidationError{
				Subject:  elementSubject(e),
				Message:  "duplicate element id",
				Severity: SeverityError,
			})
		}
		seen[e.ID] = true

		// Only a box that the resolver would actually use matters.
		g := e.Geometry
		if g.Point == nil && g.Curve == nil && g.Box != nil && g.Box.Transform.IsDegenerate() {
			errs = append(errs, ValidationError{
				Subject:  elementSubject(e),
				Message:  "bounding box transform is not invertible",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// warnZoneOverlaps flags zone pairs whose world bounds intersect. Overlap
// is legal; the earlier zone wins, but authors usually want to know.
func warnZoneOverlaps(s *Scene) []ValidationWarning {
	var warnings []ValidationWarning
	for i := 0; i < len(s.Zones); i++ {
		a := s.Zones[i].Volume.WorldBounds()
		for j := i + 1; j < len(s.Zones); j++ {
			b := s.Zones[j].Volume.WorldBounds()
			if boundsOverlap(a.Min, a.Max, b.Min, b.Max) {
				warnings = append(warnings, ValidationWarning{
					Subject: zoneSubject(j, s.Zones[j]),
					Message: fmt.Sprintf("may overlap %s, which takes precedence", zoneSubject(i, s.Zones[i])),
				})
			}
		}
	}
	return warnings
}

func boundsOverlap(aMin, aMax, bMin, bMax geom.Point3) bool {
	return aMin.X <= bMax.X && bMin.X <= aMax.X &&
		aMin.Y <= bMax.Y && bMin.Y <= aMax.Y &&
		aMin.Z <= bMax.Z && bMin.Z <= aMax.Z
}

func warnDuplicateLabels(s *Scene) []ValidationWarning {
	var warnings []ValidationWarning
	first := make(map[string]int)
	for i, z := range s.Zones {
		if z.Label == "" {
			continue
		}
		if j, ok := first[z.Label]; ok {
			warnings = append(warnings, ValidationWarning{
				Subject: zoneSubject(i, z),
				Message: fmt.Sprintf("label also used by zone[%d]", j),
			})
			continue
		}
		first[z.Label] = i
	}
	return warnings
}

// warnMissingGeometry flags elements that will be located at the world
// origin because they carry no geometry at all.
func warnMissingGeometry(s *Scene) []ValidationWarning {
	var warnings []ValidationWarning
	for _, e := range s.Elements {
		if e.Geometry.IsEmpty() {
			warnings = append(warnings, ValidationWarning{
				Subject: elementSubject(e),
				Message: "no location or bounding box; classified at the origin",
			})
		}
	}
	return warnings
}
