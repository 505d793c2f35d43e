package scene

import (
	"fmt"
	"strings"
)

// Category is the closed set of element categories the classifier knows.
// Mapping host-specific category identifiers into this set is the host
// integration's job.
type Category int

const (
	CategoryOther          Category = iota // anything not tracked
	CategoryLinearConduit                  // conduit runs
	CategoryConduitFitting                 // elbows, couplings, boxes on a run
	CategoryPointFixture                   // electrical fixtures
)

// TrackedCategories are the categories counted in a report, in report order.
var TrackedCategories = []Category{
	CategoryLinearConduit,
	CategoryConduitFitting,
	CategoryPointFixture,
}

func (c Category) String() string {
	switch c {
	case CategoryLinearConduit:
		return "linear-conduit"
	case CategoryConduitFitting:
		return "conduit-fitting"
	case CategoryPointFixture:
		return "point-fixture"
	case CategoryOther:
		return "other"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Tracked reports whether c is counted in reports.
func (c Category) Tracked() bool {
	switch c {
	case CategoryLinearConduit, CategoryConduitFitting, CategoryPointFixture:
		return true
	}
	return false
}

// ParseCategory accepts the canonical names plus the host's plural names
// ("Conduits", "Conduit Fittings", "Electrical Fixtures"). Matching is
// case-insensitive; spaces and underscores are treated as hyphens.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	switch norm {
	case "linear-conduit", "conduit", "conduits":
		return CategoryLinearConduit, nil
	case "conduit-fitting", "conduit-fittings", "fitting", "fittings":
		return CategoryConduitFitting, nil
	case "point-fixture", "fixture", "fixtures", "electrical-fixture", "electrical-fixtures":
		return CategoryPointFixture, nil
	case "other":
		return CategoryOther, nil
	}
	return CategoryOther, fmt.Errorf("unknown category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
