// Package zone resolves a world point to the label of the first zone, in
// insertion order, whose oriented volume contains it.
package zone

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/scene"
	"github.com/dhconnelly/rtreego"
)

// DefaultPruneThreshold is the zone count at which the index starts
// pruning candidates with an R-tree. Below it a linear scan is cheaper.
const DefaultPruneThreshold = 16

// R-tree node fan-out.
const (
	treeMinChildren = 4
	treeMaxChildren = 16
)

// ErrEmptyLabel is returned for a zone without a label.
var ErrEmptyLabel = errors.New("zone label is empty")

// ErrInvalidBox is returned for a zone whose local min exceeds its max.
var ErrInvalidBox = errors.New("zone box min exceeds max")

// entry is one zone prepared for lookup. It implements rtreego.Spatial.
type entry struct {
	order  int
	label  string
	volume geom.PreparedVolume
	rect   rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

type options struct {
	pruneThreshold int
}

// Option configures an Index.
type Option func(*options)

// WithoutPruning forces a plain linear scan regardless of zone count.
func WithoutPruning() Option {
	return func(o *options) { o.pruneThreshold = math.MaxInt }
}

// WithPruneThreshold sets the zone count at which R-tree pruning kicks in.
// Values below 1 always prune.
func WithPruneThreshold(n int) Option {
	return func(o *options) { o.pruneThreshold = n }
}

// Index is an ordered, read-only collection of zones. It is safe for
// concurrent Classify calls once constructed.
type Index struct {
	entries []*entry
	tree    *rtreego.Rtree // nil when scanning linearly
	tol     float64        // query half-width used against the tree
}

// NewIndex prepares zones for lookup, preserving their order. Every zone
// transform is inverted here, so a degenerate zone fails construction
// before any point is classified; the returned error wraps
// *geom.DegenerateTransformError.
func NewIndex(zones []scene.Zone, opts ...Option) (*Index, error) {
	o := options{pruneThreshold: DefaultPruneThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	idx := &Index{entries: make([]*entry, 0, len(zones))}
	for i, z := range zones {
		if z.Label == "" {
			return nil, fmt.Errorf("zone[%d]: %w", i, ErrEmptyLabel)
		}
		if !z.Volume.Valid() {
			return nil, fmt.Errorf("zone[%d] %q: %w", i, z.Label, ErrInvalidBox)
		}
		pv, err := z.Volume.Prepare()
		if err != nil {
			return nil, fmt.Errorf("zone[%d] %q: %w", i, z.Label, err)
		}
		idx.entries = append(idx.entries, &entry{order: i, label: z.Label, volume: pv})
	}

	if len(idx.entries) > 0 && len(idx.entries) >= o.pruneThreshold {
		if err := idx.buildTree(zones); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// buildTree inserts padded world bounds of every zone into an R-tree.
// Padding keeps the bounds conservative so the exact test stays the only
// thing deciding containment.
func (idx *Index) buildTree(zones []scene.Zone) error {
	scale := 1.0
	bounds := make([][2]geom.Point3, len(zones))
	for i, z := range zones {
		bb := z.Volume.WorldBounds()
		bounds[i] = [2]geom.Point3{bb.Min, bb.Max}
		for _, v := range []float64{bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z} {
			scale = math.Max(scale, math.Abs(v))
		}
	}
	pad := scale * 1e-9
	idx.tol = pad

	idx.tree = rtreego.NewTree(3, treeMinChildren, treeMaxChildren)
	for i, e := range idx.entries {
		lo, hi := bounds[i][0], bounds[i][1]
		rect, err := rtreego.NewRect(
			rtreego.Point{lo.X - pad, lo.Y - pad, lo.Z - pad},
			[]float64{hi.X - lo.X + 2*pad, hi.Y - lo.Y + 2*pad, hi.Z - lo.Z + 2*pad},
		)
		if err != nil {
			return fmt.Errorf("zone[%d] %q: bounds: %w", e.order, e.label, err)
		}
		e.rect = rect
		idx.tree.Insert(e)
	}
	return nil
}

// Len returns the number of zones.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Pruned reports whether lookups go through the R-tree.
func (idx *Index) Pruned() bool {
	return idx.tree != nil
}

// Labels returns zone labels in insertion order.
func (idx *Index) Labels() []string {
	out := make([]string, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = e.label
	}
	return out
}

// Classify returns the label of the first zone in insertion order that
// contains p, or false when none does.
func (idx *Index) Classify(p geom.Point3) (string, bool) {
	i, ok := idx.Match(p)
	if !ok {
		return "", false
	}
	return idx.entries[i].label, true
}

// Match is Classify returning the zone's insertion position.
func (idx *Index) Match(p geom.Point3) (int, bool) {
	if idx.tree == nil {
		for _, e := range idx.entries {
			if e.volume.Contains(p) {
				return e.order, true
			}
		}
		return 0, false
	}

	q := rtreego.Point{p.X, p.Y, p.Z}.ToRect(idx.tol)
	hits := idx.tree.SearchIntersect(q)
	if len(hits) == 0 {
		return 0, false
	}
	candidates := make([]*entry, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, h.(*entry))
	}
	// The tree returns hits in no particular order; restore insertion
	// order so the earliest zone still wins under overlap.
	sort.Slice(candidates, func(a, b int) bool {
		return candidates[a].order < candidates[b].order
	})
	for _, e := range candidates {
		if e.volume.Contains(p) {
			return e.order, true
		}
	}
	return 0, false
}
