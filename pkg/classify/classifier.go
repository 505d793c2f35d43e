package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/resolve"
	"github.com/chazu/zonelabel/pkg/scene"
	"github.com/chazu/zonelabel/pkg/zone"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// minParallelBatch is the element count below which planning stays on
// the calling goroutine even when workers are configured.
const minParallelBatch = 256

// Options configures a Classifier.
type Options struct {
	// Workers bounds planning goroutines. Zero or one plans sequentially.
	Workers int
	// IndexOptions are passed to zone.NewIndex.
	IndexOptions []zone.Option
	// Logger receives per-pass and per-element events. Defaults to a
	// disabled logger.
	Logger *zerolog.Logger
}

// Classifier runs labeling passes. It holds no per-pass state and is safe
// for concurrent use.
type Classifier struct {
	workers  int
	indexOps []zone.Option
	log      zerolog.Logger
}

// New returns a Classifier configured by opts.
func New(opts Options) *Classifier {
	c := &Classifier{
		workers:  opts.Workers,
		indexOps: opts.IndexOptions,
		log:      zerolog.Nop(),
	}
	if opts.Logger != nil {
		c.log = *opts.Logger
	}
	return c
}

// Plan resolves and classifies every element without writing anything.
// The returned slice is parallel to elements. It fails with an error
// wrapping *geom.DegenerateTransformError when a zone transform, or the
// bounding-box transform an element is located by, cannot be inverted.
func (c *Classifier) Plan(ctx context.Context, elements []scene.Element, zones []scene.Zone) ([]Assignment, error) {
	idx, err := zone.NewIndex(zones, c.indexOps...)
	if err != nil {
		return nil, err
	}
	return c.plan(ctx, idx, elements)
}

func (c *Classifier) plan(ctx context.Context, idx *zone.Index, elements []scene.Element) ([]Assignment, error) {
	out := make([]Assignment, len(elements))

	if c.workers <= 1 || len(elements) < minParallelBatch {
		for i := range elements {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			a, err := assign(idx, elements[i])
			if err != nil {
				return nil, err
			}
			out[i] = a
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	chunk := (len(elements) + c.workers - 1) / c.workers
	for start := 0; start < len(elements); start += chunk {
		lo, hi := start, min(start+chunk, len(elements))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				a, err := assign(idx, elements[i])
				if err != nil {
					return err
				}
				out[i] = a
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// assign computes one element's representative point and zone.
func assign(idx *zone.Index, e scene.Element) (Assignment, error) {
	res := resolve.Resolve(e.Geometry)
	if res.Source == resolve.SourceBox && e.Geometry.Box.Transform.IsDegenerate() {
		return Assignment{}, fmt.Errorf("element %q: %w", e.ID,
			&geom.DegenerateTransformError{Determinant: e.Geometry.Box.Transform.Determinant()})
	}
	a := Assignment{
		ElementID: e.ID,
		Category:  e.Category,
		Point:     res.Point,
		Source:    res.Source,
	}
	a.Label, a.Labeled = idx.Classify(res.Point)
	return a, nil
}

// Run performs a full pass: plan, then apply labels through w in input
// order. On error nothing has been written. Empty inputs are not errors;
// they produce a report with zero counts.
func (c *Classifier) Run(ctx context.Context, elements []scene.Element, zones []scene.Zone, w Writer) (*Report, error) {
	runID := uuid.NewString()
	log := c.log.With().Str("run_id", runID).Logger()

	log.Debug().
		Int("elements", len(elements)).
		Int("zones", len(zones)).
		Int("workers", c.workers).
		Msg("classification pass starting")

	idx, err := zone.NewIndex(zones, c.indexOps...)
	if err != nil {
		log.Error().Err(err).Msg("zone index rejected")
		return nil, err
	}
	plan, err := c.plan(ctx, idx, elements)
	if err != nil {
		log.Error().Err(err).Msg("planning failed; nothing written")
		return nil, err
	}

	report := newReport(runID, len(elements))
	for i, a := range plan {
		report.record(apply(log, elements[i], a, w))
	}

	log.Info().
		Int("total", report.Total).
		Int("written", report.Written()).
		Int("unwritten", report.Unwritten()).
		Int("skipped", report.Skipped).
		Int("no_geometry", report.NoGeometry).
		Bool("pruned", idx.Pruned()).
		Msg("classification pass finished")

	return report, nil
}

func apply(log zerolog.Logger, e scene.Element, a Assignment, w Writer) Result {
	res := Result{Assignment: a}
	if !a.Labeled {
		res.Status = StatusUnwritten
		log.Debug().Str("element", string(e.ID)).Stringer("category", e.Category).Msg("outside every zone")
		return res
	}
	if !w.IsWritable(e) {
		res.Status = StatusSkipped
		log.Debug().Str("element", string(e.ID)).Str("label", a.Label).Msg("not writable; skipped")
		return res
	}
	if err := w.WriteLabel(e, a.Label); err != nil {
		res.Status = StatusSkipped
		ev := log.Warn()
		if errors.Is(err, ErrReadOnly) || errors.Is(err, ErrMissingField) {
			ev = log.Debug()
		}
		ev.Err(err).Str("element", string(e.ID)).Str("label", a.Label).Msg("write refused; skipped")
		return res
	}
	res.Status = StatusWritten
	log.Debug().Str("element", string(e.ID)).Str("label", a.Label).Msg("labeled")
	return res
}
