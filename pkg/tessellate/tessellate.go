// Package tessellate turns a scene into preview triangle meshes using a
// geometry kernel: one mesh per zone, plus an optional small marker cube
// at each element's representative point.
package tessellate

import (
	"context"
	"fmt"

	"github.com/chazu/zonelabel/pkg/kernel"
	"github.com/chazu/zonelabel/pkg/resolve"
	"github.com/chazu/zonelabel/pkg/scene"
	"golang.org/x/sync/errgroup"
)

const (
	KindZone    = "zone"
	KindElement = "element"
)

// DefaultMarkerEdge is the edge length of an element marker cube.
const DefaultMarkerEdge = 0.5

// Options controls what is meshed.
type Options struct {
	// Elements adds a marker per element with geometry. Elements that
	// fall back to the origin get no marker.
	Elements bool
	// MarkerEdge is the marker cube edge; 0 selects DefaultMarkerEdge.
	MarkerEdge float64
	// Workers bounds concurrent meshing; values below 2 mesh serially.
	Workers int
}

type job struct {
	label string
	kind  string
	build func() (kernel.Solid, error)
}

// Tessellate meshes s with k. Output order is zones in scene order, then
// element markers in scene order, regardless of Workers. The scene is
// never mutated. A zone whose transform cannot be inverted fails the
// whole call.
func Tessellate(ctx context.Context, s *scene.Scene, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}
	edge := opts.MarkerEdge
	if edge <= 0 {
		edge = DefaultMarkerEdge
	}

	var jobs []job
	for i, z := range s.Zones {
		vol := z.Volume
		jobs = append(jobs, job{
			label: z.Label,
			kind:  KindZone,
			build: func() (kernel.Solid, error) {
				solid, err := k.Volume(vol)
				if err != nil {
					return nil, fmt.Errorf("zone[%d] %q: %w", i, z.Label, err)
				}
				return solid, nil
			},
		})
	}
	if opts.Elements {
		for _, e := range s.Elements {
			res := resolve.Resolve(e.Geometry)
			if res.Source == resolve.SourceNone {
				continue
			}
			jobs = append(jobs, job{
				label: string(e.ID),
				kind:  KindElement,
				build: func() (kernel.Solid, error) {
					return k.Cube(res.Point, edge), nil
				},
			})
		}
	}

	out := make([]*kernel.Mesh, len(jobs))
	run := func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		solid, err := jobs[i].build()
		if err != nil {
			return err
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return fmt.Errorf("tessellate: ToMesh failed for %s %q: %w", jobs[i].kind, jobs[i].label, err)
		}
		mesh.Label = jobs[i].label
		mesh.Kind = jobs[i].kind
		out[i] = mesh
		return nil
	}

	if opts.Workers < 2 {
		for i := range jobs {
			if err := run(ctx, i); err != nil {
				return nil, fmt.Errorf("tessellate: %w", err)
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range jobs {
		g.Go(func() error { return run(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	return out, nil
}
