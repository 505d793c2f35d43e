// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/chazu/zonelabel/pkg/geom"
	"github.com/chazu/zonelabel/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes resolution along the longest
// axis of a solid.
const DefaultMeshCells = 64

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max geom.Point3) {
	bb := s.s.BoundingBox()
	return bb.Min, bb.Max
}

// placedSDF evaluates a local-space SDF through a volume's inverse
// transform. Under non-uniform scale the value is not a true distance
// but its sign is, which is all marching cubes needs.
type placedSDF struct {
	local   sdf.SDF3
	inverse geom.Transform
	bounds  sdf.Box3
}

func (p *placedSDF) Evaluate(v v3.Vec) float64 {
	return p.local.Evaluate(geom.Apply(p.inverse, v))
}

func (p *placedSDF) BoundingBox() sdf.Box3 {
	return p.bounds
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a kernel meshing at DefaultMeshCells.
func New() *SdfxKernel {
	return &SdfxKernel{cells: DefaultMeshCells}
}

// NewWithCells returns a kernel meshing at the given resolution. Values
// below 1 select DefaultMeshCells.
func NewWithCells(cells int) *SdfxKernel {
	if cells < 1 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// Cells returns the meshing resolution.
func (k *SdfxKernel) Cells() int {
	return k.cells
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Volume places the volume's local box in the world. sdf.Box3D centers
// the box at the origin, so it is first shifted to the local center.
func (k *SdfxKernel) Volume(v geom.Volume) (kernel.Solid, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("sdfx: volume min exceeds max")
	}
	inv, err := geom.Invert(v.Transform)
	if err != nil {
		return nil, fmt.Errorf("sdfx: %w", err)
	}
	size := v.Box.Max.Sub(v.Box.Min)
	center := v.Box.Min.Add(size.MulScalar(0.5))
	box, err := sdf.Box3D(size, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %w", err)
	}
	local := sdf.Transform3D(box, sdf.Translate3d(center))
	return wrap(&placedSDF{local: local, inverse: inv, bounds: v.WorldBounds()}), nil
}

// Cube returns an axis-aligned cube centered on p.
func (k *SdfxKernel) Cube(p geom.Point3, edge float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: edge, Y: edge, Z: edge}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(sdf.Transform3D(s, sdf.Translate3d(p)))
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
