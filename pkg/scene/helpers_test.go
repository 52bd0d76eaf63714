package scene

import (
	"context"

	"github.com/chazu/platecheck/pkg/kernel"
)

// boxSolid is an axis-aligned cuboid.
type boxSolid struct {
	min, max [3]float64
}

func (s *boxSolid) BoundingBox() (min, max [3]float64) { return s.min, s.max }

// cuboidKernel meshes every solid as its bounding box, which keeps layout
// tests exact and fast.
type cuboidKernel struct {
	meshed int
}

var _ kernel.Kernel = (*cuboidKernel)(nil)

func (k *cuboidKernel) Box(x, y, z float64) (kernel.Solid, error) {
	return &boxSolid{max: [3]float64{x, y, z}}, nil
}

func (k *cuboidKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	return &boxSolid{min: [3]float64{-radius, -radius, 0}, max: [3]float64{radius, radius, height}}, nil
}

func (k *cuboidKernel) Sphere(radius float64) (kernel.Solid, error) {
	return &boxSolid{min: [3]float64{-radius, -radius, 0}, max: [3]float64{radius, radius, 2 * radius}}, nil
}

func (k *cuboidKernel) Union(a, b kernel.Solid) kernel.Solid {
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	u := &boxSolid{}
	for i := 0; i < 3; i++ {
		u.min[i] = min(amin[i], bmin[i])
		u.max[i] = max(amax[i], bmax[i])
	}
	return u
}

func (k *cuboidKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	smin, smax := s.BoundingBox()
	d := [3]float64{x, y, z}
	t := &boxSolid{}
	for i := 0; i < 3; i++ {
		t.min[i] = smin[i] + d[i]
		t.max[i] = smax[i] + d[i]
	}
	return t
}

func (k *cuboidKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	k.meshed++
	lo, hi := s.BoundingBox()
	return cuboidMesh(lo, hi), nil
}

func cuboidMesh(lo, hi [3]float64) *kernel.Mesh {
	m := &kernel.Mesh{}
	for i := 0; i < 8; i++ {
		x, y, z := lo[0], lo[1], lo[2]
		if i&1 != 0 && i&2 == 0 || i&1 == 0 && i&2 != 0 {
			x = hi[0]
		}
		if i&2 != 0 {
			y = hi[1]
		}
		if i&4 != 0 {
			z = hi[2]
		}
		m.Vertices = append(m.Vertices, float32(x), float32(y), float32(z))
	}
	// Vertex order matches a unit cube: 0..3 bottom ring, 4..7 top ring.
	m.Indices = []uint32{
		0, 2, 1, 0, 3, 2,
		4, 5, 6, 4, 6, 7,
		0, 1, 5, 0, 5, 4,
		2, 3, 7, 2, 7, 6,
		1, 2, 6, 1, 6, 5,
		3, 0, 4, 3, 4, 7,
	}
	return m
}

// fakeModels serves fixed meshes by source name.
type fakeModels map[string]*kernel.Mesh

func (f fakeModels) Load(_ context.Context, src string) (*kernel.Mesh, error) {
	if m, ok := f[src]; ok {
		return m, nil
	}
	return nil, errNoModel
}

type modelError string

func (e modelError) Error() string { return string(e) }

const errNoModel = modelError("no such model")
