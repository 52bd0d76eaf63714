package collision

import (
	"github.com/chazu/platecheck/pkg/geom"
)

// square returns an axis-aligned square of the given size with its lower
// left corner at (x, y), split along its rising diagonal.
func square(x, y, size float64) *StaticMesh {
	return &StaticMesh{
		Positions: []geom.Point3{
			{X: x, Y: y},
			{X: x + size, Y: y},
			{X: x + size, Y: y + size},
			{X: x, Y: y + size},
		},
		Faces:     [][3]uint32{{0, 1, 2}, {0, 2, 3}},
		Transform: geom.Identity(),
	}
}

// unitCube returns a closed unit cube in local space placed by xf.
func unitCube(xf geom.Transform) *StaticMesh {
	return &StaticMesh{
		Positions: []geom.Point3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Faces: [][3]uint32{
			{0, 2, 1}, {0, 3, 2}, // bottom
			{4, 5, 6}, {4, 6, 7}, // top
			{0, 1, 5}, {0, 5, 4}, // front
			{2, 3, 7}, {2, 7, 6}, // back
			{1, 2, 6}, {1, 6, 5}, // right
			{3, 0, 4}, {3, 4, 7}, // left
		},
		Transform: xf,
	}
}

func objects(ms ...*StaticMesh) []MeshObject {
	out := make([]MeshObject, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

func pt(x, y float64) geom.Point2 {
	return geom.Point2{X: x, Y: y}
}

func tri(ax, ay, bx, by, cx, cy float64) Triangle {
	return NewTriangle(
		geom.Point3{X: ax, Y: ay},
		geom.Point3{X: bx, Y: by},
		geom.Point3{X: cx, Y: cy},
	)
}
