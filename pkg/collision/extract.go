package collision

import "github.com/chazu/platecheck/pkg/geom"

// ExtractTriangles returns the world-space triangles of obj that might
// touch region. Triangles certainly outside region are dropped; pass
// geom.InfiniteBox2 to keep every face.
func ExtractTriangles(obj MeshObject, region geom.Box2) []Triangle {
	return newWorldGeometry(obj).triangles(region)
}

// worldGeometry is an object's vertices moved into world space once, so
// that repeated extractions against different regions do not re-apply the
// transform.
type worldGeometry struct {
	vertices []geom.Point3
	faces    [][3]uint32
	box      geom.Box2
}

func newWorldGeometry(obj MeshObject) *worldGeometry {
	xf := obj.WorldTransform()
	n := obj.VertexCount()
	g := &worldGeometry{
		vertices: make([]geom.Point3, n),
		faces:    make([][3]uint32, obj.TriangleCount()),
	}
	b3 := geom.EmptyBox3()
	for i := 0; i < n; i++ {
		v := xf.Apply(obj.Vertex(i))
		g.vertices[i] = v
		b3 = b3.ExpandByPoint(v)
	}
	for i := range g.faces {
		g.faces[i] = obj.Face(i)
	}
	g.box = b3.XY()
	return g
}

// empty reports whether the object has no vertices at all.
func (g *worldGeometry) empty() bool {
	return len(g.vertices) == 0
}

func (g *worldGeometry) triangles(region geom.Box2) []Triangle {
	out := make([]Triangle, 0, len(g.faces))
	for _, f := range g.faces {
		t := NewTriangle(g.vertices[f[0]], g.vertices[f[1]], g.vertices[f[2]])
		if TriangleOutsideBox(t, region) {
			continue
		}
		out = append(out, t)
	}
	return out
}
