package kernel

import "github.com/chazu/platecheck/pkg/geom"

// Mesh is a triangle mesh in local (model) space.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which layout object this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns the i-th vertex.
func (m *Mesh) Vertex(i int) geom.Point3 {
	v := m.Vertices[i*3 : i*3+3]
	return geom.Point3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// Face returns the vertex indices of the i-th triangle.
func (m *Mesh) Face(i int) [3]uint32 {
	return [3]uint32{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// Bounds returns the local-space bounding box, empty for an empty mesh.
func (m *Mesh) Bounds() geom.Box3 {
	b := geom.EmptyBox3()
	for i := 0; i < m.VertexCount(); i++ {
		b = b.ExpandByPoint(m.Vertex(i))
	}
	return b
}

// Validate checks that the buffers are well formed: whole vertices and
// triangles, and every index in range.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return &MeshError{PartName: m.PartName, Reason: "vertex buffer length is not a multiple of 3"}
	}
	if len(m.Indices)%3 != 0 {
		return &MeshError{PartName: m.PartName, Reason: "index buffer length is not a multiple of 3"}
	}
	n := uint32(m.VertexCount())
	for _, idx := range m.Indices {
		if idx >= n {
			return &MeshError{PartName: m.PartName, Reason: "face index out of range"}
		}
	}
	return nil
}

// Append adds the geometry of o to m, rebasing o's indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, idx := range o.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

// MeshError reports a malformed mesh.
type MeshError struct {
	PartName string
	Reason   string
}

func (e *MeshError) Error() string {
	if e.PartName != "" {
		return "mesh " + e.PartName + ": " + e.Reason
	}
	return "mesh: " + e.Reason
}
