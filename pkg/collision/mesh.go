// Package collision decides which placed mesh objects overlap each other
// when viewed from above. Every object is projected onto the XY plane; a
// cheap box pass discards object and triangle pairs that cannot touch and
// an exact edge test runs on whatever survives.
//
// The detector is stateless. Each call derives world-space geometry from
// the objects it is handed and returns a fresh Result.
package collision

import "github.com/chazu/platecheck/pkg/geom"

// MeshObject is a triangulated solid with a world transform. The detector
// only reads from it.
type MeshObject interface {
	// VertexCount returns the number of local-space vertices.
	VertexCount() int
	// Vertex returns the i-th local-space vertex.
	Vertex(i int) geom.Point3
	// TriangleCount returns the number of faces.
	TriangleCount() int
	// Face returns the vertex indices of the i-th face.
	Face(i int) [3]uint32
	// WorldTransform maps local-space vertices into the shared frame.
	WorldTransform() geom.Transform
}

// StaticMesh is a plain in-memory MeshObject.
type StaticMesh struct {
	Positions []geom.Point3
	Faces     [][3]uint32
	Transform geom.Transform
}

var _ MeshObject = (*StaticMesh)(nil)

// VertexCount implements MeshObject.
func (m *StaticMesh) VertexCount() int { return len(m.Positions) }

// Vertex implements MeshObject.
func (m *StaticMesh) Vertex(i int) geom.Point3 { return m.Positions[i] }

// TriangleCount implements MeshObject.
func (m *StaticMesh) TriangleCount() int { return len(m.Faces) }

// Face implements MeshObject.
func (m *StaticMesh) Face(i int) [3]uint32 { return m.Faces[i] }

// WorldTransform implements MeshObject. A zero Transform is treated as the
// identity.
func (m *StaticMesh) WorldTransform() geom.Transform { return m.Transform.OrIdentity() }
