// Package meshio loads triangle meshes from glTF 2.0 models (.gltf and .glb)
// into kernel meshes, flattening the node hierarchy of the default scene so
// every vertex is expressed in model space.
package meshio

import (
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/chazu/platecheck/pkg/geom"
	"github.com/chazu/platecheck/pkg/kernel"
)

// Open reads a glTF or GLB file and returns its flattened mesh.
func Open(path string) (*kernel.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open model %s", path)
	}
	m, err := FromDocument(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", path)
	}
	return m, nil
}

// Decode reads a self-contained model (GLB or glTF with embedded buffers).
func Decode(r io.Reader) (*kernel.Mesh, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrap(err, "decode model")
	}
	return FromDocument(doc)
}

// FromDocument flattens the triangle primitives of the document's default
// scene into a single mesh. Non-triangle primitives are skipped.
func FromDocument(doc *gltf.Document) (*kernel.Mesh, error) {
	if len(doc.Scenes) == 0 {
		return nil, errors.New("document has no scenes")
	}
	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = int(*doc.Scene)
	}
	if sceneIndex < 0 || sceneIndex >= len(doc.Scenes) {
		return nil, errors.Errorf("default scene %d out of range", sceneIndex)
	}

	out := &kernel.Mesh{}
	for _, ni := range doc.Scenes[sceneIndex].Nodes {
		node, err := nodeAt(doc, int(ni))
		if err != nil {
			return nil, errors.Wrapf(err, "scene %d", sceneIndex)
		}
		if err := appendNode(doc, node, geom.Identity(), out, 0); err != nil {
			return nil, err
		}
	}
	if out.IsEmpty() {
		return nil, errors.New("model contains no triangles")
	}
	return out, nil
}

// maxNodeDepth bounds recursion on malformed documents with cyclic children.
const maxNodeDepth = 64

func appendNode(doc *gltf.Document, node *gltf.Node, parent geom.Transform, out *kernel.Mesh, depth int) error {
	if depth > maxNodeDepth {
		return errors.Errorf("node %q: hierarchy deeper than %d", node.Name, maxNodeDepth)
	}
	world := localTransform(node).Then(parent)

	if node.Mesh != nil {
		mi := int(*node.Mesh)
		if mi < 0 || mi >= len(doc.Meshes) {
			return errors.Errorf("node %q: mesh %d out of range", node.Name, mi)
		}
		mesh := doc.Meshes[mi]
		for pi, prim := range mesh.Primitives {
			part, err := readPrimitive(doc, prim)
			if err != nil {
				return errors.Wrapf(err, "mesh %q primitive %d", mesh.Name, pi)
			}
			if part == nil {
				continue
			}
			out.Append(transformed(part, world))
		}
	}
	for _, ci := range node.Children {
		child, err := nodeAt(doc, int(ci))
		if err != nil {
			return errors.Wrapf(err, "node %q", node.Name)
		}
		if err := appendNode(doc, child, world, out, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func nodeAt(doc *gltf.Document, i int) (*gltf.Node, error) {
	if i < 0 || i >= len(doc.Nodes) {
		return nil, errors.Errorf("node %d out of range", i)
	}
	return doc.Nodes[i], nil
}

func accessorAt(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", i)
	}
	return doc.Accessors[i], nil
}

// localTransform returns the node's matrix, or its TRS properties when no
// explicit matrix is given. glTF stores both in single precision.
func localTransform(node *gltf.Node) geom.Transform {
	var m mgl64.Mat4
	for i, v := range node.MatrixOrDefault() {
		m[i] = float64(v)
	}
	if m != mgl64.Ident4() {
		return geom.FromMat4(m)
	}
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	q := mgl64.Quat{
		W: float64(r[3]),
		V: mgl64.Vec3{float64(r[0]), float64(r[1]), float64(r[2])},
	}.Normalize()
	trs := mgl64.Translate3D(float64(t[0]), float64(t[1]), float64(t[2])).
		Mul4(q.Mat4()).
		Mul4(mgl64.Scale3D(float64(s[0]), float64(s[1]), float64(s[2])))
	return geom.FromMat4(trs)
}

// readPrimitive returns nil for primitives that are not triangle lists.
func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*kernel.Mesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, nil
	}
	posIndex, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}

	posAcc, err := accessorAt(doc, int(posIndex))
	if err != nil {
		return nil, errors.Wrap(err, "POSITION")
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return nil, errors.Wrap(err, "read positions")
	}

	var indices []uint32
	if prim.Indices != nil {
		idxAcc, err := accessorAt(doc, int(*prim.Indices))
		if err != nil {
			return nil, errors.Wrap(err, "indices")
		}
		indices, err = modeler.ReadIndices(doc, idxAcc, nil)
		if err != nil {
			return nil, errors.Wrap(err, "read indices")
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, len(positions)*3),
		Indices:  indices,
	}
	for _, p := range positions {
		m.Vertices = append(m.Vertices, p[0], p[1], p[2])
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func transformed(m *kernel.Mesh, t geom.Transform) *kernel.Mesh {
	if t.ApproxEqual(geom.Identity(), 0) {
		return m
	}
	out := &kernel.Mesh{
		Vertices: make([]float32, 0, len(m.Vertices)),
		Indices:  m.Indices,
	}
	for i := 0; i < m.VertexCount(); i++ {
		p := t.Apply(m.Vertex(i))
		out.Vertices = append(out.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return out
}
