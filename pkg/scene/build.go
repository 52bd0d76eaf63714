package scene

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chazu/platecheck/pkg/collision"
	"github.com/chazu/platecheck/pkg/geom"
	"github.com/chazu/platecheck/pkg/kernel"
)

// ModelSource resolves model references to local-space meshes.
type ModelSource interface {
	Load(ctx context.Context, src string) (*kernel.Mesh, error)
}

// Object is a built, placed layout object. It implements
// collision.MeshObject.
type Object struct {
	Name      string // slash-separated path within the layout
	Mesh      *kernel.Mesh
	Transform geom.Transform
}

var _ collision.MeshObject = (*Object)(nil)

func (o *Object) VertexCount() int               { return o.Mesh.VertexCount() }
func (o *Object) Vertex(i int) geom.Point3       { return o.Mesh.Vertex(i) }
func (o *Object) TriangleCount() int             { return o.Mesh.TriangleCount() }
func (o *Object) Face(i int) [3]uint32           { return o.Mesh.Face(i) }
func (o *Object) WorldTransform() geom.Transform { return o.Transform }

// MeshObjects converts built objects for the detector.
func MeshObjects(objs []*Object) []collision.MeshObject {
	out := make([]collision.MeshObject, len(objs))
	for i, o := range objs {
		out[i] = o
	}
	return out
}

// transformStack accumulates world transforms during the layout walk.
type transformStack struct {
	frames []geom.Transform
}

func (ts *transformStack) push(local geom.Transform) {
	ts.frames = append(ts.frames, local.Then(ts.current()))
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

func (ts *transformStack) current() geom.Transform {
	if len(ts.frames) == 0 {
		return geom.Identity()
	}
	return ts.frames[len(ts.frames)-1]
}

// Builder turns layouts into placed mesh objects. Identical primitive shapes
// are tessellated once and shared between objects.
type Builder struct {
	Kernel kernel.Kernel
	Models ModelSource
	Logger *zap.Logger

	meshes map[string]*kernel.Mesh
}

// NewBuilder returns a builder. models may be nil when no layout object
// references a model file.
func NewBuilder(k kernel.Kernel, models ModelSource, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{Kernel: k, Models: models, Logger: log}
}

// Build validates the layout and produces one object per shaped node, in
// depth-first layout order. Groups contribute only their transform.
func (b *Builder) Build(ctx context.Context, l *Layout) ([]*Object, error) {
	if errs := Validate(l); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	if b.meshes == nil {
		b.meshes = make(map[string]*kernel.Mesh)
	}

	var objs []*Object
	ts := &transformStack{}
	for i := range l.Objects {
		collected, err := b.walk(ctx, &l.Objects[i], "", i, ts)
		if err != nil {
			return nil, err
		}
		objs = append(objs, collected...)
	}
	b.Logger.Debug("layout built", zap.Int("objects", len(objs)), zap.Int("unique_meshes", len(b.meshes)))
	return objs, nil
}

// Build is a convenience wrapper around a fresh Builder.
func Build(ctx context.Context, l *Layout, k kernel.Kernel, models ModelSource, log *zap.Logger) ([]*Object, error) {
	return NewBuilder(k, models, log).Build(ctx, l)
}

func (b *Builder) walk(ctx context.Context, n *Node, parent string, index int, ts *transformStack) ([]*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := ObjectPath(parent, n, index)

	ts.push(n.Local())
	defer ts.pop()

	var objs []*Object
	if n.HasShape() {
		mesh, err := b.mesh(ctx, n)
		if err != nil {
			return nil, errors.Wrapf(err, "object %s", path)
		}
		obj := &Object{Name: path, Mesh: mesh, Transform: ts.current()}
		b.Logger.Debug("object built",
			zap.String("object", path),
			zap.Int("triangles", mesh.TriangleCount()),
		)
		objs = append(objs, obj)
	}

	for i := range n.Children {
		collected, err := b.walk(ctx, &n.Children[i], path, i, ts)
		if err != nil {
			return nil, err
		}
		objs = append(objs, collected...)
	}
	return objs, nil
}

// mesh returns the local-space mesh for a shaped node.
func (b *Builder) mesh(ctx context.Context, n *Node) (*kernel.Mesh, error) {
	if n.Model != "" {
		if b.Models == nil {
			return nil, errors.Errorf("model %q referenced but no model source is configured", n.Model)
		}
		return b.Models.Load(ctx, n.Model)
	}

	key := shapeKey(n)
	if m, ok := b.meshes[key]; ok {
		return m, nil
	}

	solid, err := b.solid(n)
	if err != nil {
		return nil, err
	}
	m, err := b.Kernel.ToMesh(solid)
	if err != nil {
		return nil, errors.Wrap(err, "tessellate")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	b.meshes[key] = m
	return m, nil
}

func (b *Builder) solid(n *Node) (kernel.Solid, error) {
	if len(n.Parts) == 0 {
		return b.primitive(&n.Primitive)
	}
	var acc kernel.Solid
	for i := range n.Parts {
		p := &n.Parts[i]
		s, err := b.primitive(&p.Primitive)
		if err != nil {
			return nil, errors.Wrapf(err, "part %d", i)
		}
		if p.Offset != (Vec3{}) {
			s = b.Kernel.Translate(s, p.Offset[0], p.Offset[1], p.Offset[2])
		}
		if acc == nil {
			acc = s
		} else {
			acc = b.Kernel.Union(acc, s)
		}
	}
	return acc, nil
}

func (b *Builder) primitive(p *Primitive) (kernel.Solid, error) {
	switch {
	case p.Box != nil:
		return b.Kernel.Box(p.Box[0], p.Box[1], p.Box[2])
	case p.Cylinder != nil:
		return b.Kernel.Cylinder(p.Cylinder.Height, p.Cylinder.Radius)
	case p.Sphere != nil:
		return b.Kernel.Sphere(p.Sphere.Radius)
	}
	return nil, errors.New("no primitive")
}

// shapeKey identifies a primitive or composite shape for mesh sharing.
func shapeKey(n *Node) string {
	var sb strings.Builder
	writePrimitive(&sb, &n.Primitive)
	for _, p := range n.Parts {
		writePrimitive(&sb, &p.Primitive)
		fmt.Fprintf(&sb, "@%v;", p.Offset)
	}
	return sb.String()
}

func writePrimitive(sb *strings.Builder, p *Primitive) {
	switch {
	case p.Box != nil:
		fmt.Fprintf(sb, "box%v", *p.Box)
	case p.Cylinder != nil:
		fmt.Fprintf(sb, "cyl%g,%g", p.Cylinder.Height, p.Cylinder.Radius)
	case p.Sphere != nil:
		fmt.Fprintf(sb, "sph%g", p.Sphere.Radius)
	}
}
