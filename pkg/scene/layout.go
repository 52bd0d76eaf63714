// Package scene describes a print-plate layout: the printable envelope,
// detector settings and a tree of placed objects. Layouts are written in
// YAML (or produced by the Lisp engine) and built into collision mesh
// objects with a geometry kernel.
package scene

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/chazu/platecheck/pkg/collision"
	"github.com/chazu/platecheck/pkg/geom"
)

// Vec3 is an (x, y, z) triple, written as a YAML sequence.
type Vec3 [3]float64

// Layout is a complete plate description.
type Layout struct {
	Envelope *Envelope `yaml:"envelope,omitempty"`
	Detector Detector  `yaml:"detector,omitempty"`
	Objects  []Node    `yaml:"objects"`
}

// Envelope is the printable XY area. A layout without one is unbounded.
type Envelope struct {
	Min [2]float64 `yaml:"min"`
	Max [2]float64 `yaml:"max"`
}

// Box returns the envelope as a box; nil means unbounded.
func (e *Envelope) Box() geom.Box2 {
	if e == nil {
		return geom.InfiniteBox2()
	}
	return geom.NewBox2(e.Min[0], e.Min[1], e.Max[0], e.Max[1])
}

// Detector holds layout-level detector preferences. Unset fields leave the
// caller's options alone.
type Detector struct {
	Mode    *collision.Mode `yaml:"mode,omitempty"`
	Workers int             `yaml:"workers,omitempty"`
}

// Apply overlays the layout's preferences on opts.
func (d Detector) Apply(opts collision.Options) collision.Options {
	if d.Mode != nil {
		opts.Mode = *d.Mode
	}
	if d.Workers > 0 {
		opts.Workers = d.Workers
	}
	return opts
}

// Primitive is one kernel shape. Exactly one field is set.
type Primitive struct {
	Box      *Vec3     `yaml:"box,omitempty"`
	Cylinder *Cylinder `yaml:"cylinder,omitempty"`
	Sphere   *Sphere   `yaml:"sphere,omitempty"`
}

// Cylinder is a Z-aligned cylinder standing on the plate.
type Cylinder struct {
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
}

// Sphere rests on the plate.
type Sphere struct {
	Radius float64 `yaml:"radius"`
}

// Part is a primitive offset within a composite object.
type Part struct {
	Primitive `yaml:",inline"`
	Offset    Vec3 `yaml:"offset,omitempty"`
}

// Node is a placed object or, when it carries no shape, a group whose
// transform applies to its children.
//
// A shape is a single primitive, a model file reference, or a list of
// parts unioned into one object.
type Node struct {
	Name      string `yaml:"name,omitempty"`
	Primitive `yaml:",inline"`
	Model     string `yaml:"model,omitempty"`
	Parts     []Part `yaml:"parts,omitempty"`

	At     Vec3  `yaml:"at,omitempty"`
	Rotate Vec3  `yaml:"rotate,omitempty"` // Euler degrees, X then Y then Z
	Scale  *Vec3 `yaml:"scale,omitempty"`

	Children []Node `yaml:"children,omitempty"`
}

// HasShape reports whether the node produces geometry of its own.
func (n *Node) HasShape() bool {
	return n.shapeKinds() > 0
}

func (n *Node) shapeKinds() int {
	k := n.Primitive.kinds()
	if n.Model != "" {
		k++
	}
	if len(n.Parts) > 0 {
		k++
	}
	return k
}

func (p *Primitive) kinds() int {
	k := 0
	if p.Box != nil {
		k++
	}
	if p.Cylinder != nil {
		k++
	}
	if p.Sphere != nil {
		k++
	}
	return k
}

// Local returns the node's transform relative to its parent: scale, then
// rotate, then translate.
func (n *Node) Local() geom.Transform {
	t := geom.Identity()
	if n.Scale != nil {
		t = geom.Scaling(n.Scale[0], n.Scale[1], n.Scale[2])
	}
	if n.Rotate != (Vec3{}) {
		t = t.Then(geom.RotationEuler(n.Rotate[0], n.Rotate[1], n.Rotate[2]))
	}
	if n.At != (Vec3{}) {
		t = t.Then(geom.Translation(n.At[0], n.At[1], n.At[2]))
	}
	return t
}

// Parse decodes a YAML layout. Unknown fields are rejected so typos in a
// layout do not silently drop objects.
func Parse(data []byte) (*Layout, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a YAML layout from r.
func Decode(r io.Reader) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		if errors.Is(err, io.EOF) {
			return &l, nil
		}
		return nil, errors.Wrap(err, "decode layout")
	}
	return &l, nil
}

// Load reads and parses a layout file.
func Load(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open layout")
	}
	defer f.Close()

	l, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "layout %s", path)
	}
	return l, nil
}
