package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/platecheck/pkg/collision"
	"github.com/chazu/platecheck/pkg/scene"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing layout values between builtins
// ---------------------------------------------------------------------------

// sexpVec3 wraps a scene.Vec3.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpShape is the geometry of an object before placement: a primitive, a
// model reference or a union of parts.
type sexpShape struct {
	prim  scene.Primitive
	model string
	parts []scene.Part
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	switch {
	case s.model != "":
		return fmt.Sprintf("(model %q)", s.model)
	case len(s.parts) > 0:
		return fmt.Sprintf("(union %d parts)", len(s.parts))
	case s.prim.Box != nil:
		return fmt.Sprintf("(box %g %g %g)", s.prim.Box[0], s.prim.Box[1], s.prim.Box[2])
	case s.prim.Cylinder != nil:
		return fmt.Sprintf("(cylinder :height %g :radius %g)", s.prim.Cylinder.Height, s.prim.Cylinder.Radius)
	case s.prim.Sphere != nil:
		return fmt.Sprintf("(sphere :radius %g)", s.prim.Sphere.Radius)
	}
	return "(shape)"
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

func (s *sexpShape) isPrimitive() bool {
	return s.model == "" && len(s.parts) == 0
}

// sexpPart is a primitive with an offset inside a union.
type sexpPart struct {
	part scene.Part
}

func (p *sexpPart) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(part :offset (vec3 %g %g %g))", p.part.Offset[0], p.part.Offset[1], p.part.Offset[2])
}
func (p *sexpPart) Type() *zygo.RegisteredType { return nil }

// sexpNode is a placed object or group.
type sexpNode struct {
	node scene.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	if n.node.HasShape() {
		return fmt.Sprintf("(object %q)", n.node.Name)
	}
	return fmt.Sprintf("(group %q %d children)", n.node.Name, len(n.node.Children))
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Layout accumulation
// ---------------------------------------------------------------------------

// layoutBuilder collects what a script declares. Every object or group
// that no group adopts becomes a top-level layout object, in declaration
// order.
type layoutBuilder struct {
	envelope *scene.Envelope
	detector scene.Detector
	nodes    []*sexpNode
	adopted  map[*sexpNode]bool
}

func newLayoutBuilder() *layoutBuilder {
	return &layoutBuilder{adopted: make(map[*sexpNode]bool)}
}

func (b *layoutBuilder) add(n *sexpNode) *sexpNode {
	b.nodes = append(b.nodes, n)
	return n
}

func (b *layoutBuilder) layout() *scene.Layout {
	l := &scene.Layout{Envelope: b.envelope, Detector: b.detector}
	for _, n := range b.nodes {
		if !b.adopted[n] {
			l.Objects = append(l.Objects, n.node)
		}
	}
	return l
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return scene.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toShape(s zygo.Sexp) (*sexpShape, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh, nil
	}
	return nil, fmt.Errorf("expected shape (box, cylinder, sphere, model or union), got %T (%s)", s, s.SexpString(nil))
}

func toNode(s zygo.Sexp) (*sexpNode, error) {
	if n, ok := s.(*sexpNode); ok {
		return n, nil
	}
	return nil, fmt.Errorf("expected object or group, got %T (%s)", s, s.SexpString(nil))
}

// toScale accepts a vec3 or a single number for uniform scaling.
func toScale(s zygo.Sexp) (scene.Vec3, error) {
	if f, err := toFloat64(s); err == nil {
		return scene.Vec3{f, f, f}, nil
	}
	return toVec3(s)
}

// numbers extracts exactly n positional numbers.
func numbers(fn string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d numbers, got %d arguments", fn, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// kwFloat reads an optional numeric keyword argument into dst.
func kwFloat(fn string, pa kwArgs, key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = f
	return nil
}

// applyPlacement reads :at, :rotate and :scale into n.
func applyPlacement(fn string, pa kwArgs, n *scene.Node) error {
	if v, ok := pa.kw["at"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("%s: at: %w", fn, err)
		}
		n.At = vec
	}
	if v, ok := pa.kw["rotate"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("%s: rotate: %w", fn, err)
		}
		n.Rotate = vec
	}
	if v, ok := pa.kw["scale"]; ok {
		vec, err := toScale(v)
		if err != nil {
			return fmt.Errorf("%s: scale: %w", fn, err)
		}
		n.Scale = &vec
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the layout builtins into a zygomys environment.
// Source must go through preprocessSource first so :keyword arguments are
// recognizable.
func registerBuiltins(env *zygo.Zlisp, b *layoutBuilder) {

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		xyz, err := numbers("vec3", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: scene.Vec3{xyz[0], xyz[1], xyz[2]}}, nil
	})

	// (envelope 220 220) or (envelope min-x min-y max-x max-y)
	env.AddFunction("envelope", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var e scene.Envelope
		switch len(args) {
		case 2:
			wh, err := numbers("envelope", args, 2)
			if err != nil {
				return zygo.SexpNull, err
			}
			e.Max = [2]float64{wh[0], wh[1]}
		case 4:
			c, err := numbers("envelope", args, 4)
			if err != nil {
				return zygo.SexpNull, err
			}
			e.Min = [2]float64{c[0], c[1]}
			e.Max = [2]float64{c[2], c[3]}
		default:
			return zygo.SexpNull, fmt.Errorf("envelope takes a size (2 numbers) or corners (4 numbers), got %d arguments", len(args))
		}
		b.envelope = &e
		return zygo.SexpNull, nil
	})

	// (detector :mode :exact :workers 4)
	env.AddFunction("detector", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if v, ok := pa.kw["mode"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("detector: mode: %w", err)
			}
			m, err := collision.ParseMode(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("detector: %w", err)
			}
			b.detector.Mode = &m
		}
		if v, ok := pa.kw["workers"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("detector: workers: %w", err)
			}
			b.detector.Workers = n
		}
		return zygo.SexpNull, nil
	})

	// (box 40 20 5)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		xyz, err := numbers("box", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{prim: scene.Primitive{Box: &scene.Vec3{xyz[0], xyz[1], xyz[2]}}}, nil
	})

	// (cylinder :height 20 :radius 4)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c := &scene.Cylinder{}
		if err := kwFloat("cylinder", pa, "height", &c.Height); err != nil {
			return zygo.SexpNull, err
		}
		if err := kwFloat("cylinder", pa, "radius", &c.Radius); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{prim: scene.Primitive{Cylinder: c}}, nil
	})

	// (sphere :radius 5) or (sphere 5)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s := &scene.Sphere{}
		if len(pa.positional) == 1 {
			r, err := toFloat64(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
			}
			s.Radius = r
		}
		if err := kwFloat("sphere", pa, "radius", &s.Radius); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{prim: scene.Primitive{Sphere: s}}, nil
	})

	// (model "models/clip.glb")
	env.AddFunction("model", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("model requires a source argument")
		}
		src, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("model: %w", err)
		}
		return &sexpShape{model: src}, nil
	})

	// (part (box 5 30 5) :offset (vec3 25 0 0))
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("part requires exactly one primitive")
		}
		sh, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: %w", err)
		}
		if !sh.isPrimitive() {
			return zygo.SexpNull, fmt.Errorf("part: %s is not a primitive", sh.SexpString(nil))
		}
		p := scene.Part{Primitive: sh.prim}
		if v, ok := pa.kw["offset"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part: offset: %w", err)
			}
			p.Offset = vec
		}
		return &sexpPart{part: p}, nil
	})

	// (union (part ...) (box ...) ...)
	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("union requires at least one part")
		}
		var parts []scene.Part
		for i, a := range args {
			switch v := a.(type) {
			case *sexpPart:
				parts = append(parts, v.part)
			case *sexpShape:
				if !v.isPrimitive() {
					return zygo.SexpNull, fmt.Errorf("union: argument %d: %s is not a primitive", i+1, v.SexpString(nil))
				}
				parts = append(parts, scene.Part{Primitive: v.prim})
			default:
				return zygo.SexpNull, fmt.Errorf("union: argument %d: expected part or primitive, got %T (%s)",
					i+1, a, a.SexpString(nil))
			}
		}
		return &sexpShape{parts: parts}, nil
	})

	// (object "name" shape :at (vec3 ...) :rotate (vec3 ...) :scale 2)
	env.AddFunction("object", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("object requires a name and a shape")
		}
		objName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("object: name: %w", err)
		}
		sh, err := toShape(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("object %q: %w", objName, err)
		}

		n := scene.Node{Name: objName, Primitive: sh.prim, Model: sh.model, Parts: sh.parts}
		if err := applyPlacement("object "+objName, pa, &n); err != nil {
			return zygo.SexpNull, err
		}
		return b.add(&sexpNode{node: n}), nil
	})

	// (group "name" :at (vec3 ...) (object ...) (object ...))
	// (group "name" (list a b))
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		groupName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}

		// Lists of children are spliced in, so (group "g" members) works
		// with a list built elsewhere in the script.
		var members []zygo.Sexp
		for _, a := range pa.positional[1:] {
			switch a.(type) {
			case *zygo.SexpPair, *zygo.SexpArray:
				items, err := sexpListToSlice(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("group %q: %w", groupName, err)
				}
				members = append(members, items...)
			default:
				members = append(members, a)
			}
		}

		n := scene.Node{Name: groupName}
		for i, a := range members {
			child, err := toNode(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group %q: child %d: %w", groupName, i+1, err)
			}
			b.adopted[child] = true
			n.Children = append(n.Children, child.node)
		}
		if err := applyPlacement("group "+groupName, pa, &n); err != nil {
			return zygo.SexpNull, err
		}
		return b.add(&sexpNode{node: n}), nil
	})
}
