package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError describes a single problem found in a layout.
type ValidationError struct {
	Path    string // object path, e.g. "left/peg" or "objects[2]"; empty for layout-level
	Message string
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is the error returned by Build for an invalid layout.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "invalid layout: " + strings.Join(msgs, "; ")
}

// Validate checks the layout structure and returns every problem found.
// An empty slice means the layout can be built. Validate never mutates the
// layout.
func Validate(l *Layout) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateEnvelope(l)...)
	errs = append(errs, validateDetector(l)...)

	seen := make(map[string]bool)
	for i := range l.Objects {
		errs = append(errs, validateNode(&l.Objects[i], "", i, seen)...)
	}
	return errs
}

func validateEnvelope(l *Layout) []ValidationError {
	e := l.Envelope
	if e == nil {
		return nil
	}
	if e.Min[0] > e.Max[0] || e.Min[1] > e.Max[1] {
		return []ValidationError{{Message: fmt.Sprintf("envelope min %v exceeds max %v", e.Min, e.Max)}}
	}
	return nil
}

func validateDetector(l *Layout) []ValidationError {
	if l.Detector.Workers < 0 {
		return []ValidationError{{Message: fmt.Sprintf("detector workers must not be negative, got %d", l.Detector.Workers)}}
	}
	return nil
}

// ObjectPath returns the slash-separated name path of a node, falling back
// to its index for unnamed nodes.
func ObjectPath(parent string, n *Node, index int) string {
	name := n.Name
	if name == "" {
		name = "#" + strconv.Itoa(index)
	}
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func validateNode(n *Node, parent string, index int, seen map[string]bool) []ValidationError {
	var errs []ValidationError
	path := ObjectPath(parent, n, index)
	fail := func(format string, args ...any) {
		errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if n.Name != "" && strings.Contains(n.Name, "/") {
		fail("name must not contain '/'")
	}
	if seen[path] {
		fail("duplicate object path")
	}
	seen[path] = true

	switch kinds := n.shapeKinds(); {
	case kinds > 1:
		fail("node has %d shapes; use parts to combine primitives", kinds)
	case kinds == 0 && len(n.Children) == 0:
		fail("node has neither a shape nor children")
	}

	if err := validatePrimitive(&n.Primitive); err != "" {
		fail("%s", err)
	}
	for i := range n.Parts {
		p := &n.Parts[i]
		if p.kinds() != 1 {
			fail("part %d must have exactly one primitive, has %d", i, p.kinds())
			continue
		}
		if err := validatePrimitive(&p.Primitive); err != "" {
			fail("part %d: %s", i, err)
		}
	}

	if s := n.Scale; s != nil && (s[0] == 0 || s[1] == 0 || s[2] == 0) {
		fail("scale %v has a zero component", *s)
	}

	for i := range n.Children {
		errs = append(errs, validateNode(&n.Children[i], path, i, seen)...)
	}
	return errs
}

// validatePrimitive returns a message for the first invalid dimension.
func validatePrimitive(p *Primitive) string {
	if b := p.Box; b != nil && (b[0] <= 0 || b[1] <= 0 || b[2] <= 0) {
		return fmt.Sprintf("box dimensions %v must be positive", *b)
	}
	if c := p.Cylinder; c != nil && (c.Height <= 0 || c.Radius <= 0) {
		return fmt.Sprintf("cylinder height %g and radius %g must be positive", c.Height, c.Radius)
	}
	if s := p.Sphere; s != nil && s.Radius <= 0 {
		return fmt.Sprintf("sphere radius %g must be positive", s.Radius)
	}
	return ""
}
