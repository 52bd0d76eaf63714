package collision

import "github.com/chazu/platecheck/pkg/geom"

// Triangle is a world-space face with its planar bounding box computed at
// construction. Triangles are values; the box is never recomputed.
type Triangle struct {
	a, b, c geom.Point3
	box     geom.Box2
}

// NewTriangle builds a triangle and caches its box.
func NewTriangle(a, b, c geom.Point3) Triangle {
	return Triangle{
		a: a, b: b, c: c,
		box: geom.Box2FromPoints(a.XY(), b.XY(), c.XY()),
	}
}

// A returns the first vertex.
func (t Triangle) A() geom.Point3 { return t.a }

// B returns the second vertex.
func (t Triangle) B() geom.Point3 { return t.b }

// C returns the third vertex.
func (t Triangle) C() geom.Point3 { return t.c }

// Box returns the cached planar bounding box.
func (t Triangle) Box() geom.Box2 { return t.box }

// edges returns ab, bc and ca projected onto the plane.
func (t Triangle) edges() [3][2]geom.Point2 {
	a, b, c := t.a.XY(), t.b.XY(), t.c.XY()
	return [3][2]geom.Point2{{a, b}, {b, c}, {c, a}}
}

// TrianglePredicate decides whether two triangles overlap.
type TrianglePredicate func(t0, t1 Triangle) bool

// SegmentsIntersect reports whether segment p1p2 crosses segment p3p4.
//
// This is the planner's historical test and is approximate:
// parallel and collinear segments never intersect, and the crossing point
// of the two infinite lines is accepted when its x coordinate lies strictly
// between p1.X and p2.X, in that order. The y coordinate and the second
// segment's extent are not checked. See SegmentsCross for a complete test.
func SegmentsIntersect(p1, p2, p3, p4 geom.Point2) bool {
	x12 := p1.X - p2.X
	x34 := p3.X - p4.X
	y12 := p1.Y - p2.Y
	y34 := p3.Y - p4.Y
	c := x12*y34 - y12*x34
	if c == 0 {
		return false
	}
	a := p1.X*p2.Y - p1.Y*p2.X
	b := p3.X*p4.Y - p3.Y*p4.X
	x := (a*x34 - b*x12) / c
	return x > p1.X && x < p2.X
}

// TrianglesIntersect reports whether any of the nine edge pairs of t0 and
// t1 satisfies SegmentsIntersect. A triangle lying wholly inside the other
// is not detected.
func TrianglesIntersect(t0, t1 Triangle) bool {
	e0, e1 := t0.edges(), t1.edges()
	for _, s0 := range e0 {
		for _, s1 := range e1 {
			if SegmentsIntersect(s0[0], s0[1], s1[0], s1[1]) {
				return true
			}
		}
	}
	return false
}

// SegmentsCross reports whether the open segments p1p2 and p3p4 cross at a
// single interior point. Parallel and collinear segments do not cross, and
// neither do segments that only touch at an endpoint.
func SegmentsCross(p1, p2, p3, p4 geom.Point2) bool {
	r := p2.Sub(p1)
	s := p4.Sub(p3)
	denom := r.Cross(s)
	if denom == 0 {
		return false
	}
	q := p3.Sub(p1)
	t := q.Cross(s) / denom
	u := q.Cross(r) / denom
	return t > 0 && t < 1 && u > 0 && u < 1
}

// strictlyInside reports whether p lies in the interior of triangle abc.
// Degenerate triangles have no interior.
func strictlyInside(p, a, b, c geom.Point2) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	return (d1 > 0 && d2 > 0 && d3 > 0) || (d1 < 0 && d2 < 0 && d3 < 0)
}

// contains reports whether the interior of t holds the centroid or any
// vertex of o.
func (t Triangle) contains(o Triangle) bool {
	a, b, c := t.a.XY(), t.b.XY(), t.c.XY()
	oa, ob, oc := o.a.XY(), o.b.XY(), o.c.XY()
	centroid := oa.Add(ob).Add(oc).Scale(1.0 / 3.0)
	for _, p := range [4]geom.Point2{centroid, oa, ob, oc} {
		if strictlyInside(p, a, b, c) {
			return true
		}
	}
	return false
}

// TrianglesOverlap reports whether the interiors of t0 and t1 overlap: an
// edge of one crosses an edge of the other, or one triangle holds part of
// the other inside it. Triangles that only share boundary do not overlap.
// The result does not depend on argument order.
func TrianglesOverlap(t0, t1 Triangle) bool {
	e0, e1 := t0.edges(), t1.edges()
	for _, s0 := range e0 {
		for _, s1 := range e1 {
			if SegmentsCross(s0[0], s0[1], s1[0], s1[1]) {
				return true
			}
		}
	}
	return t0.contains(t1) || t1.contains(t0)
}
