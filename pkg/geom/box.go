package geom

import "math"

// Box2 is an axis-aligned planar box. A box with Min > Max on any axis is
// empty; EmptyBox2 returns the canonical empty box.
type Box2 struct {
	Min, Max Point2
}

// NewBox2 returns the box spanning the given corners.
func NewBox2(minX, minY, maxX, maxY float64) Box2 {
	return Box2{Min: Point2{X: minX, Y: minY}, Max: Point2{X: maxX, Y: maxY}}
}

// EmptyBox2 returns a box that contains nothing. Expanding it by a point
// yields the degenerate box around that point.
func EmptyBox2() Box2 {
	inf := math.Inf(1)
	return Box2{Min: Point2{X: inf, Y: inf}, Max: Point2{X: -inf, Y: -inf}}
}

// InfiniteBox2 returns a box covering the whole plane.
func InfiniteBox2() Box2 {
	inf := math.Inf(1)
	return Box2{Min: Point2{X: -inf, Y: -inf}, Max: Point2{X: inf, Y: inf}}
}

// Box2FromPoints returns the smallest box containing all points.
func Box2FromPoints(points ...Point2) Box2 {
	b := EmptyBox2()
	for _, p := range points {
		b = b.ExpandByPoint(p)
	}
	return b
}

// IsEmpty reports whether b contains no points.
func (b Box2) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// ExpandByPoint returns b grown to include p.
func (b Box2) ExpandByPoint(p Point2) Box2 {
	return Box2{
		Min: Point2{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y)},
		Max: Point2{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y)},
	}
}

// Intersects reports whether b and o share at least one point. Boxes that
// only touch along an edge or corner intersect; empty boxes intersect
// nothing.
func (b Box2) Intersects(o Box2) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return !(o.Max.X < b.Min.X || o.Min.X > b.Max.X ||
		o.Max.Y < b.Min.Y || o.Min.Y > b.Max.Y)
}

// Intersect returns the overlap of b and o. The result is empty when they
// do not intersect.
func (b Box2) Intersect(o Box2) Box2 {
	r := Box2{
		Min: Point2{X: math.Max(b.Min.X, o.Min.X), Y: math.Max(b.Min.Y, o.Min.Y)},
		Max: Point2{X: math.Min(b.Max.X, o.Max.X), Y: math.Min(b.Max.Y, o.Max.Y)},
	}
	if r.IsEmpty() {
		return EmptyBox2()
	}
	return r
}

// Union returns the smallest box containing both b and o.
func (b Box2) Union(o Box2) Box2 {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return Box2{
		Min: Point2{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y)},
		Max: Point2{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y)},
	}
}

// ContainsBox reports whether o lies entirely inside b, boundaries
// included. The empty box is contained by every box.
func (b Box2) ContainsBox(o Box2) bool {
	if o.IsEmpty() {
		return true
	}
	return b.Min.X <= o.Min.X && o.Max.X <= b.Max.X &&
		b.Min.Y <= o.Min.Y && o.Max.Y <= b.Max.Y
}

// ContainsPoint reports whether p lies inside b, boundaries included.
func (b Box2) ContainsPoint(p Point2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Size returns the extent of b on each axis, zero for empty boxes.
func (b Box2) Size() Point2 {
	if b.IsEmpty() {
		return Point2{}
	}
	return b.Max.Sub(b.Min)
}

// Box3 is an axis-aligned spatial box.
type Box3 struct {
	Min, Max Point3
}

// EmptyBox3 returns a box that contains nothing.
func EmptyBox3() Box3 {
	inf := math.Inf(1)
	return Box3{Min: Point3{X: inf, Y: inf, Z: inf}, Max: Point3{X: -inf, Y: -inf, Z: -inf}}
}

// Box3FromPoints returns the smallest box containing all points.
func Box3FromPoints(points ...Point3) Box3 {
	b := EmptyBox3()
	for _, p := range points {
		b = b.ExpandByPoint(p)
	}
	return b
}

// IsEmpty reports whether b contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// ExpandByPoint returns b grown to include p.
func (b Box3) ExpandByPoint(p Point3) Box3 {
	return Box3{
		Min: Point3{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: Point3{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// XY projects b onto the plane. An empty box projects to an empty box.
func (b Box3) XY() Box2 {
	if b.IsEmpty() {
		return EmptyBox2()
	}
	return Box2{Min: b.Min.XY(), Max: b.Max.XY()}
}
