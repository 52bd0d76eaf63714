package collision

import "github.com/chazu/platecheck/pkg/geom"

// TriangleOutsideBox reports whether t is certainly clear of box: its
// cached box lies strictly left, right, above or below it. Only a true
// result can be trusted; false means the exact test still has to run.
func TriangleOutsideBox(t Triangle, box geom.Box2) bool {
	if box.IsEmpty() {
		return true
	}
	tb := t.Box()
	return tb.Max.X < box.Min.X ||
		tb.Min.X > box.Max.X ||
		tb.Max.Y < box.Min.Y ||
		tb.Min.Y > box.Max.Y
}

// BoxesIntersect reports whether two planar boxes overlap, touching
// included.
func BoxesIntersect(a, b geom.Box2) bool {
	return a.Intersects(b)
}
