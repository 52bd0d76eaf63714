// Package geom holds the small set of geometric primitives the collision
// detector works with: planar and spatial points, axis-aligned boxes and
// affine transforms. Matrix math is delegated to mathgl's mgl64 package;
// box semantics are implemented here so they stay fixed regardless of the
// matrix library.
package geom

import "github.com/go-gl/mathgl/mgl64"

// Point2 is a planar coordinate.
type Point2 struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point2) Sub(q Point2) Point2 {
	return Point2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point2) Add(q Point2) Point2 {
	return Point2{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale returns p scaled by s.
func (p Point2) Scale(s float64) Point2 {
	return Point2{X: p.X * s, Y: p.Y * s}
}

// Cross returns the z component of the 3D cross product of p and q.
func (p Point2) Cross(q Point2) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Point3 is a spatial coordinate. The detector only reads X and Y; Z is
// carried through transforms.
type Point3 struct {
	X, Y, Z float64
}

// XY drops the Z component.
func (p Point3) XY() Point2 {
	return Point2{X: p.X, Y: p.Y}
}

// Vec converts p to an mgl64 vector.
func (p Point3) Vec() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// FromVec converts an mgl64 vector to a Point3.
func FromVec(v mgl64.Vec3) Point3 {
	return Point3{X: v[0], Y: v[1], Z: v[2]}
}
