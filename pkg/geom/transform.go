package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is an affine world transform stored as a column-major 4x4
// matrix.
type Transform struct {
	m mgl64.Mat4
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{m: mgl64.Ident4()}
}

// FromMat4 wraps an affine 4x4 matrix.
func FromMat4(m mgl64.Mat4) Transform {
	return Transform{m: m}
}

// FromMat3 embeds a planar 3x3 affine matrix (rotation/scale in the upper
// 2x2 block, translation in the last column) into a spatial transform that
// leaves Z unchanged.
func FromMat3(m mgl64.Mat3) Transform {
	return Transform{m: mgl64.Mat4{
		m[0], m[1], 0, 0,
		m[3], m[4], 0, 0,
		0, 0, 1, 0,
		m[6], m[7], 0, 1,
	}}
}

// Translation returns a pure translation.
func Translation(x, y, z float64) Transform {
	return Transform{m: mgl64.Translate3D(x, y, z)}
}

// Scaling returns a pure axis-aligned scale.
func Scaling(x, y, z float64) Transform {
	return Transform{m: mgl64.Scale3D(x, y, z)}
}

// RotationEuler returns the rotation about X, then Y, then Z, with angles
// in degrees.
func RotationEuler(xDeg, yDeg, zDeg float64) Transform {
	rx := mgl64.HomogRotate3DX(mgl64.DegToRad(xDeg))
	ry := mgl64.HomogRotate3DY(mgl64.DegToRad(yDeg))
	rz := mgl64.HomogRotate3DZ(mgl64.DegToRad(zDeg))
	return Transform{m: rz.Mul4(ry).Mul4(rx)}
}

// Mat4 returns the underlying matrix.
func (t Transform) Mat4() mgl64.Mat4 {
	return t.m
}

// Then returns the transform that applies t first and next afterwards.
func (t Transform) Then(next Transform) Transform {
	return Transform{m: next.m.Mul4(t.m)}
}

// Mul returns t * o, i.e. o is applied first.
func (t Transform) Mul(o Transform) Transform {
	return Transform{m: t.m.Mul4(o.m)}
}

// Apply maps p through the transform.
func (t Transform) Apply(p Point3) Point3 {
	return FromVec(mgl64.TransformCoordinate(p.Vec(), t.m))
}

// IsZero reports whether t is the zero matrix, which is what an
// uninitialised Transform holds.
func (t Transform) IsZero() bool {
	return t.m == mgl64.Mat4{}
}

// OrIdentity returns t, or the identity when t is the zero value.
func (t Transform) OrIdentity() Transform {
	if t.IsZero() {
		return Identity()
	}
	return t
}

// ApproxEqual reports whether every matrix entry of t and o is within eps.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	for i := range t.m {
		if math.Abs(t.m[i]-o.m[i]) > eps {
			return false
		}
	}
	return true
}
