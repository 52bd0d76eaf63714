// Package kernel defines the abstract geometry kernel used to turn layout
// primitives into triangle meshes. Implementations (sdfx) provide solid
// modeling behind this interface so the layout code never depends on a
// particular CAD backend.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
//
// Primitive placement conventions: a box has its minimum corner at the
// origin; cylinders and spheres are centered on the Z axis and rest on the
// z=0 plane. Placement on the plate is the caller's world transform, not a
// kernel operation.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Composition of several primitives into one printable object.
	Union(a, b Solid) Solid
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
