package kernel

import "testing"

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshVertexAndFace(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 2, 0, 1, 0, 3, 0},
		Indices:  []uint32{0, 1, 2},
	}
	if got := m.Vertex(1); got.X != 2 || got.Y != 0 || got.Z != 1 {
		t.Errorf("Vertex(1) = %v, want {2 0 1}", got)
	}
	if got := m.Face(0); got != [3]uint32{0, 1, 2} {
		t.Errorf("Face(0) = %v, want [0 1 2]", got)
	}
	b := m.Bounds()
	if b.Min.X != 0 || b.Max.X != 2 || b.Max.Y != 3 || b.Max.Z != 1 {
		t.Errorf("Bounds() = %+v", b)
	}
	if !(&Mesh{}).Bounds().IsEmpty() {
		t.Error("empty mesh should have empty bounds")
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name    string
		mesh    Mesh
		wantErr bool
	}{
		{"empty", Mesh{}, false},
		{"triangle", Mesh{Vertices: make([]float32, 9), Indices: []uint32{0, 1, 2}}, false},
		{"ragged vertices", Mesh{Vertices: make([]float32, 8)}, true},
		{"ragged indices", Mesh{Vertices: make([]float32, 9), Indices: []uint32{0, 1}}, true},
		{"index out of range", Mesh{Vertices: make([]float32, 9), Indices: []uint32{0, 1, 3}, PartName: "bad"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMeshAppend(t *testing.T) {
	a := &Mesh{Vertices: make([]float32, 9), Normals: make([]float32, 9), Indices: []uint32{0, 1, 2}}
	b := &Mesh{Vertices: make([]float32, 9), Normals: make([]float32, 9), Indices: []uint32{2, 1, 0}}
	a.Append(b)
	if a.VertexCount() != 6 || a.TriangleCount() != 2 {
		t.Fatalf("after Append: %d vertices, %d triangles", a.VertexCount(), a.TriangleCount())
	}
	if got := a.Face(1); got != [3]uint32{5, 4, 3} {
		t.Errorf("appended face = %v, want [5 4 3]", got)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) (Solid, error) {
	return &stubSolid{maxBB: [3]float64{x, y, z}}, nil
}

func (k *stubKernel) Cylinder(height, radius float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, 0},
		maxBB: [3]float64{radius, radius, height},
	}, nil
}

func (k *stubKernel) Sphere(radius float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, 0},
		maxBB: [3]float64{radius, radius, 2 * radius},
	}, nil
}

func (k *stubKernel) Union(a, _ Solid) Solid                   { return a }
func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(10, 20, 30)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("Box min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{10, 20, 30} {
		t.Errorf("Box max = %v, want [10 20 30]", max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, _ := k.Sphere(1)
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
