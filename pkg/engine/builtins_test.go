package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/platecheck/pkg/collision"
	"github.com/chazu/platecheck/pkg/scene"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :radius 5)`,
			expect: `(sphere "__kw_radius" 5)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cylinder :height 20 :radius 4)`,
			expect: `(cylinder "__kw_height" 20 "__kw_radius" 4)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `(model "a\":b") :at`,
			expect: `(model "a\":b") "__kw_at"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def peg-height 20)`,
			expect: `(def peg_height 20)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:mesh-cells`,
			expect: `"__kw_mesh-cells"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// evalLayout evaluates source and fails the test on any error.
func evalLayout(t *testing.T, source string) *scene.Layout {
	t.Helper()
	l, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if l == nil {
		t.Fatal("expected non-nil layout")
	}
	return l
}

// evalFails evaluates source and returns the joined eval error messages.
func evalFails(t *testing.T, source string) string {
	t.Helper()
	l, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if l != nil {
		t.Fatalf("expected nil layout, got %+v", l)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	msgs := make([]string, len(evalErrs))
	for i, e := range evalErrs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "\n")
}

// ---------------------------------------------------------------------------
// Shapes
// ---------------------------------------------------------------------------

func TestSimpleObject(t *testing.T) {
	l := evalLayout(t, `(object "base" (box 40 20 5) :at (vec3 10 10 0))`)

	if len(l.Objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(l.Objects))
	}
	n := l.Objects[0]
	if n.Name != "base" {
		t.Errorf("name = %q, want %q", n.Name, "base")
	}
	if n.Box == nil || *n.Box != (scene.Vec3{40, 20, 5}) {
		t.Errorf("box = %v, want [40 20 5]", n.Box)
	}
	if n.At != (scene.Vec3{10, 10, 0}) {
		t.Errorf("at = %v, want [10 10 0]", n.At)
	}
	if n.Scale != nil {
		t.Errorf("scale = %v, want nil", n.Scale)
	}
}

func TestPrimitives(t *testing.T) {
	l := evalLayout(t, `
(object "peg" (cylinder :height 20 :radius 4))
(object "ball" (sphere 5))
(object "ball2" (sphere :radius 2.5))
(object "clip" (model "models/clip.glb"))
`)
	if len(l.Objects) != 4 {
		t.Fatalf("expected 4 objects, got %d", len(l.Objects))
	}
	if c := l.Objects[0].Cylinder; c == nil || c.Height != 20 || c.Radius != 4 {
		t.Errorf("cylinder = %+v", c)
	}
	if s := l.Objects[1].Sphere; s == nil || s.Radius != 5 {
		t.Errorf("sphere = %+v", s)
	}
	if s := l.Objects[2].Sphere; s == nil || s.Radius != 2.5 {
		t.Errorf("sphere = %+v", s)
	}
	if m := l.Objects[3].Model; m != "models/clip.glb" {
		t.Errorf("model = %q", m)
	}
}

func TestVariableReference(t *testing.T) {
	l := evalLayout(t, `
(def w 40)
(def peg-height (* 2 10))
(object "base" (box w 20 5))
(object "peg" (cylinder :height peg-height :radius 4))
`)
	if got := l.Objects[0].Box; got == nil || got[0] != 40 {
		t.Errorf("box = %v, want width 40", got)
	}
	if got := l.Objects[1].Cylinder; got == nil || got.Height != 20 {
		t.Errorf("cylinder = %+v, want height 20", got)
	}
}

func TestUnionAndParts(t *testing.T) {
	l := evalLayout(t, `
(object "bracket"
  (union
    (box 30 5 5)
    (part (box 5 30 5) :offset (vec3 25 0 0))))
`)
	parts := l.Objects[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if parts[0].Box == nil || parts[0].Offset != (scene.Vec3{}) {
		t.Errorf("part 0 = %+v", parts[0])
	}
	if parts[1].Box == nil || parts[1].Offset != (scene.Vec3{25, 0, 0}) {
		t.Errorf("part 1 = %+v", parts[1])
	}
}

func TestPlacementScale(t *testing.T) {
	l := evalLayout(t, `
(object "a" (box 1 1 1) :scale 2 :rotate (vec3 0 0 90))
(object "b" (box 1 1 1) :scale (vec3 1 2 3))
`)
	if s := l.Objects[0].Scale; s == nil || *s != (scene.Vec3{2, 2, 2}) {
		t.Errorf("uniform scale = %v", s)
	}
	if r := l.Objects[0].Rotate; r != (scene.Vec3{0, 0, 90}) {
		t.Errorf("rotate = %v", r)
	}
	if s := l.Objects[1].Scale; s == nil || *s != (scene.Vec3{1, 2, 3}) {
		t.Errorf("vector scale = %v", s)
	}
}

// ---------------------------------------------------------------------------
// Groups
// ---------------------------------------------------------------------------

func TestGroupAdoptsChildren(t *testing.T) {
	l := evalLayout(t, `
(object "base" (box 40 20 5))
(group "left" :at (vec3 100 0 0)
  (object "peg" (cylinder :height 20 :radius 4))
  (group "inner"
    (object "ball" (sphere 5))))
`)
	if len(l.Objects) != 2 {
		t.Fatalf("expected 2 top-level objects, got %d", len(l.Objects))
	}
	g := l.Objects[1]
	if g.Name != "left" || g.At != (scene.Vec3{100, 0, 0}) {
		t.Errorf("group = %q at %v", g.Name, g.At)
	}
	if len(g.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(g.Children))
	}
	if g.Children[0].Name != "peg" || g.Children[1].Name != "inner" {
		t.Errorf("children = %q, %q", g.Children[0].Name, g.Children[1].Name)
	}
	if inner := g.Children[1]; len(inner.Children) != 1 || inner.Children[0].Name != "ball" {
		t.Errorf("inner children = %+v", inner.Children)
	}
}

func TestGroupFromList(t *testing.T) {
	l := evalLayout(t, `
(def a (object "a" (box 1 1 1)))
(def b (object "b" (box 1 1 1) :at (vec3 5 0 0)))
(group "pair" (list a b))
`)
	if len(l.Objects) != 1 {
		t.Fatalf("expected 1 top-level object, got %d", len(l.Objects))
	}
	if got := len(l.Objects[0].Children); got != 2 {
		t.Fatalf("expected 2 children, got %d", got)
	}
}

// ---------------------------------------------------------------------------
// Envelope and detector
// ---------------------------------------------------------------------------

func TestEnvelope(t *testing.T) {
	l := evalLayout(t, `(envelope 220 200)`)
	if l.Envelope == nil {
		t.Fatal("expected envelope")
	}
	if l.Envelope.Min != [2]float64{0, 0} || l.Envelope.Max != [2]float64{220, 200} {
		t.Errorf("envelope = %+v", *l.Envelope)
	}

	l = evalLayout(t, `(envelope -10 -10 110 110)`)
	if l.Envelope.Min != [2]float64{-10, -10} || l.Envelope.Max != [2]float64{110, 110} {
		t.Errorf("envelope = %+v", *l.Envelope)
	}

	evalFails(t, `(envelope 1 2 3)`)
}

func TestDetector(t *testing.T) {
	l := evalLayout(t, `(detector :mode :exact :workers 4)`)
	if l.Detector.Mode == nil || *l.Detector.Mode != collision.ModeExact {
		t.Errorf("mode = %v, want exact", l.Detector.Mode)
	}
	if l.Detector.Workers != 4 {
		t.Errorf("workers = %d, want 4", l.Detector.Workers)
	}

	l = evalLayout(t, `(detector :mode "compatible")`)
	if l.Detector.Mode == nil || *l.Detector.Mode != collision.ModeCompatible {
		t.Errorf("mode = %v, want compatible", l.Detector.Mode)
	}

	evalFails(t, `(detector :mode :fastest)`)
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"object without shape", `(object "a")`, "requires a name and a shape"},
		{"object with vec3 shape", `(object "a" (vec3 1 2 3))`, "expected shape"},
		{"box arity", `(box 1 2)`, "exactly 3 numbers"},
		{"box non-number", `(box 1 2 "x")`, "expected number"},
		{"part of model", `(part (model "a.glb"))`, "not a primitive"},
		{"union of union", `(union (union (box 1 1 1)))`, "not a primitive"},
		{"empty union", `(union)`, "at least one part"},
		{"group child not node", `(group "g" (box 1 1 1))`, "expected object or group"},
		{"bad at", `(object "a" (box 1 1 1) :at 3)`, "expected vec3"},
		{"workers not integer", `(detector :workers 1.5)`, "expected integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.source)
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("error = %q, want containing %q", msg, tt.wantMsg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Equivalence with YAML layouts
// ---------------------------------------------------------------------------

const plateLisp = `
;; the reference plate
(envelope 220 220)
(detector :mode :exact :workers 4)

(object "base" (box 40 20 5) :at (vec3 10 10 0))

(group "left" :at (vec3 100 0 0) :rotate (vec3 0 0 90)
  (object "peg" (cylinder :height 20 :radius 4) :at (vec3 10 0 0))
  (object "ball" (sphere 5)))

(object "bracket"
  (union
    (box 30 5 5)
    (part (box 5 30 5) :offset (vec3 25 0 0))))

(object "clip" (model "models/clip.glb") :scale 2)
`

const plateYAML = `
envelope: {min: [0, 0], max: [220, 220]}
detector: {mode: exact, workers: 4}
objects:
  - name: base
    box: [40, 20, 5]
    at: [10, 10, 0]
  - name: left
    at: [100, 0, 0]
    rotate: [0, 0, 90]
    children:
      - name: peg
        cylinder: {height: 20, radius: 4}
        at: [10, 0, 0]
      - name: ball
        sphere: {radius: 5}
  - name: bracket
    parts:
      - box: [30, 5, 5]
      - box: [5, 30, 5]
        offset: [25, 0, 0]
  - name: clip
    model: models/clip.glb
    scale: [2, 2, 2]
`

func TestLispMatchesYAML(t *testing.T) {
	want, err := scene.Parse([]byte(plateYAML))
	require.NoError(t, err)

	got := evalLayout(t, plateLisp)
	assert.Equal(t, want, got)
	assert.Empty(t, scene.Validate(got))
}
