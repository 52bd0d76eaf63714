package collision

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Mode selects the triangle test and the pair scan the detector uses.
type Mode int

const (
	// ModeCompatible reproduces the planner's historical behaviour: the
	// approximate TrianglesIntersect test, tried in both argument orders,
	// and a two-pass scan that skips objects already marked as colliding.
	ModeCompatible Mode = iota
	// ModeExact uses TrianglesOverlap and a scan that flags every object
	// overlapping at least one other object. Only this mode can run in
	// parallel.
	ModeExact
)

func (m Mode) String() string {
	switch m {
	case ModeCompatible:
		return "compatible"
	case ModeExact:
		return "exact"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name as written in configuration.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compatible", "compat":
		return ModeCompatible, nil
	case "exact":
		return ModeExact, nil
	}
	return 0, fmt.Errorf("unknown collision mode %q, expected compatible or exact", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Options configures a Detector. The zero value is the compatible,
// sequential, silent detector.
type Options struct {
	Mode Mode
	// Workers bounds the goroutines testing object pairs in ModeExact.
	// Values below 2 run sequentially.
	Workers int
	// Logger receives debug output about pair outcomes. Nil disables it.
	Logger *zap.Logger
}

func (o Options) predicate() TrianglePredicate {
	if o.Mode == ModeExact {
		return TrianglesOverlap
	}
	return eitherOrder(TrianglesIntersect)
}

// eitherOrder makes an order-sensitive predicate symmetric. TrianglesIntersect
// only bounds the crossing point by the first triangle's edges, so a pair
// of objects must be tried both ways round.
func eitherOrder(p TrianglePredicate) TrianglePredicate {
	return func(t0, t1 Triangle) bool {
		return p(t0, t1) || p(t1, t0)
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
