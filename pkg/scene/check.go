package scene

import (
	"context"

	"github.com/chazu/platecheck/pkg/collision"
	"github.com/chazu/platecheck/pkg/geom"
)

// Verdict is the detector's answer for one object.
type Verdict struct {
	Name      string
	Colliding bool
}

// Report is the outcome of checking a plate.
type Report struct {
	Verdicts []Verdict
	Stats    collision.Stats
}

// Colliding returns the names of flagged objects in layout order.
func (r *Report) Colliding() []string {
	var names []string
	for _, v := range r.Verdicts {
		if v.Colliding {
			names = append(names, v.Name)
		}
	}
	return names
}

// OK reports whether no object collides or leaves the envelope.
func (r *Report) OK() bool {
	return len(r.Colliding()) == 0
}

// Check runs the detector over built objects.
func Check(ctx context.Context, objs []*Object, envelope geom.Box2, opts collision.Options) (*Report, error) {
	res, stats, err := collision.NewDetector(opts).FindCollisionsContext(ctx, MeshObjects(objs), envelope, false)
	if err != nil {
		return nil, err
	}
	r := &Report{Verdicts: make([]Verdict, len(objs)), Stats: stats}
	for i, o := range objs {
		r.Verdicts[i] = Verdict{Name: o.Name, Colliding: res.Colliding(i)}
	}
	return r, nil
}
