package collision

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/platecheck/pkg/geom"
)

// Detector finds overlapping objects. It holds configuration only and is
// safe for concurrent use.
type Detector struct {
	opts Options
	pred TrianglePredicate
	log  *zap.Logger
}

// NewDetector returns a detector configured by opts.
func NewDetector(opts Options) *Detector {
	return &Detector{
		opts: opts,
		pred: opts.predicate(),
		log:  opts.logger(),
	}
}

// FindCollisions runs a compatible-mode detector with default options.
func FindCollisions(objects []MeshObject, envelope geom.Box2, restart bool) Result {
	return NewDetector(Options{}).FindCollisions(objects, envelope, restart)
}

// FindCollisions reports every object that overlaps another object or is
// not contained by envelope. restart is accepted for callers that expect an
// incremental mode; every call recomputes from scratch.
func (d *Detector) FindCollisions(objects []MeshObject, envelope geom.Box2, restart bool) Result {
	res, _, _ := d.FindCollisionsContext(context.Background(), objects, envelope, restart)
	return res
}

// FindCollisionsWithStats is FindCollisions that also reports how much work
// the scan did.
func (d *Detector) FindCollisionsWithStats(objects []MeshObject, envelope geom.Box2) (Result, Stats) {
	res, st, _ := d.FindCollisionsContext(context.Background(), objects, envelope, true)
	return res, st
}

// FindCollisionsContext is FindCollisions with cancellation. ctx is checked
// between object rows; a cancelled run returns ctx.Err() and no result.
func (d *Detector) FindCollisionsContext(ctx context.Context, objects []MeshObject, envelope geom.Box2, _ bool) (Result, Stats, error) {
	s := &scan{
		d:      d,
		geos:   make([]*worldGeometry, len(objects)),
		marked: make([]bool, len(objects)),
	}
	s.stats.Objects = len(objects)
	for i, obj := range objects {
		s.geos[i] = newWorldGeometry(obj)
		if s.geos[i].empty() {
			s.stats.EmptyObjects++
		}
	}

	var err error
	switch {
	case d.opts.Mode == ModeExact && d.opts.Workers > 1:
		err = s.runParallel(ctx, d.opts.Workers)
	default:
		err = s.runSequential(ctx)
	}
	if err != nil {
		return nil, s.stats, err
	}

	res := make(Result)
	for i, m := range s.marked {
		if m {
			res[i] = true
		}
	}
	// The envelope check runs after the pair scan so that it cannot change
	// which pairs the scan visits.
	for i, g := range s.geos {
		if g.empty() || envelope.ContainsBox(g.box) {
			continue
		}
		s.stats.Outside++
		res[i] = true
		d.log.Debug("object outside envelope", zap.Int("object", i))
	}

	d.log.Debug("collision scan finished",
		zap.Stringer("mode", d.opts.Mode),
		zap.Int("objects", s.stats.Objects),
		zap.Int("pairs_visited", s.stats.PairsVisited),
		zap.Int("pairs_pruned", s.stats.PairsPruned),
		zap.Int("pairs_tested", s.stats.PairsTested),
		zap.Int("triangle_pairs", s.stats.TrianglePairs),
		zap.Int("colliding", len(res)),
	)
	return res, s.stats, nil
}

// scan is the state of a single detection run.
type scan struct {
	d      *Detector
	geos   []*worldGeometry
	marked []bool
	stats  Stats
	mu     sync.Mutex // guards marked and stats in parallel runs
}

// pairOutcome is what comparing two objects produced.
type pairOutcome struct {
	pruned        bool
	collide       bool
	trianglePairs int
}

// compare decides whether objects i and j overlap. It reads only the
// immutable per-object geometry.
func (s *scan) compare(i, j int) pairOutcome {
	gi, gj := s.geos[i], s.geos[j]
	if gi.empty() || gj.empty() || !BoxesIntersect(gi.box, gj.box) {
		return pairOutcome{pruned: true}
	}
	region := gi.box.Intersect(gj.box)
	ti := gi.triangles(region)
	tj := gj.triangles(region)

	var out pairOutcome
	for _, t0 := range ti {
		for _, t1 := range tj {
			if !BoxesIntersect(t0.Box(), t1.Box()) {
				continue
			}
			out.trianglePairs++
			if s.d.pred(t0, t1) {
				out.collide = true
				return out
			}
		}
	}
	return out
}

func (s *scan) record(o pairOutcome) {
	s.stats.PairsVisited++
	if o.pruned {
		s.stats.PairsPruned++
		return
	}
	s.stats.PairsTested++
	s.stats.TrianglePairs += o.trianglePairs
}

// collides compares i and j and records the outcome.
func (s *scan) collides(i, j int) bool {
	o := s.compare(i, j)
	s.record(o)
	if o.collide {
		s.d.log.Debug("objects collide", zap.Int("a", i), zap.Int("b", j))
	}
	return o.collide
}

// runSequential visits objects in index order. For an unmarked object it
// first tries unmarked partners, since a hit there settles two objects at
// once, and only then falls back to partners that are already marked.
//
// In ModeCompatible an object that is already marked is skipped, exactly as
// the planner always did; its later unmarked partners are then only found
// through other objects. ModeExact still compares a marked object against
// its unmarked partners so no overlap goes unreported.
func (s *scan) runSequential(ctx context.Context) error {
	n := len(s.geos)
	exact := s.d.opts.Mode == ModeExact
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.geos[i].empty() {
			continue
		}
		if s.marked[i] && !exact {
			continue
		}
		for j := i + 1; j < n; j++ {
			if s.marked[j] {
				continue
			}
			if s.collides(i, j) {
				s.marked[i] = true
				s.marked[j] = true
			}
		}
		if s.marked[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if !s.marked[j] {
				continue
			}
			if s.collides(i, j) {
				s.marked[i] = true
				break
			}
		}
	}
	return nil
}

// runParallel compares every pair i < j on a bounded pool of goroutines,
// one row per task. A pair is skipped only when both objects are already
// marked, which cannot change the outcome, so the result is independent of
// scheduling.
func (s *scan) runParallel(ctx context.Context, workers int) error {
	n := len(s.geos)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if s.geos[i].empty() {
			continue
		}
		g.Go(func() error {
			for j := i + 1; j < n; j++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				s.mu.Lock()
				skip := s.marked[i] && s.marked[j]
				s.mu.Unlock()
				if skip {
					continue
				}
				o := s.compare(i, j)

				s.mu.Lock()
				s.record(o)
				if o.collide {
					s.marked[i] = true
					s.marked[j] = true
				}
				s.mu.Unlock()

				if o.collide {
					s.d.log.Debug("objects collide", zap.Int("a", i), zap.Int("b", j))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
