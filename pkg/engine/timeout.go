package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/platecheck/pkg/scene"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrSuperseded is returned when a newer Evaluate call started before this
// one finished.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

// evalResult carries one evaluation's output back from its goroutine.
type evalResult struct {
	layout *scene.Layout
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch for at most timeout. A result
// whose generation is no longer current is discarded.
//
// On timeout the evaluating goroutine keeps running; its late result lands
// in the buffered channel and is dropped.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	timeout time.Duration,
) (*scene.Layout, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.layout, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
