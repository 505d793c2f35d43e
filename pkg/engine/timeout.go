package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/zonelabel/pkg/host"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	doc    *host.Document
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch until timeout or ctx ends.
// A result whose generation is no longer current is discarded.
//
// On timeout the evaluating goroutine may still be running; its result
// lands in the buffered channel and is dropped.
func waitWithTimeout(
	ctx context.Context,
	ch <-chan evalResult,
	gen uint64,
	timeout time.Duration,
	mu *sync.Mutex,
	currentGen *uint64,
) (*host.Document, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.doc, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)

	case <-ctx.Done():
		return nil, nil, fmt.Errorf("evaluation cancelled: %w", ctx.Err())
	}
}
