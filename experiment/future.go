package experiment

import (
	"context"
	"sync"
)

// A Future holds the result of a run that may not have finished yet. It
// resolves exactly once.
type Future struct {
	once   sync.Once
	done   chan struct{}
	result Result
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Done is closed when the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or the context ends.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the result without blocking. The second value is false if
// the future has not resolved yet.
func (f *Future) Result() (Result, bool) {
	select {
	case <-f.done:
		return f.result, true
	default:
		return Result{}, false
	}
}

func (f *Future) resolve(r Result) bool {
	resolved := false

	f.once.Do(func() {
		f.result = r
		resolved = true
		close(f.done)
	})

	return resolved
}
