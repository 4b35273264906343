package workerpool

import (
	"context"
	"sync/atomic"
)

// Future is the consumer side of a single-assignment result cell. It is
// resolved exactly once by the worker that runs the associated task and can
// be read any number of times, from any goroutine, afterwards.
type Future[R any] struct {
	done     chan struct{}
	resolved atomic.Bool
	value    R
	err      error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// resolve stores the outcome and releases readers. Only the first call has
// any effect; later calls return false.
func (f *Future[R]) resolve(value R, err error) bool {
	if !f.resolved.CompareAndSwap(false, true) {
		return false
	}
	f.value = value
	f.err = err
	close(f.done)
	return true
}

// Get blocks until the task has run and returns its value, or the
// *TaskError it failed with.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetContext is Get bounded by ctx. If ctx ends first it returns ctx.Err();
// the task itself is unaffected and the Future can be read again later.
func (f *Future[R]) GetContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once the Future is resolved.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the Future has been resolved.
func (f *Future[R]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await reads every future in order and returns their values. It stops at
// the first failure or when ctx ends.
func Await[R any](ctx context.Context, futures ...*Future[R]) ([]R, error) {
	values := make([]R, 0, len(futures))
	for _, f := range futures {
		v, err := f.GetContext(ctx)
		if err != nil {
			return values, err
		}
		values = append(values, v)
	}
	return values, nil
}
