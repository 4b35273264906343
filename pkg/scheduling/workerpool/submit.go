package workerpool

// futureTask adapts a callable to Task and writes its outcome into a Future.
type futureTask[R any] struct {
	fn     func() (R, error)
	future *Future[R]
}

// Execute runs the callable, resolves the Future exactly once and returns
// the same failure so pool hooks and metrics can observe it.
func (t *futureTask[R]) Execute() (err error) {
	var value R
	defer func() {
		if r := recover(); r != nil {
			err = &TaskError{Err: newPanicError(r)}
		}
		t.future.resolve(value, err)
	}()

	value, err = t.fn()
	if err != nil {
		err = &TaskError{Err: err}
	}
	return err
}

// Submit queues fn on p and returns a Future for its result. It never
// waits for fn to run. If p is shutting down it returns ErrPoolStopped and
// fn is never called.
//
// An error returned by fn, or a panic raised by it, is delivered as a
// *TaskError from the Future; it does not affect the pool or other tasks.
func Submit[R any](p Pool, fn func() (R, error)) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	future := newFuture[R]()
	if err := p.Enqueue(&futureTask[R]{fn: fn, future: future}); err != nil {
		return nil, err
	}
	return future, nil
}

// SubmitValue is Submit for callables that only fail by panicking.
func SubmitValue[R any](p Pool, fn func() R) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return Submit(p, func() (R, error) {
		return fn(), nil
	})
}

// Go is Submit for callables that produce no value.
func Go(p Pool, fn func() error) (*Future[struct{}], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return Submit(p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
}
