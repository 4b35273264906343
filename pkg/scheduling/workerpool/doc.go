/*
Package workerpool provides a fixed-size worker pool with typed result handles.

A pool starts a fixed number of worker goroutines when it is created. Work is
queued on a single FIFO queue; each worker repeatedly takes the oldest task
and runs it with no pool lock held. Submitting never blocks: the caller gets a
Future immediately and reads the result whenever it needs it.

Basic usage:

	pool := workerpool.New(4)
	defer pool.Shutdown()

	future, err := workerpool.Submit(pool, func() (int, error) {
		return expensive(), nil
	})
	if err != nil {
		log.Printf("Failed to submit: %v", err)
		return
	}

	value, err := future.Get()
	if err != nil {
		log.Printf("Task failed: %v", err)
	}

Worker Count:

New clamps the requested worker count to the number of CPUs (or
Config.HardwareLimit) and logs a warning when it does so. NewDefault uses
the CPU count directly. The worker set never changes after construction.

Results and Failures:

Submit returns a *Future. The Future is written exactly once, by the worker
that ran the task. Get blocks until then; GetContext bounds the wait; Ready
and Done allow polling. If the callable returns an error or panics, Get
returns a *TaskError wrapping it. A panic is wrapped as a *PanicError
carrying the stack, so errors.As can recover the original runtime.Error:

	future, _ := workerpool.Submit(pool, func() (int, error) {
		return a / b, nil // b == 0
	})
	_, err := future.Get()

	var rtErr runtime.Error
	if errors.As(err, &rtErr) {
		// integer divide by zero
	}

A failing task never stops its worker, never affects other tasks and is
never retried. If nobody reads the Future its outcome is dropped with it.

SubmitValue and Go cover callables that return only a value or only an
error. Await collects several futures in order.

Low-level Tasks:

Anything implementing Task can be queued directly with Enqueue. This is what
the scheduler and MetricsPool build on:

	err := pool.Enqueue(workerpool.TaskFunc(func() error {
		return flush()
	}))

Shutdown:

Shutdown moves the pool from Running to Stopping: new submissions fail with
ErrPoolStopped, every idle worker is woken, and the workers drain whatever is
still queued. Shutdown returns when every worker has exited and the pool is
Stopped. ShutdownWithContext bounds the wait without cancelling the drain.

Configuration Options:

	config := workerpool.Config{
		WorkerCount: 8,
		Name:        "resize",
		Logger:      slog.Default(),
		OnTaskComplete: func(workerID int, r workerpool.Result) {
			if r.Error != nil {
				log.Printf("worker %d: %v", workerID, r.Error)
			}
		},
	}
	pool := workerpool.NewWithConfig(config)

Metrics:

NewWithMetrics returns a MetricsPool that records queue wait, execution time,
outcomes and gauges in a metrics.Registry.
*/
package workerpool
