/*
Package gopool provides a bounded task execution pool for Go applications.

Task Scheduling (pkg/scheduling):
  - taskqueue: Unbounded FIFO queue with blocking withdrawal
  - workerpool: Fixed worker pool returning typed futures
  - scheduler: One-shot, interval and cron jobs dispatched into a pool

Support packages:
  - metrics: Prometheus collectors for pools and schedulers
  - common/errors, common/validation: Structured configuration errors

Example usage:

	import "github.com/vnykmshr/gopool/pkg/scheduling/workerpool"

	pool := workerpool.New(4) // at most one worker per CPU
	defer pool.Shutdown()

	f, err := workerpool.Submit(pool, func() (int, error) {
		return compute(), nil
	})
	if err != nil {
		return err // pool already shut down
	}

	v, err := f.Get() // blocks until a worker has run it

A task's failure, including a recovered panic, never reaches the submitter as
a return value of Submit. It is stored in the future and reported by Get.

See individual package documentation for detailed usage.
*/
package gopool
