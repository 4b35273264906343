/*
Package scheduling groups the task execution primitives:

  - taskqueue: FIFO queue shared by the pool's workers
  - workerpool: Fixed worker pool for concurrent task execution
  - scheduler: Time-based dispatch into a worker pool

Worker Pool:

	pool := workerpool.New(4)
	defer pool.Shutdown()

	f, _ := workerpool.Submit(pool, func() (string, error) {
		return fetch()
	})
	body, err := f.Get()

Scheduler:

	s, _ := scheduler.New(pool, scheduler.Config{})
	_ = s.ScheduleCron("cleanup", "@hourly", cleanup)
	_ = s.Start()
	defer s.Stop()

Shutdown drains every queued task before the workers exit, so stop the
scheduler first and then shut the pool down.
*/
package scheduling
