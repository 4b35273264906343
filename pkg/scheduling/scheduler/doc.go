/*
Package scheduler dispatches jobs into a worker pool on a timetable.

The scheduler does not run jobs itself. It owns a set of entries and, on every
tick, hands the ones that are due to the workerpool.Pool it was created with.
The pool is owned by the caller and is passed in explicitly:

	pool := workerpool.New(4)
	defer pool.Shutdown()

	s, err := scheduler.New(pool, scheduler.Config{Name: "maintenance"})
	if err != nil {
		log.Fatal(err)
	}
	_ = s.Start()
	defer s.Stop()

	// One-shot
	_ = s.ScheduleAfter("warmup", warmCache, time.Minute)

	// Fixed interval
	_ = s.ScheduleRepeating("flush", flushBuffers, 10*time.Second)

	// Cron, with optional seconds field and descriptors
	_ = s.ScheduleCron("report", "0 9 * * MON-FRI", sendReport)

Stop the scheduler before shutting the pool down. If the pool refuses a job
because it is stopping, the entry is cancelled and the refusal is logged and
counted in the scheduler metrics.
*/
package scheduler
