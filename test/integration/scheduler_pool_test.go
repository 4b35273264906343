// Package integration verifies the scheduler, worker pool and metrics
// packages working together.
package integration

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"github.com/vnykmshr/gopool/internal/testutil"
	"github.com/vnykmshr/gopool/pkg/metrics"
	"github.com/vnykmshr/gopool/pkg/scheduling/scheduler"
	"github.com/vnykmshr/gopool/pkg/scheduling/workerpool"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestScheduledJobsRunOnMeteredPool drives repeating and one-shot jobs
// through a pool with metrics and checks every counter agrees.
func TestScheduledJobsRunOnMeteredPool(t *testing.T) {
	registry := metrics.NewRegistry(prometheus.NewRegistry())
	pool := workerpool.NewWithMetrics(workerpool.Config{WorkerCount: 2, HardwareLimit: 2, Name: "jobs"}, registry)

	var failures int32
	sched, err := scheduler.New(pool, scheduler.Config{
		Name:         "ticker",
		TickInterval: 2 * time.Millisecond,
		Metrics:      registry,
		OnResult: func(_ string, err error) {
			if err != nil {
				atomic.AddInt32(&failures, 1)
			}
		},
	})
	testutil.AssertNoError(t, err)

	var ticks, once int32
	testutil.AssertNoError(t, sched.ScheduleRepeating("tick", func() error {
		atomic.AddInt32(&ticks, 1)
		return nil
	}, 5*time.Millisecond))
	testutil.AssertNoError(t, sched.ScheduleAfter("once", func() error {
		atomic.AddInt32(&once, 1)
		return errors.New("boom")
	}, 10*time.Millisecond))

	testutil.AssertNoError(t, sched.Start())
	testutil.Eventually(t, func() bool {
		return atomic.LoadInt32(&ticks) >= 3 && atomic.LoadInt32(&once) == 1
	}, 2*time.Second, 2*time.Millisecond)

	sched.Stop()
	pool.Shutdown()

	dispatched := promtest.ToFloat64(registry.SchedulerDispatched.WithLabelValues("ticker"))
	submitted := promtest.ToFloat64(registry.TasksSubmitted.WithLabelValues("jobs"))
	completed := promtest.ToFloat64(registry.TasksCompleted.WithLabelValues("jobs"))
	failed := promtest.ToFloat64(registry.TasksFailed.WithLabelValues("jobs"))

	testutil.AssertEqual(t, submitted, dispatched)
	testutil.AssertEqual(t, completed+failed, submitted)
	testutil.AssertEqual(t, failed, 1.0)
	testutil.AssertEqual(t, atomic.LoadInt32(&failures), int32(1))
	testutil.AssertEqual(t, int64(submitted), pool.TotalCompleted())
}

// TestSubmitAndScheduleShareThePool mixes direct submissions with scheduled
// jobs and checks that shutdown drains both.
func TestSubmitAndScheduleShareThePool(t *testing.T) {
	pool := workerpool.New(1)

	sched, err := scheduler.New(pool, scheduler.Config{TickInterval: time.Millisecond})
	testutil.AssertNoError(t, err)

	var scheduled int32
	testutil.AssertNoError(t, sched.Schedule("now", func() error {
		atomic.AddInt32(&scheduled, 1)
		return nil
	}, time.Now()))
	testutil.AssertNoError(t, sched.Start())

	futures := make([]*workerpool.Future[int], 20)
	for i := range futures {
		n := i
		f, err := workerpool.SubmitValue(pool, func() int { return n * n })
		testutil.AssertNoError(t, err)
		futures[i] = f
	}

	testutil.WaitForInt32(t, &scheduled, 1, time.Second)
	sched.Stop()
	pool.Shutdown()

	for i, f := range futures {
		testutil.AssertEqual(t, f.Ready(), true)
		v, err := f.Get()
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, v, i*i)
	}
}
