package workerpool

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vnykmshr/gopool/internal/testutil"
	"github.com/vnykmshr/gopool/pkg/metrics"
)

func TestMetricsPoolRecordsOutcomes(t *testing.T) {
	registry := metrics.NewRegistry(prometheus.NewRegistry())
	pool := NewWithMetrics(Config{WorkerCount: 2, HardwareLimit: 2, Name: "test"}, registry)

	for i := 0; i < 6; i++ {
		i := i
		f, err := Submit(pool, func() (int, error) {
			if i%3 == 0 {
				return 0, errors.New("fail")
			}
			return i, nil
		})
		testutil.AssertNoError(t, err)
		_, _ = f.Get()
	}

	// A panicking task still counts as a failure.
	f, err := Go(pool, func() error { panic("boom") })
	testutil.AssertNoError(t, err)
	_, _ = f.Get()

	pool.Shutdown()

	_, err = SubmitValue(pool, func() int { return 1 })
	if !errors.Is(err, ErrPoolStopped) {
		t.Fatalf("expected ErrPoolStopped, got %v", err)
	}

	testutil.AssertEqual(t, promtest.ToFloat64(registry.TasksSubmitted.WithLabelValues("test")), 7.0)
	testutil.AssertEqual(t, promtest.ToFloat64(registry.TasksCompleted.WithLabelValues("test")), 4.0)
	testutil.AssertEqual(t, promtest.ToFloat64(registry.TasksFailed.WithLabelValues("test")), 3.0)
	testutil.AssertEqual(t, promtest.ToFloat64(registry.TasksRejected.WithLabelValues("test")), 1.0)
	testutil.AssertEqual(t, promtest.ToFloat64(registry.WorkerPoolSize.WithLabelValues("test")), 2.0)
	testutil.AssertEqual(t, promtest.ToFloat64(registry.WorkerPoolQueued.WithLabelValues("test")), 0.0)

	if n := promtest.CollectAndCount(registry.TaskDuration); n != 1 {
		t.Errorf("task duration series = %d, want 1", n)
	}
	if n := promtest.CollectAndCount(registry.TaskQueueWait); n != 1 {
		t.Errorf("queue wait series = %d, want 1", n)
	}
}

func TestMetricsPoolToggle(t *testing.T) {
	registry := metrics.NewRegistry(prometheus.NewRegistry())
	pool := NewWithMetrics(Config{WorkerCount: 1, Name: "toggle"}, registry)
	defer pool.Shutdown()

	testutil.AssertEqual(t, pool.MetricsEnabled(), true)

	pool.DisableMetrics()
	testutil.AssertEqual(t, pool.MetricsEnabled(), false)

	f, err := SubmitValue(pool, func() int { return 1 })
	testutil.AssertNoError(t, err)
	_, _ = f.Get()
	testutil.AssertEqual(t, promtest.ToFloat64(registry.TasksSubmitted.WithLabelValues("toggle")), 0.0)

	pool.EnableMetrics(registry)
	f, err = SubmitValue(pool, func() int { return 2 })
	testutil.AssertNoError(t, err)
	_, _ = f.Get()
	testutil.AssertEqual(t, promtest.ToFloat64(registry.TasksSubmitted.WithLabelValues("toggle")), 1.0)
}

func TestMetricsPoolDelegates(t *testing.T) {
	pool := NewWithMetrics(Config{WorkerCount: 3, HardwareLimit: 3}, nil)

	testutil.AssertEqual(t, pool.Size(), 3)
	testutil.AssertEqual(t, pool.State(), Running)

	f, err := SubmitValue(pool, func() int { return 5 })
	testutil.AssertNoError(t, err)
	v, err := f.Get()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v, 5)

	pool.Shutdown()
	testutil.AssertEqual(t, pool.State(), Stopped)
	testutil.AssertEqual(t, pool.TotalSubmitted(), int64(1))
	testutil.AssertEqual(t, pool.TotalCompleted(), int64(1))
	testutil.AssertEqual(t, pool.ActiveWorkers(), 0)
	testutil.AssertEqual(t, pool.QueueSize(), 0)
}
