package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vnykmshr/gopool/pkg/metrics"
)

// MetricsPool wraps a worker Pool with Prometheus metrics collection.
type MetricsPool struct {
	pool     Pool
	name     string
	registry atomic.Pointer[metrics.Registry]
}

var _ metrics.Instrumentable = (*MetricsPool)(nil)

// NewWithMetrics creates a worker pool whose activity is recorded in
// registry under config.Name. A nil registry gets a private one.
func NewWithMetrics(config Config, registry *metrics.Registry) *MetricsPool {
	if registry == nil {
		// Use a separate registry to avoid duplicate registration conflicts
		registry = metrics.NewRegistry(prometheus.NewRegistry())
	}
	if config.Name == "" {
		config.Name = "default"
	}

	mp := &MetricsPool{
		pool: NewWithConfig(config),
		name: config.Name,
	}
	mp.registry.Store(registry)
	mp.updateMetrics()

	return mp
}

// updateMetrics updates the current state gauges.
func (mp *MetricsPool) updateMetrics() {
	reg := mp.registry.Load()
	if reg == nil {
		return
	}

	reg.WorkerPoolSize.WithLabelValues(mp.name).Set(float64(mp.pool.Size()))
	reg.WorkerPoolActive.WithLabelValues(mp.name).Set(float64(mp.pool.ActiveWorkers()))
	reg.WorkerPoolQueued.WithLabelValues(mp.name).Set(float64(mp.pool.QueueSize()))
}

// Enqueue wraps task to record queue wait and execution metrics, then
// queues it on the underlying pool.
func (mp *MetricsPool) Enqueue(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	err := mp.pool.Enqueue(&metricsTask{
		original:   task,
		pool:       mp,
		submitTime: time.Now(),
	})

	if reg := mp.registry.Load(); reg != nil {
		switch {
		case err == nil:
			reg.TasksSubmitted.WithLabelValues(mp.name).Inc()
		case errors.Is(err, ErrPoolStopped):
			reg.TasksRejected.WithLabelValues(mp.name).Inc()
		}
		mp.updateMetrics()
	}

	return err
}

// metricsTask wraps a Task to collect execution metrics.
type metricsTask struct {
	original   Task
	pool       *MetricsPool
	submitTime time.Time
}

// Execute runs the original task and records metrics.
func (mt *metricsTask) Execute() (err error) {
	start := time.Now()
	name := mt.pool.name

	if reg := mt.pool.registry.Load(); reg != nil {
		reg.TaskQueueWait.WithLabelValues(name).Observe(start.Sub(mt.submitTime).Seconds())
	}

	defer func() {
		// A panic is still recorded as a failure before the worker recovers it.
		r := recover()
		if reg := mt.pool.registry.Load(); reg != nil {
			reg.TaskDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			if err != nil || r != nil {
				reg.TasksFailed.WithLabelValues(name).Inc()
			} else {
				reg.TasksCompleted.WithLabelValues(name).Inc()
			}
			reg.WorkerPoolQueued.WithLabelValues(name).Set(float64(mt.pool.pool.QueueSize()))
		}
		if r != nil {
			panic(r)
		}
	}()

	return mt.original.Execute()
}

// Shutdown initiates graceful shutdown of the pool and waits for it.
func (mp *MetricsPool) Shutdown() {
	mp.pool.Shutdown()
	mp.updateMetrics()
}

// ShutdownWithContext shuts down the pool, waiting at most until ctx ends.
func (mp *MetricsPool) ShutdownWithContext(ctx context.Context) error {
	err := mp.pool.ShutdownWithContext(ctx)
	mp.updateMetrics()
	return err
}

// State returns the lifecycle state of the underlying pool.
func (mp *MetricsPool) State() State {
	return mp.pool.State()
}

// Size returns the current number of workers.
func (mp *MetricsPool) Size() int {
	return mp.pool.Size()
}

// QueueSize returns the current number of queued tasks.
func (mp *MetricsPool) QueueSize() int {
	return mp.pool.QueueSize()
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (mp *MetricsPool) ActiveWorkers() int {
	return mp.pool.ActiveWorkers()
}

// TotalSubmitted returns the total number of tasks submitted.
func (mp *MetricsPool) TotalSubmitted() int64 {
	return mp.pool.TotalSubmitted()
}

// TotalCompleted returns the total number of tasks completed.
func (mp *MetricsPool) TotalCompleted() int64 {
	return mp.pool.TotalCompleted()
}

// EnableMetrics switches recording to registry.
func (mp *MetricsPool) EnableMetrics(registry *metrics.Registry) {
	mp.registry.Store(registry)
	mp.updateMetrics()
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.registry.Store(nil)
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.registry.Load() != nil
}
