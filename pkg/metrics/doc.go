// Package metrics provides Prometheus instrumentation for gopool components.
//
// A Registry groups the collectors for worker pools and schedulers. Each
// collector is a vector labelled by the component name, so several pools can
// share one Registry:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.NewRegistry(reg)
//
//	pool := workerpool.NewWithMetrics(workerpool.Config{
//		WorkerCount: 4,
//		Name:        "thumbnails",
//	}, m)
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # Exported series
//
// Worker pool (label pool_name):
//   - gopool_workerpool_size
//   - gopool_workerpool_active_workers
//   - gopool_workerpool_queued_tasks
//   - gopool_workerpool_tasks_submitted_total
//   - gopool_workerpool_tasks_rejected_total
//   - gopool_workerpool_tasks_completed_total
//   - gopool_workerpool_tasks_failed_total
//   - gopool_workerpool_task_duration_seconds
//   - gopool_workerpool_queue_wait_seconds
//
// Scheduler (label scheduler_name):
//   - gopool_scheduler_dispatched_total
//   - gopool_scheduler_dispatch_failed_total
//
// The namespace can be changed through Config.Namespace.
package metrics
