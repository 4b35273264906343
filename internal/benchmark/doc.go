// Package benchmark compares the worker pool against plain goroutine
// fan-out strategies on the same workloads. It contains only benchmarks.
package benchmark
