package benchmark

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/vnykmshr/gopool/pkg/scheduling/workerpool"
)

const fanOut = 256

func spin(n int) uint64 {
	a, b := uint64(1), uint64(1)
	for i := 0; i < n; i++ {
		a, b = b, a+b
	}
	return a
}

func sleepy(d time.Duration) func(int) uint64 {
	return func(n int) uint64 {
		time.Sleep(d)
		return uint64(n)
	}
}

var workloads = []struct {
	name string
	fn   func(int) uint64
}{
	{"cpu", spin},
	{"sleep100us", sleepy(100 * time.Microsecond)},
}

// BenchmarkPoolFanOut submits fanOut tasks and awaits them in order.
func BenchmarkPoolFanOut(b *testing.B) {
	for _, wl := range workloads {
		b.Run(wl.name, func(b *testing.B) {
			pool := workerpool.New(runtime.NumCPU())
			defer pool.Shutdown()

			ctx := context.Background()
			futures := make([]*workerpool.Future[uint64], fanOut)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for j := range futures {
					n := j
					f, err := workerpool.SubmitValue(pool, func() uint64 { return wl.fn(n) })
					if err != nil {
						b.Fatal(err)
					}
					futures[j] = f
				}
				if _, err := workerpool.Await(ctx, futures...); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkGoroutinePerTask starts one goroutine per task.
func BenchmarkGoroutinePerTask(b *testing.B) {
	for _, wl := range workloads {
		b.Run(wl.name, func(b *testing.B) {
			results := make([]uint64, fanOut)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var wg sync.WaitGroup
				wg.Add(fanOut)
				for j := range results {
					go func(n int) {
						defer wg.Done()
						results[n] = wl.fn(n)
					}(j)
				}
				wg.Wait()
			}
		})
	}
}

// BenchmarkErrgroupLimit bounds concurrency with errgroup.SetLimit.
func BenchmarkErrgroupLimit(b *testing.B) {
	for _, wl := range workloads {
		b.Run(wl.name, func(b *testing.B) {
			results := make([]uint64, fanOut)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var g errgroup.Group
				g.SetLimit(runtime.NumCPU())
				for j := range results {
					n := j
					g.Go(func() error {
						results[n] = wl.fn(n)
						return nil
					})
				}
				if err := g.Wait(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSemaphoreLimit bounds goroutine-per-task with a weighted semaphore.
func BenchmarkSemaphoreLimit(b *testing.B) {
	for _, wl := range workloads {
		b.Run(wl.name, func(b *testing.B) {
			results := make([]uint64, fanOut)
			sem := semaphore.NewWeighted(int64(runtime.NumCPU()))
			ctx := context.Background()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var wg sync.WaitGroup
				for j := range results {
					if err := sem.Acquire(ctx, 1); err != nil {
						b.Fatal(err)
					}
					wg.Add(1)
					go func(n int) {
						defer sem.Release(1)
						defer wg.Done()
						results[n] = wl.fn(n)
					}(j)
				}
				wg.Wait()
			}
		})
	}
}
