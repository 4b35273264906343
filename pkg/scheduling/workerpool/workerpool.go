package workerpool

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vnykmshr/gopool/pkg/scheduling/taskqueue"
)

// Enqueue adds a task to the pool for execution.
func (p *workerPool) Enqueue(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	p.totalSubmitted.Add(1)
	if err := p.queue.Push(task); err != nil {
		p.totalSubmitted.Add(-1)
		if errors.Is(err, taskqueue.ErrClosed) {
			return ErrPoolStopped
		}
		return err
	}
	return nil
}

// Shutdown initiates a graceful shutdown and waits for it to finish.
func (p *workerPool) Shutdown() {
	p.beginShutdown()
	<-p.stopped
}

// ShutdownWithContext initiates a graceful shutdown and waits for it to
// finish or for ctx to end.
func (p *workerPool) ShutdownWithContext(ctx context.Context) error {
	p.beginShutdown()
	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *workerPool) beginShutdown() {
	p.shutdownOnce.Do(func() {
		p.logger.Info("worker pool shutting down", slog.Int("queued", p.queue.Len()))

		// Closing the queue is the stopping flag: it is set under the queue
		// lock and wakes every idle worker.
		p.queue.Close()

		go func() {
			p.workerWg.Wait()
			p.logger.Info("worker pool shutdown completed",
				slog.Int64("completed", p.totalCompleted.Load()))
			close(p.stopped)
		}()
	})
}

// State returns the lifecycle state of the pool.
func (p *workerPool) State() State {
	select {
	case <-p.stopped:
		return Stopped
	default:
	}
	if p.queue.Closed() {
		return Stopping
	}
	return Running
}

// Size returns the number of workers in the pool.
func (p *workerPool) Size() int {
	return p.size
}

// QueueSize returns the current number of queued tasks waiting for execution.
func (p *workerPool) QueueSize() int {
	return p.queue.Len()
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *workerPool) ActiveWorkers() int {
	return int(p.activeWorkers.Load())
}

// TotalSubmitted returns the total number of tasks accepted by the pool.
func (p *workerPool) TotalSubmitted() int64 {
	return p.totalSubmitted.Load()
}

// TotalCompleted returns the total number of tasks executed by the pool.
func (p *workerPool) TotalCompleted() int64 {
	return p.totalCompleted.Load()
}

// run is the main loop for a worker.
func (w *worker) run() {
	defer w.pool.workerWg.Done()

	if cb := w.pool.config.OnWorkerStart; cb != nil {
		cb(w.id)
	}
	if cb := w.pool.config.OnWorkerStop; cb != nil {
		defer cb(w.id)
	}

	for {
		task, ok := w.pool.queue.Pop()
		if !ok {
			w.pool.logger.Debug("worker exiting", slog.Int("worker_id", w.id))
			return
		}
		w.executeTask(task)
	}
}

// executeTask runs a single task with no pool lock held.
func (w *worker) executeTask(task Task) {
	p := w.pool
	start := time.Now()
	var err error

	p.activeWorkers.Add(1)

	// Handle panics during task execution
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}

		var pe *PanicError
		if errors.As(err, &pe) {
			p.logger.Error("task panicked",
				slog.Int("worker_id", w.id),
				slog.Any("panic", pe.Value),
				slog.String("stack", string(pe.Stack)))
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(pe.Value)
			}
		}

		p.activeWorkers.Add(-1)
		p.totalCompleted.Add(1)

		if p.config.OnTaskComplete != nil {
			p.config.OnTaskComplete(w.id, Result{
				Error:    err,
				Duration: time.Since(start),
				WorkerID: w.id,
			})
		}
	}()

	err = task.Execute()
}
