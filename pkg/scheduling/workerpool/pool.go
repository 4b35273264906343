package workerpool

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vnykmshr/gopool/pkg/scheduling/taskqueue"
)

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the work. A returned error is reported to the pool's
	// OnTaskComplete hook; it never stops the worker.
	Execute() error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func() error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute() error {
	return f()
}

// Result describes one finished task execution.
type Result struct {
	// Error is any error the task returned, or a *PanicError
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration

	// WorkerID identifies which worker executed the task
	WorkerID int
}

// Pool is a fixed set of workers consuming a shared FIFO queue.
type Pool interface {
	// Enqueue adds a task to the queue and wakes an idle worker.
	// It never blocks. Returns ErrPoolStopped once Shutdown has begun.
	Enqueue(task Task) error

	// Shutdown stops accepting tasks, lets the workers drain the queue and
	// blocks until every worker has exited. Concurrent or repeated calls
	// wait for the same shutdown.
	Shutdown()

	// ShutdownWithContext is Shutdown bounded by ctx. If ctx ends first it
	// returns ctx.Err() and the workers keep draining in the background.
	ShutdownWithContext(ctx context.Context) error

	// State returns the lifecycle state of the pool.
	State() State

	// Size returns the number of workers in the pool.
	Size() int

	// QueueSize returns the number of tasks waiting for a worker.
	QueueSize() int

	// ActiveWorkers returns the number of workers currently executing tasks.
	ActiveWorkers() int

	// TotalSubmitted returns the total number of tasks accepted by the pool.
	TotalSubmitted() int64

	// TotalCompleted returns the total number of tasks executed by the pool.
	TotalCompleted() int64
}

// State is the lifecycle state of a Pool.
type State int32

const (
	// Running accepts submissions.
	Running State = iota
	// Stopping rejects submissions while workers drain the queue.
	Stopping
	// Stopped means every worker has exited.
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// WorkerCount is the requested number of workers. Values above
	// HardwareLimit are clamped to it; zero or negative values use it.
	WorkerCount int

	// HardwareLimit caps WorkerCount. Zero means runtime.NumCPU().
	HardwareLimit int

	// Name identifies the pool in logs and metrics.
	Name string

	// Logger receives lifecycle and panic records. Nil disables logging.
	Logger *slog.Logger

	// PanicHandler is called when a task panics. The panic is recovered
	// either way.
	PanicHandler func(recovered interface{})

	// OnWorkerStart is called when a worker starts.
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called when a worker stops.
	OnWorkerStop func(workerID int)

	// OnTaskComplete is called after a task completes (success or failure).
	OnTaskComplete func(workerID int, result Result)
}

// workerPool implements the Pool interface.
type workerPool struct {
	config Config
	logger *slog.Logger
	size   int

	queue        *taskqueue.Queue[Task]
	shutdownOnce sync.Once
	stopped      chan struct{}
	workerWg     sync.WaitGroup

	activeWorkers  atomic.Int32
	totalSubmitted atomic.Int64
	totalCompleted atomic.Int64
}

// worker represents a single worker in the pool.
type worker struct {
	id   int
	pool *workerPool
}

// New creates a worker pool with the requested number of workers.
func New(workerCount int) Pool {
	return NewWithConfig(Config{WorkerCount: workerCount})
}

// NewDefault creates a worker pool with one worker per available CPU.
func NewDefault() Pool {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a worker pool with the specified configuration.
// It never fails: an oversized WorkerCount is clamped and logged.
func NewWithConfig(config Config) Pool {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(disabledHandler{})
	}
	if config.Name != "" {
		logger = logger.With(slog.String("pool", config.Name))
	}

	limit := config.HardwareLimit
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	size := config.WorkerCount
	switch {
	case size <= 0:
		size = limit
	case size > limit:
		logger.Warn("worker count exceeds hardware concurrency, clamping",
			slog.Int("requested", size),
			slog.Int("limit", limit))
		size = limit
	}

	pool := &workerPool{
		config:  config,
		logger:  logger,
		size:    size,
		queue:   taskqueue.New[Task](),
		stopped: make(chan struct{}),
	}

	pool.workerWg.Add(size)
	for i := 0; i < size; i++ {
		w := &worker{id: i, pool: pool}
		go w.run()
	}

	logger.Info("worker pool started", slog.Int("workers", size))
	return pool
}
