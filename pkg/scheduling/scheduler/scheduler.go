package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	gperrors "github.com/vnykmshr/gopool/pkg/common/errors"
	"github.com/vnykmshr/gopool/pkg/common/validation"
	"github.com/vnykmshr/gopool/pkg/metrics"
	"github.com/vnykmshr/gopool/pkg/scheduling/workerpool"
)

const maxIDLength = 255

var (
	// ErrDuplicateID is returned when an entry with the same ID exists.
	ErrDuplicateID = errors.New("scheduler: entry already exists")

	// ErrTooManyEntries is returned when Config.MaxTasks is reached.
	ErrTooManyEntries = errors.New("scheduler: maximum number of entries reached")

	// ErrNotFound is returned for an unknown entry ID.
	ErrNotFound = errors.New("scheduler: entry not found")

	// ErrAlreadyRunning is returned by Start on a running scheduler.
	ErrAlreadyRunning = errors.New("scheduler: already running")
)

// Entry describes a scheduled job.
type Entry struct {
	ID       string
	NextRun  time.Time
	Interval time.Duration // Zero for one-shot and cron entries
	CronExpr string        // Empty unless scheduled with ScheduleCron
	Created  time.Time
	Runs     int // Number of times the entry was handed to the pool
}

// Scheduler hands jobs to a worker pool at given times.
type Scheduler interface {
	// Basic scheduling
	Schedule(id string, fn func() error, runAt time.Time) error
	ScheduleAfter(id string, fn func() error, delay time.Duration) error
	ScheduleRepeating(id string, fn func() error, interval time.Duration) error

	// Cron scheduling
	ScheduleCron(id string, cronExpr string, fn func() error) error

	// Entry management
	Cancel(id string) bool
	CancelAll()
	List() []Entry
	NextRun(id string) (time.Time, error)

	// Lifecycle
	Start() error
	Stop()
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds scheduler configuration.
type Config struct {
	Name         string
	Location     *time.Location // For cron scheduling
	TickInterval time.Duration  // How often to check for ready entries (default: 50ms)
	MaxTasks     int            // Maximum number of entries (default: 10000)
	Clock        Clock
	Logger       *slog.Logger
	Metrics      *metrics.Registry

	// OnResult is called on the worker after each run with the job's error.
	OnResult func(id string, err error)
}

type scheduledEntry struct {
	id           string
	fn           func() error
	runAt        time.Time
	interval     time.Duration
	cronExpr     string
	cronSchedule cron.Schedule
	created      time.Time
	runs         int
}

type scheduler struct {
	pool         workerpool.Pool
	name         string
	location     *time.Location
	tickInterval time.Duration
	maxTasks     int
	clock        Clock
	logger       *slog.Logger
	metrics      *metrics.Registry
	onResult     func(id string, err error)

	mu       sync.Mutex
	entries  map[string]*scheduledEntry
	cancel   context.CancelFunc
	loopDone chan struct{}
}

// New creates a scheduler that dispatches into pool. The pool stays owned
// by the caller: Stop does not shut it down.
func New(pool workerpool.Pool, cfg Config) (Scheduler, error) {
	if err := validation.ValidateNotNil("scheduler", "pool", pool); err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = "default"
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxTasks := cfg.MaxTasks
	if maxTasks <= 0 {
		maxTasks = 10000
	}

	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &scheduler{
		pool:         pool,
		name:         name,
		location:     location,
		tickInterval: tickInterval,
		maxTasks:     maxTasks,
		clock:        clock,
		logger:       logger.With(slog.String("scheduler", name)),
		metrics:      cfg.Metrics,
		onResult:     cfg.OnResult,
		entries:      make(map[string]*scheduledEntry),
	}, nil
}

func validateEntry(id string, fn func() error) error {
	if err := validation.ValidateNotEmpty("scheduler", "id", id); err != nil {
		return err
	}
	if err := validation.ValidateMaxLen("scheduler", "id", id, maxIDLength); err != nil {
		return err
	}
	return validation.ValidateNotNil("scheduler", "task", fn)
}

// add inserts e after the duplicate and capacity checks.
func (s *scheduler) add(e *scheduledEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, e.id)
	}
	if len(s.entries) >= s.maxTasks {
		return fmt.Errorf("%w (%d)", ErrTooManyEntries, s.maxTasks)
	}

	e.created = s.clock.Now()
	s.entries[e.id] = e
	return nil
}

// Schedule adds a one-shot entry that runs at runAt. A time in the past
// runs on the next tick.
func (s *scheduler) Schedule(id string, fn func() error, runAt time.Time) error {
	if err := validateEntry(id, fn); err != nil {
		return err
	}
	if runAt.IsZero() {
		return gperrors.NewValidationError("scheduler", "runAt", runAt, "cannot be zero").
			WithHint("use ScheduleAfter for relative times")
	}

	return s.add(&scheduledEntry{id: id, fn: fn, runAt: runAt})
}

// ScheduleAfter adds a one-shot entry that runs delay from now.
func (s *scheduler) ScheduleAfter(id string, fn func() error, delay time.Duration) error {
	return s.Schedule(id, fn, s.clock.Now().Add(delay))
}

// ScheduleRepeating adds an entry that runs on the next tick and then every
// interval, measured from each dispatch.
func (s *scheduler) ScheduleRepeating(id string, fn func() error, interval time.Duration) error {
	if err := validateEntry(id, fn); err != nil {
		return err
	}
	if interval <= 0 {
		return gperrors.NewValidationError("scheduler", "interval", interval, "must be positive").
			WithHint("value must be greater than 0")
	}

	return s.add(&scheduledEntry{
		id:       id,
		fn:       fn,
		runAt:    s.clock.Now(),
		interval: interval,
	})
}

// ScheduleCron adds an entry driven by a cron expression evaluated in
// Config.Location. Expressions that never fire are rejected.
func (s *scheduler) ScheduleCron(id string, cronExpr string, fn func() error) error {
	if err := validateEntry(id, fn); err != nil {
		return err
	}

	schedule, err := parseCron(cronExpr)
	if err != nil {
		return err
	}

	runAt, err := firstRun(cronExpr, schedule, s.clock.Now().In(s.location))
	if err != nil {
		return err
	}

	return s.add(&scheduledEntry{
		id:           id,
		fn:           fn,
		runAt:        runAt,
		cronExpr:     cronExpr,
		cronSchedule: schedule,
	})
}

// Cancel removes the entry and reports whether it existed. A run already
// handed to the pool is not affected.
func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		delete(s.entries, id)
		return true
	}
	return false
}

// CancelAll removes every entry.
func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*scheduledEntry)
}

// List returns a snapshot of all entries ordered by next run, then ID.
func (s *scheduler) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e.snapshot())
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].NextRun.Equal(entries[j].NextRun) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].NextRun.Before(entries[j].NextRun)
	})

	return entries
}

// NextRun returns the next dispatch time of the entry, or ErrNotFound.
func (s *scheduler) NextRun(id string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return e.runAt, nil
}

func (e *scheduledEntry) snapshot() Entry {
	return Entry{
		ID:       e.id,
		NextRun:  e.runAt,
		Interval: e.interval,
		CronExpr: e.cronExpr,
		Created:  e.created,
		Runs:     e.runs,
	}
}

// Start launches the dispatch loop. It returns ErrAlreadyRunning if the loop
// is already active; a stopped scheduler can be started again.
func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.loopDone = make(chan struct{})

	go s.run(ctx, s.loopDone)
	s.logger.Info("scheduler started", slog.Duration("tick", s.tickInterval))
	return nil
}

// Stop halts dispatching and waits for the dispatch loop to exit. Jobs
// already handed to the pool are unaffected.
func (s *scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.loopDone
	s.cancel, s.loopDone = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("scheduler stopped")
}

func (s *scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.processReadyTasks()
		}
	}
}

func (s *scheduler) processReadyTasks() {
	now := s.clock.Now()

	s.mu.Lock()
	if len(s.entries) == 0 {
		s.mu.Unlock()
		return
	}

	ready := make([]*scheduledEntry, 0, len(s.entries))
	for id, e := range s.entries {
		if now.Before(e.runAt) {
			continue
		}
		ready = append(ready, e)
		e.runs++

		switch {
		case e.interval > 0:
			e.runAt = now.Add(e.interval)
		case e.cronSchedule != nil:
			e.runAt = e.cronSchedule.Next(now.In(s.location))
			if e.runAt.IsZero() {
				// No later activation exists.
				delete(s.entries, id)
			}
		default:
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, e := range ready {
		s.dispatch(e.id, e.fn)
	}
}

func (s *scheduler) dispatch(id string, fn func() error) {
	err := s.pool.Enqueue(workerpool.TaskFunc(func() error {
		err := fn()
		if s.onResult != nil {
			s.onResult(id, err)
		}
		return err
	}))

	if err == nil {
		if s.metrics != nil {
			s.metrics.SchedulerDispatched.WithLabelValues(s.name).Inc()
		}
		return
	}

	if s.metrics != nil {
		s.metrics.SchedulerDispatchFailed.WithLabelValues(s.name).Inc()
	}
	s.logger.Warn("dispatch failed", slog.String("id", id), slog.Any("error", err))

	// A stopped pool never accepts work again.
	if errors.Is(err, workerpool.ErrPoolStopped) {
		s.Cancel(id)
	}
}
