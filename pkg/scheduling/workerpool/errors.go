package workerpool

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrPoolStopped is returned when work is submitted after Shutdown has begun.
	ErrPoolStopped = errors.New("worker pool has been shut down")

	// ErrNilTask is returned when a nil task or callable is submitted.
	ErrNilTask = errors.New("task cannot be nil")
)

// TaskError is the failure of a submitted callable, delivered through the
// callable's Future. Err is either the error the callable returned or a
// *PanicError describing a recovered panic.
type TaskError struct {
	Err error
}

func (e *TaskError) Error() string {
	return "task failed: " + e.Err.Error()
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// PanicError records a panic recovered while running a task.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func newPanicError(recovered interface{}) *PanicError {
	return &PanicError{Value: recovered, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error, such as a
// runtime.Error from an integer division by zero.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
