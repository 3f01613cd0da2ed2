package async

import (
	"context"
	stderrors "errors"
	"sync/atomic"
)

var (
	// ErrCancelled fails a future cancelled before its task started.
	ErrCancelled = stderrors.New("async: task cancelled")
	// ErrShutdown fails futures submitted to, or abandoned by, a shut down executor.
	ErrShutdown = stderrors.New("async: executor shut down")
	// ErrNotDone is returned by Result while the future is pending.
	ErrNotDone = stderrors.New("async: result not available yet")
)

// State is the lifecycle state of a Future.
type State int32

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateCancelled

	// stateSettling is held while the handler runs; it reads as running.
	stateSettling
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning, stateSettling:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Future is the pending result of a submitted call. It settles exactly once.
type Future[T any] struct {
	state atomic.Int32
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// failedFuture returns a future already failed with err.
func failedFuture[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.settle(StatePending, StateFailed, zero, err, nil)
	return f
}

// Get waits for the result or for ctx to be done. The error is the one
// returned by the call, unwrapped.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the settled outcome without blocking, or ErrNotDone.
func (f *Future[T]) Result() (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		var zero T
		return zero, ErrNotDone
	}
}

// State reports the current state.
func (f *Future[T]) State() State {
	s := State(f.state.Load())
	if s == stateSettling {
		return StateRunning
	}
	return s
}

// Cancel prevents a task that has not started from running. It reports
// whether the future was cancelled; a running call is never interrupted.
func (f *Future[T]) Cancel() bool {
	var zero T
	return f.settle(StatePending, StateCancelled, zero, ErrCancelled, nil)
}

// start claims the future for execution.
func (f *Future[T]) start() bool {
	return f.state.CompareAndSwap(int32(StatePending), int32(StateRunning))
}

// settle moves the future from state from to state to. before runs ahead of
// any waiter being released.
func (f *Future[T]) settle(from, to State, v T, err error, before func()) bool {
	if !f.state.CompareAndSwap(int32(from), int32(stateSettling)) {
		return false
	}
	if before != nil {
		before()
	}
	f.value, f.err = v, err
	f.state.Store(int32(to))
	close(f.done)
	return true
}
