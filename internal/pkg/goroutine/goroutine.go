// Package goroutine runs background work (OTP delivery, expiry sweeps) on a
// bounded pool that the application drains on shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/otpgate/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by the CPU count when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrPanic wraps a value recovered from a panicking task.
var ErrPanic = errors.New("goroutine: task panicked")

// Manager runs named tasks with a concurrency limit and collects their errors.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu     sync.Mutex
	errs   []error
	closed bool
}

// NewManager creates a Manager that runs at most maxGoroutine tasks at once.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f and reports whether it was accepted.
//
// A task is rejected when the manager is draining or every slot is busy;
// rejected tasks are logged and never run. f receives ctx unchanged, so callers
// that outlive a request should pass context.WithoutCancel.
func (m *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) bool {
	if m == nil {
		return false
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		slog.WarnContext(ctx, "goroutine manager is closed, task dropped", "task", name)
		return false
	}

	select {
	case m.sema <- struct{}{}:
	default:
		m.mu.Unlock()
		slog.WarnContext(ctx, "goroutine limit reached, task dropped", "task", name)
		return false
	}

	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer func() { <-m.sema }()

		if err := m.run(ctx, name, f); err != nil {
			m.mu.Lock()
			m.errs = append(m.errs, err)
			m.mu.Unlock()
		}
	}()

	return true
}

func (m *Manager) run(ctx context.Context, name string, f func(ctx context.Context) error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic occurred in goroutine", "task", name, "because", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic occurred in goroutine", "task", name, "because", rvr, "stack", string(stack))
			}
			err = errors.Join(ErrPanic, errors.New(name))
		}
	}()

	if ctxErr := ctx.Err(); ctxErr != nil {
		slog.WarnContext(ctx, "goroutine canceled before start", "task", name, "because", ctxErr)
		return nil
	}

	return f(ctx)
}

// Wait stops accepting tasks, blocks until running tasks finish and returns
// their joined errors.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()

	return errors.Join(m.errs...)
}
