package lock

import (
	"context"
	"sync"
	"sync/atomic"
)

// Event is a one-shot, level-triggered latch. It starts unsignalled;
// Set signals it permanently. Tasks that Wait before the signal suspend
// until it arrives; tasks that Wait after it return immediately without
// taking any lock.
type Event struct {
	// signaled is monotonic: once true, never reset. Reading it is the
	// whole fast path after the event fires.
	signaled atomic.Bool

	mu   sync.Mutex
	cond *Cond
}

// NewEvent returns an unsignalled event.
func NewEvent() *Event {
	e := &Event{}
	e.cond = NewCond(&e.mu)
	return e
}

// Wait suspends the calling task until the event is set. If the event is
// already set it returns immediately.
func (e *Event) Wait() {
	_ = e.wait(context.Background())
}

// WaitContext is Wait with cancellation.
func (e *Event) WaitContext(ctx context.Context) error {
	return e.wait(ctx)
}

func (e *Event) wait(ctx context.Context) error {
	// Common post-signal case: no lock at all.
	if e.signaled.Load() {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for !e.signaled.Load() {
		if err := e.cond.WaitContext(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Set signals the event and wakes every waiting task — each waiter's
// condition becomes true simultaneously, so unlike Unlock and Release
// this is a broadcast. Setting an already-set event is a no-op.
func (e *Event) Set() {
	if e.signaled.Load() {
		return
	}
	e.mu.Lock()
	if !e.signaled.Load() {
		e.signaled.Store(true)
		e.cond.Broadcast()
	}
	e.mu.Unlock()
}

// IsSet reports whether the event has been signalled.
func (e *Event) IsSet() bool {
	return e.signaled.Load()
}
