package lock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kolkov/tasklock/lock"
)

// TestWaitAfterSet verifies the post-signal fast path returns
// immediately.
func TestWaitAfterSet(t *testing.T) {
	e := lock.NewEvent()
	e.Set()

	done := make(chan struct{})
	go func() {
		e.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait blocked on a set event")
	}
}

// TestSetUnblocksAllWaiters verifies one Set wakes every task that
// started waiting before it.
func TestSetUnblocksAllWaiters(t *testing.T) {
	e := lock.NewEvent()

	const waiters = 5
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Wait()
		}()
	}

	// Let the waiters park; a set event would return instantly, so a
	// short delay is only about exercising the suspended path.
	time.Sleep(50 * time.Millisecond)
	e.Set()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Set left waiters suspended")
	}
}

// TestSetIdempotent verifies the one-shot contract: a second Set is a
// no-op and the event stays signalled.
func TestSetIdempotent(t *testing.T) {
	e := lock.NewEvent()

	if e.IsSet() {
		t.Fatal("new event is set")
	}
	e.Set()
	if !e.IsSet() {
		t.Fatal("event not set after Set")
	}
	e.Set() // no-op
	if !e.IsSet() {
		t.Fatal("second Set unset the event")
	}
	e.Wait() // still immediate
}

// TestWaitContextCancel verifies cancellation unwinds a parked waiter
// without affecting the event.
func TestWaitContextCancel(t *testing.T) {
	e := lock.NewEvent()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- e.WaitContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("WaitContext = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled WaitContext did not return")
	}
	if e.IsSet() {
		t.Fatal("cancellation set the event")
	}

	// The event still works for later waiters.
	done := make(chan struct{})
	go func() {
		e.Wait()
		close(done)
	}()
	e.Set()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event unusable after cancelled waiter")
	}
}
