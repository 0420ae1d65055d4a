package lock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kolkov/tasklock/lock"
)

// TestSignalWakesInOrder runs a single-producer queue: waiters consume
// items in the FIFO order they started waiting.
func TestSignalWakesInOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		items int
	)
	c := lock.NewCond(&mu)

	consumed := make(chan struct{}, 3)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			for items == 0 {
				c.Wait()
			}
			items--
			mu.Unlock()
			consumed <- struct{}{}
		}()
	}

	for i := 0; i < 3; i++ {
		mu.Lock()
		items++
		c.Signal()
		mu.Unlock()
		select {
		case <-consumed:
		case <-time.After(5 * time.Second):
			t.Fatalf("signal %d woke no consumer", i)
		}
	}
	wg.Wait()
}

// TestBroadcast wakes every waiter at once.
func TestBroadcast(t *testing.T) {
	var (
		mu   sync.Mutex
		gate bool
	)
	c := lock.NewCond(&mu)

	const waiters = 4
	var started, finished sync.WaitGroup
	started.Add(waiters)
	finished.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer finished.Done()
			mu.Lock()
			started.Done()
			for !gate {
				c.Wait()
			}
			mu.Unlock()
		}()
	}
	started.Wait()

	mu.Lock()
	gate = true
	c.Broadcast()
	mu.Unlock()

	done := make(chan struct{})
	go func() { finished.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast left waiters suspended")
	}
}

// TestWaitReleasesReentrantLockFully verifies Wait on a recursively held
// Lock releases the whole depth, lets another task in, and restores the
// same depth on return.
func TestWaitReleasesReentrantLockFully(t *testing.T) {
	var (
		l     lock.Lock
		ready bool
	)
	c := lock.NewCond(&l)

	waiterDone := make(chan struct{})
	go func() {
		defer close(waiterDone)

		// Hold the lock at depth 3, then wait.
		l.Lock()
		l.Lock()
		l.Lock()
		for !ready {
			c.Wait()
		}

		// Depth must be restored: the two inner unlocks keep the lock
		// held, the third frees it.
		l.Unlock()
		l.Unlock()
		if !l.IsLocked() {
			t.Error("restored depth too shallow: lock free after 2 of 3 unlocks")
		}
		l.Unlock()
	}()

	// The waiter's full release must let this task acquire.
	waitUntil(t, "full release by waiter", l.TryLock)

	ready = true
	c.Signal()
	l.Unlock()

	select {
	case <-waiterDone:
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never resumed")
	}
	if l.IsLocked() {
		t.Fatal("lock still held after waiter finished")
	}
}

// TestWaitContextCancelReacquires verifies the exterior lock is held
// again before the cancellation propagates, so caller invariants and
// deferred unlocks stay valid.
func TestWaitContextCancelReacquires(t *testing.T) {
	var l lock.Lock
	c := lock.NewCond(&l)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		l.Lock()
		defer l.Unlock() // must not panic: the lock is held on every exit path
		errc <- c.WaitContext(ctx)
	}()

	waitUntil(t, "waiter release", func() bool { return !l.IsLocked() })
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("WaitContext = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled WaitContext did not return")
	}

	// After the waiter's deferred unlock the lock must be free again.
	waitUntil(t, "lock release after cancellation", func() bool { return !l.IsLocked() })
}

// TestNewCondNil rejects a nil exterior lock.
func TestNewCondNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewCond(nil) did not panic")
		}
	}()
	lock.NewCond(nil)
}
