package lock

import (
	"context"
	"fmt"
	"sync"
)

// Semaphore is a counting permit pool. Up to its capacity tasks hold a
// permit at once; further acquirers suspend until a permit is released.
// Wakeups are FIFO, one per released permit — waking more would be wasted
// work, since only one permit opened.
type Semaphore struct {
	mu   sync.Mutex
	cond *Cond

	capacity int
	inUse    int // 0 <= inUse <= capacity outside the critical section
}

// NewSemaphore returns a semaphore with the given number of permits.
// A non-positive capacity is a caller bug and panics.
func NewSemaphore(capacity int) *Semaphore {
	if capacity <= 0 {
		panic(fmt.Sprintf("tasklock: NewSemaphore with non-positive capacity %d", capacity))
	}
	s := &Semaphore{capacity: capacity}
	s.cond = NewCond(&s.mu)
	return s
}

// Acquire takes a permit, suspending the calling task until one is free.
func (s *Semaphore) Acquire() {
	_ = s.acquire(context.Background())
}

// AcquireContext is Acquire with cancellation. On cancellation no permit
// is held and the returned error is ctx.Err().
func (s *Semaphore) AcquireContext(ctx context.Context) error {
	return s.acquire(ctx)
}

func (s *Semaphore) acquire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Loop, don't assume: a wakeup is a chance at a permit, and another
	// woken or newly arriving task may take it first.
	for s.inUse >= s.capacity {
		if err := s.cond.WaitContext(ctx); err != nil {
			return err
		}
	}
	s.inUse++
	return nil
}

// TryAcquire takes a permit without suspending and reports whether it
// got one.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inUse >= s.capacity {
		return false
	}
	s.inUse++
	return true
}

// Release returns a permit and wakes the longest-waiting acquirer, if
// any. Releasing more times than acquired is a caller bug and panics.
func (s *Semaphore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inUse == 0 {
		panic("tasklock: Semaphore released more times than acquired")
	}
	s.inUse--
	s.cond.Signal()
}

// InUse returns the number of permits currently held. Informational and
// inherently racy.
func (s *Semaphore) InUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inUse
}

// Cap returns the semaphore's capacity.
func (s *Semaphore) Cap() int {
	return s.capacity
}
