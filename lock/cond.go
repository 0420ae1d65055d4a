package lock

import (
	"context"
	"sync"

	"github.com/kolkov/tasklock/internal/task"
	"github.com/kolkov/tasklock/internal/waitq"
)

// Cond is a condition variable: a FIFO wait queue paired with an exterior
// lock chosen by the caller. Tasks wait on it for some condition of the
// state the exterior lock protects to become true, and other tasks signal
// them after changing that state.
//
// Every method must be called with the exterior lock held; that is what
// makes the check-then-wait sequence atomic with respect to concurrent
// signals. The precondition is documented, not enforced, matching
// sync.Cond.
//
// When L is a *Lock held recursively, Wait fully releases it (whatever
// the depth) and restores the same depth before returning, so a reentrant
// holder can wait without leaking its outer holds.
type Cond struct {
	// L is the exterior lock held across condition checks and mutations.
	L sync.Locker

	q waitq.Queue
}

// NewCond returns a condition variable using l as its exterior lock.
func NewCond(l sync.Locker) *Cond {
	if l == nil {
		panic("tasklock: NewCond with nil Locker")
	}
	return &Cond{L: l}
}

// Wait atomically releases the exterior lock and suspends the calling
// task until woken by Signal or Broadcast, then reacquires the exterior
// lock before returning.
//
// Because a wakeup means the condition may have changed, not that it
// holds, callers loop:
//
//	for !condition() {
//	    c.Wait()
//	}
func (c *Cond) Wait() {
	// Background context: the error path is unreachable.
	_ = c.wait(context.Background())
}

// WaitContext is Wait with cancellation. On cancellation the task is
// deregistered from the queue and the exterior lock is reacquired before
// ctx.Err() is returned — the lock is held on every exit path, so caller
// invariants and deferred unlocks stay valid.
func (c *Cond) WaitContext(ctx context.Context) error {
	return c.wait(ctx)
}

func (c *Cond) wait(ctx context.Context) error {
	// Register before releasing the exterior lock. Signal requires the
	// exterior lock, so no signal can fall between the caller's condition
	// check and this registration.
	w := c.q.Enqueue(task.Current())

	// Release the exterior lock fully: a plain Locker releases once, a
	// reentrant Lock releases its whole recursion depth.
	rl, reentrant := c.L.(*Lock)
	var depth int
	if reentrant {
		depth = rl.releaseAll()
	} else {
		c.L.Unlock()
	}

	err := c.q.Wait(ctx, w)

	// Reacquire unconditionally, cancellation included, before the
	// result propagates.
	if reentrant {
		rl.reacquire(depth)
	} else {
		c.L.Lock()
	}
	return err
}

// Signal wakes the longest-waiting task, if any. The caller must hold
// the exterior lock.
func (c *Cond) Signal() {
	c.q.NotifyOne()
}

// Broadcast wakes every waiting task, in FIFO order. The caller must
// hold the exterior lock.
func (c *Cond) Broadcast() {
	c.q.NotifyAll()
}
