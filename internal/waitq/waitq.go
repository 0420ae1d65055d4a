// Package waitq implements a spinlock-protected FIFO wait queue.
//
// The queue is the single building block under every primitive in the lock
// package: the contended path of the reentrant lock, the condition
// variable, and through it the semaphore and the event. It answers the
// classic sleep/wakeup problem: a task must be able to check a condition,
// register itself as a waiter, and suspend, without a concurrent notify
// slipping into the gap and being lost.
//
// The suspension primitive is a per-waiter channel that is closed exactly
// once, when the waiter is notified. Registration (under the queue's
// spinlock) happens before the task blocks on the channel, and a notify
// that pops a registered waiter closes its channel, so a wakeup delivered
// between registration and suspension is retained by the channel rather
// than dropped. This is the "compare-and-suspend" pairing that makes
// release-and-suspend atomic with respect to notify.
//
// Waiters are one-shot: each blocking attempt allocates a fresh Waiter,
// and a Waiter leaves the queue exactly once, by notify, removal, or
// cancellation.
package waitq

import (
	"context"

	"github.com/gammazero/deque"

	"github.com/kolkov/tasklock/internal/spinlock"
	"github.com/kolkov/tasklock/internal/task"
)

// Waiter lifecycle states. The state field is only read or written while
// the owning queue's guard is held.
const (
	stateQueued   = iota // registered, still on the list
	stateNotified        // popped by a notify; ready is closed
	stateRemoved         // deregistered without a wakeup
)

// Waiter is a single suspended (or about to suspend) task registration.
type Waiter struct {
	task  task.ID
	ready chan struct{} // closed exactly once, on notify
	state int           // guarded by the queue's spinlock
}

// Task returns the ID the waiter was registered under.
func (w *Waiter) Task() task.ID { return w.task }

// Queue is an ordered list of waiting task registrations protected by a
// low-level spinlock. Wakeup order is FIFO by enqueue time. The zero
// value is an empty, ready-to-use queue. A Queue must not be copied
// after first use.
type Queue struct {
	guard   spinlock.Spinlock
	waiters deque.Deque[*Waiter]
}

// Enqueue registers the given task at the tail of the queue and returns
// its waiter handle. The caller typically re-checks its condition after
// enqueueing and then suspends with Wait; see the lock package for the
// canonical pattern.
func (q *Queue) Enqueue(id task.ID) *Waiter {
	w := &Waiter{task: id, ready: make(chan struct{})}
	q.guard.Lock()
	q.waiters.PushBack(w)
	q.guard.Unlock()
	return w
}

// Wait suspends the calling task until w is notified or ctx is cancelled.
//
// On notification it returns nil. On cancellation it deregisters w before
// returning ctx.Err(), so no stale registration remains for a later
// NotifyOne to consume without effect. If the cancellation raced with a
// notify that had already consumed w's wakeup, the wakeup is handed to
// the next waiter in line instead of being lost.
func (q *Queue) Wait(ctx context.Context, w *Waiter) error {
	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
	}

	// Cancelled. Restore queue bookkeeping before propagating.
	q.guard.Lock()
	if w.state == stateQueued {
		q.removeLocked(w)
		q.guard.Unlock()
		return ctx.Err()
	}
	// A notify already popped w: its wakeup was consumed by a task that
	// will not act on it. Pass it along so the notification is not lost.
	q.notifyOneLocked()
	q.guard.Unlock()
	return ctx.Err()
}

// Remove deregisters w if it is still queued and reports whether it did.
// A false return means w had already been notified (or removed): callers
// that acquired the guarded resource through another path must then treat
// the consumed wakeup as theirs to forward.
func (q *Queue) Remove(w *Waiter) bool {
	q.guard.Lock()
	defer q.guard.Unlock()
	if w.state != stateQueued {
		return false
	}
	q.removeLocked(w)
	return true
}

// NotifyOne wakes the longest-waiting task, if any, and reports whether
// a waiter was woken. It never blocks.
func (q *Queue) NotifyOne() bool {
	q.guard.Lock()
	defer q.guard.Unlock()
	return q.notifyOneLocked()
}

// NotifyAll wakes every queued task and returns how many were woken.
// It never blocks.
func (q *Queue) NotifyAll() int {
	q.guard.Lock()
	defer q.guard.Unlock()
	n := 0
	for q.notifyOneLocked() {
		n++
	}
	return n
}

// Len returns the number of currently queued waiters.
func (q *Queue) Len() int {
	q.guard.Lock()
	defer q.guard.Unlock()
	return q.waiters.Len()
}

// notifyOneLocked pops the head waiter and marks it runnable by closing
// its ready channel. Caller must hold guard.
func (q *Queue) notifyOneLocked() bool {
	if q.waiters.Len() == 0 {
		return false
	}
	w := q.waiters.PopFront()
	w.state = stateNotified
	close(w.ready)
	return true
}

// removeLocked deletes w from the list by identity. Caller must hold
// guard, and w.state must be stateQueued.
func (q *Queue) removeLocked(w *Waiter) {
	if i := q.waiters.Index(func(x *Waiter) bool { return x == w }); i >= 0 {
		q.waiters.Remove(i)
	}
	w.state = stateRemoved
}
