package lock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/kolkov/tasklock/internal/callsite"
	"github.com/kolkov/tasklock/internal/task"
	"github.com/kolkov/tasklock/internal/waitq"
)

// Lock is a reentrant mutual exclusion lock. The task (goroutine) holding
// it may acquire it again without deadlocking itself; a recursion counter
// tracks the nesting, and the lock is released for other tasks only when
// Unlock has been called once per acquisition.
//
// The zero value is an unlocked Lock. A Lock must not be copied after
// first use.
//
// The uncontended path is a single compare-and-swap on the owner slot: no
// allocation, no queue interaction, no suspension. Contended acquirers
// park on a FIFO wait queue; Unlock wakes exactly one of them, since only
// one could win the subsequent compare-and-swap anyway.
//
// A Lock may only be released by the task that acquired it. Unlock by any
// other task, or of an unlocked Lock, is a caller bug and panics.
type Lock struct {
	// owner holds the task.ID of the current holder, or 0 when unlocked.
	// It is the only field touched on the uncontended path.
	owner atomic.Int64

	// depth is the recursion count: nonzero iff owner is nonzero.
	// Only the owning task mutates it; IsLocked reads it racily.
	depth atomic.Int32

	// q parks contended acquirers, FIFO by arrival.
	q waitq.Queue

	// site is the holder's acquisition call site (a callsite hash),
	// recorded only when debug diagnostics are enabled.
	site atomic.Uint64
}

// TryLock attempts to acquire the lock without blocking and reports
// whether it succeeded.
//
// If the calling task already holds the lock, the recursion count is
// incremented and TryLock succeeds; recursive re-entry is never
// misidentified as contention. Otherwise a single compare-and-swap of the
// owner slot decides the outcome. TryLock never suspends.
func (l *Lock) TryLock() bool {
	return l.tryLockAs(task.Current())
}

// tryLockAs is TryLock with the caller's identity precomputed, so the
// contended wait loop pays the identity lookup once.
func (l *Lock) tryLockAs(me task.ID) bool {
	if task.ID(l.owner.Load()) == me {
		// Recursive re-entry by the holder. Only the holder can observe
		// its own ID in the owner slot, so no CAS is needed.
		l.depth.Add(1)
		return true
	}
	if l.owner.CompareAndSwap(int64(task.None), int64(me)) {
		l.depth.Store(1)
		if debugEnabled() {
			l.site.Store(callsite.Capture())
		}
		return true
	}
	return false
}

// Lock acquires the lock, suspending the calling task until it is
// available. Recursive acquisition by the holder returns immediately.
func (l *Lock) Lock() {
	// The background context never cancels, so the only non-nil return
	// would be a bug in the wait loop itself.
	if err := l.LockContext(context.Background()); err != nil {
		panic("tasklock: Lock failed without cancellation: " + err.Error())
	}
}

// LockContext acquires the lock, suspending the calling task until the
// lock is available or ctx is cancelled. On cancellation the task has
// been deregistered from the wait queue and the lock is not held; the
// returned error is ctx.Err().
//
// Being woken grants a chance to acquire, not the acquisition itself:
// a fresh arrival can win the owner compare-and-swap first, so the loop
// re-registers and suspends again until it wins.
func (l *Lock) LockContext(ctx context.Context) error {
	me := task.Current()
	if l.tryLockAs(me) {
		return nil
	}

	for {
		w := l.q.Enqueue(me)

		// Re-try after registering: an Unlock between the failed attempt
		// above and the enqueue would otherwise be missed.
		if l.tryLockAs(me) {
			if !l.q.Remove(w) {
				// Woken and acquired through the fast path at once: the
				// consumed wakeup belongs to the next waiter.
				l.q.NotifyOne()
			}
			return nil
		}

		if err := l.q.Wait(ctx, w); err != nil {
			return err
		}

		if l.tryLockAs(me) {
			return nil
		}
	}
}

// Unlock releases one level of the lock. If the recursion count reaches
// zero the lock becomes free and the longest-waiting task, if any, is
// woken.
//
// Unlock panics if the calling task does not hold the lock — both the
// unlocked case and the non-owner case are caller bugs, reported
// synchronously rather than swallowed.
func (l *Lock) Unlock() {
	me := task.Current()
	if owner := task.ID(l.owner.Load()); owner != me {
		panic(l.misuse("unlock of", owner))
	}
	if l.depth.Add(-1) > 0 {
		// Still held by this task at a shallower depth; nobody to wake.
		return
	}
	// Clear ownership before waking, so the woken task's acquisition
	// attempt can succeed immediately.
	l.owner.Store(int64(task.None))
	l.q.NotifyOne()
}

// IsLocked reports whether the lock is currently held by any task.
//
// This is an observability query only: the answer may be stale the
// instant it is returned, so it must not be used to make synchronization
// decisions. Use TryLock for that.
func (l *Lock) IsLocked() bool {
	return l.depth.Load() != 0
}

// Held reports whether the calling task holds the lock.
func (l *Lock) Held() bool {
	return task.ID(l.owner.Load()) == task.Current()
}

// Waiters returns the number of tasks currently suspended waiting for
// the lock. Like IsLocked, it is informational and inherently racy.
func (l *Lock) Waiters() int {
	return l.q.Len()
}

// releaseAll fully releases the lock regardless of recursion depth and
// returns the depth so reacquire can restore it. It is the unlock_all
// half of the pairing Cond uses when its exterior lock is a Lock held
// recursively. Panics if the calling task is not the owner.
func (l *Lock) releaseAll() int {
	me := task.Current()
	if owner := task.ID(l.owner.Load()); owner != me {
		panic(l.misuse("wait on", owner))
	}
	n := int(l.depth.Load())
	l.depth.Store(0)
	l.owner.Store(int64(task.None))
	l.q.NotifyOne()
	return n
}

// reacquire restores the lock to recursion depth n after a releaseAll.
// A freshly reacquired lock must be at depth exactly 1; anything else is
// an internal consistency break, not a recoverable condition.
func (l *Lock) reacquire(n int) {
	l.Lock()
	if l.depth.Load() != 1 {
		panic("tasklock: reacquired lock has unexpected recursion depth")
	}
	l.depth.Store(int32(n))
}

// misuse builds the panic message for an ownership violation, including
// the holder's acquisition site when debug diagnostics are enabled.
func (l *Lock) misuse(op string, owner task.ID) string {
	var msg string
	if owner == task.None {
		msg = fmt.Sprintf("tasklock: %s unlocked Lock", op)
	} else {
		msg = fmt.Sprintf("tasklock: %s Lock held by another task (task %d)", op, owner)
	}
	if debugEnabled() {
		if site := callsite.Get(l.site.Load()); site != nil {
			msg += "\nacquired at:\n" + site.Format()
		}
	}
	return msg
}
