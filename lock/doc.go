// Package lock provides task synchronization primitives built on a single
// spinlock-protected FIFO wait queue: a reentrant mutual exclusion lock,
// a condition variable, a counting semaphore, and a one-shot event.
//
// The unit of ownership is the task — in Go, the goroutine. A [Lock] may
// be acquired repeatedly by its holder and is released for other tasks
// only after a matching number of unlocks. The uncontended acquisition is
// a single compare-and-swap; only contended acquirers touch the wait
// queue and suspend.
//
// # Quick Start
//
//	var mu lock.Lock
//
//	mu.Lock()
//	defer mu.Unlock()
//	// exclusive access; nested mu.Lock()/mu.Unlock() pairs are fine
//
// Or scoped:
//
//	lock.With(&mu, func() {
//	    // exclusive access, released on every exit path
//	})
//
// # Blocking and Cancellation
//
// Every blocking operation has a context-aware form — [Lock.LockContext],
// [Cond.WaitContext], [Semaphore.AcquireContext], [Event.WaitContext] —
// that unwinds cleanly on cancellation: the task is deregistered from the
// wait queue and, for Cond, the exterior lock is reacquired before the
// error propagates. The plain forms never time out; blocking is bounded
// only by another task calling the matching release or notify.
//
// # Wakeup Semantics
//
// Wakeup order on every queue is FIFO by arrival. [Lock.Unlock] and
// [Semaphore.Release] wake exactly one waiter, since only one can win the
// freed resource; [Event.Set] broadcasts, since every waiter's condition
// becomes true at once. A wakeup is a chance to proceed, not a guarantee:
// waiters recheck their condition in a loop.
//
// # Misuse
//
// Releasing a lock the calling task does not hold, releasing a semaphore
// more times than acquired, and constructing a semaphore with
// non-positive capacity are caller bugs. They panic synchronously with
// tasklock-prefixed messages; with [SetDebug] enabled, ownership panics
// include where the current holder acquired the lock.
package lock
