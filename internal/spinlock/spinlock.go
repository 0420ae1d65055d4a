// Package spinlock implements a busy-wait mutual exclusion primitive.
//
// A Spinlock protects only very short critical sections: a handful of
// pointer operations on a waiter list. Holders must never suspend or call
// back into code that can block while the lock is held. For anything
// longer-lived, use the primitives in the lock package instead.
package spinlock

import (
	"runtime"
	"sync/atomic"
)

// Spinlock is a spinning lock built on a single atomic word.
// The zero value is an unlocked Spinlock. It must not be copied after
// first use.
type Spinlock struct {
	state atomic.Uint32
}

// spinsBeforeYield bounds how long an acquirer burns CPU before handing
// the processor to the scheduler. Waiting out a holder that was preempted
// mid-critical-section requires letting it run again.
const spinsBeforeYield = 64

// Lock acquires the spinlock, busy-waiting until it is free.
// Re-acquiring a spinlock already held by the current task deadlocks.
func (l *Spinlock) Lock() {
	spins := 0
	for !l.TryLock() {
		spins++
		if spins >= spinsBeforeYield {
			spins = 0
			runtime.Gosched()
		}
	}
}

// TryLock attempts to acquire the spinlock without spinning and reports
// whether it succeeded.
func (l *Spinlock) TryLock() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Unlock releases the spinlock. It does not verify the caller holds it;
// that is the holder's obligation, as with every spinlock in this style.
func (l *Spinlock) Unlock() {
	l.state.Store(0)
}
