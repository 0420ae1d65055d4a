package lock

import (
	"context"
	"sync"
)

// ContextLocker is a lock whose blocking acquisition honors a context.
// *Lock implements it.
type ContextLocker interface {
	LockContext(ctx context.Context) error
	Unlock()
}

// With acquires l, runs body, and releases l on every exit path,
// including a panic inside body.
func With(l sync.Locker, body func()) {
	l.Lock()
	defer l.Unlock()
	body()
}

// WithValue is With for a body that yields a value:
//
//	n := lock.WithValue(&mu, func() int { return counter })
func WithValue[T any](l sync.Locker, body func() T) T {
	l.Lock()
	defer l.Unlock()
	return body()
}

// WithContext acquires l under ctx, runs body, and releases l on every
// exit path. If the acquisition itself is cancelled, body does not run
// and the lock is not held.
func WithContext(ctx context.Context, l ContextLocker, body func() error) error {
	if err := l.LockContext(ctx); err != nil {
		return err
	}
	defer l.Unlock()
	return body()
}

// WithUnchecked runs body between Lock and Unlock without a deferred
// release. It is marginally cheaper than With but must only be used when
// body cannot panic: a panic inside body leaves l held permanently.
func WithUnchecked(l sync.Locker, body func()) {
	l.Lock()
	body()
	l.Unlock()
}
