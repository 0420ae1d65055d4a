package a

type mutex struct{ held bool }

func (m *mutex) Lock()         {}
func (m *mutex) Unlock()       {}
func (m *mutex) TryLock() bool { return true }

type sema struct{ n int }

func (s *sema) Acquire()         {}
func (s *sema) Release()         {}
func (s *sema) TryAcquire() bool { return true }

func goodDefer() {
	var mu mutex
	mu.Lock()
	defer mu.Unlock()
}

func goodInline() {
	var mu mutex
	mu.Lock()
	mu.Unlock()
}

func goodTry() {
	var mu mutex
	if mu.TryLock() {
		defer mu.Unlock()
	}
}

func badNeverReleased() {
	var mu mutex
	mu.Lock() // want `mu\.Lock is never released in this function; missing defer mu\.Unlock\?`
}

func badDiscardedTry() {
	var mu mutex
	mu.TryLock() // want `result of mu\.TryLock is never used`
	defer mu.Unlock()
}

func badSemaphore(s *sema) {
	s.Acquire() // want `s\.Acquire is never released in this function; missing defer s\.Release\?`
}

func badDiscardedTryAcquire(s *sema) {
	s.TryAcquire() // want `result of s\.TryAcquire is never used`
}

func goodFieldReceiver() {
	type box struct{ mu mutex }
	var b box
	b.mu.Lock()
	defer b.mu.Unlock()
}

func badFieldReceiver() {
	type box struct{ mu mutex }
	var b box
	b.mu.Lock() // want `b\.mu\.Lock is never released in this function; missing defer b\.mu\.Unlock\?`
}

// Lock is a package-level function whose name collides with the method
// set; calls to it must not be flagged.
func Lock() {}

func goodPackageFunc() {
	Lock()
}
