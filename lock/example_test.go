package lock_test

import (
	"fmt"
	"sync"

	"github.com/kolkov/tasklock/lock"
)

// Example demonstrates reentrant acquisition: the holder may lock again
// and the lock stays held until the matching number of unlocks.
func Example() {
	var mu lock.Lock

	mu.Lock()
	mu.Lock() // recursive re-entry by the same task
	fmt.Println("depth 2 held:", mu.IsLocked())

	mu.Unlock()
	fmt.Println("depth 1 held:", mu.IsLocked())

	mu.Unlock()
	fmt.Println("released:", mu.IsLocked())

	// Output:
	// depth 2 held: true
	// depth 1 held: true
	// released: false
}

// Example_scoped shows the release-on-all-paths helper.
func Example_scoped() {
	var (
		mu      lock.Lock
		counter int
	)

	lock.With(&mu, func() {
		counter++
	})

	fmt.Println("counter:", counter, "held:", mu.IsLocked())

	// Output:
	// counter: 1 held: false
}

// Example_semaphore bounds concurrent workers with a permit pool.
func Example_semaphore() {
	sem := lock.NewSemaphore(2)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem.Acquire()
			defer sem.Release()
			// At most 2 workers run here at once.
		}()
	}
	wg.Wait()

	fmt.Println("permits in use:", sem.InUse())

	// Output:
	// permits in use: 0
}

// Example_event gates workers on a one-shot startup signal.
func Example_event() {
	ready := lock.NewEvent()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ready.Wait() // suspend until the signal
		}()
	}

	ready.Set() // one broadcast wakes every waiter
	wg.Wait()

	fmt.Println("signalled:", ready.IsSet())

	// Output:
	// signalled: true
}
