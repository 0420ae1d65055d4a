// Package callsite captures and deduplicates lock acquisition sites.
//
// When debug diagnostics are enabled, the lock package records where each
// lock was last acquired so that a misuse panic (say, an unlock by a task
// that is not the owner) can name the holder's call site. Identical sites
// are stored once, keyed by a 64-bit FNV-1a hash of the program counters,
// so a lock acquired in a loop costs one entry, not one per acquisition.
//
// Design:
//   - Fixed-size traces (8 frames); lock misuse is visible near the top
//     of the stack
//   - Hash-based deduplication in a global sync.Map
//   - Capture returns only the hash; the holder stores 8 bytes
package callsite

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
	"sync"
	"unsafe"
)

// MaxFrames is the number of stack frames captured per site.
const MaxFrames = 8

// Site is a captured acquisition site with a fixed frame budget.
type Site struct {
	PC [MaxFrames]uintptr
	n  int
}

// depot is the global deduplication store.
// Key: uint64 hash. Value: *Site.
var depot sync.Map

// Capture records the caller's current stack and returns its hash, storing
// the site in the depot for later lookup. A zero return means no stack was
// available. Safe for concurrent use.
func Capture() uint64 {
	// Skip runtime.Callers and Capture itself so the site starts at
	// Capture's caller (the acquiring lock method's caller).
	var pcs [MaxFrames]uintptr
	n := runtime.Callers(2, pcs[:])
	if n == 0 {
		return 0
	}

	hash := hashFrames(pcs[:n])

	// Already stored: skip the allocation.
	if _, ok := depot.Load(hash); ok {
		return hash
	}

	site := &Site{PC: pcs, n: n}
	depot.Store(hash, site)
	return hash
}

// Get returns the site for a hash previously returned by Capture, or nil.
func Get(hash uint64) *Site {
	v, ok := depot.Load(hash)
	if !ok {
		return nil
	}
	return v.(*Site)
}

// Format renders the site as one "func (file:line)" entry per line.
func (s *Site) Format() string {
	var b strings.Builder
	frames := runtime.CallersFrames(s.PC[:s.n])
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			fmt.Fprintf(&b, "  %s (%s:%d)\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return b.String()
}

// hashFrames computes the FNV-1a hash of the raw program counters.
// FNV-1a is fast and distributes well for the small, pointer-like inputs
// here; it is the same choice the shadow-state depots in race detectors
// make.
func hashFrames(pcs []uintptr) uint64 {
	h := fnv.New64a()
	for _, pc := range pcs {
		var buf [8]byte
		*(*uintptr)(unsafe.Pointer(&buf[0])) = pc
		h.Write(buf[:])
	}
	return h.Sum64()
}
