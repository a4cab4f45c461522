// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conc

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Spinlock is a TTAS (test-test-and-set) mutual-exclusion lock over a
// single atomic word. It is not reentrant and makes no fairness
// guarantee: a goroutine may be starved indefinitely under adversarial
// scheduling. This is acceptable because every critical section guarded
// by a Spinlock in this package is O(1) memory accesses.
//
// Spinlock is cache-line aligned via its pad fields so that contended
// spinning by one goroutine does not thrash an unrelated hot field
// sharing the same cache line.
type Spinlock struct {
	_     pad
	state atomix.Uint32
	_     pad
}

const (
	spinUnlocked = 0
	spinLocked   = 1
)

// Lock blocks until the lock is acquired.
func (l *Spinlock) Lock() {
	if l.state.CompareAndSwapAcqRel(spinUnlocked, spinLocked) {
		return
	}

	sw := spin.Wait{}
	for {
		for l.state.LoadRelaxed() != spinUnlocked {
			sw.Once()
		}
		if l.state.CompareAndSwapAcqRel(spinUnlocked, spinLocked) {
			return
		}
	}
}

// TryLock attempts to acquire the lock without blocking.
func (l *Spinlock) TryLock() bool {
	return l.state.CompareAndSwapAcqRel(spinUnlocked, spinLocked)
}

// Unlock releases the lock. The caller must hold it.
func (l *Spinlock) Unlock() {
	l.state.StoreRelease(spinUnlocked)
}

// SpinlockGuard is a scoped, non-copyable acquisition of a Spinlock.
// Construct with Acquire and release with Unlock, typically via defer.
type SpinlockGuard struct {
	_    noCopy
	lock *Spinlock
}

// Acquire locks l and returns a guard that releases it once.
func Acquire(l *Spinlock) SpinlockGuard {
	l.Lock()
	return SpinlockGuard{lock: l}
}

// Unlock releases the underlying Spinlock. Calling it more than once
// double-unlocks the lock; callers should call it at most once per guard
// (the normal pattern is a single deferred call).
func (g *SpinlockGuard) Unlock() {
	g.lock.Unlock()
}
