// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conc

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// AdaptiveStack is a LIFO container that starts as a spinlock-protected
// slice (cheap under little or no contention) and irreversibly promotes
// to a lock-free Treiber list once sustained contention is observed.
// The promotion is one-way: a stack never demotes back to spinlock mode.
//
// Exactly one representation is authoritative at any observable instant
// (spec.md §3 invariant 1): while not using CAS mode, cas stays nil
// and size comes from the spin slice's length; after promotion, the
// slice is empty and size comes from the Treiber list.
type AdaptiveStack[T any] struct {
	_ noCopy

	modeLock sync.RWMutex
	usingCAS atomix.Bool

	spinLock Spinlock
	spinData []T

	cas *TreiberList[T]

	activeOps          atomix.Uint64
	contentionStreak   atomix.Uint64
	promotionRequested atomix.Bool

	contentionThreadThreshold uint64
	promotionStreakThreshold  uint64
}

// NewAdaptiveStack creates an empty stack with default tunables
// (spec.md §3: contention threshold 3, promotion streak 64).
func NewAdaptiveStack[T any]() *AdaptiveStack[T] {
	return NewAdaptiveStackWithOptions[T]()
}

// NewAdaptiveStackWithCapacity creates an empty stack whose spinlock-mode
// backing slice is pre-sized to reserveHint.
func NewAdaptiveStackWithCapacity[T any](reserveHint int) *AdaptiveStack[T] {
	return NewAdaptiveStackWithOptions[T](WithReserve(reserveHint))
}

// NewAdaptiveStackWithOptions creates an empty stack configured by opts.
func NewAdaptiveStackWithOptions[T any](opts ...StackOption) *AdaptiveStack[T] {
	cfg := defaultStackConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &AdaptiveStack[T]{
		contentionThreadThreshold: cfg.contentionThreadThreshold,
		promotionStreakThreshold:  cfg.promotionStreakThreshold,
	}
	if cfg.reserveHint > 0 {
		s.spinData = make([]T, 0, cfg.reserveHint)
	}
	return s
}

// enterActiveOp and leaveActiveOp implement spec.md §4.4's ActiveOp
// scope: entering an operation increments activeOps and samples
// contention; leaving it decrements activeOps.
func (s *AdaptiveStack[T]) enterActiveOp() {
	active := s.activeOps.AddAcqRel(1)
	s.observeContention(active)
}

func (s *AdaptiveStack[T]) leaveActiveOp() {
	s.activeOps.AddAcqRel(^uint64(0)) // activeOps - 1
}

// observeContention implements spec.md §4.4's streak/threshold logic.
func (s *AdaptiveStack[T]) observeContention(active uint64) {
	if s.usingCAS.LoadRelaxed() {
		return
	}

	if active >= s.contentionThreadThreshold {
		streak := s.contentionStreak.AddAcqRel(1)
		if streak >= s.promotionStreakThreshold {
			s.promotionRequested.StoreRelease(true)
		}
	} else {
		s.contentionStreak.StoreRelaxed(0)
	}
}

// maybePromoteToCAS implements spec.md §4.4's one-way promotion: it
// moves every element currently in spinData onto a fresh TreiberList,
// preserving LIFO order (the element that was on top of spinData ends
// up on top of the Treiber list), then flips usingCAS.
func (s *AdaptiveStack[T]) maybePromoteToCAS() {
	if s.usingCAS.LoadAcquire() || !s.promotionRequested.LoadRelaxed() {
		return
	}

	s.modeLock.Lock()
	defer s.modeLock.Unlock()

	if s.usingCAS.LoadRelaxed() {
		return
	}

	guard := Acquire(&s.spinLock)
	transfer := s.spinData
	s.spinData = nil
	guard.Unlock()

	cas := NewTreiberList[T]()
	for _, value := range transfer {
		cas.Push(value)
	}

	s.cas = cas
	s.usingCAS.StoreRelease(true)
}

// Push adds value to the top of the stack.
func (s *AdaptiveStack[T]) Push(value T) {
	s.enterActiveOp()
	defer s.leaveActiveOp()
	s.maybePromoteToCAS()

	s.modeLock.RLock()
	defer s.modeLock.RUnlock()

	if s.usingCAS.LoadAcquire() {
		s.cas.Push(value)
		return
	}

	guard := Acquire(&s.spinLock)
	defer guard.Unlock()
	s.spinData = append(s.spinData, value)
}

// Emplace constructs the zero value of T and pushes it, matching
// spec.md's "emplace with zero arguments constructs T::default()"
// edge case.
func (s *AdaptiveStack[T]) Emplace() {
	var zero T
	s.Push(zero)
}

// EmplaceFunc constructs T via build and pushes the result, standing in
// for C++'s variadic emplace(args...) (see SPEC_FULL.md §9).
func (s *AdaptiveStack[T]) EmplaceFunc(build func() T) {
	s.Push(build())
}

// Reserve pre-sizes the spinlock-mode backing slice. It is advisory
// only (spec.md §9 Open Question): in CAS mode it is a no-op, since a
// linked list has no reserve concept, and a promotion racing this call
// can still leave the hint unused. It never changes Size.
func (s *AdaptiveStack[T]) Reserve(n int) {
	s.enterActiveOp()
	defer s.leaveActiveOp()
	s.maybePromoteToCAS()

	s.modeLock.RLock()
	defer s.modeLock.RUnlock()

	if s.usingCAS.LoadAcquire() {
		return
	}

	guard := Acquire(&s.spinLock)
	defer guard.Unlock()
	if n > cap(s.spinData) {
		grown := make([]T, len(s.spinData), n)
		copy(grown, s.spinData)
		s.spinData = grown
	}
}

// Pop removes and returns the top element, or (zero, false) if empty.
func (s *AdaptiveStack[T]) Pop() (T, bool) {
	s.enterActiveOp()
	defer s.leaveActiveOp()
	s.maybePromoteToCAS()

	s.modeLock.RLock()
	defer s.modeLock.RUnlock()

	if s.usingCAS.LoadAcquire() {
		return s.cas.Pop()
	}

	guard := Acquire(&s.spinLock)
	defer guard.Unlock()

	n := len(s.spinData)
	if n == 0 {
		var zero T
		return zero, false
	}

	value := s.spinData[n-1]
	var zero T
	s.spinData[n-1] = zero
	s.spinData = s.spinData[:n-1]
	return value, true
}

// Top returns a copy of the current top element without removing it, or
// (zero, false) if empty. Read-only: it never opens an ActiveOp scope
// and never triggers promotion (spec.md §4.4).
func (s *AdaptiveStack[T]) Top() (T, bool) {
	s.modeLock.RLock()
	defer s.modeLock.RUnlock()

	if s.usingCAS.LoadAcquire() {
		return s.cas.Top()
	}

	guard := Acquire(&s.spinLock)
	defer guard.Unlock()

	if len(s.spinData) == 0 {
		var zero T
		return zero, false
	}
	return s.spinData[len(s.spinData)-1], true
}

// Empty reports whether the stack currently has no elements. Read-only,
// like Top.
func (s *AdaptiveStack[T]) Empty() bool {
	s.modeLock.RLock()
	defer s.modeLock.RUnlock()

	if s.usingCAS.LoadAcquire() {
		return s.cas.Empty()
	}

	guard := Acquire(&s.spinLock)
	defer guard.Unlock()
	return len(s.spinData) == 0
}

// Size returns the element count. In spinlock mode it is exact
// (protected by the spinlock); in CAS mode it is relaxed and may lag
// in-flight operations (spec.md §4.4).
func (s *AdaptiveStack[T]) Size() uint64 {
	s.modeLock.RLock()
	defer s.modeLock.RUnlock()

	if s.usingCAS.LoadAcquire() {
		return s.cas.Size()
	}

	guard := Acquire(&s.spinLock)
	defer guard.Unlock()
	return uint64(len(s.spinData))
}

// IsUsingCAS reports whether the stack has promoted to lock-free mode.
// Monotonic: once true, never observed false again (spec.md §8 property
// 4).
func (s *AdaptiveStack[T]) IsUsingCAS() bool {
	return s.usingCAS.LoadAcquire()
}
