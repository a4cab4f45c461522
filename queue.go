// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conc

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// queueNode is one link in an MSQueue's chain. The sentinel node (the
// one head always points at) carries no meaningful value; hasValue
// distinguishes it from a node holding a real element.
type queueNode[T any] struct {
	next     atomix.Pointer[queueNode[T]]
	value    T
	hasValue bool
}

// queueHazardSlots is the number of global hazard slots for MSQueue
// (spec.md §3: 32).
const queueHazardSlots = 32

// queueRetireThreshold matches spec.md §4.2's default.
const queueRetireThreshold = 64

// MSQueue is an unbounded Michael–Scott lock-free FIFO. head always
// points at a valueless sentinel; real elements live in
// head.next, head.next.next, ..., through tail. tail may transiently lag
// one node behind the true end during a concurrent Push — the standard
// MS transient, resolved by helping.
type MSQueue[T any] struct {
	head    atomix.Pointer[queueNode[T]]
	tail    atomix.Pointer[queueNode[T]]
	size    atomix.Uint64
	hazards *HazardDomain[queueNode[T]]
}

// NewMSQueue creates an empty queue with a freshly allocated sentinel
// node.
func NewMSQueue[T any]() *MSQueue[T] {
	sentinel := &queueNode[T]{}
	q := &MSQueue[T]{
		hazards: NewHazardDomain[queueNode[T]](queueHazardSlots, queueRetireThreshold),
	}
	q.head.StoreRelaxed(sentinel)
	q.tail.StoreRelaxed(sentinel)
	return q
}

// Push appends value to the tail of the queue.
func (q *MSQueue[T]) Push(value T) {
	q.enqueueNode(&queueNode[T]{value: value, hasValue: true})
}

// Emplace constructs the zero value of T and appends it, matching
// spec.md's "emplace with zero arguments constructs T::default()"
// edge case.
func (q *MSQueue[T]) Emplace() {
	var zero T
	q.Push(zero)
}

// EmplaceFunc constructs T via build and appends the result, standing in
// for C++'s variadic emplace(args...) (see SPEC_FULL.md §9).
func (q *MSQueue[T]) EmplaceFunc(build func() T) {
	q.Push(build())
}

// PushRange appends every value in order.
func (q *MSQueue[T]) PushRange(values ...T) {
	for _, v := range values {
		q.Push(v)
	}
}

func (q *MSQueue[T]) enqueueNode(newNode *queueNode[T]) {
	rec := q.hazards.Acquire()
	defer q.hazards.Release(rec)

	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		q.hazards.Protect(rec, tail)
		if q.tail.LoadAcquire() != tail {
			continue
		}

		next := tail.next.LoadAcquire()
		if q.tail.LoadAcquire() != tail {
			continue
		}

		if next == nil {
			if tail.next.CompareAndSwapAcqRel(nil, newNode) {
				q.tail.CompareAndSwapAcqRel(tail, newNode)
				q.size.AddAcqRel(1)
				return
			}
		} else {
			q.tail.CompareAndSwapAcqRel(tail, next)
		}
		sw.Once()
	}
}

// Pop removes and returns the element at the front of the queue, or
// (zero, false) if empty.
func (q *MSQueue[T]) Pop() (T, bool) {
	recHead := q.hazards.Acquire()
	recNext := q.hazards.Acquire()
	defer q.hazards.Release(recHead)
	defer q.hazards.Release(recNext)

	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		q.hazards.Protect(recHead, head)
		if q.head.LoadAcquire() != head {
			continue
		}

		next := head.next.LoadAcquire()
		q.hazards.Protect(recNext, next)
		if q.head.LoadAcquire() != head {
			continue
		}

		if next == nil {
			var zero T
			return zero, false
		}

		tail := q.tail.LoadAcquire()
		if head == tail {
			q.tail.CompareAndSwapAcqRel(tail, next)
			sw.Once()
			continue
		}

		if q.head.CompareAndSwapAcqRel(head, next) {
			value := next.value
			q.size.AddAcqRel(^uint64(0)) // size - 1
			q.hazards.Retire(head)
			return value, true
		}
		sw.Once()
	}
}

// Front returns a copy of the frontmost element without removing it, or
// (zero, false) if empty.
func (q *MSQueue[T]) Front() (T, bool) {
	recHead := q.hazards.Acquire()
	recNext := q.hazards.Acquire()
	defer q.hazards.Release(recHead)
	defer q.hazards.Release(recNext)

	for {
		head := q.head.LoadAcquire()
		q.hazards.Protect(recHead, head)
		if q.head.LoadAcquire() != head {
			continue
		}

		next := head.next.LoadAcquire()
		q.hazards.Protect(recNext, next)
		if q.head.LoadAcquire() != head {
			continue
		}

		if next == nil {
			var zero T
			return zero, false
		}
		return next.value, true
	}
}

// Back returns a copy of the element that was last in the chain during
// the walk, or (zero, false) if empty. The walk is O(n) and
// hazard-protected two slots at a time, rotating as it advances; per
// spec.md §9 this is "some value that was the tail during the walk",
// with no stronger staleness guarantee.
func (q *MSQueue[T]) Back() (T, bool) {
	recCurr := q.hazards.Acquire()
	recNext := q.hazards.Acquire()
	defer q.hazards.Release(recCurr)
	defer q.hazards.Release(recNext)

	for {
		head := q.head.LoadAcquire()
		q.hazards.Protect(recCurr, head)
		if q.head.LoadAcquire() != head {
			continue
		}

		current := head.next.LoadAcquire()
		q.hazards.Protect(recNext, current)
		if q.head.LoadAcquire() != head {
			continue
		}

		if current == nil {
			var zero T
			return zero, false
		}

		q.hazards.Protect(recCurr, current)
		q.hazards.Protect(recNext, nil)

		for {
			next := current.next.LoadAcquire()
			if next == nil {
				return current.value, true
			}

			q.hazards.Protect(recNext, next)
			if current.next.LoadAcquire() != next {
				continue
			}

			current = next
			q.hazards.Protect(recCurr, current)
			q.hazards.Protect(recNext, nil)
		}
	}
}

// Empty reports whether the queue currently has no elements.
func (q *MSQueue[T]) Empty() bool {
	return q.size.LoadRelaxed() == 0
}

// Size returns the element count. Relaxed, per spec.md §4.5.
func (q *MSQueue[T]) Size() uint64 {
	return q.size.LoadRelaxed()
}
