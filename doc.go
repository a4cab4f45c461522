// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package conc provides concurrent, unbounded LIFO and FIFO containers
// that trade off algorithm choice for contention automatically.
//
// [AdaptiveStack] starts as a spinlock-protected slice and promotes
// irreversibly to a lock-free Treiber list once sustained contention is
// observed. [MSQueue] is always a lock-free Michael–Scott queue. Both
// use hazard pointers ([HazardDomain]) to decide when an unlinked node
// may be released, without an epoch-based scheme; released nodes are
// then reclaimed by the garbage collector.
//
// # Quick Start
//
//	s := conc.NewAdaptiveStack[int]()
//	s.Push(1)
//	s.Push(2)
//	v, ok := s.Pop() // v == 2, ok == true
//
//	q := conc.NewMSQueue[int]()
//	q.Push(1)
//	q.Push(2)
//	v, ok = q.Pop() // v == 1, ok == true
//
// # Basic Usage
//
// Both containers share the same shape: Push/Emplace/EmplaceFunc add
// elements, Pop removes one, Top (stack) or Front/Back (queue) peek
// without removing, and Empty/Size report status. None of these
// operations return an error — an empty container is reported through
// the ordinary "comma ok" idiom:
//
//	if v, ok := s.Pop(); ok {
//	    use(v)
//	}
//
// # Mode Promotion
//
// A freshly constructed AdaptiveStack holds its elements in a plain
// slice behind a spinlock — cheap to allocate, cheap to use under light
// contention. Every operation samples how many operations, itself
// included, are active at the same moment; once that count has stayed at or above a
// threshold for enough consecutive samples, the stack promotes to a
// lock-free [TreiberList], moving every element across in order. The
// promotion happens at most once per stack and is never undone — see
// [AdaptiveStack.IsUsingCAS]. Callers that want to force or tune this
// behavior can use [WithContentionThreshold], [WithPromotionStreak], or
// simply construct with [NewAdaptiveStackWithOptions].
//
// # Hazard Pointers
//
// Both the stack's CAS-mode list and the queue track unlinked nodes with
// hazard pointers: a goroutine that is about to dereference
// a node it read from a shared atomic pointer first publishes that
// pointer into a slot other goroutines can see, re-validates the source
// atomic still points at it, and only then proceeds. A node is retired
// (queued for reclamation) the moment it is unlinked, and the domain
// does not drop its reference until a scan confirms no published slot
// still references it; the garbage collector then reclaims the node.
// See [HazardDomain] for the full protocol.
//
// # Thread Safety
//
// Every exported method on [AdaptiveStack], [TreiberList], and
// [MSQueue] is safe to call concurrently from any number of goroutines;
// there are no producer/consumer arity constraints to honor, unlike a
// bounded ring buffer.
//
// # Race Detection
//
// [RaceEnabled] reports whether the race detector is active. Tests use
// it to size stress-test iteration counts down under -race (where the
// detector's instrumentation overhead would otherwise make a full run
// too slow), not to skip correctness coverage: this package's
// algorithms synchronize through atomic compare-and-swap with explicit
// acquire/release ordering, which the race detector does observe
// correctly on the atomix types used here.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomics with
// explicit memory ordering and [code.hybscloud.com/spin] for CPU-pause
// backoff in CAS retry loops. It defines no errors of its own and does
// not depend on code.hybscloud.com/iox (see SPEC_FULL.md §7 for why).
package conc
