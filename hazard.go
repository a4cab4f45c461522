// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conc

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// hazardRecord is a single slot in a HazardDomain's global table. A slot
// is owned by exactly one in-flight operation at a time: occupied is
// CAS'd false->true to claim it and stored false to release it. pointer
// publishes the node the owning operation may currently dereference.
//
// Padded to a cache-line boundary so that one goroutine publishing its
// hazard pointer does not force a cache-line bounce on an unrelated
// slot's owner.
type hazardRecord[N any] struct {
	_        pad
	occupied atomix.Bool
	pointer  atomix.Pointer[N]
	_        pad
}

// HazardDomain protects nodes of type N from reclamation while any
// in-flight operation might still dereference them. It implements the
// classic hazard-pointer protocol: acquire a slot, publish a pointer
// into it, re-validate the pointer is still current, and only then
// dereference. Retired nodes accumulate in a domain-global list guarded
// by a Spinlock (see SPEC_FULL.md §9 for why this replaces a
// thread-local list) and are freed once a Scan proves no slot still
// references them.
//
// A HazardDomain is created once per container instance (never as a
// process-wide singleton keyed by type), sized for that container's
// expected concurrency.
type HazardDomain[N any] struct {
	records []hazardRecord[N]

	retireLock      Spinlock
	retireList      []*N
	retireThreshold int

	blockOnExhaustion bool
}

// HazardOption configures a HazardDomain at construction time.
type HazardOption func(*hazardConfig)

type hazardConfig struct {
	blockOnExhaustion bool
}

// WithBackoffOnExhaustion selects the non-fatal hazard-table-exhaustion
// policy: Acquire spins with backoff until a slot frees instead of
// aborting the process. The default policy (fatal abort) matches
// spec.md §4.2's primary recommendation; this option opts into the
// documented alternative.
func WithBackoffOnExhaustion() HazardOption {
	return func(c *hazardConfig) {
		c.blockOnExhaustion = true
	}
}

// NewHazardDomain creates a domain with the given number of global
// hazard slots and a retire-list length that triggers a Scan once
// reached. slots should be at least the number of hazard pointers a
// single operation holds times the expected peak concurrent operation
// count (see spec.md §3: 16 for a stack, 32 for a queue).
func NewHazardDomain[N any](slots, retireThreshold int, opts ...HazardOption) *HazardDomain[N] {
	if slots < 1 {
		panic("conc: hazard domain needs at least one slot")
	}
	if retireThreshold < 1 {
		panic("conc: hazard domain retire threshold must be >= 1")
	}

	var cfg hazardConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &HazardDomain[N]{
		records:           make([]hazardRecord[N], slots),
		retireThreshold:   retireThreshold,
		blockOnExhaustion: cfg.blockOnExhaustion,
	}
}

// Acquire claims one hazard slot for the duration of the calling
// operation. The caller must release it (via Release) before the
// operation returns. Acquire never returns a nil record: if the table
// is exhausted it either blocks with backoff (WithBackoffOnExhaustion)
// or panics (default policy).
func (d *HazardDomain[N]) Acquire() *hazardRecord[N] {
	if rec, ok := d.tryAcquire(); ok {
		return rec
	}

	if !d.blockOnExhaustion {
		panic("conc: hazard table exhausted")
	}

	sw := spin.Wait{}
	for {
		if rec, ok := d.tryAcquire(); ok {
			return rec
		}
		sw.Once()
	}
}

func (d *HazardDomain[N]) tryAcquire() (*hazardRecord[N], bool) {
	for i := range d.records {
		if d.records[i].occupied.CompareAndSwapAcqRel(false, true) {
			return &d.records[i], true
		}
	}
	return nil, false
}

// Protect publishes ptr into rec so that concurrent scanners will see it
// before this operation dereferences ptr. Per spec.md §4.2 the caller
// must re-load the source atomic after Protect and restart if it has
// changed — Protect itself only performs the publish.
func (d *HazardDomain[N]) Protect(rec *hazardRecord[N], ptr *N) {
	rec.pointer.StoreRelease(ptr)
}

// Release clears rec's published pointer and returns slot ownership to
// the domain. Safe to call exactly once per Acquire.
func (d *HazardDomain[N]) Release(rec *hazardRecord[N]) {
	rec.pointer.StoreRelease(nil)
	rec.occupied.StoreRelease(false)
}

// ClearLocal stores nil into every given record's published pointer
// without releasing ownership, matching spec.md §4.2's clear_local. The
// containers in this package do not call it: their operations end with
// Release, which also clears the published pointer.
func (d *HazardDomain[N]) ClearLocal(recs ...*hazardRecord[N]) {
	for _, rec := range recs {
		rec.pointer.StoreRelease(nil)
	}
}

// Retire appends node to the domain's retire list. Once the list
// reaches retireThreshold entries, Scan runs before Retire returns.
func (d *HazardDomain[N]) Retire(node *N) {
	guard := Acquire(&d.retireLock)
	d.retireList = append(d.retireList, node)
	shouldScan := len(d.retireList) >= d.retireThreshold
	guard.Unlock()

	if shouldScan {
		d.Scan()
	}
}

// Scan snapshots every hazard slot's published pointer, then frees every
// retired node whose address does not appear in that snapshot. A node
// that does appear survives to the next Scan.
//
// Safety argument (spec.md §4.2): any operation that may dereference a
// node publishes it into a hazard slot before validating the source
// atomic still points at it, and the source atomic is always CAS'd away
// from a node before that node is retired. If Scan's snapshot misses a
// retired node, no operation holds a live reference to it; if the
// snapshot includes it, Scan keeps it for the next round.
func (d *HazardDomain[N]) Scan() {
	snapshot := make(map[*N]struct{}, len(d.records))
	for i := range d.records {
		if p := d.records[i].pointer.LoadAcquire(); p != nil {
			snapshot[p] = struct{}{}
		}
	}

	// Go has no explicit delete: a retired node is "freed" simply by
	// dropping the last reference to it here, so the garbage collector
	// can reclaim it once nothing else (in particular no hazard slot)
	// still points at it.
	guard := Acquire(&d.retireLock)
	originalLen := len(d.retireList)
	kept := d.retireList[:0]
	for _, node := range d.retireList {
		if _, hazarded := snapshot[node]; hazarded {
			kept = append(kept, node)
		}
	}
	clear(d.retireList[len(kept):originalLen])
	d.retireList = kept
	guard.Unlock()
}

// RetireListLen reports the number of nodes currently awaiting a Scan.
// Exposed for tests that assert the bounded-retire-list invariant
// (spec.md §8 property 8).
func (d *HazardDomain[N]) RetireListLen() int {
	guard := Acquire(&d.retireLock)
	n := len(d.retireList)
	guard.Unlock()
	return n
}
