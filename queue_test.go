// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conc_test

import (
	"testing"

	"code.seraphlabs.dev/conc"
)

func TestMSQueueFIFO(t *testing.T) {
	q := conc.NewMSQueue[int]()

	if !q.Empty() {
		t.Fatalf("Empty: got false, want true on a fresh queue")
	}

	for i := range 5 {
		q.Push(i)
	}

	if got := q.Size(); got != 5 {
		t.Fatalf("Size: got %d, want 5", got)
	}

	for i := range 5 {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop: got ok=false, want true")
		}
		if v != i {
			t.Fatalf("Pop: got %d, want %d", v, i)
		}
	}

	if !q.Empty() {
		t.Fatalf("Empty: got false, want true after draining")
	}
}

func TestMSQueuePopEmpty(t *testing.T) {
	q := conc.NewMSQueue[string]()

	if v, ok := q.Pop(); ok || v != "" {
		t.Fatalf("Pop on empty: got (%q, %v), want (\"\", false)", v, ok)
	}
	if v, ok := q.Front(); ok || v != "" {
		t.Fatalf("Front on empty: got (%q, %v), want (\"\", false)", v, ok)
	}
	if v, ok := q.Back(); ok || v != "" {
		t.Fatalf("Back on empty: got (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestMSQueueFrontBack(t *testing.T) {
	q := conc.NewMSQueue[int]()
	q.PushRange(1, 2, 3)

	if v, ok := q.Front(); !ok || v != 1 {
		t.Fatalf("Front: got (%d, %v), want (1, true)", v, ok)
	}
	if v, ok := q.Back(); !ok || v != 3 {
		t.Fatalf("Back: got (%d, %v), want (3, true)", v, ok)
	}
	if got := q.Size(); got != 3 {
		t.Fatalf("Size after Front/Back: got %d, want 3 (peeking must not remove)", got)
	}
}

func TestMSQueueEmplace(t *testing.T) {
	q := conc.NewMSQueue[int]()
	q.Emplace()

	v, ok := q.Pop()
	if !ok || v != 0 {
		t.Fatalf("Pop after Emplace: got (%d, %v), want (0, true)", v, ok)
	}
}

func TestMSQueueEmplaceFunc(t *testing.T) {
	q := conc.NewMSQueue[string]()
	q.EmplaceFunc(func() string { return "built" })

	v, ok := q.Pop()
	if !ok || v != "built" {
		t.Fatalf("Pop after EmplaceFunc: got (%q, %v), want (\"built\", true)", v, ok)
	}
}

func TestMSQueuePushRangeOrder(t *testing.T) {
	q := conc.NewMSQueue[int]()
	q.PushRange(10, 20, 30, 40)

	for _, want := range []int{10, 20, 30, 40} {
		v, ok := q.Pop()
		if !ok || v != want {
			t.Fatalf("Pop: got (%d, %v), want (%d, true)", v, ok, want)
		}
	}
}

func TestMSQueueSingleElementBackEqualsFront(t *testing.T) {
	q := conc.NewMSQueue[int]()
	q.Push(7)

	f, ok := q.Front()
	if !ok || f != 7 {
		t.Fatalf("Front: got (%d, %v), want (7, true)", f, ok)
	}
	b, ok := q.Back()
	if !ok || b != 7 {
		t.Fatalf("Back: got (%d, %v), want (7, true)", b, ok)
	}
}
