package queue

import (
	"strings"
	"testing"

	"golang.org/x/exp/slices"
)

func newTestQueue(t *testing.T, ledger *Ledger, values ...string) *Queue {
	t.Helper()
	q := New(WithAllocator(ledger))
	if q == nil {
		t.Fatalf("expected New to return a queue")
	}
	for _, v := range values {
		if err := q.InsertTail(v); err != nil {
			t.Fatalf("insert %q failed: %v", v, err)
		}
	}
	return q
}

func assertValues(t *testing.T, q *Queue, want ...string) {
	t.Helper()
	if err := q.Validate(); err != nil {
		t.Fatalf("queue is not a valid ring: %v", err)
	}
	got := q.Values()
	if !slices.Equal(got, want) {
		t.Fatalf("expected values %q, got %q", want, got)
	}
	if size := q.Size(); size != len(want) {
		t.Fatalf("expected size %d, got %d", len(want), size)
	}
}

func assertNoLeaks(t *testing.T, ledger *Ledger) {
	t.Helper()
	if leaks := ledger.Leaks(); leaks != nil {
		t.Fatalf("expected no live blocks, got %v", leaks)
	}
	if n := ledger.Overfreed(); n != 0 {
		t.Fatalf("expected no double frees, got %d", n)
	}
}

func TestQueueInsertAndRemove(t *testing.T) {
	ledger := NewLedger(0)
	q := newTestQueue(t, ledger)
	assertValues(t, q)

	if err := q.InsertHead("b"); err != nil {
		t.Fatalf("InsertHead failed: %v", err)
	}
	if err := q.InsertHead("a"); err != nil {
		t.Fatalf("InsertHead failed: %v", err)
	}
	if err := q.InsertTail("c"); err != nil {
		t.Fatalf("InsertTail failed: %v", err)
	}
	assertValues(t, q, "a", "b", "c")

	buf := make([]byte, 16)
	e := q.RemoveHead(buf)
	if e == nil || e.Value() != "a" || CString(buf) != "a" {
		t.Fatalf("expected RemoveHead to return a, got %v (%q)", e.Value(), CString(buf))
	}
	if e.Linked() || e.Next() != nil || e.Prev() != nil {
		t.Fatalf("removed element should be detached")
	}
	if err := e.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	e = q.RemoveTail(buf)
	if e == nil || CString(buf) != "c" {
		t.Fatalf("expected RemoveTail to return c, got %q", CString(buf))
	}
	if err := e.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	assertValues(t, q, "b")

	e = q.RemoveTail(nil)
	if e == nil || e.Value() != "b" {
		t.Fatalf("expected RemoveTail to return b")
	}
	if err := e.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	assertValues(t, q)

	if e := q.RemoveHead(buf); e != nil {
		t.Fatalf("expected RemoveHead on an empty queue to return nil")
	}
	if e := q.RemoveTail(buf); e != nil {
		t.Fatalf("expected RemoveTail on an empty queue to return nil")
	}

	q.Free()
	assertNoLeaks(t, ledger)
}

func TestQueueInsertCopiesValue(t *testing.T) {
	src := []byte("mutable")
	s := string(src)
	q := newTestQueue(t, NewLedger(0), s)
	src[0] = 'M'
	if got := q.Front().Value(); got != "mutable" {
		t.Fatalf("expected stored value to be independent of the caller, got %q", got)
	}
}

func TestQueueRemoveTruncates(t *testing.T) {
	ledger := NewLedger(0)
	q := newTestQueue(t, ledger, "abcdefgh", "xyz")

	buf := []byte("########")
	buf = buf[:5]
	e := q.RemoveHead(buf)
	if e == nil {
		t.Fatalf("expected an element")
	}
	if got := CString(buf); got != "abcd" {
		t.Fatalf("expected truncated copy abcd, got %q", got)
	}
	if buf[4] != 0 {
		t.Fatalf("expected the copy to be zero terminated")
	}
	if e.Value() != "abcdefgh" {
		t.Fatalf("truncation must not change the stored value, got %q", e.Value())
	}
	if err := e.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	one := []byte{'#'}
	e = q.RemoveTail(one)
	if one[0] != 0 {
		t.Fatalf("expected a one byte buffer to hold only the terminator")
	}
	if err := e.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	q.Free()
	assertNoLeaks(t, ledger)
}

func TestQueueRelease(t *testing.T) {
	ledger := NewLedger(0)
	q := newTestQueue(t, ledger, "a", "b")

	if err := q.Front().Release(); err == nil {
		t.Fatalf("expected releasing a linked element to fail")
	}
	assertValues(t, q, "a", "b")

	e := q.RemoveHead(nil)
	if err := e.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := e.Release(); err == nil {
		t.Fatalf("expected a second release to fail")
	}
	var nilElement *Element
	if err := nilElement.Release(); err == nil {
		t.Fatalf("expected releasing a nil element to fail")
	}

	q.Free()
	assertNoLeaks(t, ledger)
}

func TestQueueNil(t *testing.T) {
	var q *Queue

	if err := q.InsertHead("a"); err == nil {
		t.Fatalf("expected InsertHead on a nil queue to fail")
	}
	if err := q.InsertTail("a"); err == nil {
		t.Fatalf("expected InsertTail on a nil queue to fail")
	}
	if e := q.RemoveHead(make([]byte, 4)); e != nil {
		t.Fatalf("expected RemoveHead on a nil queue to return nil")
	}
	if e := q.RemoveTail(nil); e != nil {
		t.Fatalf("expected RemoveTail on a nil queue to return nil")
	}
	if q.Size() != 0 {
		t.Fatalf("expected size 0 for a nil queue")
	}
	if q.DeleteMid() {
		t.Fatalf("expected DeleteMid on a nil queue to fail")
	}
	if q.DeleteDup() {
		t.Fatalf("expected DeleteDup on a nil queue to fail")
	}
	q.Swap()
	q.Reverse()
	q.Sort()
	if err := q.Validate(); err != nil {
		t.Fatalf("a nil queue should be valid: %v", err)
	}
	if q.Front() != nil || q.Back() != nil || q.Values() != nil {
		t.Fatalf("expected no elements in a nil queue")
	}
	q.Free()
}

func TestQueueFreeReleasesEverything(t *testing.T) {
	ledger := NewLedger(0)
	q := newTestQueue(t, ledger, "alpha", "beta", "gamma", "delta")

	if ledger.Live(ElementBlock) != 4 || ledger.Live(ValueBlock) != 4 || ledger.Live(SentinelBlock) != 1 {
		t.Fatalf("unexpected live blocks before Free: %v", ledger.Leaks())
	}

	// Detached elements are the caller's responsibility and survive Free.
	e := q.RemoveTail(nil)
	q.Free()
	if ledger.LiveBlocks() != 2 {
		t.Fatalf("expected only the detached element to stay allocated, got %v", ledger.Leaks())
	}
	if err := e.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	assertNoLeaks(t, ledger)

	// Freeing twice is a no-op, and a freed queue acts as an absent one.
	q.Free()
	if err := q.InsertTail("x"); err == nil {
		t.Fatalf("expected insert into a freed queue to fail")
	}
	assertNoLeaks(t, ledger)
}

func TestQueueAllocationFailure(t *testing.T) {
	t.Run("Sentinel", func(t *testing.T) {
		ledger := NewLedger(1)
		ledger.Alloc(ValueBlock, 1)
		if q := New(WithAllocator(ledger)); q != nil {
			t.Fatalf("expected New to return nil when the sentinel cannot be allocated")
		}
	})

	t.Run("Element", func(t *testing.T) {
		// Sentinel plus one element with its value.
		ledger := NewLedger(3)
		q := newTestQueue(t, ledger, "a")
		if err := q.InsertTail("b"); err == nil {
			t.Fatalf("expected InsertTail to fail once the budget is spent")
		}
		assertValues(t, q, "a")
		q.Free()
		assertNoLeaks(t, ledger)
	})

	t.Run("Value", func(t *testing.T) {
		// The element block fits but its value does not.
		ledger := NewLedger(4)
		q := newTestQueue(t, ledger, "a")
		if err := q.InsertHead("b"); err == nil {
			t.Fatalf("expected InsertHead to fail when the value cannot be allocated")
		}
		if ledger.Live(ElementBlock) != 1 {
			t.Fatalf("expected the element block of the failed insert to be freed, got %v", ledger.Leaks())
		}
		assertValues(t, q, "a")
		q.Free()
		assertNoLeaks(t, ledger)
	})
}

func TestQueueIteration(t *testing.T) {
	q := newTestQueue(t, NewLedger(0), "a", "b", "c")

	var forward []string
	for e := q.Front(); e != nil; e = e.Next() {
		forward = append(forward, e.Value())
	}
	if strings.Join(forward, "") != "abc" {
		t.Fatalf("expected forward iteration abc, got %q", forward)
	}

	var backward []string
	for e := q.Back(); e != nil; e = e.Prev() {
		backward = append(backward, e.Value())
	}
	if strings.Join(backward, "") != "cba" {
		t.Fatalf("expected backward iteration cba, got %q", backward)
	}
}
