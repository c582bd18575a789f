package queue

import (
	"fmt"
	"testing"
)

func values(n int) []string {
	v := make([]string, n)
	for i := range v {
		v[i] = fmt.Sprintf("v%d", i)
	}
	return v
}

func TestDeleteMid(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"One", values(1), []string{}},
		{"Two", values(2), []string{"v0"}},
		{"Three", values(3), []string{"v0", "v2"}},
		{"Five", values(5), []string{"v0", "v1", "v3", "v4"}},
		{"Six", values(6), []string{"v0", "v1", "v2", "v4", "v5"}},
		{"Seven", values(7), []string{"v0", "v1", "v2", "v4", "v5", "v6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger(0)
			q := newTestQueue(t, ledger, tt.input...)
			if !q.DeleteMid() {
				t.Fatalf("expected DeleteMid to succeed")
			}
			assertValues(t, q, tt.want...)
			q.Free()
			assertNoLeaks(t, ledger)
		})
	}

	t.Run("Empty", func(t *testing.T) {
		q := newTestQueue(t, NewLedger(0))
		if q.DeleteMid() {
			t.Fatalf("expected DeleteMid on an empty queue to fail")
		}
	})
}

func TestDeleteDup(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"AllRepeatedValuesRemoved", []string{"a", "a", "b", "c", "c", "c"}, []string{"b"}},
		{"NoDuplicates", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"AllDuplicates", []string{"x", "x", "x", "x"}, []string{}},
		{"Single", []string{"a"}, []string{"a"}},
		{"TrailingRun", []string{"a", "b", "b"}, []string{"a"}},
		{"LeadingRun", []string{"a", "a", "b"}, []string{"b"}},
		{"AlternatingRuns", []string{"a", "a", "b", "c", "c", "d", "e", "e"}, []string{"b", "d"}},
		{"EmptyStrings", []string{"", "", "z"}, []string{"z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger(0)
			q := newTestQueue(t, ledger, tt.input...)
			if !q.DeleteDup() {
				t.Fatalf("expected DeleteDup to succeed")
			}
			assertValues(t, q, tt.want...)
			q.Free()
			assertNoLeaks(t, ledger)
		})
	}

	t.Run("Empty", func(t *testing.T) {
		q := newTestQueue(t, NewLedger(0))
		if q.DeleteDup() {
			t.Fatalf("expected DeleteDup on an empty queue to fail")
		}
	})

	t.Run("UnsortedOnlyAdjacentRuns", func(t *testing.T) {
		q := newTestQueue(t, NewLedger(0), "b", "a", "a", "b")
		if !q.DeleteDup() {
			t.Fatalf("expected DeleteDup to succeed")
		}
		assertValues(t, q, "b", "b")
	})

	t.Run("ScratchRingNotAllocated", func(t *testing.T) {
		// Sentinel plus two elements with values leaves no room for the
		// scratch ring's sentinel.
		ledger := NewLedger(5)
		q := newTestQueue(t, ledger, "a", "a")
		if q.DeleteDup() {
			t.Fatalf("expected DeleteDup to fail without room for its scratch ring")
		}
		assertValues(t, q, "a", "a")
	})
}

func TestSwap(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"Empty", []string{}, []string{}},
		{"One", []string{"a"}, []string{"a"}},
		{"Two", []string{"a", "b"}, []string{"b", "a"}},
		{"Odd", []string{"a", "b", "c", "d", "e"}, []string{"b", "a", "d", "c", "e"}},
		{"Even", []string{"a", "b", "c", "d", "e", "f"}, []string{"b", "a", "d", "c", "f", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQueue(t, NewLedger(0), tt.input...)
			q.Swap()
			assertValues(t, q, tt.want...)
		})
	}

	t.Run("RelinksNodes", func(t *testing.T) {
		q := newTestQueue(t, NewLedger(0), "a", "b")
		first, second := q.Front(), q.Back()
		q.Swap()
		if q.Front() != second || q.Back() != first {
			t.Fatalf("expected the same elements to be relinked in swapped positions")
		}
	})
}

func TestReverse(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"Empty", []string{}, []string{}},
		{"One", []string{"a"}, []string{"a"}},
		{"Two", []string{"a", "b"}, []string{"b", "a"}},
		{"Many", []string{"a", "b", "c", "d", "e"}, []string{"e", "d", "c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQueue(t, NewLedger(0), tt.input...)
			q.Reverse()
			assertValues(t, q, tt.want...)
		})
	}

	t.Run("Involution", func(t *testing.T) {
		ledger := NewLedger(0)
		q := newTestQueue(t, ledger, values(9)...)
		var before []*Element
		for e := q.Front(); e != nil; e = e.Next() {
			before = append(before, e)
		}
		allocs := ledger.Allocs()

		q.Reverse()
		q.Reverse()

		assertValues(t, q, values(9)...)
		i := 0
		for e := q.Front(); e != nil; e = e.Next() {
			if e != before[i] {
				t.Fatalf("element %d changed identity after reversing twice", i)
			}
			i++
		}
		if ledger.Allocs() != allocs || ledger.Frees() != 0 {
			t.Fatalf("reverse must not allocate or free")
		}
	})
}
