// Package queue implements a queue of strings as an intrusive, circular,
// doubly-linked list, together with algorithms that rearrange the list by
// relinking its nodes rather than by copying values.
//
// To iterate over a queue (where q is a *Queue):
//
//	for e := q.Front(); e != nil; e = e.Next() {
//		// do something with e.Value()
//	}
//
// Elements are owned by their queue. RemoveHead and RemoveTail hand an
// element over to the caller, who must call Release on it once done.
// Storage is accounted for through an Allocator; a Ledger counts live
// blocks so that leaks and double releases can be detected, and can refuse
// allocations past a budget.
//
// A Queue is not safe for concurrent use. Sort in particular leaves the
// list as a set of singly-linked runs until it returns.
package queue
