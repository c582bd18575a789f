package queue

import (
	"github.com/Invicton-Labs/go-stackerr"
)

type elementState uint8

const (
	// The element is part of exactly one ring.
	linked elementState = iota
	// The element has been unlinked and is owned by the caller.
	detached
	// The element's storage has been returned to its allocator.
	released
)

func (s elementState) String() string {
	switch s {
	case linked:
		return "linked"
	case detached:
		return "detached"
	case released:
		return "released"
	default:
		return "unknown"
	}
}

// node is the intrusive link shared by the sentinel and every element.
// To simplify the implementation, a queue is a ring, such that the
// sentinel is both the next node of the last element and the previous
// node of the first element.
type node struct {
	next, prev *node

	// The element embedding this node, or nil for the sentinel.
	element *Element
}

// Element is a payload node of a queue.
type Element struct {
	node

	// The value stored with this element. It is an independent copy of
	// the string the element was inserted with.
	value string

	// The queue this element is linked into, nil once detached.
	list *Queue

	// The allocator the element's storage came from.
	alloc Allocator

	// Original position of the element, only meaningful during Sort.
	ordinal int

	state elementState
}

func newElement(alloc Allocator, value string) *Element {
	e := &Element{
		value: value,
		alloc: alloc,
		state: detached,
	}
	e.node.element = e
	return e
}

// Value returns the string stored in the element.
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	return e.value
}

// Next returns the next element of the queue or nil.
func (e *Element) Next() *Element {
	if e == nil || e.list == nil {
		return nil
	}
	return e.next.element
}

// Prev returns the previous element of the queue or nil.
func (e *Element) Prev() *Element {
	if e == nil || e.list == nil {
		return nil
	}
	return e.prev.element
}

// Linked reports whether the element is currently part of a queue.
func (e *Element) Linked() bool {
	return e != nil && e.state == linked
}

// Release frees the element and its value. Only detached elements (those
// returned by RemoveHead or RemoveTail) can be released, and only once.
func (e *Element) Release() stackerr.Error {
	if e == nil {
		return stackerr.Errorf("cannot release a nil element")
	}
	switch e.state {
	case linked:
		return stackerr.Errorf("cannot release an element that is still linked").With(map[string]any{
			"value": e.value,
		})
	case released:
		return stackerr.Errorf("element was already released").With(map[string]any{
			"value": e.value,
		})
	}
	e.release()
	return nil
}

// release returns the element's storage without any state checks.
func (e *Element) release() {
	e.alloc.Free(ValueBlock, len(e.value)+1)
	e.alloc.Free(ElementBlock, elementSize)
	e.next = nil
	e.prev = nil
	e.list = nil
	e.state = released
}
