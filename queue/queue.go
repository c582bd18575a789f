package queue

import (
	"bytes"
	"strings"

	"github.com/Invicton-Labs/go-stackerr"
)

type options struct {
	alloc Allocator
}

type Option func(*options)

// WithAllocator makes the queue account for its storage with the given
// Allocator instead of the default HeapAllocator.
func WithAllocator(alloc Allocator) Option {
	return func(opts *options) {
		if alloc != nil {
			opts.alloc = alloc
		}
	}
}

// Queue is a circular doubly-linked list of strings anchored by a sentinel.
// A nil *Queue is a valid absent queue: every method is a no-op on it.
type Queue struct {
	// Sentinel node, only root.prev and root.next are used.
	root node

	// Number of linked elements, kept for validation only.
	len int

	alloc Allocator
	freed bool
}

// New returns an empty queue, or nil if the allocator refuses the sentinel.
func New(opts ...Option) *Queue {
	o := options{
		alloc: HeapAllocator{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.alloc.Alloc(SentinelBlock, sentinelSize) {
		return nil
	}
	q := &Queue{
		alloc: o.alloc,
	}
	q.root.next = &q.root
	q.root.prev = &q.root
	return q
}

// Free releases every element still in the queue and then the queue
// itself. Calling it on a nil or already freed queue does nothing.
func (q *Queue) Free() {
	if q.absent() {
		return
	}
	for !q.empty() {
		e := q.root.next.element
		q.unlink(e)
		e.release()
	}
	q.alloc.Free(SentinelBlock, sentinelSize)
	q.freed = true
}

func (q *Queue) absent() bool {
	return q == nil || q.freed
}

func (q *Queue) empty() bool {
	return q.root.next == &q.root
}

// link inserts e after at.
func (q *Queue) link(e *Element, at *node) {
	e.prev = at
	e.next = at.next
	e.prev.next = &e.node
	e.next.prev = &e.node
	e.list = q
	e.state = linked
	q.len++
}

// unlink removes e from the ring, leaving it detached.
func (q *Queue) unlink(e *Element) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil // avoid memory leaks
	e.prev = nil // avoid memory leaks
	e.list = nil
	e.state = detached
	q.len--
}

// newElement allocates an element holding a copy of s. Nothing is left
// allocated when it fails.
func (q *Queue) newElement(s string) (*Element, stackerr.Error) {
	if q.absent() {
		return nil, stackerr.Errorf("cannot insert into a nil or freed queue")
	}
	if !q.alloc.Alloc(ElementBlock, elementSize) {
		return nil, stackerr.Errorf("could not allocate element")
	}
	if !q.alloc.Alloc(ValueBlock, len(s)+1) {
		q.alloc.Free(ElementBlock, elementSize)
		return nil, stackerr.Errorf("could not allocate %d bytes for value", len(s)+1)
	}
	return newElement(q.alloc, strings.Clone(s)), nil
}

// InsertHead inserts a copy of s at the front of the queue.
func (q *Queue) InsertHead(s string) stackerr.Error {
	e, err := q.newElement(s)
	if err != nil {
		return err
	}
	q.link(e, &q.root)
	return nil
}

// InsertTail inserts a copy of s at the back of the queue.
func (q *Queue) InsertTail(s string) stackerr.Error {
	e, err := q.newElement(s)
	if err != nil {
		return err
	}
	q.link(e, q.root.prev)
	return nil
}

// RemoveHead unlinks the first element and hands it to the caller, who
// must eventually Release it. If buf is not empty, the element's value is
// copied into it, truncated to len(buf)-1 bytes and followed by a zero
// byte. It returns nil if the queue is nil or empty.
func (q *Queue) RemoveHead(buf []byte) *Element {
	if q.absent() || q.empty() {
		return nil
	}
	return q.remove(q.root.next.element, buf)
}

// RemoveTail is RemoveHead for the last element.
func (q *Queue) RemoveTail(buf []byte) *Element {
	if q.absent() || q.empty() {
		return nil
	}
	return q.remove(q.root.prev.element, buf)
}

func (q *Queue) remove(e *Element, buf []byte) *Element {
	q.unlink(e)
	if len(buf) > 0 {
		n := copy(buf[:len(buf)-1], e.value)
		buf[n] = 0
	}
	return e
}

// CString returns the text of buf up to its first zero byte.
func CString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}

// Size returns the number of elements by walking the ring.
// The complexity is O(n).
func (q *Queue) Size() int {
	if q.absent() {
		return 0
	}
	size := 0
	for it := q.root.next; it != &q.root; it = it.next {
		size++
	}
	return size
}

// Front returns the first element of the queue or nil if it is empty.
func (q *Queue) Front() *Element {
	if q.absent() || q.empty() {
		return nil
	}
	return q.root.next.element
}

// Back returns the last element of the queue or nil if it is empty.
func (q *Queue) Back() *Element {
	if q.absent() || q.empty() {
		return nil
	}
	return q.root.prev.element
}

// Values returns the values of the queue from front to back.
func (q *Queue) Values() []string {
	if q.absent() {
		return nil
	}
	values := make([]string, 0, q.len)
	for it := q.root.next; it != &q.root; it = it.next {
		values = append(values, it.element.value)
	}
	return values
}
