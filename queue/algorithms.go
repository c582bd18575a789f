package queue

// DeleteMid deletes the element at zero-based index ⌊n/2⌋, where n is the
// number of elements. For six elements the fourth one (index 3) is deleted.
// It returns false if the queue is nil or empty.
func (q *Queue) DeleteMid() bool {
	if q.absent() || q.empty() {
		return false
	}
	forward, backward := q.root.next, q.root.prev
	for forward != backward {
		forward = forward.next
		if forward == backward {
			break
		}
		backward = backward.prev
	}
	e := forward.element
	q.unlink(e)
	e.release()
	return true
}

// DeleteDup deletes every element whose value appears more than once,
// leaving only the values that were distinct. The queue must already be
// sorted in ascending order; only runs of adjacent equal values are found,
// so on an unsorted queue the result is unspecified. It returns false if
// the queue is nil or empty.
func (q *Queue) DeleteDup() bool {
	if q.absent() || q.empty() {
		return false
	}
	trash := New(WithAllocator(q.alloc))
	if trash == nil {
		return false
	}
	for it := q.root.next; it != &q.root; {
		value := it.element.value
		if it.next == &q.root || it.next.element.value != value {
			it = it.next
			continue
		}
		for it != &q.root && it.element.value == value {
			e := it.element
			it = it.next
			q.unlink(e)
			trash.link(e, trash.root.prev)
		}
	}
	trash.Free()
	return true
}

// Swap swaps every two adjacent elements by relinking them. With an odd
// number of elements the last one stays where it is.
func (q *Queue) Swap() {
	if q.absent() {
		return
	}
	for first := q.root.next; first != &q.root && first.next != &q.root; first = first.next {
		second := first.next
		before, after := first.prev, second.next

		before.next = second
		second.prev = before
		second.next = first
		first.prev = second
		first.next = after
		after.prev = first
	}
}

// Reverse reverses the order of the elements without allocating or
// freeing any of them.
func (q *Queue) Reverse() {
	if q.absent() || q.empty() {
		return
	}
	// Swapping next and prev on every node, the sentinel included, turns
	// the ring around. The old next is the new prev.
	it := &q.root
	for {
		it.next, it.prev = it.prev, it.next
		it = it.prev
		if it == &q.root {
			break
		}
	}
}
