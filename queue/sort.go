package queue

// runElem is an element seen as part of a singly-linked run. While the
// ring is broken into runs only the forward links are valid, so a runElem
// exposes nothing but its successor.
type runElem struct {
	e *Element
}

func (r runElem) end() bool {
	return r.e == nil
}

func (r runElem) succ() runElem {
	if r.e.next == nil {
		return runElem{}
	}
	return runElem{r.e.next.element}
}

func (r runElem) setSucc(s runElem) {
	if s.end() {
		r.e.next = nil
		return
	}
	r.e.next = &s.e.node
}

// before orders by value, then by position in the queue before the sort
// started. No two elements compare equal, which keeps merges stable no
// matter which runs get paired.
func (r runElem) before(s runElem) bool {
	if r.e.value != s.e.value {
		return r.e.value < s.e.value
	}
	return r.e.ordinal < s.e.ordinal
}

// mergeRuns merges two ascending runs into one.
func mergeRuns(a, b runElem) runElem {
	var head, tail runElem
	for !a.end() && !b.end() {
		var small runElem
		if a.before(b) {
			small, a = a, a.succ()
		} else {
			small, b = b, b.succ()
		}
		if tail.end() {
			head = small
		} else {
			tail.setSucc(small)
		}
		tail = small
	}
	rest := a
	if rest.end() {
		rest = b
	}
	if tail.end() {
		return rest
	}
	tail.setSucc(rest)
	return head
}

// Sort sorts the queue in ascending order. The sort is stable and only
// relinks the existing elements.
func (q *Queue) Sort() {
	if q.absent() || q.empty() || q.root.next == q.root.prev {
		return
	}
	runs := q.splitRuns()
	// Fold the runs from both ends towards the middle until two remain.
	for n := len(runs); n > 2; n = n/2 + n%2 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			runs[i] = mergeRuns(runs[i], runs[j])
		}
	}
	q.joinRuns(runs[0], runs[1])
}

// splitRuns cuts the ring into one run per element, in queue order.
func (q *Queue) splitRuns() []runElem {
	runs := make([]runElem, 0, q.len)
	for it, i := q.root.next, 0; it != &q.root; i++ {
		e := it.element
		it = it.next
		e.ordinal = i
		e.next = nil
		runs = append(runs, runElem{e})
	}
	return runs
}

// joinRuns merges the last two runs back into the ring, restoring the
// prev links and closing the ring around the sentinel.
func (q *Queue) joinRuns(a, b runElem) {
	tail := &q.root
	appendNode := func(r runElem) {
		r.e.prev = tail
		tail.next = &r.e.node
		tail = &r.e.node
	}
	for !a.end() && !b.end() {
		if a.before(b) {
			next := a.succ()
			appendNode(a)
			a = next
		} else {
			next := b.succ()
			appendNode(b)
			b = next
		}
	}
	rest := a
	if rest.end() {
		rest = b
	}
	for !rest.end() {
		next := rest.succ()
		appendNode(rest)
		rest = next
	}
	tail.next = &q.root
	q.root.prev = tail
}
