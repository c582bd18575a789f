package queue

import (
	"github.com/Invicton-Labs/go-stackerr"
)

// Validate checks that the queue is a well-formed ring: every node's
// neighbours point back at it, walking forward or backward from the
// sentinel returns to it after exactly as many steps as there are linked
// elements, and every element is linked into this queue. A nil queue is
// valid.
func (q *Queue) Validate() stackerr.Error {
	if q.absent() {
		return nil
	}
	if q.root.next == nil || q.root.prev == nil {
		return stackerr.Errorf("sentinel has a nil link")
	}
	if (q.root.next == &q.root) != (q.root.prev == &q.root) {
		return stackerr.Errorf("sentinel is half empty")
	}

	it := &q.root
	for i := 0; i <= q.len; i++ {
		if it.next == nil || it.prev == nil {
			return stackerr.Errorf("node has a nil link").With(map[string]any{
				"index": i - 1,
			})
		}
		if it.next.prev != it || it.prev.next != it {
			return stackerr.Errorf("node is not linked back by its neighbours").With(map[string]any{
				"index": i - 1,
			})
		}
		if i > 0 {
			e := it.element
			if e == nil {
				return stackerr.Errorf("ring holds a second sentinel").With(map[string]any{
					"index": i - 1,
				})
			}
			if e.list != q || e.state != linked {
				return stackerr.Errorf("element is not owned by this queue").With(map[string]any{
					"index": i - 1,
					"state": e.state.String(),
				})
			}
		}
		it = it.next
		if it == &q.root {
			if i != q.len {
				return stackerr.Errorf("ring is shorter than expected").With(map[string]any{
					"expected": q.len,
					"actual":   i,
				})
			}
			break
		}
	}
	if it != &q.root {
		return stackerr.Errorf("ring is longer than expected").With(map[string]any{
			"expected": q.len,
		})
	}

	back := 0
	for it := q.root.prev; it != &q.root; it = it.prev {
		back++
		if back > q.len {
			return stackerr.Errorf("backward ring is longer than expected").With(map[string]any{
				"expected": q.len,
			})
		}
	}
	if back != q.len {
		return stackerr.Errorf("backward ring is shorter than expected").With(map[string]any{
			"expected": q.len,
			"actual":   back,
		})
	}
	return nil
}
