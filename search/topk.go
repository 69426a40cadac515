package search

import (
	"container/heap"
	"sort"

	"github.com/fuzzgram/fuzzgram/ids"
)

// Result is one scored match returned by a search kernel.
type Result struct {
	Key   ids.KeyID
	Score float64
}

// topKHeap is a bounded min-heap over Results: the root is always the
// worst-scoring result currently kept, so a new candidate only needs one
// comparison against the root to decide whether it displaces anything.
// Ties break on (score, -KeyID) so that among equal scores the
// lowest-numbered key wins — deterministic independent of map iteration
// order, which Go does not guarantee.
type topKHeap struct {
	capacity int
	items    []Result
}

func newTopKHeap(capacity int) *topKHeap {
	return &topKHeap{capacity: capacity, items: make([]Result, 0, capacity)}
}

func (h *topKHeap) Len() int { return len(h.items) }
func (h *topKHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Key > b.Key
}
func (h *topKHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *topKHeap) Push(x any)    { h.items = append(h.items, x.(Result)) }
func (h *topKHeap) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	return item
}

// offer considers r for inclusion in the top-k set.
func (h *topKHeap) offer(r Result) {
	if h.capacity == 0 {
		return
	}
	if len(h.items) < h.capacity {
		heap.Push(h, r)
		return
	}
	worst := h.items[0]
	if r.Score > worst.Score || (r.Score == worst.Score && r.Key < worst.Key) {
		h.items[0] = r
		heap.Fix(h, 0)
	}
}

// sorted drains the heap into a descending-score slice (ties broken by
// ascending KeyID), the order search results are returned in.
func (h *topKHeap) sorted() []Result {
	out := make([]Result, len(h.items))
	copy(out, h.items)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Key < out[j].Key
	})
	return out
}
