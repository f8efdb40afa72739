package bpe

// entry is one heap record. An entry is live only while the trainer's live
// map points at it; updated counts push a fresh entry instead of fixing the
// old one in place.
type entry struct {
	pair  Pair
	count int
}

// pairHeap orders entries by count, highest first, breaking ties by
// lexicographic pair order so training is deterministic.
type pairHeap []*entry

func (h pairHeap) Len() int { return len(h) }

func (h pairHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count > h[j].count
	}
	return h[i].pair.less(h[j].pair)
}

func (h pairHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pairHeap) Push(x any) { *h = append(*h, x.(*entry)) }

func (h *pairHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
