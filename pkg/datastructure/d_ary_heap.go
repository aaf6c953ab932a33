package datastructure

import (
	"errors"
)

var (
	ErrEmptyHeap      = errors.New("heap is empty")
	ErrInvalidHeapKey = errors.New("invalid heap position or rank")
)

// PriorityQueueNode is a heap entry. The heap keeps pos up to date so DecreaseKey needs no lookup.
type PriorityQueueNode[T comparable] struct {
	rank float64
	item T
	pos  int
}

func NewPriorityQueueNode[T comparable](rank float64, item T) *PriorityQueueNode[T] {
	return &PriorityQueueNode[T]{rank: rank, item: item}
}

func (p *PriorityQueueNode[T]) GetItem() T {
	return p.item
}

func (p *PriorityQueueNode[T]) GetRank() float64 {
	return p.rank
}

// MinHeap is a d-ary min heap ordered by rank.
type MinHeap[T comparable] struct {
	nodes []*PriorityQueueNode[T]
	d     int
}

// NewFourAryHeap is the queue of the road graph searches.
func NewFourAryHeap[T comparable]() *MinHeap[T] {
	return &MinHeap[T]{nodes: make([]*PriorityQueueNode[T], 0, 64), d: 4}
}

func (h *MinHeap[T]) parent(i int) int {
	return (i - 1) / h.d
}

func (h *MinHeap[T]) swap(i, j int) {
	h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i]
	h.nodes[i].pos = i
	h.nodes[j].pos = j
}

func (h *MinHeap[T]) siftUp(i int) {
	for i > 0 && h.nodes[i].rank < h.nodes[h.parent(i)].rank {
		h.swap(i, h.parent(i))
		i = h.parent(i)
	}
}

func (h *MinHeap[T]) siftDown(i int) {
	for {
		first := i*h.d + 1
		if first >= len(h.nodes) {
			return
		}
		last := min(first+h.d, len(h.nodes))
		smallest := first
		for c := first + 1; c < last; c++ {
			if h.nodes[c].rank < h.nodes[smallest].rank {
				smallest = c
			}
		}
		if h.nodes[smallest].rank >= h.nodes[i].rank {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.nodes) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.nodes)
}

// GetMinrank is the smallest rank, or twice INF_WEIGHT when empty so it never beats a found path.
func (h *MinHeap[T]) GetMinrank() float64 {
	if h.IsEmpty() {
		return 2 * INF_WEIGHT
	}
	return h.nodes[0].rank
}

func (h *MinHeap[T]) Insert(n *PriorityQueueNode[T]) {
	n.pos = len(h.nodes)
	h.nodes = append(h.nodes, n)
	h.siftUp(n.pos)
}

// ExtractMin removes the root. The removed node gets position -1.
func (h *MinHeap[T]) ExtractMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return nil, ErrEmptyHeap
	}
	root := h.nodes[0]
	last := len(h.nodes) - 1
	h.swap(0, last)
	h.nodes = h.nodes[:last]
	root.pos = -1
	h.siftDown(0)
	return root, nil
}

// DecreaseKey lowers the rank of a node still in the heap.
func (h *MinHeap[T]) DecreaseKey(n *PriorityQueueNode[T], rank float64) error {
	if n.pos < 0 || n.pos >= len(h.nodes) || h.nodes[n.pos] != n || n.rank < rank {
		return ErrInvalidHeapKey
	}
	n.rank = rank
	h.siftUp(n.pos)
	return nil
}
