package search

import "container/heap"

// Frontier is a min-priority queue keyed by a float score. Equal scores
// come out in the order they went in, so search order never depends on
// map iteration.
//
// There is no decrease-key: callers re-enqueue with a better score and skip
// the stale entry when it surfaces.
type Frontier[T any] struct {
	entries frontierHeap[T]
	seq     uint64
}

type frontierEntry[T any] struct {
	score float64
	seq   uint64
	item  T
}

// NewFrontier returns an empty frontier.
func NewFrontier[T any]() *Frontier[T] {
	return &Frontier[T]{}
}

// Enqueue adds item with the given score. Duplicate scores and duplicate
// items are allowed.
func (f *Frontier[T]) Enqueue(score float64, item T) {
	heap.Push(&f.entries, frontierEntry[T]{score: score, seq: f.seq, item: item})
	f.seq++
}

// DequeueMin removes and returns the lowest-scored item.
func (f *Frontier[T]) DequeueMin() (T, error) {
	if len(f.entries) == 0 {
		var zero T
		return zero, ErrFrontierEmpty
	}
	e := heap.Pop(&f.entries).(frontierEntry[T])
	return e.item, nil
}

// Len returns the number of queued entries, stale ones included.
func (f *Frontier[T]) Len() int {
	return len(f.entries)
}

type frontierHeap[T any] []frontierEntry[T]

func (h frontierHeap[T]) Len() int { return len(h) }

func (h frontierHeap[T]) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].seq < h[j].seq
}

func (h frontierHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *frontierHeap[T]) Push(x any) {
	*h = append(*h, x.(frontierEntry[T]))
}

func (h *frontierHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
