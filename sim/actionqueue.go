package sim

import "container/heap"

// actionQueue is a priority queue of scheduled actions. The front of the queue
// is always the action to fire next. Actions due at the same time leave the
// queue in the order they entered it.
type actionQueue struct {
	entries entryHeap
	nextSeq uint64
}

func newActionQueue() *actionQueue {
	q := &actionQueue{}
	q.entries = make([]queueEntry, 0)
	heap.Init(&q.entries)
	return q
}

// Push adds an action to the queue.
func (q *actionQueue) Push(slot ActionID, t VTime) {
	heap.Push(&q.entries, queueEntry{slot: slot, time: t, seq: q.nextSeq})
	q.nextSeq++
}

// Pop returns the next earliest entry.
func (q *actionQueue) Pop() queueEntry {
	return heap.Pop(&q.entries).(queueEntry)
}

// Peek returns the entry at the front of the queue without removing it.
func (q *actionQueue) Peek() queueEntry {
	return q.entries[0]
}

// Len returns the number of entries in the queue, including entries of
// cancelled actions that have not been discarded yet.
func (q *actionQueue) Len() int {
	return q.entries.Len()
}

type entryHeap []queueEntry

func (h entryHeap) Len() int {
	return len(h)
}

// Less returns true if the i-th entry fires before the j-th entry.
func (h entryHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}

	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(queueEntry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[0 : n-1]
	return entry
}
