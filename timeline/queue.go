package timeline

import (
	"container/heap"

	"github.com/sarchlab/coupler/sim"
)

type scheduledEvent struct {
	payload   any
	time      sim.VTimeInSec
	interval  sim.VTimeInSec
	recurring bool
	seq       uint64
}

// eventHeap orders events by fire time. Events that fire at the same time are
// ordered by the sequence in which they were inserted.
type eventHeap []*scheduledEvent

func (h eventHeap) Len() int {
	return len(h)
}

func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}

	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*scheduledEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	evt := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return evt
}

func (h *eventHeap) push(evt *scheduledEvent) {
	heap.Push(h, evt)
}

func (h *eventHeap) pop() *scheduledEvent {
	return heap.Pop(h).(*scheduledEvent)
}

func (h eventHeap) peek() *scheduledEvent {
	return h[0]
}
