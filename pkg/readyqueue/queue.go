package readyqueue

import (
	"container/heap"
	"sync"

	"github.com/cuemby/burrow/pkg/types"
)

// Queue is the output boundary of the CC phase: a min-heap over
// transaction timestamp, serialized by one mutex, with a condition
// variable to wake consumers. Producers push under the mutex and signal
// once per batch; consumers pop in ascending timestamp order. The queue
// outlives the workers — nothing inside the engine drains it, that is
// the execution phase's job.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	heap   txHeap
	pushed uint64
	closed bool
}

// New creates an empty ready queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push adds a CC-complete transaction.
func (q *Queue) Push(tx types.Transaction) {
	q.mu.Lock()
	heap.Push(&q.heap, tx)
	q.pushed++
	q.mu.Unlock()
}

// Signal wakes all blocked consumers. Producers call it once per batch
// rather than once per transaction.
func (q *Queue) Signal() {
	q.cond.Broadcast()
}

// Pop blocks until a transaction is available and returns the one with
// the smallest timestamp. Returns ok=false once the queue is closed and
// empty.
func (q *Queue) Pop() (types.Transaction, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.heap) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.heap) == 0 {
		return types.Transaction{}, false
	}
	return heap.Pop(&q.heap).(types.Transaction), true
}

// TryPop returns the smallest-timestamp transaction without blocking.
func (q *Queue) TryPop() (types.Transaction, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.heap) == 0 {
		return types.Transaction{}, false
	}
	return heap.Pop(&q.heap).(types.Transaction), true
}

// Drain removes and returns everything currently queued, in ascending
// timestamp order.
func (q *Queue) Drain() []types.Transaction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]types.Transaction, 0, len(q.heap))
	for len(q.heap) > 0 {
		out = append(out, heap.Pop(&q.heap).(types.Transaction))
	}
	return out
}

// Close wakes every blocked consumer; subsequent Pops return ok=false
// once the queue is empty. Pushed transactions remain poppable.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Len returns the number of queued transactions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// Pushed returns the total number of transactions pushed over the
// queue's lifetime, drained or not.
func (q *Queue) Pushed() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pushed
}

// txHeap implements container/heap ordered by ascending timestamp.
type txHeap []types.Transaction

func (h txHeap) Len() int            { return len(h) }
func (h txHeap) Less(i, j int) bool  { return h[i].Timestamp < h[j].Timestamp }
func (h txHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *txHeap) Push(x interface{}) { *h = append(*h, x.(types.Transaction)) }
func (h *txHeap) Pop() interface{} {
	old := *h
	n := len(old)
	tx := old[n-1]
	*h = old[:n-1]
	return tx
}
