package partition

import (
	"sync"
)

// Migration describes one key changing owner.
type Migration struct {
	Key  uint64
	From int
	To   int
}

// Adaptive is the mutable record-to-worker mapping used by the gato
// variant. A single mutex serializes every lookup, last-writer update,
// load change, and migration, so for any timestamp the placeholders
// installed for a key are consistent with one total order of ownership
// decisions. The mutex is the variant's scalability bottleneck and that
// is accepted.
type Adaptive struct {
	mu         sync.Mutex
	workers    int
	tuples     uint64
	owner      map[uint64]int
	lastWriter map[uint64]int
	load       []uint64
}

// NewAdaptive creates an adaptive partitioning with the same initial
// assignment as Static: key k starts at worker k mod W.
func NewAdaptive(workers int, tuples uint64) *Adaptive {
	if workers <= 0 {
		panic("partition: worker count must be positive")
	}
	a := &Adaptive{
		workers:    workers,
		tuples:     tuples,
		owner:      make(map[uint64]int, tuples),
		lastWriter: make(map[uint64]int, tuples),
		load:       make([]uint64, workers),
	}
	for k := uint64(0); k < tuples; k++ {
		a.owner[k] = int(k % uint64(workers))
	}
	return a
}

// Workers returns the worker count the mapping was built for.
func (a *Adaptive) Workers() int { return a.workers }

// Owner returns the worker that currently owns key. ok is false for a
// key outside the mapping; the caller treats that transaction as failed
// without mutating any state.
func (a *Adaptive) Owner(key uint64) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, ok := a.owner[key]
	return w, ok
}

// RecordWrite marks worker as the most recent writer of key.
func (a *Adaptive) RecordWrite(key uint64, worker int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastWriter[key] != worker {
		a.lastWriter[key] = worker
	}
}

// LastWriter returns the most recent worker that installed a
// placeholder for key.
func (a *Adaptive) LastWriter(key uint64) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, ok := a.lastWriter[key]
	return w, ok
}

// AddLoad attributes n CC work units to worker.
func (a *Adaptive) AddLoad(worker int, n uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.load[worker] += n
}

// Loads returns a snapshot of the per-worker load vector.
func (a *Adaptive) Loads() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]uint64, len(a.load))
	copy(out, a.load)
	return out
}

// Rebalance migrates exactly one key from the most loaded worker to the
// least loaded one when their load difference exceeds threshold. The
// migrated key is the numerically-first key owned by the overloaded
// worker, which keeps the decision deterministic. Returns the migration
// performed, if any.
func (a *Adaptive) Rebalance(threshold uint64) (Migration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	src, dst := 0, 0
	for w := 1; w < a.workers; w++ {
		if a.load[w] > a.load[src] {
			src = w
		}
		if a.load[w] < a.load[dst] {
			dst = w
		}
	}
	if src == dst || a.load[src]-a.load[dst] <= threshold {
		return Migration{}, false
	}
	return a.migrateLocked(src, dst)
}

// Migrate moves one key from src to dst regardless of load skew. Used
// by tests and by operators driving redistribution manually.
func (a *Adaptive) Migrate(src, dst int) (Migration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.migrateLocked(src, dst)
}

func (a *Adaptive) migrateLocked(src, dst int) (Migration, bool) {
	// Linear scan over the dense key space; migration is rare enough
	// that O(M) selection does not show up next to the mapping mutex.
	for k := uint64(0); k < a.tuples; k++ {
		if a.owner[k] == src {
			a.owner[k] = dst
			a.load[src]--
			a.load[dst]++
			return Migration{Key: k, From: src, To: dst}, true
		}
	}
	return Migration{}, false
}
