package dispatch

import (
	"sync/atomic"
)

// Dispatcher hands out contiguous batches of the transaction log to
// competing workers through one atomic cursor, and carries the start and
// quit flags that gate the worker loops. The cursor fetch-add is the
// only mechanism preventing two workers from processing the same
// transaction; there is no backpressure.
type Dispatcher struct {
	cursor    atomic.Uint64
	logSize   uint64
	batchSize uint64

	start atomic.Bool
	quit  atomic.Bool
}

// New creates a dispatcher over a log of logSize transactions handed out
// in batches of at most batchSize.
func New(logSize, batchSize uint64) *Dispatcher {
	if batchSize == 0 {
		panic("dispatch: batch size must be positive")
	}
	return &Dispatcher{logSize: logSize, batchSize: batchSize}
}

// Next claims the next batch and returns its bounds [start, end). An
// empty batch (start >= end) means the log is exhausted.
func (d *Dispatcher) Next() (start, end uint64) {
	start = d.cursor.Add(d.batchSize) - d.batchSize
	if start >= d.logSize {
		return start, start
	}
	end = start + d.batchSize
	if end > d.logSize {
		end = d.logSize
	}
	return start, end
}

// Cursor returns the current cursor position. It can exceed the log
// size once workers race past the end.
func (d *Dispatcher) Cursor() uint64 { return d.cursor.Load() }

// Exhausted reports whether every transaction in the log has been
// claimed by some worker.
func (d *Dispatcher) Exhausted() bool { return d.cursor.Load() >= d.logSize }

// Start releases the workers. Until it is called, workers spin without
// claiming batches.
func (d *Dispatcher) Start() { d.start.Store(true) }

// Started reports whether the run has been released.
func (d *Dispatcher) Started() bool { return d.start.Load() }

// Quit tells workers to stop taking new batches. Batches already
// claimed are completed; workers observe the flag at batch boundaries
// only.
func (d *Dispatcher) Quit() { d.quit.Store(true) }

// Quitting reports whether shutdown has been requested.
func (d *Dispatcher) Quitting() bool { return d.quit.Load() }
