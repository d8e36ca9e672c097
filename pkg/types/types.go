package types

import (
	"time"
)

// Op is the kind of work a task performs against a record.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// Task is a single read or write against a record key.
type Task struct {
	Op  Op
	Key uint64
}

// Transaction is one entry of the transaction log. Timestamp doubles as
// the transaction's identity and its position in the total order; the
// generator assigns timestamps equal to the log index, so they are dense
// and unique.
type Transaction struct {
	Timestamp uint64
	TaskSet   []Task

	// ReadSet is populated by the execution phase, not by CC.
	ReadSet []ReadResult

	// WriteSet collects the keys this transaction's owning workers
	// reserved placeholders for during CC.
	WriteSet []uint64
}

// ReadResult pairs a key with the value observed for it.
type ReadResult struct {
	Key   uint64
	Value uint64
}

// Clone returns a value copy of the transaction with its own task and
// write-set backing arrays. Workers clone log entries into their local
// batch so per-worker WriteSet mutation never aliases the shared log.
func (t Transaction) Clone() Transaction {
	c := Transaction{Timestamp: t.Timestamp}
	if len(t.TaskSet) > 0 {
		c.TaskSet = make([]Task, len(t.TaskSet))
		copy(c.TaskSet, t.TaskSet)
	}
	if len(t.WriteSet) > 0 {
		c.WriteSet = make([]uint64, len(t.WriteSet))
		copy(c.WriteSet, t.WriteSet)
	}
	if len(t.ReadSet) > 0 {
		c.ReadSet = make([]ReadResult, len(t.ReadSet))
		copy(c.ReadSet, t.ReadSet)
	}
	return c
}

// Variant selects the concurrency-control scheme.
type Variant string

const (
	// VariantBohm uses a static record-to-worker partitioning.
	VariantBohm Variant = "bohm"
	// VariantGato uses an adaptive partitioning with last-writer
	// tracking and load-based migration.
	VariantGato Variant = "gato"
)

// RunResult is the summary of one engine run.
type RunResult struct {
	ID               string
	Variant          Variant
	Workers          int
	Tuples           uint64
	BatchSize        uint64
	Transactions     uint64
	TotalCommits     uint64
	PerWorkerCommits []uint64
	Elapsed          time.Duration
	Throughput       float64 // committed transactions per second
	StartedAt        time.Time
}
