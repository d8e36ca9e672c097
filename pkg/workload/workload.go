package workload

import (
	"math/rand"

	"github.com/cuemby/burrow/pkg/types"
)

// Sequential builds the deterministic ring workload: transaction i reads
// key i mod m and writes key (i+1) mod m. Timestamps equal the log
// index, so they are dense, unique, and totally ordered.
func Sequential(n, m uint64) []types.Transaction {
	txs := make([]types.Transaction, n)
	for i := uint64(0); i < n; i++ {
		txs[i] = types.Transaction{
			Timestamp: i,
			TaskSet: []types.Task{
				{Op: types.OpRead, Key: i % m},
				{Op: types.OpWrite, Key: (i + 1) % m},
			},
		}
	}
	return txs
}

// Random builds a log of n transactions with 1..maxOps uniformly random
// read/write tasks over keys [0, m). The same seed always produces the
// same log, so runs are reproducible. Duplicate keys within one task
// set are allowed; CC installs one placeholder per owned write
// occurrence.
func Random(n, m uint64, maxOps int, seed int64) []types.Transaction {
	rng := rand.New(rand.NewSource(seed))
	txs := make([]types.Transaction, n)
	for i := uint64(0); i < n; i++ {
		ops := 1 + rng.Intn(maxOps)
		tasks := make([]types.Task, ops)
		for j := range tasks {
			op := types.OpRead
			if rng.Intn(2) == 1 {
				op = types.OpWrite
			}
			tasks[j] = types.Task{Op: op, Key: uint64(rng.Int63n(int64(m)))}
		}
		txs[i] = types.Transaction{Timestamp: i, TaskSet: tasks}
	}
	return txs
}
