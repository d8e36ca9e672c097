package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/burrow/pkg/types"
)

func TestSequentialPattern(t *testing.T) {
	txs := Sequential(6, 4)
	require.Len(t, txs, 6)

	for i, tx := range txs {
		assert.Equal(t, uint64(i), tx.Timestamp, "timestamps equal log indexes")
		require.Len(t, tx.TaskSet, 2)
		assert.Equal(t, types.Task{Op: types.OpRead, Key: uint64(i) % 4}, tx.TaskSet[0])
		assert.Equal(t, types.Task{Op: types.OpWrite, Key: uint64(i+1) % 4}, tx.TaskSet[1])
		assert.Empty(t, tx.WriteSet)
	}
}

func TestRandomContract(t *testing.T) {
	const n, m, maxOps = 200, 16, 5
	txs := Random(n, m, maxOps, 99)
	require.Len(t, txs, n)

	for i, tx := range txs {
		assert.Equal(t, uint64(i), tx.Timestamp)
		require.NotEmpty(t, tx.TaskSet)
		assert.LessOrEqual(t, len(tx.TaskSet), maxOps)
		for _, task := range tx.TaskSet {
			assert.Less(t, task.Key, uint64(m))
			assert.Contains(t, []types.Op{types.OpRead, types.OpWrite}, task.Op)
		}
	}
}

func TestRandomDeterministicPerSeed(t *testing.T) {
	a := Random(100, 32, 8, 42)
	b := Random(100, 32, 8, 42)
	assert.Equal(t, a, b, "same seed must produce the same log")

	c := Random(100, 32, 8, 43)
	assert.NotEqual(t, a, c, "different seeds should diverge")
}
