package cc

import (
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cuemby/burrow/pkg/dispatch"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/partition"
	"github.com/cuemby/burrow/pkg/readyqueue"
	"github.com/cuemby/burrow/pkg/store"
	"github.com/cuemby/burrow/pkg/types"
)

// BohmWorker is a concurrency-control worker under static partitioning.
// It claims batches from the dispatcher, sorts them by timestamp,
// installs placeholders for the writes whose keys it owns, and pushes
// every transaction it processed onto the ready queue.
type BohmWorker struct {
	id     int
	table  *store.Table
	parts  *partition.Static
	disp   *dispatch.Dispatcher
	queue  *readyqueue.Queue
	txLog  []types.Transaction
	logger zerolog.Logger

	result Result
}

// NewBohmWorker creates a worker over the shared table, transaction log,
// dispatcher and ready queue.
func NewBohmWorker(id int, table *store.Table, parts *partition.Static, disp *dispatch.Dispatcher, queue *readyqueue.Queue, txLog []types.Transaction) *BohmWorker {
	return &BohmWorker{
		id:     id,
		table:  table,
		parts:  parts,
		disp:   disp,
		queue:  queue,
		txLog:  txLog,
		logger: log.WithComponent("cc").With().Int("worker_id", id).Logger(),
	}
}

// Result returns the worker's counters. Valid only after the worker's
// goroutine has been joined.
func (w *BohmWorker) Result() Result { return w.result }

// Run executes the worker loop until quit is observed at a batch
// boundary. It decrements wg on return.
func (w *BohmWorker) Run(wg *sync.WaitGroup) {
	defer wg.Done()

	for !w.disp.Started() {
		if w.disp.Quitting() {
			return
		}
		runtime.Gosched()
	}
	w.logger.Debug().Msg("worker started")

	for !w.disp.Quitting() {
		start, end := w.disp.Next()
		if start >= end {
			// Log exhausted; wait for the driver to flip quit.
			runtime.Gosched()
			continue
		}
		w.processBatch(start, end)
	}
	w.logger.Debug().Uint64("commits", w.result.CommitCount).Msg("worker stopped")
}

func (w *BohmWorker) processBatch(start, end uint64) {
	timer := metrics.NewTimer()

	batch := make([]types.Transaction, 0, end-start)
	for i := start; i < end; i++ {
		batch = append(batch, w.txLog[i].Clone())
	}
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Timestamp < batch[j].Timestamp
	})

	for i := range batch {
		tx := &batch[i]
		for _, task := range tx.TaskSet {
			if task.Op == types.OpWrite && w.parts.Owns(w.id, task.Key) {
				w.table.InstallPlaceholder(task.Key, tx.Timestamp)
				tx.WriteSet = append(tx.WriteSet, task.Key)
				metrics.PlaceholdersInstalled.Inc()
			}
		}
		w.queue.Push(*tx)
		w.result.CommitCount++
	}

	// One wakeup per batch, not per transaction.
	w.queue.Signal()

	metrics.BatchesClaimed.Inc()
	metrics.CommitsTotal.WithLabelValues(strconv.Itoa(w.id)).Add(float64(len(batch)))
	metrics.ReadyQueueDepth.Set(float64(w.queue.Len()))
	timer.ObserveDuration(metrics.BatchDuration)
}
