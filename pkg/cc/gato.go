package cc

import (
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cuemby/burrow/pkg/dispatch"
	"github.com/cuemby/burrow/pkg/events"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/partition"
	"github.com/cuemby/burrow/pkg/readyqueue"
	"github.com/cuemby/burrow/pkg/store"
	"github.com/cuemby/burrow/pkg/types"
)

// GatoWorker is a concurrency-control worker under adaptive
// partitioning. The outer loop matches BohmWorker; the differences are
// that ownership lookups go through the mapping mutex, the last writer
// of each key is tracked, installs tolerate the out-of-order arrivals a
// migration can cause, and after each batch the worker adds its
// processed count to the shared load vector and triggers a one-key
// migration when the load spread exceeds its threshold.
type GatoWorker struct {
	id        int
	table     *store.Table
	parts     *partition.Adaptive
	disp      *dispatch.Dispatcher
	queue     *readyqueue.Queue
	txLog     []types.Transaction
	threshold uint64
	broker    *events.Broker // nil disables event publication
	logger    zerolog.Logger

	result Result
}

// NewGatoWorker creates an adaptive worker. broker may be nil.
func NewGatoWorker(id int, table *store.Table, parts *partition.Adaptive, disp *dispatch.Dispatcher, queue *readyqueue.Queue, txLog []types.Transaction, threshold uint64, broker *events.Broker) *GatoWorker {
	return &GatoWorker{
		id:        id,
		table:     table,
		parts:     parts,
		disp:      disp,
		queue:     queue,
		txLog:     txLog,
		threshold: threshold,
		broker:    broker,
		logger:    log.WithComponent("cc").With().Int("worker_id", id).Logger(),
	}
}

// Result returns the worker's counters. Valid only after the worker's
// goroutine has been joined.
func (w *GatoWorker) Result() Result { return w.result }

// Run executes the worker loop until quit is observed at a batch
// boundary. It decrements wg on return.
func (w *GatoWorker) Run(wg *sync.WaitGroup) {
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
			runtime.Gosched()
			continue
		}
		w.processBatch(start, end)
	}
	w.logger.Debug().Uint64("commits", w.result.CommitCount).Msg("worker stopped")
}

func (w *GatoWorker) processBatch(start, end uint64) {
	timer := metrics.NewTimer()

	batch := make([]types.Transaction, 0, end-start)
	for i := start; i < end; i++ {
		batch = append(batch, w.txLog[i].Clone())
	}
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Timestamp < batch[j].Timestamp
	})

	var committed uint64
	for i := range batch {
		tx := &batch[i]
		success := true

		for _, task := range tx.TaskSet {
			owner, ok := w.parts.Owner(task.Key)
			if !ok {
				// Unmanaged record: the transaction does not count as
				// committed, but nothing is rolled back either.
				success = false
				continue
			}
			if owner != w.id {
				continue
			}
			if task.Op == types.OpWrite {
				w.parts.RecordWrite(task.Key, w.id)
				w.table.InstallPlaceholderOrdered(task.Key, tx.Timestamp)
				tx.WriteSet = append(tx.WriteSet, task.Key)
				metrics.PlaceholdersInstalled.Inc()
			}
		}

		w.queue.Push(*tx)
		if success {
			w.result.CommitCount++
			committed++
		}
	}

	w.queue.Signal()

	w.parts.AddLoad(w.id, uint64(len(batch)))
	w.rebalance()

	metrics.BatchesClaimed.Inc()
	metrics.CommitsTotal.WithLabelValues(strconv.Itoa(w.id)).Add(float64(committed))
	metrics.ReadyQueueDepth.Set(float64(w.queue.Len()))
	timer.ObserveDuration(metrics.BatchDuration)
}

func (w *GatoWorker) rebalance() {
	mig, ok := w.parts.Rebalance(w.threshold)
	if !ok {
		return
	}
	metrics.MigrationsTotal.Inc()
	w.logger.Debug().
		Uint64("key", mig.Key).
		Int("from", mig.From).
		Int("to", mig.To).
		Msg("migrated key")
	if w.broker != nil {
		w.broker.Publish(&events.Event{
			Type:    events.EventKeyMigrated,
			Message: "key migrated between workers",
			Metadata: map[string]string{
				"key":  strconv.FormatUint(mig.Key, 10),
				"from": strconv.Itoa(mig.From),
				"to":   strconv.Itoa(mig.To),
			},
		})
	}
}
