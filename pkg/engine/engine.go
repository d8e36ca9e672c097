package engine

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cuemby/burrow/pkg/cc"
	"github.com/cuemby/burrow/pkg/config"
	"github.com/cuemby/burrow/pkg/dispatch"
	"github.com/cuemby/burrow/pkg/events"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/partition"
	"github.com/cuemby/burrow/pkg/readyqueue"
	"github.com/cuemby/burrow/pkg/store"
	"github.com/cuemby/burrow/pkg/types"
)

var (
	ErrUnknownVariant = errors.New("engine: unknown variant")
	ErrAlreadyRun     = errors.New("engine: engine has already run")
)

// Options configures an engine.
type Options struct {
	Variant types.Variant
	Config  config.Config

	// Log is the prepared transaction log. Timestamps must equal log
	// indexes and every task key must be inside [0, Config.Tuples).
	Log []types.Transaction

	// Broker, when set, receives run lifecycle and migration events.
	Broker *events.Broker
}

// Engine owns everything the CC phase shares: the versioned table, the
// transaction log, the batch dispatcher, the partition map, the ready
// queue, and the workers. All cross-worker state is reachable only
// through the engine; there are no package globals.
type Engine struct {
	variant types.Variant
	cfg     config.Config
	table   *store.Table
	txLog   []types.Transaction
	disp    *dispatch.Dispatcher
	queue   *readyqueue.Queue
	broker  *events.Broker
	logger  zerolog.Logger

	staticParts   *partition.Static
	adaptiveParts *partition.Adaptive
	bohmWorkers   []*cc.BohmWorker
	gatoWorkers   []*cc.GatoWorker

	wg  sync.WaitGroup
	ran bool
}

// New builds an engine over a prepared transaction log. The table and
// all worker state are constructed here; nothing runs until one of the
// drivers is called.
func New(opts Options) (*Engine, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		variant: opts.Variant,
		cfg:     opts.Config,
		table:   store.NewTable(opts.Config.Tuples),
		txLog:   opts.Log,
		disp:    dispatch.New(uint64(len(opts.Log)), opts.Config.BatchSize),
		queue:   readyqueue.New(),
		broker:  opts.Broker,
		logger:  log.WithComponent("engine").With().Str("variant", string(opts.Variant)).Logger(),
	}

	switch opts.Variant {
	case types.VariantBohm:
		e.staticParts = partition.NewStatic(opts.Config.Workers)
		for i := 0; i < opts.Config.Workers; i++ {
			e.bohmWorkers = append(e.bohmWorkers, cc.NewBohmWorker(i, e.table, e.staticParts, e.disp, e.queue, e.txLog))
		}
	case types.VariantGato:
		e.adaptiveParts = partition.NewAdaptive(opts.Config.Workers, opts.Config.Tuples)
		threshold := opts.Config.MigrationThreshold()
		for i := 0; i < opts.Config.Workers; i++ {
			e.gatoWorkers = append(e.gatoWorkers, cc.NewGatoWorker(i, e.table, e.adaptiveParts, e.disp, e.queue, e.txLog, threshold, e.broker))
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, opts.Variant)
	}

	return e, nil
}

// Table returns the versioned store, for the execution phase and tests.
func (e *Engine) Table() *store.Table { return e.table }

// Queue returns the ready queue. It remains drainable after the run.
func (e *Engine) Queue() *readyqueue.Queue { return e.queue }

// Partitions returns the adaptive partition map, or nil for the static
// variant.
func (e *Engine) Partitions() *partition.Adaptive { return e.adaptiveParts }

// Cursor returns the dispatcher's current position.
func (e *Engine) Cursor() uint64 { return e.disp.Cursor() }

// RunFor is the time-bounded driver: release the workers, let them race
// the cursor for d, then quit and join. Workers complete any batch
// claimed before quit.
func (e *Engine) RunFor(d time.Duration) (*types.RunResult, error) {
	if e.ran {
		return nil, ErrAlreadyRun
	}
	e.ran = true

	startedAt := time.Now()
	e.launch()
	e.disp.Start()

	time.Sleep(d)

	e.disp.Quit()
	e.wg.Wait()
	return e.summarize(startedAt), nil
}

// RunToCompletion is the log-bounded driver: release the workers and
// quit once every transaction has been claimed. In-flight batches are
// completed before workers observe quit.
func (e *Engine) RunToCompletion() (*types.RunResult, error) {
	if e.ran {
		return nil, ErrAlreadyRun
	}
	e.ran = true

	startedAt := time.Now()
	e.launch()
	e.disp.Start()

	for !e.disp.Exhausted() {
		time.Sleep(time.Millisecond)
	}

	e.disp.Quit()
	e.wg.Wait()
	return e.summarize(startedAt), nil
}

func (e *Engine) launch() {
	e.publish(events.EventRunStarted, "run started", nil)

	run := func(worker interface{ Run(*sync.WaitGroup) }, id int) {
		e.wg.Add(1)
		go worker.Run(&e.wg)
		e.publish(events.EventWorkerStarted, "worker started", map[string]string{
			"worker": strconv.Itoa(id),
		})
	}
	for i, w := range e.bohmWorkers {
		run(w, i)
	}
	for i, w := range e.gatoWorkers {
		run(w, i)
	}

	e.logger.Info().
		Int("workers", e.cfg.Workers).
		Uint64("tuples", e.cfg.Tuples).
		Uint64("batch_size", e.cfg.BatchSize).
		Int("transactions", len(e.txLog)).
		Msg("workers launched")
}

func (e *Engine) summarize(startedAt time.Time) *types.RunResult {
	elapsed := time.Since(startedAt)

	perWorker := make([]uint64, e.cfg.Workers)
	for i, w := range e.bohmWorkers {
		perWorker[i] = w.Result().CommitCount
	}
	for i, w := range e.gatoWorkers {
		perWorker[i] = w.Result().CommitCount
	}

	var total uint64
	for _, c := range perWorker {
		total += c
	}

	result := &types.RunResult{
		ID:               uuid.New().String(),
		Variant:          e.variant,
		Workers:          e.cfg.Workers,
		Tuples:           e.cfg.Tuples,
		BatchSize:        e.cfg.BatchSize,
		Transactions:     uint64(len(e.txLog)),
		TotalCommits:     total,
		PerWorkerCommits: perWorker,
		Elapsed:          elapsed,
		Throughput:       float64(total) / elapsed.Seconds(),
		StartedAt:        startedAt,
	}

	for i, c := range perWorker {
		e.publish(events.EventWorkerStopped, "worker stopped", map[string]string{
			"worker":  strconv.Itoa(i),
			"commits": strconv.FormatUint(c, 10),
		})
	}

	metrics.RunsTotal.WithLabelValues(string(e.variant)).Inc()
	metrics.RunThroughput.WithLabelValues(string(e.variant)).Set(result.Throughput)

	e.publish(events.EventRunCompleted, "run completed", map[string]string{
		"run_id":  result.ID,
		"commits": strconv.FormatUint(total, 10),
	})

	e.logger.Info().
		Str("run_id", result.ID).
		Uint64("commits", total).
		Dur("elapsed", elapsed).
		Float64("throughput", result.Throughput).
		Msg("run completed")

	return result
}

func (e *Engine) publish(typ events.EventType, msg string, meta map[string]string) {
	if e.broker == nil {
		return
	}
	e.broker.Publish(&events.Event{Type: typ, Message: msg, Metadata: meta})
}
