package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/config"
	"github.com/cuemby/burrow/pkg/engine"
	"github.com/cuemby/burrow/pkg/events"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/storage"
	"github.com/cuemby/burrow/pkg/types"
	"github.com/cuemby/burrow/pkg/workload"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a concurrency-control benchmark",
	Long: `Run one CC benchmark and print its throughput.

Examples:
  # Time-bounded bohm run with defaults (8 workers, 1000 tuples, 3s)
  burrow bench --variant bohm

  # Log-bounded gato run over a random workload
  burrow bench --variant gato --full-log --workload random --seed 42

  # Load tunables from a file and persist the summary
  burrow bench --variant gato --config bench.yaml --history ./data`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().String("variant", "bohm", "CC variant (bohm or gato)")
	benchCmd.Flags().Int("workers", config.DefaultWorkers, "Number of CC workers")
	benchCmd.Flags().Uint64("tuples", config.DefaultTuples, "Number of records in the table")
	benchCmd.Flags().Uint64("batch", config.DefaultBatchSize, "Transactions per claimed batch")
	benchCmd.Flags().Int("max-ops", config.DefaultMaxOps, "Maximum tasks per generated transaction")
	benchCmd.Flags().Duration("duration", config.DefaultDuration, "Wall-clock duration of the time-bounded driver")
	benchCmd.Flags().Bool("full-log", false, "Run until the whole log is processed instead of for a fixed duration")
	benchCmd.Flags().Uint64("transactions", 0, "Length of the generated log (defaults to the tuple count)")
	benchCmd.Flags().String("workload", "sequential", "Workload shape (sequential or random)")
	benchCmd.Flags().Int64("seed", 1, "Seed for the random workload")
	benchCmd.Flags().String("config", "", "YAML config file applied under the flags")
	benchCmd.Flags().String("metrics-addr", "", "Address to serve Prometheus metrics on (empty disables)")
	benchCmd.Flags().String("history", "", "Directory for the run-history database (empty disables)")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
	}

	// Flags the user set override the file.
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("tuples") {
		cfg.Tuples, _ = cmd.Flags().GetUint64("tuples")
	}
	if cmd.Flags().Changed("batch") {
		cfg.BatchSize, _ = cmd.Flags().GetUint64("batch")
	}
	if cmd.Flags().Changed("max-ops") {
		cfg.MaxOps, _ = cmd.Flags().GetInt("max-ops")
	}
	if cmd.Flags().Changed("duration") {
		cfg.Duration, _ = cmd.Flags().GetDuration("duration")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	variantName, _ := cmd.Flags().GetString("variant")
	variant := types.Variant(variantName)
	if variant != types.VariantBohm && variant != types.VariantGato {
		return fmt.Errorf("unknown variant: %s (expected bohm or gato)", variantName)
	}

	txCount, _ := cmd.Flags().GetUint64("transactions")
	if txCount == 0 {
		txCount = cfg.Tuples
	}

	workloadName, _ := cmd.Flags().GetString("workload")
	var txLog []types.Transaction
	switch workloadName {
	case "sequential":
		txLog = workload.Sequential(txCount, cfg.Tuples)
	case "random":
		seed, _ := cmd.Flags().GetInt64("seed")
		txLog = workload.Random(txCount, cfg.Tuples, cfg.MaxOps, seed)
	default:
		return fmt.Errorf("unknown workload: %s (expected sequential or random)", workloadName)
	}

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Errorf("metrics listener failed", err)
			}
		}()
		log.Logger.Info().Str("addr", addr).Msg("serving metrics")
	}

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	eng, err := engine.New(engine.Options{
		Variant: variant,
		Config:  cfg,
		Log:     txLog,
		Broker:  broker,
	})
	if err != nil {
		return err
	}

	fullLog, _ := cmd.Flags().GetBool("full-log")
	var result *types.RunResult
	if fullLog {
		result, err = eng.RunToCompletion()
	} else {
		result, err = eng.RunFor(cfg.Duration)
	}
	if err != nil {
		return err
	}

	printResult(result)

	if dir, _ := cmd.Flags().GetString("history"); dir != "" {
		store, err := storage.NewBoltStore(dir)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()
		if err := store.SaveRun(result); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		log.Logger.Info().Str("run_id", result.ID).Msg("run saved to history")
	}

	return nil
}

func printResult(r *types.RunResult) {
	fmt.Printf("%s algorithm performance:\n", r.Variant)
	fmt.Printf("  Run ID:                 %s\n", r.ID)
	fmt.Printf("  Execution time:         %s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Printf("  Transactions committed: %d\n", r.TotalCommits)
	fmt.Printf("  Throughput:             %.0f txn/sec\n", r.Throughput)
	for i, c := range r.PerWorkerCommits {
		fmt.Printf("  Worker %d commits:       %d\n", i, c)
	}
}
