package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the constants the engine was tuned with.
const (
	DefaultWorkers   = 8
	DefaultTuples    = 1000
	DefaultMaxOps    = 10
	DefaultBatchSize = 50
	DefaultMaxRetry  = 10
	DefaultDuration  = 3 * time.Second
)

var (
	ErrNoWorkers   = errors.New("config: worker count must be positive")
	ErrNoTuples    = errors.New("config: tuple count must be positive")
	ErrNoBatch     = errors.New("config: batch size must be positive")
	ErrNoMaxOps    = errors.New("config: max ops per transaction must be positive")
	ErrNoDuration  = errors.New("config: duration must be positive")
)

// Config holds the engine's tunables.
type Config struct {
	// Workers is the number of CC worker goroutines.
	Workers int

	// Tuples is the table size M; keys are dense in [0, Tuples).
	Tuples uint64

	// MaxOps bounds the task-set size of generated transactions.
	MaxOps int

	// BatchSize is the number of transactions claimed per cursor
	// fetch-add.
	BatchSize uint64

	// MaxRetry is reserved for the execution phase; CC never retries.
	MaxRetry int

	// Duration is how long the time-bounded driver runs.
	Duration time.Duration
}

// fileConfig is the YAML shape of a config file. Pointer fields
// distinguish "absent" from "zero", and the duration is a string so
// files can say "500ms" or "3s".
type fileConfig struct {
	Workers   *int    `yaml:"workers"`
	Tuples    *uint64 `yaml:"tuples"`
	MaxOps    *int    `yaml:"maxOps"`
	BatchSize *uint64 `yaml:"batchSize"`
	MaxRetry  *int    `yaml:"maxRetry"`
	Duration  *string `yaml:"duration"`
}

// Default returns the configuration with all defaults applied.
func Default() Config {
	return Config{
		Workers:   DefaultWorkers,
		Tuples:    DefaultTuples,
		MaxOps:    DefaultMaxOps,
		BatchSize: DefaultBatchSize,
		MaxRetry:  DefaultMaxRetry,
		Duration:  DefaultDuration,
	}
}

// Load reads a YAML file over the defaults. Fields absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.Tuples != nil {
		cfg.Tuples = *fc.Tuples
	}
	if fc.MaxOps != nil {
		cfg.MaxOps = *fc.MaxOps
	}
	if fc.BatchSize != nil {
		cfg.BatchSize = *fc.BatchSize
	}
	if fc.MaxRetry != nil {
		cfg.MaxRetry = *fc.MaxRetry
	}
	if fc.Duration != nil {
		d, err := time.ParseDuration(*fc.Duration)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse duration: %w", err)
		}
		cfg.Duration = d
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return ErrNoWorkers
	}
	if c.Tuples == 0 {
		return ErrNoTuples
	}
	if c.BatchSize == 0 {
		return ErrNoBatch
	}
	if c.MaxOps <= 0 {
		return ErrNoMaxOps
	}
	if c.Duration <= 0 {
		return ErrNoDuration
	}
	return nil
}

// MigrationThreshold is the load-spread threshold the adaptive variant
// rebalances at: batch size over worker count, floored at one.
func (c Config) MigrationThreshold() uint64 {
	t := c.BatchSize / uint64(c.Workers)
	if t == 0 {
		t = 1
	}
	return t
}
