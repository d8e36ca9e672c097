package storage

import (
	"github.com/cuemby/burrow/pkg/types"
)

// Store defines the interface for run-history storage. The engine never
// touches it; the CLI saves run summaries after the fact, so losing the
// file never affects a run.
type Store interface {
	// Runs
	SaveRun(result *types.RunResult) error
	GetRun(id string) (*types.RunResult, error)
	ListRuns() ([]*types.RunResult, error)
	DeleteRun(id string) error

	// Utility
	Close() error
}
