/*
Package engine assembles and drives the concurrency-control pipeline.

# Architecture

	┌───────────────────────── ENGINE ─────────────────────────┐
	│                                                          │
	│  transaction log ──▶ dispatcher (atomic cursor) ─┐       │
	│                                                  │       │
	│            ┌──────────┬──────────┬───────────────┘       │
	│            ▼          ▼          ▼                       │
	│        worker 0   worker 1  ...  worker W-1              │
	│            │          │          │                       │
	│            │  partition map (static or adaptive)         │
	│            ▼          ▼          ▼                       │
	│        versioned table (placeholder installs)            │
	│            │          │          │                       │
	│            └──────────┴────┬─────┘                       │
	│                            ▼                             │
	│                      ready queue ──▶ execution phase     │
	│                                     (external)           │
	└──────────────────────────────────────────────────────────┘

The engine is a value, not a process: construction wires every shared
structure, and a driver call runs the workers to quiescence. Two
drivers exist because two benchmark shapes exist. RunFor matches the
wall-clock benchmark — workers claim batches for a fixed duration and
idle on empty claims once the log is exhausted.
RunToCompletion stops as soon as the cursor has passed the end of the
log, for workloads where every transaction must be CC'd exactly once.

After either driver returns, the ready queue still holds everything the
workers pushed; draining it is the execution phase's job, not the
engine's.
*/
package engine
