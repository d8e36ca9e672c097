/*
Package partition maps record keys to their owning concurrency-control
worker.

Every key has exactly one owner at any moment; under the static mapping
that single-owner invariant is what lets the store install placeholder
versions without per-key locks (the adaptive variant's installs take a
per-record lock, since a migration can leave an earlier owner still
installing). Two mappings are provided:

Static, for the bohm variant: ownership is key mod W, computed on the
fly — immutable, lock-free, and equivalent to materializing per-worker
key lists up front.

Adaptive, for the gato variant: ownership starts as key mod W but can
change during the run. One mutex guards the owner map, the last-writer
map, and the per-worker load vector, so a migration is atomic with
respect to every lookup: a key's owner changes at one serialized point,
never splitting its writes between two workers at the same timestamp.
Rebalance implements the hill-climbing policy — when the spread between
the most and least loaded worker exceeds a threshold, exactly one key
moves, which bounds redistribution cost and avoids thrashing.
*/
package partition
