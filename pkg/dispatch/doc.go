/*
Package dispatch partitions the transaction log into batches claimed by
competing workers.

A single 64-bit cursor is fetch-added by the batch size; Go's atomics
are sequentially consistent, matching the contract the engine's
correctness argument is written against. The dispatcher also owns the
start and quit flags: workers spin until start, check quit only between
batches, and finish any batch they have already claimed.
*/
package dispatch
