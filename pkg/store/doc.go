/*
Package store implements Burrow's versioned tuple store.

Each record in the table carries a singly-linked chain of timestamped
versions, newest first. The concurrency-control phase reserves a write
by installing a placeholder version; the execution phase later fills it
with a value. Readers walk the chain and see the newest filled version
whose validity window covers their timestamp — placeholders are
invisible until filled.

# Chain shape

	head ──▶ {begin: 20, end: ∞,  placeholder}
	              │ prev
	              ▼
	         {begin: 10, end: 20, value: 42}
	              │ prev
	              ▼
	         {begin: 0,  end: 10, value: 0}    (initial version)

Invariants, for every key:

  - begin timestamps never increase from head to tail; equal
    neighbours arise only from shadowing (writer timestamp 0 over the
    initial version, or a key written twice in one task set)
  - each version's end timestamp equals the begin timestamp of the
    version above it; the head's end is EndOfTime
  - the tail is the initial version: begin 0, value 0, never a
    placeholder

# Concurrency

The chain head is an atomic pointer: installers publish a new head with
a release store and readers pick it up with an acquire load, so the
capped end timestamp of the previous head is always visible together
with the new head.

Two install paths exist. InstallPlaceholder is the lock-free prepend
used under static partitioning, where every key has exactly one owning
worker for the whole run and owners install in ascending timestamp
order — the precondition is an invariant, so violation panics.
InstallPlaceholderOrdered serves adaptive partitioning, where a
migration can briefly leave two workers installing on the same key at
timestamps on either side of the head; it tolerates out-of-order
arrivals by splicing below the head and serializes per record.
*/
package store
