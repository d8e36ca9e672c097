package store

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// EndOfTime is the end timestamp carried by the newest version of every
// chain.
const EndOfTime uint64 = math.MaxUint64

// Version is one entry in a record's version chain. BeginTS is fixed at
// creation. endTS is written again by the installer of the next
// version, and once more whenever an out-of-order insert lands directly
// above it; value and placeholder are written once when the execution
// phase fills the version; prev is rewritten only by an out-of-order
// insert below an existing version. All mutable fields are atomics so
// readers can walk a chain while CC and fill are in flight.
type Version struct {
	beginTS     uint64
	endTS       atomic.Uint64
	value       atomic.Uint64
	placeholder atomic.Bool
	prev        atomic.Pointer[Version]
}

// BeginTS returns the timestamp of the writer that created this version.
func (v *Version) BeginTS() uint64 { return v.beginTS }

// EndTS returns the begin timestamp of the next version in time, or
// EndOfTime if this is the newest version.
func (v *Version) EndTS() uint64 { return v.endTS.Load() }

// Value returns the version's payload. Meaningless while the version is
// still a placeholder.
func (v *Version) Value() uint64 { return v.value.Load() }

// IsPlaceholder reports whether the version has been reserved but not
// yet filled.
func (v *Version) IsPlaceholder() bool { return v.placeholder.Load() }

// Prev returns the next older version in the chain, or nil at the tail.
func (v *Version) Prev() *Version { return v.prev.Load() }

// tuple is one record: the head of its version chain, published with
// release semantics and loaded with acquire semantics so a reader that
// observes a head also observes the endTS write on the version below
// it. mu serializes only the ordered install path used by the adaptive
// variant; the static variant's single-writer invariant makes the
// prepend path lock-free.
type tuple struct {
	head atomic.Pointer[Version]
	mu   sync.Mutex
}

// Table is the in-memory versioned store over a dense key space [0, M).
// The table itself is fixed at construction; only the version chains
// grow. Versions are never freed during a run.
type Table struct {
	tuples []tuple
}

// NewTable builds a table of m records, each with an initial version
// {begin: 0, end: EndOfTime, value: 0} that is visible to every reader.
func NewTable(m uint64) *Table {
	t := &Table{tuples: make([]tuple, m)}
	for i := range t.tuples {
		init := &Version{beginTS: 0}
		init.endTS.Store(EndOfTime)
		t.tuples[i].head.Store(init)
	}
	return t
}

// Len returns the number of records.
func (t *Table) Len() uint64 { return uint64(len(t.tuples)) }

// Head returns the newest version of key's chain.
func (t *Table) Head(key uint64) *Version {
	return t.tuples[key].head.Load()
}

// InstallPlaceholder prepends a placeholder version {begin: ts, end:
// EndOfTime} to key's chain and caps the previous head at ts. The
// caller must be the key's sole owner and must install in non-decreasing
// timestamp order; both are guaranteed by the static partition map plus
// the per-batch timestamp sort. An install at the head's own timestamp
// shadows the head.
func (t *Table) InstallPlaceholder(key, ts uint64) {
	tp := &t.tuples[key]
	head := tp.head.Load()
	// Equality is legal: writer timestamp 0 shadows the initial
	// version, and a duplicate write key in one task set shadows its
	// own earlier occurrence. Only a regression is a bug.
	if ts < head.beginTS {
		panic(fmt.Sprintf("store: non-monotonic install on key %d: ts %d < head %d", key, ts, head.beginTS))
	}
	tp.prepend(head, ts)
}

// InstallPlaceholderOrdered installs a placeholder at ts even when the
// chain head has moved past it. The adaptive variant uses this path: a
// migration can hand a key to a worker that is still processing an
// earlier batch, so its install may arrive below the head. Inserts are
// serialized by a per-record mutex because the single-writer invariant
// does not hold across a migration window. An exact-timestamp collision
// shadows the existing version, the same way the prepend path shadows
// on equality, so each duplicate write occurrence still gets its own
// placeholder.
func (t *Table) InstallPlaceholderOrdered(key, ts uint64) {
	tp := &t.tuples[key]
	tp.mu.Lock()
	defer tp.mu.Unlock()

	head := tp.head.Load()
	if ts >= head.beginTS {
		tp.prepend(head, ts)
		return
	}

	// Walk down to the pair (newer, older) with older.begin <= ts <
	// newer.begin and splice a version between them. The tail carries
	// begin 0, so the walk always terminates at a splice point.
	newer := head
	for {
		older := newer.prev.Load()
		if older.beginTS <= ts {
			v := &Version{beginTS: ts}
			v.endTS.Store(newer.beginTS)
			v.placeholder.Store(true)
			v.prev.Store(older)
			older.endTS.Store(ts)
			newer.prev.Store(v)
			return
		}
		newer = older
	}
}

// prepend caps head at ts and publishes a new placeholder head.
func (tp *tuple) prepend(head *Version, ts uint64) {
	v := &Version{beginTS: ts}
	v.endTS.Store(EndOfTime)
	v.placeholder.Store(true)
	v.prev.Store(head)

	// Cap the old head before the new one becomes reachable.
	head.endTS.Store(ts)
	tp.head.Store(v)
}

// FillPlaceholder sets the value of the placeholder installed at ts and
// makes it visible to readers. Only the newest version with that begin
// timestamp is considered: returns false if key's chain has no version
// at ts or that version is already filled.
func (t *Table) FillPlaceholder(key, ts, value uint64) bool {
	for v := t.tuples[key].head.Load(); v != nil; v = v.prev.Load() {
		if v.beginTS == ts {
			if !v.placeholder.Load() {
				return false
			}
			v.value.Store(value)
			v.placeholder.Store(false)
			return true
		}
	}
	return false
}

// ReadAsOf returns the value visible at ts: the newest filled version
// with begin <= ts < end. Placeholders are invisible and are skipped; a
// reader that needs the pending write at ts must wait for the execution
// phase to fill it and retry.
func (t *Table) ReadAsOf(key, ts uint64) (uint64, bool) {
	for v := t.tuples[key].head.Load(); v != nil; v = v.prev.Load() {
		if v.placeholder.Load() {
			continue
		}
		if v.beginTS <= ts && ts < v.endTS.Load() {
			return v.value.Load(), true
		}
	}
	return 0, false
}
