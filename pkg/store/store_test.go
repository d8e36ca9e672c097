package store

import (
	"sync"
	"testing"
)

// verifyChain walks key's chain and checks the structural invariants:
// begin timestamps never increase toward the tail, adjacent versions
// share a boundary timestamp, the head ends at EndOfTime, and the tail
// is the initial version.
func verifyChain(t *testing.T, table *Table, key uint64) {
	t.Helper()

	head := table.Head(key)
	if head.EndTS() != EndOfTime {
		t.Errorf("key %d: head end_ts = %d, want EndOfTime", key, head.EndTS())
	}

	v := head
	for {
		prev := v.Prev()
		if prev == nil {
			break
		}
		// Begin timestamps never increase toward the tail. Equal
		// neighbors occur only through shadowing: writer 0 above the
		// initial version, or a duplicate write key in one task set.
		if prev.BeginTS() > v.BeginTS() {
			t.Errorf("key %d: chain ascends toward tail: %d then %d", key, v.BeginTS(), prev.BeginTS())
		}
		if prev.EndTS() != v.BeginTS() {
			t.Errorf("key %d: adjacent versions disagree: older end_ts %d, newer begin_ts %d", key, prev.EndTS(), v.BeginTS())
		}
		v = prev
	}

	if v.BeginTS() != 0 {
		t.Errorf("key %d: tail begin_ts = %d, want 0", key, v.BeginTS())
	}
	if v.IsPlaceholder() {
		t.Errorf("key %d: tail is a placeholder", key)
	}
	if v.Value() != 0 {
		t.Errorf("key %d: tail value = %d, want 0", key, v.Value())
	}
}

func TestNewTableInitialVersion(t *testing.T) {
	table := NewTable(4)
	if table.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", table.Len())
	}
	for k := uint64(0); k < 4; k++ {
		verifyChain(t, table, k)
		val, ok := table.ReadAsOf(k, 0)
		if !ok || val != 0 {
			t.Errorf("ReadAsOf(%d, 0) = (%d, %v), want (0, true)", k, val, ok)
		}
	}
}

func TestInstallPlaceholderChainShape(t *testing.T) {
	table := NewTable(2)
	table.InstallPlaceholder(0, 10)
	table.InstallPlaceholder(0, 20)

	verifyChain(t, table, 0)

	head := table.Head(0)
	if head.BeginTS() != 20 || !head.IsPlaceholder() {
		t.Errorf("head = (begin %d, placeholder %v), want (20, true)", head.BeginTS(), head.IsPlaceholder())
	}
	mid := head.Prev()
	if mid.BeginTS() != 10 || mid.EndTS() != 20 {
		t.Errorf("mid = [%d, %d), want [10, 20)", mid.BeginTS(), mid.EndTS())
	}
}

func TestInstallPlaceholderNonMonotonicPanics(t *testing.T) {
	table := NewTable(1)
	table.InstallPlaceholder(0, 10)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on non-monotonic install")
		}
	}()
	table.InstallPlaceholder(0, 5)
}

func TestInstallDuplicateKeyShadows(t *testing.T) {
	// A task set writing one key twice installs two versions at the
	// same timestamp; the newer shadows the older, whose validity
	// window is empty.
	table := NewTable(1)
	table.InstallPlaceholder(0, 4)
	table.InstallPlaceholder(0, 4)
	verifyChain(t, table, 0)

	head := table.Head(0)
	if head.BeginTS() != 4 || head.Prev().BeginTS() != 4 {
		t.Fatalf("chain top = %d over %d, want 4 over 4", head.BeginTS(), head.Prev().BeginTS())
	}
	if head.Prev().EndTS() != 4 {
		t.Errorf("shadowed version end_ts = %d, want 4 (empty window)", head.Prev().EndTS())
	}
}

func TestPlaceholdersStrictlyIncreasing(t *testing.T) {
	table := NewTable(1)
	for ts := uint64(1); ts <= 50; ts++ {
		table.InstallPlaceholder(0, ts)
	}
	verifyChain(t, table, 0)

	// Walk newest-first and collect placeholder timestamps; they must
	// come out strictly decreasing, i.e. were installed strictly
	// increasing.
	last := uint64(EndOfTime)
	for v := table.Head(0); v != nil; v = v.Prev() {
		if !v.IsPlaceholder() {
			continue
		}
		if v.BeginTS() >= last {
			t.Fatalf("placeholder order violated: %d then %d", last, v.BeginTS())
		}
		last = v.BeginTS()
	}
}

func TestInstallAtTimestampZero(t *testing.T) {
	table := NewTable(1)

	// The writer at timestamp 0 shadows the initial version.
	table.InstallPlaceholder(0, 0)
	verifyChain(t, table, 0)

	head := table.Head(0)
	if head.BeginTS() != 0 || !head.IsPlaceholder() {
		t.Fatalf("head = (begin %d, placeholder %v), want (0, true)", head.BeginTS(), head.IsPlaceholder())
	}
	if head.Prev().EndTS() != 0 {
		t.Errorf("initial version end_ts = %d, want 0", head.Prev().EndTS())
	}

	table.InstallPlaceholder(0, 1)
	verifyChain(t, table, 0)
	if !table.FillPlaceholder(0, 0, 5) {
		t.Fatal("fill of the ts-0 placeholder failed")
	}
	val, ok := table.ReadAsOf(0, 0)
	if !ok || val != 5 {
		t.Errorf("ReadAsOf(0, 0) = (%d, %v), want (5, true)", val, ok)
	}
}

func TestOrderedInstallAtTimestampZero(t *testing.T) {
	table := NewTable(1)
	table.InstallPlaceholderOrdered(0, 3)
	table.InstallPlaceholderOrdered(0, 0)
	verifyChain(t, table, 0)

	// The late writer 0 sits between the head and the initial version.
	mid := table.Head(0).Prev()
	if mid.BeginTS() != 0 || !mid.IsPlaceholder() {
		t.Fatalf("mid = (begin %d, placeholder %v), want (0, true)", mid.BeginTS(), mid.IsPlaceholder())
	}

	// A duplicate occurrence at 0 shadows it.
	table.InstallPlaceholderOrdered(0, 0)
	verifyChain(t, table, 0)
	shadowed := table.Head(0).Prev().Prev()
	if shadowed.BeginTS() != 0 || shadowed.EndTS() != 0 {
		t.Errorf("shadowed version = [%d, %d), want empty window [0, 0)", shadowed.BeginTS(), shadowed.EndTS())
	}
}

func TestFillThenReadRoundTrip(t *testing.T) {
	table := NewTable(1)
	table.InstallPlaceholder(0, 7)

	if !table.FillPlaceholder(0, 7, 99) {
		t.Fatal("FillPlaceholder(0, 7, 99) = false, want true")
	}
	val, ok := table.ReadAsOf(0, 7)
	if !ok || val != 99 {
		t.Errorf("ReadAsOf(0, 7) = (%d, %v), want (99, true)", val, ok)
	}
}

func TestFillPlaceholderMissing(t *testing.T) {
	table := NewTable(1)
	if table.FillPlaceholder(0, 3, 1) {
		t.Error("fill of a never-installed timestamp should return false")
	}

	table.InstallPlaceholder(0, 3)
	if !table.FillPlaceholder(0, 3, 1) {
		t.Fatal("first fill should succeed")
	}
	if table.FillPlaceholder(0, 3, 2) {
		t.Error("second fill of the same version should return false")
	}
}

func TestReadSkipsPlaceholders(t *testing.T) {
	table := NewTable(1)
	table.InstallPlaceholder(0, 5)

	// The pending write at ts 5 is invisible. It covers every read from
	// ts 5 on, so such a read finds nothing until the placeholder is
	// filled; an earlier read still sees the initial version below it.
	val, ok := table.ReadAsOf(0, 5)
	if ok {
		t.Errorf("ReadAsOf(0, 5) = (%d, %v), want (_, false)", val, ok)
	}
	val, ok = table.ReadAsOf(0, 4)
	if !ok || val != 0 {
		t.Errorf("ReadAsOf(0, 4) = (%d, %v), want (0, true)", val, ok)
	}
}

func TestReadAsOfHistorical(t *testing.T) {
	table := NewTable(1)
	table.InstallPlaceholder(0, 10)
	table.FillPlaceholder(0, 10, 42)
	table.InstallPlaceholder(0, 20)
	table.FillPlaceholder(0, 20, 99)

	cases := []struct {
		ts   uint64
		want uint64
	}{
		{5, 0},
		{15, 42},
		{25, 99},
	}
	for _, c := range cases {
		val, ok := table.ReadAsOf(0, c.ts)
		if !ok || val != c.want {
			t.Errorf("ReadAsOf(0, %d) = (%d, %v), want (%d, true)", c.ts, val, ok, c.want)
		}
	}
}

func TestInstallPlaceholderOrderedOutOfOrder(t *testing.T) {
	table := NewTable(1)
	table.InstallPlaceholderOrdered(0, 100)
	table.InstallPlaceholderOrdered(0, 120)

	// A migration handed the key to a worker still on an earlier
	// batch: its install lands below the head.
	table.InstallPlaceholderOrdered(0, 60)
	verifyChain(t, table, 0)

	head := table.Head(0)
	if head.BeginTS() != 120 {
		t.Errorf("head begin_ts = %d, want 120", head.BeginTS())
	}

	// The spliced placeholder fills and reads like any other.
	if !table.FillPlaceholder(0, 60, 7) {
		t.Fatal("fill of spliced placeholder failed")
	}
	val, ok := table.ReadAsOf(0, 90)
	if !ok || val != 7 {
		t.Errorf("ReadAsOf(0, 90) = (%d, %v), want (7, true)", val, ok)
	}
}

func TestOrderedInstallDuplicateTimestampShadows(t *testing.T) {
	table := NewTable(1)
	table.InstallPlaceholderOrdered(0, 100)
	table.InstallPlaceholderOrdered(0, 120)

	// A duplicate occurrence at the head shadows the head.
	table.InstallPlaceholderOrdered(0, 120)
	verifyChain(t, table, 0)
	head := table.Head(0)
	if head.BeginTS() != 120 || head.Prev().BeginTS() != 120 {
		t.Fatalf("chain top = %d over %d, want 120 over 120", head.BeginTS(), head.Prev().BeginTS())
	}
	if head.Prev().EndTS() != 120 {
		t.Errorf("shadowed head end_ts = %d, want 120 (empty window)", head.Prev().EndTS())
	}

	// A duplicate mid-chain occurrence shadows in place.
	table.InstallPlaceholderOrdered(0, 100)
	verifyChain(t, table, 0)

	count := 0
	for v := table.Head(0); v != nil; v = v.Prev() {
		if v.BeginTS() == 100 {
			count++
		}
	}
	if count != 2 {
		t.Errorf("versions at ts 100 = %d, want 2", count)
	}
}

func TestConcurrentInstallsDistinctKeys(t *testing.T) {
	const keys = 8
	const installs = 200

	table := NewTable(keys)
	var wg sync.WaitGroup
	for k := uint64(0); k < keys; k++ {
		wg.Add(1)
		go func(key uint64) {
			defer wg.Done()
			for ts := uint64(1); ts <= installs; ts++ {
				table.InstallPlaceholder(key, ts)
			}
		}(k)
	}

	// Readers walk chains while installs are in flight.
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
			}
			for k := uint64(0); k < keys; k++ {
				table.ReadAsOf(k, installs/2)
			}
		}
	}()

	wg.Wait()
	close(done)

	for k := uint64(0); k < keys; k++ {
		verifyChain(t, table, k)
		if table.Head(k).BeginTS() != installs {
			t.Errorf("key %d: head begin_ts = %d, want %d", k, table.Head(k).BeginTS(), uint64(installs))
		}
	}
}

func TestConcurrentOrderedInstallsSameKey(t *testing.T) {
	// Two workers on either side of a migration install interleaved
	// timestamp ranges on one key.
	table := NewTable(1)
	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(offset uint64) {
			defer wg.Done()
			for i := uint64(0); i < 100; i++ {
				table.InstallPlaceholderOrdered(0, 1+offset+2*i)
			}
		}(uint64(w))
	}
	wg.Wait()

	verifyChain(t, table, 0)

	// 200 placeholders plus the initial version.
	count := 0
	for v := table.Head(0); v != nil; v = v.Prev() {
		count++
	}
	if count != 201 {
		t.Errorf("chain length = %d, want 201", count)
	}
}
