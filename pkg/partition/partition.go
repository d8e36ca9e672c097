package partition

// Static is the fixed record-to-worker mapping used by the bohm variant:
// key k belongs to worker k mod W. The mapping never changes during a
// run, so lookups are lock-free and every placeholder install for a key
// is performed by one worker only.
type Static struct {
	workers int
}

// NewStatic creates a static partitioning across the given worker count.
func NewStatic(workers int) *Static {
	if workers <= 0 {
		panic("partition: worker count must be positive")
	}
	return &Static{workers: workers}
}

// Workers returns the worker count the mapping was built for.
func (s *Static) Workers() int { return s.workers }

// Owner returns the worker that owns key.
func (s *Static) Owner(key uint64) int {
	return int(key % uint64(s.workers))
}

// Owns reports whether worker owns key.
func (s *Static) Owns(worker int, key uint64) bool {
	return s.Owner(key) == worker
}
