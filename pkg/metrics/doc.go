/*
Package metrics exposes Prometheus instrumentation for Burrow.

Collectors are package-level and registered at init, so any package can
record without plumbing a registry. The CC hot path touches only
counters (commit, batch, install), which are cheap enough to live inside
the worker loop; gauges for the ready queue and run throughput are
updated at batch and run boundaries. Handler returns the HTTP handler
the CLI mounts when --metrics-addr is set.

Counters here are observability, not the source of truth: the engine's
reported commit totals come from the per-worker counters aggregated at
shutdown.
*/
package metrics
