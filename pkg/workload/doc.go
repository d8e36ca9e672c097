/*
Package workload generates transaction logs for the engine.

The generator's contract: timestamps equal the log index, every task key
is inside the table's key space, and task sets never exceed the
configured maximum. Sequential produces the fixed ring pattern used by
the benchmarks; Random produces seeded uniform task sets for stress
runs.
*/
package workload
