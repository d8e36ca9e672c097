/*
Package storage persists benchmark run history.

Run summaries are stored as JSON records in a BoltDB bucket keyed by run
ID. This is tooling-level persistence for the CLI's history command; the
engine itself keeps no durable state — tables, logs, and version chains
live and die with the process.
*/
package storage
