/*
Package types defines the shared value types used across Burrow packages.

This includes the transaction and task model consumed by the
concurrency-control workers, the variant selector, and the run summary
emitted by the engine. Types here are plain data with no behavior beyond
value copying; all concurrency discipline lives in the packages that own
the data (pkg/store, pkg/partition, pkg/dispatch, pkg/readyqueue).
*/
package types
