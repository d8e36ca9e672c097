/*
Package config holds the engine's tunables and their defaults.

Configuration comes from three layers: compiled defaults, an optional
YAML file, and CLI flags applied by cmd/burrow on top. MaxRetry is
carried for compatibility with the execution phase's configuration
surface; the CC engine itself never retries.
*/
package config
