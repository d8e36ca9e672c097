/*
Package log provides structured logging for Burrow using zerolog.

The log package wraps the zerolog library to provide JSON-structured
logging with component-specific loggers, configurable log levels, and
helper functions for common logging patterns. All logs include
timestamps and support filtering by severity level.

# Usage

Initializing the Logger:

	import "github.com/cuemby/burrow/pkg/log"

	// JSON output
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Component Loggers:

	ccLog := log.WithComponent("cc")
	ccLog.Info().Int("worker_id", 3).Msg("worker started")

	workerLog := log.WithWorkerID(3)
	workerLog.Debug().Uint64("batch_start", 150).Msg("claimed batch")

Structured Logging:

	log.Logger.Info().
		Str("variant", "gato").
		Uint64("commits", 12345).
		Msg("run completed")

The CC worker hot loop, migrations included, logs at debug level only;
at the default info level a run emits a handful of lines (launch and
summary), so
logging never contends with the placeholder-install path.
*/
package log
