// Package logging provides structured logging for the DeWarmte client.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used throughout the client and CLI.
//
// # Log Levels
//
//   - Debug: Detailed debugging info (API round-trips, token refreshes, payloads)
//   - Info: Normal operations (discovery results, settings submissions)
//   - Warn: Non-fatal issues (failed polls, skipped telemetry fields)
//   - Error: Fatal issues (login failures, startup errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("discovered devices",
//	    zap.Int("count", len(devices)),
//	)
//
// # Configuration
//
// The CLI initializes logging from the DEWARMTE_LOG_LEVEL environment
// variable; when it is unset, logging is silent so command output stays
// clean:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
