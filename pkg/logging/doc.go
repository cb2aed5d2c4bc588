// Package logging provides the operator-facing structured logging for termshell.
//
// It is a thin layer over Go's standard slog package. Every record carries a
// subsystem attribute so that log lines from the shell engine, the login hooks,
// the telnet driver and the configuration watcher can be filtered apart.
//
// # Log Levels
//   - **Debug**: per-key and per-line details, rejected input, history evictions
//   - **Info**: sessions beginning and ending, configuration reloads
//   - **Warn**: recoverable problems such as failed logins
//   - **Error**: failures that stop a driver or a reload
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Server", "listening on %s", addr)
//	logging.Error("Config", err, "reload of %s failed", path)
//
// Session-scoped logging binds an identifier once:
//
//	log := logging.For("Session", "session", id)
//	log.Debug("line submitted (%d bytes)", n)
//
// Output written to a shell user never goes through this package; handlers
// write to the session itself.
package logging
