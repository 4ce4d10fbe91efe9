// Package logging provides structured logging for compass-cfg.
//
// This package wraps a zap logger with convenience functions used by the
// device client, the CLI and the dashboard.
//
// # Log Levels
//
//   - Debug: request/response details, decoded payloads
//   - Info: device calls, discovery results, registry writes
//   - Warn: failed loads and saves that the dashboard swallows
//   - Error: startup failures
//
// # Silent by default
//
// Logging is silent unless a level is given on the command line or through
// the COMPASS_LOG_LEVEL environment variable. The dashboard owns the
// terminal, so it should be combined with a log file:
//
//	if err := logging.Initialize("debug", "/tmp/compass.log"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Device Requests
//
// Every HTTP call to a device is logged with a request ID:
//
//	logging.LogDeviceRequest(requestID, "POST", "/spawn", 200, elapsed, nil)
package logging
