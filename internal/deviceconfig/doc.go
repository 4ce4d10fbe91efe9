// Package deviceconfig provides an HTTP client for managing compass device configuration.
//
// The compass exposes a small REST API on its local web server. Each settings
// domain has its own endpoint pair: a GET that returns a JSON object and a
// POST that takes the new values as query parameters and returns nothing of
// interest.
//
// # Settings Domains
//
//   - Colors: south (compass mode) and spawn pointer colors plus LED brightness,
//     split across /pointColors and /brightness
//   - WiFi: station SSID and password (/wifi, /setWiFi)
//   - Spawn: target latitude/longitude (/spawn)
//   - Info: read-only build and sensor status (/info)
//   - Advanced: Bluetooth server mode and device model (/adveancedConfig)
//
// # Usage Example
//
//	client := deviceconfig.NewClient("192.168.4.1", 80)
//
//	colors, err := client.LoadColorConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	colors.SouthColor = deviceconfig.ColorForKey("green")
//	result := client.ApplyColorConfig(ctx, colors)
//	if err := result.Err(); err != nil {
//	    log.Printf("partial save: %v", err)
//	}
//
// # Retries
//
// A new Client sends every request once. SetRetry makes reads retry with
// exponential backoff when the error is retryable (timeouts, refused
// connections, HTTP 5xx). Writes are always sent once; callers decide whether
// to try again.
//
// # Verification and Rollback
//
// UpdateAndVerify applies a ConfigUpdate and reads each section back until it
// matches. RollbackManager.SafeUpdate additionally snapshots the affected
// sections first and restores them if verification fails. Snapshots can be
// written to and read from YAML files for backup and restore.
//
// # Error Handling
//
// All errors are *DeviceError values (possibly wrapped) carrying an ErrorType.
// Use IsNetworkError, IsHTTPError and friends to branch, and
// GetShortErrorMessage / GetTroubleshootingHint to present them.
package deviceconfig
