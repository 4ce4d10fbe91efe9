package deviceconfig

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// coordinateTolerance absorbs float formatting on the device side.
const coordinateTolerance = 1e-6

// VerificationOptions configures how configuration verification behaves
type VerificationOptions struct {
	// MaxRetries is the maximum number of verification attempts after the first
	// Default: 3
	MaxRetries int

	// InitialDelay is the delay before the first verification attempt
	// This gives the device time to apply the configuration
	// Default: 500ms
	InitialDelay time.Duration

	// RetryDelay is the delay between retry attempts
	// Default: 1s
	RetryDelay time.Duration

	// UseExponentialBackoff doubles each retry delay (up to MaxRetryDelay)
	// Default: true
	UseExponentialBackoff bool

	// MaxRetryDelay is the maximum delay between retries when using exponential backoff
	// Default: 5s
	MaxRetryDelay time.Duration
}

// DefaultVerificationOptions returns sensible defaults for verification
func DefaultVerificationOptions() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:            3,
		InitialDelay:          500 * time.Millisecond,
		RetryDelay:            1 * time.Second,
		UseExponentialBackoff: true,
		MaxRetryDelay:         5 * time.Second,
	}
}

// VerificationResult contains the results of a configuration verification
type VerificationResult struct {
	// Success indicates whether verification succeeded
	Success bool

	// Attempts is the number of read-backs made
	Attempts int

	// Actual is the configuration read back from the device
	Actual *ConfigUpdate

	// Mismatches lists all detected mismatches between expected and actual config
	Mismatches []string

	// Error is any error that occurred during verification
	Error error
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// VerifyConfigurationWithRetry reads back every section present in expected
// and compares it, retrying with backoff to cover the time the firmware
// takes to persist a write.
func (c *Client) VerifyConfigurationWithRetry(ctx context.Context, expected *ConfigUpdate, opts *VerificationOptions) *VerificationResult {
	if opts == nil {
		opts = DefaultVerificationOptions()
	}

	result := &VerificationResult{Mismatches: []string{}}

	if err := sleepContext(ctx, opts.InitialDelay); err != nil {
		result.Error = NewNetworkError("verification canceled", err)
		return result
	}

	currentDelay := opts.RetryDelay

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, currentDelay); err != nil {
				result.Error = NewNetworkError("verification canceled", err)
				return result
			}

			if opts.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > opts.MaxRetryDelay {
					currentDelay = opts.MaxRetryDelay
				}
			}
		}

		result.Attempts++

		actual, err := c.ReadSettings(ctx, expected)
		if err != nil {
			result.Error = fmt.Errorf("attempt %d: failed to read configuration: %w", attempt+1, err)
			continue
		}

		result.Actual = actual
		result.Mismatches = verifyConfigurationMatch(expected, actual)

		if len(result.Mismatches) == 0 {
			result.Success = true
			result.Error = nil
			return result
		}

		if attempt < opts.MaxRetries {
			result.Error = fmt.Errorf("attempt %d: configuration mismatch (will retry)", attempt+1)
		} else {
			result.Error = fmt.Errorf("verification failed after %d attempts: %s", result.Attempts, formatMismatches(result.Mismatches))
		}
	}

	return result
}

// verifyConfigurationMatch compares expected configuration with what the device returned
// Returns a list of mismatches (empty if all matches)
func verifyConfigurationMatch(expected, actual *ConfigUpdate) []string {
	var mismatches []string

	if expected.Colors != nil {
		if actual.Colors == nil {
			mismatches = append(mismatches, "colors: not returned by device")
		} else {
			if !strings.EqualFold(actual.Colors.SouthColor, expected.Colors.SouthColor) {
				mismatches = append(mismatches, fmt.Sprintf("south color: expected %s, got %s", expected.Colors.SouthColor, actual.Colors.SouthColor))
			}
			if !strings.EqualFold(actual.Colors.SpawnColor, expected.Colors.SpawnColor) {
				mismatches = append(mismatches, fmt.Sprintf("spawn color: expected %s, got %s", expected.Colors.SpawnColor, actual.Colors.SpawnColor))
			}
			if actual.Colors.Brightness != expected.Colors.Brightness {
				mismatches = append(mismatches, fmt.Sprintf("brightness: expected %d, got %d", expected.Colors.Brightness, actual.Colors.Brightness))
			}
		}
	}

	if expected.Spawn != nil {
		if actual.Spawn == nil {
			mismatches = append(mismatches, "spawn: not set on device")
		} else {
			if math.Abs(actual.Spawn.Latitude-expected.Spawn.Latitude) > coordinateTolerance {
				mismatches = append(mismatches, fmt.Sprintf("latitude: expected %s, got %s", FormatCoordinate(expected.Spawn.Latitude), FormatCoordinate(actual.Spawn.Latitude)))
			}
			if math.Abs(actual.Spawn.Longitude-expected.Spawn.Longitude) > coordinateTolerance {
				mismatches = append(mismatches, fmt.Sprintf("longitude: expected %s, got %s", FormatCoordinate(expected.Spawn.Longitude), FormatCoordinate(actual.Spawn.Longitude)))
			}
		}
	}

	if expected.Advanced != nil {
		if actual.Advanced == nil {
			mismatches = append(mismatches, "advanced: not returned by device")
		} else {
			if actual.Advanced.ServerMode != expected.Advanced.ServerMode {
				mismatches = append(mismatches, fmt.Sprintf("server mode: expected %v, got %v", expected.Advanced.ServerMode, actual.Advanced.ServerMode))
			}
			if actual.Advanced.Model != expected.Advanced.Model {
				mismatches = append(mismatches, fmt.Sprintf("model: expected %s, got %s", expected.Advanced.Model, actual.Advanced.Model))
			}
		}
	}

	if expected.WiFi != nil {
		if actual.WiFi == nil {
			mismatches = append(mismatches, "wifi: not returned by device")
		} else {
			if actual.WiFi.SSID != expected.WiFi.SSID {
				mismatches = append(mismatches, fmt.Sprintf("ssid: expected %s, got %s", expected.WiFi.SSID, actual.WiFi.SSID))
			}
			// Never echo passwords
			if actual.WiFi.Password != expected.WiFi.Password {
				mismatches = append(mismatches, "password: stored value differs")
			}
		}
	}

	return mismatches
}

// formatMismatches creates a human-readable summary of mismatches
func formatMismatches(mismatches []string) string {
	if len(mismatches) == 0 {
		return "none"
	}
	if len(mismatches) == 1 {
		return mismatches[0]
	}
	return fmt.Sprintf("%d mismatches: %s", len(mismatches), strings.Join(mismatches, "; "))
}

// UpdateAndVerify applies the update and then verifies it was stored.
func (c *Client) UpdateAndVerify(ctx context.Context, update *ConfigUpdate, opts *VerificationOptions) *VerificationResult {
	if err := c.ApplyUpdate(ctx, update); err != nil {
		return &VerificationResult{
			Success: false,
			Error:   fmt.Errorf("update failed: %w", err),
		}
	}

	return c.VerifyConfigurationWithRetry(ctx, update, opts)
}
