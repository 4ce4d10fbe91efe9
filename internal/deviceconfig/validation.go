package deviceconfig

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Coordinate bounds for the spawn point.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateLatitude validates a spawn latitude in degrees.
// Zero is a legitimate coordinate (equator).
func ValidateLatitude(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return NewValidationError(fmt.Sprintf("latitude must be between -90 and 90, got %v", lat))
	}
	return nil
}

// ValidateLongitude validates a spawn longitude in degrees.
func ValidateLongitude(lon float64) error {
	if math.IsNaN(lon) || lon < MinLongitude || lon > MaxLongitude {
		return NewValidationError(fmt.Sprintf("longitude must be between -180 and 180, got %v", lon))
	}
	return nil
}

// ValidateSpawnConfig validates both spawn coordinates.
// Returns a slice of validation errors (empty if valid).
func ValidateSpawnConfig(config *SpawnConfig) []error {
	var errors []error

	if err := ValidateLatitude(config.Latitude); err != nil {
		errors = append(errors, err)
	}
	if err := ValidateLongitude(config.Longitude); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// ParseCoordinates parses latitude and longitude text and range-checks both.
// The first failure is returned.
func ParseCoordinates(latText, lonText string) (SpawnConfig, error) {
	lat, err := parseCoordinate("latitude", latText)
	if err != nil {
		return SpawnConfig{}, err
	}
	lon, err := parseCoordinate("longitude", lonText)
	if err != nil {
		return SpawnConfig{}, err
	}

	config := SpawnConfig{Latitude: lat, Longitude: lon}
	if errs := ValidateSpawnConfig(&config); len(errs) > 0 {
		return SpawnConfig{}, errs[0]
	}
	return config, nil
}

func parseCoordinate(name, text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, NewValidationError(fmt.Sprintf("%s is required", name))
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, NewValidationError(fmt.Sprintf("%s must be a number, got '%s'", name, text))
	}
	return v, nil
}

// ValidateBrightness validates an LED brightness percentage.
func ValidateBrightness(brightness int) error {
	if brightness < MinBrightness || brightness > MaxBrightness {
		return NewValidationError(fmt.Sprintf("brightness must be %d-%d, got %d", MinBrightness, MaxBrightness, brightness))
	}
	return nil
}

// ValidateHexColor validates a "#RRGGBB" color string.
func ValidateHexColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return NewValidationError(fmt.Sprintf("color must be in #RRGGBB form, got '%s'", color))
	}
	return nil
}

// ValidateColorConfig validates both pointer colors and the brightness.
// Returns a slice of validation errors (empty if valid).
func ValidateColorConfig(config *PointerColorConfig) []error {
	var errors []error

	if err := ValidateHexColor(config.SouthColor); err != nil {
		errors = append(errors, fmt.Errorf("south color: %w", err))
	}
	if err := ValidateHexColor(config.SpawnColor); err != nil {
		errors = append(errors, fmt.Errorf("spawn color: %w", err))
	}
	if err := ValidateBrightness(config.Brightness); err != nil {
		errors = append(errors, err)
	}

	if len(errors) == 0 && strings.EqualFold(config.SouthColor, config.SpawnColor) {
		errors = append(errors, NewValidationError(
			"warning: south and spawn pointers share the same color (modes will look identical)",
		))
	}

	return errors
}

// ValidateWiFiSSID validates a WiFi SSID.
// SSIDs must be non-empty and <= 32 bytes.
func ValidateWiFiSSID(ssid string) error {
	if ssid == "" {
		return NewValidationError("WiFi SSID cannot be empty")
	}
	if len(ssid) > 32 {
		return NewValidationError(fmt.Sprintf("WiFi SSID too long (max 32 chars): %d chars", len(ssid)))
	}
	return nil
}

// ValidateWiFiPassword validates a WiFi password.
// Empty means an open network; otherwise WPA2 requires 8-63 characters.
func ValidateWiFiPassword(password string) error {
	if password == "" {
		return nil
	}
	if len(password) < 8 {
		return NewValidationError(fmt.Sprintf("WiFi password too short (min 8 chars): %d chars", len(password)))
	}
	if len(password) > 63 {
		return NewValidationError(fmt.Sprintf("WiFi password too long (max 63 chars): %d chars", len(password)))
	}
	return nil
}

// ValidateWiFiConfig validates a complete WiFi configuration.
// Returns a slice of validation errors (empty if valid).
func ValidateWiFiConfig(config *WiFiConfig) []error {
	var errors []error

	if err := ValidateWiFiSSID(config.SSID); err != nil {
		errors = append(errors, err)
	}
	if err := ValidateWiFiPassword(config.Password); err != nil {
		errors = append(errors, err)
	}
	if config.Password == "" && len(errors) == 0 {
		errors = append(errors, NewValidationError("warning: empty password, the compass will join an open network"))
	}

	return errors
}

// FormatValidationErrors formats a slice of validation errors into a user-friendly message.
func FormatValidationErrors(errors []error) string {
	if len(errors) == 0 {
		return "No validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Configuration validation failed with %d error(s):\n", len(errors)))

	for i, err := range errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}

	return sb.String()
}

// IsWarning checks if a validation error is a warning (non-fatal).
// Warnings have messages starting with "warning:".
func IsWarning(err error) bool {
	if devErr, ok := AsDeviceError(err); ok {
		return strings.HasPrefix(devErr.Message, "warning:")
	}
	return strings.Contains(err.Error(), "warning:")
}

// SeparateWarningsAndErrors separates validation errors into warnings and errors.
func SeparateWarningsAndErrors(errors []error) (warnings []error, criticalErrors []error) {
	for _, err := range errors {
		if IsWarning(err) {
			warnings = append(warnings, err)
		} else {
			criticalErrors = append(criticalErrors, err)
		}
	}
	return warnings, criticalErrors
}
