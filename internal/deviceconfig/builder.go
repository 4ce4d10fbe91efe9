package deviceconfig

import (
	"fmt"
)

// ConfigBuilder provides a fluent API for building configuration updates.
// It starts from the device's current values, tracks which sections change
// and validates them before creating a ConfigUpdate.
//
// Example usage:
//
//	builder := NewConfigBuilder(current)
//	update, err := builder.
//	    SetSouthColor("green").
//	    SetBrightness(80).
//	    SetModel(ModelLite).
//	    Build()
type ConfigBuilder struct {
	// current holds the current device settings (baseline)
	current *ConfigUpdate

	colorsChanged bool
	colors        PointerColorConfig

	spawnChanged bool
	spawn        SpawnConfig

	advancedChanged bool
	advanced        AdvancedConfig

	wifiChanged bool
	wifi        WiFiConfig

	// errs collects input errors from setters that parse their argument
	errs []error
}

// NewConfigBuilder creates a new builder with the current settings as baseline.
// Pass nil to start from the dashboard defaults.
func NewConfigBuilder(current *ConfigUpdate) *ConfigBuilder {
	b := &ConfigBuilder{current: current}
	b.loadBaseline()
	return b
}

func (b *ConfigBuilder) loadBaseline() {
	b.colors = DefaultPointerColorConfig()
	b.advanced = DefaultAdvancedConfig()
	b.spawn = SpawnConfig{}
	b.wifi = WiFiConfig{}

	if b.current == nil {
		return
	}
	if b.current.Colors != nil {
		b.colors = *b.current.Colors
	}
	if b.current.Advanced != nil {
		b.advanced = *b.current.Advanced
	}
	if b.current.Spawn != nil {
		b.spawn = *b.current.Spawn
	}
	if b.current.WiFi != nil {
		b.wifi = *b.current.WiFi
	}
}

// SetSouthColor sets the compass mode pointer color.
// value is a palette key or label ("green") or a "#RRGGBB" string.
func (b *ConfigBuilder) SetSouthColor(value string) *ConfigBuilder {
	hex, err := ResolveColor(value)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("south color: %w", err))
		return b
	}
	b.colorsChanged = true
	b.colors.SouthColor = hex
	return b
}

// SetSpawnColor sets the spawn mode pointer color.
func (b *ConfigBuilder) SetSpawnColor(value string) *ConfigBuilder {
	hex, err := ResolveColor(value)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("spawn color: %w", err))
		return b
	}
	b.colorsChanged = true
	b.colors.SpawnColor = hex
	return b
}

// SetBrightness sets the LED brightness (1-100).
func (b *ConfigBuilder) SetBrightness(brightness int) *ConfigBuilder {
	b.colorsChanged = true
	b.colors.Brightness = brightness
	return b
}

// SetSpawn sets the spawn point in degrees.
func (b *ConfigBuilder) SetSpawn(latitude, longitude float64) *ConfigBuilder {
	b.spawnChanged = true
	b.spawn = SpawnConfig{Latitude: latitude, Longitude: longitude}
	return b
}

// SetSpawnText parses and sets the spawn point from user input.
func (b *ConfigBuilder) SetSpawnText(latitude, longitude string) *ConfigBuilder {
	spawn, err := ParseCoordinates(latitude, longitude)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	return b.SetSpawn(spawn.Latitude, spawn.Longitude)
}

// SetServerMode enables or disables configuration over Bluetooth.
func (b *ConfigBuilder) SetServerMode(enabled bool) *ConfigBuilder {
	b.advancedChanged = true
	b.advanced.ServerMode = enabled
	return b
}

// SetModel sets the device edition.
func (b *ConfigBuilder) SetModel(model DeviceModel) *ConfigBuilder {
	b.advancedChanged = true
	b.advanced.Model = model
	return b
}

// SetWiFi sets the station credentials. An empty password means an open network.
func (b *ConfigBuilder) SetWiFi(ssid, password string) *ConfigBuilder {
	b.wifiChanged = true
	b.wifi = WiFiConfig{SSID: ssid, Password: password}
	return b
}

// HasChanges returns true if any configuration changes have been made.
func (b *ConfigBuilder) HasChanges() bool {
	return b.colorsChanged || b.spawnChanged || b.advancedChanged || b.wifiChanged
}

// Validate checks the changed sections. Warnings are not failures.
func (b *ConfigBuilder) Validate() error {
	if len(b.errs) > 0 {
		return b.errs[0]
	}

	_, critical := SeparateWarningsAndErrors(b.pending().Validate())
	if len(critical) > 0 {
		return critical[0]
	}
	return nil
}

// Warnings returns the non-fatal findings for the changed sections.
func (b *ConfigBuilder) Warnings() []error {
	warnings, _ := SeparateWarningsAndErrors(b.pending().Validate())
	return warnings
}

func (b *ConfigBuilder) pending() *ConfigUpdate {
	update := &ConfigUpdate{}
	if b.colorsChanged {
		colors := b.colors
		update.Colors = &colors
	}
	if b.spawnChanged {
		spawn := b.spawn
		update.Spawn = &spawn
	}
	if b.advancedChanged {
		advanced := b.advanced
		update.Advanced = &advanced
	}
	if b.wifiChanged {
		wifi := b.wifi
		update.WiFi = &wifi
	}
	return update
}

// Build creates a ConfigUpdate from the builder's state.
// Only includes sections that have been modified.
// Returns an error if validation fails.
func (b *ConfigBuilder) Build() (*ConfigUpdate, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b.pending(), nil
}

// Reset clears all changes and restores builder to its baseline.
func (b *ConfigBuilder) Reset() *ConfigBuilder {
	b.colorsChanged = false
	b.spawnChanged = false
	b.advancedChanged = false
	b.wifiChanged = false
	b.errs = nil
	b.loadBaseline()
	return b
}
