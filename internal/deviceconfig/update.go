package deviceconfig

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ConfigUpdate carries new values for any subset of the writable settings
// domains. A nil section is left untouched on the device.
type ConfigUpdate struct {
	Colors   *PointerColorConfig `yaml:"colors,omitempty"`
	Spawn    *SpawnConfig        `yaml:"spawn,omitempty"`
	Advanced *AdvancedConfig     `yaml:"advanced,omitempty"`
	WiFi     *WiFiConfig         `yaml:"wifi,omitempty"`
}

// IsEmpty reports whether no section is set.
func (cu *ConfigUpdate) IsEmpty() bool {
	return cu.Colors == nil && cu.Spawn == nil && cu.Advanced == nil && cu.WiFi == nil
}

// Validate checks every present section and returns all findings,
// warnings included.
func (cu *ConfigUpdate) Validate() []error {
	var errs []error
	if cu.Colors != nil {
		errs = append(errs, ValidateColorConfig(cu.Colors)...)
	}
	if cu.Spawn != nil {
		errs = append(errs, ValidateSpawnConfig(cu.Spawn)...)
	}
	if cu.Advanced != nil {
		if _, err := ParseDeviceModel(string(cu.Advanced.Model)); err != nil {
			errs = append(errs, err)
		}
	}
	if cu.WiFi != nil {
		errs = append(errs, ValidateWiFiConfig(cu.WiFi)...)
	}
	return errs
}

// ApplyUpdate writes each present section. Sections are independent: a
// failure in one does not stop the others, and all failures are returned
// combined. WiFi goes last because the compass may drop off the network
// once it has new credentials.
func (c *Client) ApplyUpdate(ctx context.Context, update *ConfigUpdate) error {
	var err error

	if update.Colors != nil {
		if applyErr := c.ApplyColorConfig(ctx, *update.Colors).Err(); applyErr != nil {
			err = multierr.Append(err, fmt.Errorf("colors: %w", applyErr))
		}
	}
	if update.Spawn != nil {
		if setErr := c.SetSpawn(ctx, *update.Spawn); setErr != nil {
			err = multierr.Append(err, fmt.Errorf("spawn: %w", setErr))
		}
	}
	if update.Advanced != nil {
		if setErr := c.SetAdvanced(ctx, *update.Advanced); setErr != nil {
			err = multierr.Append(err, fmt.Errorf("advanced: %w", setErr))
		}
	}
	if update.WiFi != nil {
		if setErr := c.SetWiFi(ctx, *update.WiFi); setErr != nil {
			err = multierr.Append(err, fmt.Errorf("wifi: %w", setErr))
		}
	}

	return err
}

// ReadSettings reads the sections selected by want back from the device.
// A spawn point that was never set leaves Spawn nil without an error.
func (c *Client) ReadSettings(ctx context.Context, want *ConfigUpdate) (*ConfigUpdate, error) {
	actual := &ConfigUpdate{}
	var err error

	if want.Colors != nil {
		colors, readErr := c.LoadColorConfig(ctx)
		if readErr != nil {
			err = multierr.Append(err, fmt.Errorf("colors: %w", readErr))
		} else {
			actual.Colors = &colors
		}
	}
	if want.Spawn != nil {
		spawn, readErr := c.GetSpawn(ctx)
		switch {
		case errors.Is(readErr, ErrSpawnNotSet):
		case readErr != nil:
			err = multierr.Append(err, fmt.Errorf("spawn: %w", readErr))
		default:
			actual.Spawn = &spawn
		}
	}
	if want.Advanced != nil {
		advanced, readErr := c.GetAdvanced(ctx)
		if readErr != nil {
			err = multierr.Append(err, fmt.Errorf("advanced: %w", readErr))
		} else {
			actual.Advanced = &advanced
		}
	}
	if want.WiFi != nil {
		wifi, readErr := c.GetWiFi(ctx)
		if readErr != nil {
			err = multierr.Append(err, fmt.Errorf("wifi: %w", readErr))
		} else {
			actual.WiFi = &wifi
		}
	}

	return actual, err
}

// AllSections selects every writable section for ReadSettings.
func AllSections(includeWiFi bool) *ConfigUpdate {
	want := &ConfigUpdate{
		Colors:   &PointerColorConfig{},
		Spawn:    &SpawnConfig{},
		Advanced: &AdvancedConfig{},
	}
	if includeWiFi {
		want.WiFi = &WiFiConfig{}
	}
	return want
}

// LoadReport reads device info and all settings for display. Whatever
// could be read is returned even when some reads fail.
func (c *Client) LoadReport(ctx context.Context, address string) (*DeviceReport, error) {
	report := &DeviceReport{Address: address}

	info, err := c.GetInfo(ctx)
	if err != nil {
		err = fmt.Errorf("info: %w", err)
	} else {
		report.Info = &info
	}

	settings, readErr := c.ReadSettings(ctx, AllSections(true))
	report.Settings = *settings

	return report, multierr.Append(err, readErr)
}
