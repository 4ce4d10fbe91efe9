package deviceconfig

import (
	"fmt"
	"strings"
)

// DeviceReport is everything `show` prints about one compass.
type DeviceReport struct {
	Address  string
	Info     *DeviceInfo
	Settings ConfigUpdate
}

// Summary returns a one-line summary of the device
func (r *DeviceReport) Summary() string {
	version := UnknownValue
	if r.Info != nil {
		version = r.Info.BuildVersion
	}
	return fmt.Sprintf("Compass @ %s (FW: %s)", r.Address, version)
}

// StatusLabel renders a sensor flag.
func StatusLabel(ok bool) string {
	if ok {
		return "Available"
	}
	return "Unavailable"
}

// OnOff renders a toggle.
func OnOff(enabled bool) string {
	if enabled {
		return "ON"
	}
	return "OFF"
}

// MaskPassword hides a password while showing whether one is set.
func MaskPassword(password string) string {
	if password == "" {
		return "(open network)"
	}
	return "********"
}

// FormatColor renders a hex color with its palette name when it has one.
func FormatColor(hex string) string {
	label := LabelForColor(hex)
	if label == hex {
		return hex
	}
	return fmt.Sprintf("%s (%s)", label, hex)
}

// FormatDeviceInfo returns a formatted string with build and sensor information
func (di DeviceInfo) FormatDeviceInfo() string {
	var b strings.Builder

	b.WriteString("=== Device Information ===\n")
	b.WriteString(fmt.Sprintf("Build Version: %s\n", di.BuildVersion))
	b.WriteString(fmt.Sprintf("Git Branch:    %s\n", di.GitBranch))
	b.WriteString(fmt.Sprintf("Git Commit:    %s\n", di.GitCommit))
	b.WriteString(fmt.Sprintf("Build Time:    %s\n", di.BuildTime))
	b.WriteString(fmt.Sprintf("Build Date:    %s\n", di.BuildDate))
	b.WriteString(fmt.Sprintf("GPS:           %s\n", StatusLabel(di.GPSStatus)))
	b.WriteString(fmt.Sprintf("Sensor:        %s\n", StatusLabel(di.SensorStatus)))

	return b.String()
}

// FormatColorConfig returns a formatted string with pointer colors and brightness
func (pc PointerColorConfig) FormatColorConfig() string {
	var b strings.Builder

	b.WriteString("=== Pointer Colors ===\n")
	b.WriteString(fmt.Sprintf("South (compass mode): %s\n", FormatColor(pc.SouthColor)))
	b.WriteString(fmt.Sprintf("Spawn (spawn mode):   %s\n", FormatColor(pc.SpawnColor)))
	b.WriteString(fmt.Sprintf("Brightness:           %d%%\n", pc.Brightness))

	return b.String()
}

// FormatWiFiConfig returns a formatted string with WiFi configuration.
// The password is masked.
func (wc WiFiConfig) FormatWiFiConfig() string {
	var b strings.Builder

	b.WriteString("=== WiFi Configuration ===\n")
	if wc.SSID == "" {
		b.WriteString("SSID:     (not configured)\n")
	} else {
		b.WriteString(fmt.Sprintf("SSID:     %s\n", wc.SSID))
		b.WriteString(fmt.Sprintf("Password: %s\n", MaskPassword(wc.Password)))
	}

	return b.String()
}

// FormatSpawnConfig returns a formatted string with the spawn point; nil means unset
func FormatSpawnConfig(sc *SpawnConfig) string {
	var b strings.Builder

	b.WriteString("=== Spawn Point ===\n")
	if sc == nil {
		b.WriteString("(not set)\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Latitude:  %s\n", FormatCoordinate(sc.Latitude)))
	b.WriteString(fmt.Sprintf("Longitude: %s\n", FormatCoordinate(sc.Longitude)))

	return b.String()
}

// FormatAdvancedConfig returns a formatted string with the experimental settings
func (ac AdvancedConfig) FormatAdvancedConfig() string {
	var b strings.Builder

	b.WriteString("=== Experimental Features ===\n")
	b.WriteString(fmt.Sprintf("Bluetooth Server Mode: %s\n", OnOff(ac.ServerMode)))
	b.WriteString(fmt.Sprintf("Device Model:          %s\n", ac.Model.Label()))

	return b.String()
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (r *DeviceReport) FormatCompact() string {
	var b strings.Builder

	b.WriteString(r.Summary() + "\n")
	if c := r.Settings.Colors; c != nil {
		b.WriteString(fmt.Sprintf("Colors:   south=%s spawn=%s brightness=%d\n", FormatColor(c.SouthColor), FormatColor(c.SpawnColor), c.Brightness))
	}
	if s := r.Settings.Spawn; s != nil {
		b.WriteString(fmt.Sprintf("Spawn:    %s, %s\n", FormatCoordinate(s.Latitude), FormatCoordinate(s.Longitude)))
	} else {
		b.WriteString("Spawn:    (not set)\n")
	}
	if w := r.Settings.WiFi; w != nil {
		b.WriteString(fmt.Sprintf("WiFi:     %s\n", w.SSID))
	}
	if a := r.Settings.Advanced; a != nil {
		b.WriteString(fmt.Sprintf("Advanced: server mode %s, %s\n", OnOff(a.ServerMode), a.Model.Label()))
	}
	if r.Info != nil {
		b.WriteString(fmt.Sprintf("Sensors:  GPS %s, compass %s\n", StatusLabel(r.Info.GPSStatus), StatusLabel(r.Info.SensorStatus)))
	}

	return b.String()
}

// FormatDetailed returns a comprehensive formatted string with all configuration details
func (r *DeviceReport) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("╔════════════════════════════════════════════════════════════════╗\n")
	b.WriteString("║              COMPASS DEVICE CONFIGURATION                      ║\n")
	b.WriteString("╚════════════════════════════════════════════════════════════════╝\n")
	b.WriteString(fmt.Sprintf("Address: %s\n\n", r.Address))

	if r.Info != nil {
		b.WriteString(r.Info.FormatDeviceInfo())
		b.WriteString("\n")
	}
	if r.Settings.Colors != nil {
		b.WriteString(r.Settings.Colors.FormatColorConfig())
		b.WriteString("\n")
	}
	b.WriteString(FormatSpawnConfig(r.Settings.Spawn))
	if r.Settings.WiFi != nil {
		b.WriteString("\n")
		b.WriteString(r.Settings.WiFi.FormatWiFiConfig())
	}
	if r.Settings.Advanced != nil {
		b.WriteString("\n")
		b.WriteString(r.Settings.Advanced.FormatAdvancedConfig())
	}

	return b.String()
}

// FormatChanges returns a formatted string showing what will be changed
func (cu *ConfigUpdate) FormatChanges() string {
	var b strings.Builder
	changes := 0

	b.WriteString("=== Configuration Changes ===\n")

	if cu.Colors != nil {
		b.WriteString("\nColors:\n")
		b.WriteString(fmt.Sprintf("  South:      %s\n", FormatColor(cu.Colors.SouthColor)))
		b.WriteString(fmt.Sprintf("  Spawn:      %s\n", FormatColor(cu.Colors.SpawnColor)))
		b.WriteString(fmt.Sprintf("  Brightness: %d%%\n", cu.Colors.Brightness))
		changes++
	}

	if cu.Spawn != nil {
		b.WriteString("\nSpawn Point:\n")
		b.WriteString(fmt.Sprintf("  Latitude:  %s\n", FormatCoordinate(cu.Spawn.Latitude)))
		b.WriteString(fmt.Sprintf("  Longitude: %s\n", FormatCoordinate(cu.Spawn.Longitude)))
		changes++
	}

	if cu.Advanced != nil {
		b.WriteString("\nExperimental Features:\n")
		b.WriteString(fmt.Sprintf("  Server Mode: %s\n", OnOff(cu.Advanced.ServerMode)))
		b.WriteString(fmt.Sprintf("  Model:       %s\n", cu.Advanced.Model.Label()))
		changes++
	}

	if cu.WiFi != nil {
		b.WriteString("\nWiFi Configuration:\n")
		b.WriteString(fmt.Sprintf("  SSID:     %s\n", cu.WiFi.SSID))
		b.WriteString(fmt.Sprintf("  Password: %s\n", MaskPassword(cu.WiFi.Password)))
		changes++
	}

	if changes == 0 {
		b.WriteString("(no changes specified)\n")
	}

	return b.String()
}

// FormatDiff returns a formatted diff between two sets of settings.
// Sections missing from either side are skipped.
func FormatDiff(old, new *ConfigUpdate) string {
	var b strings.Builder

	b.WriteString("=== Configuration Differences ===\n")

	hasChanges := false
	line := func(format string, args ...interface{}) {
		b.WriteString(fmt.Sprintf(format, args...))
		hasChanges = true
	}

	if old.Colors != nil && new.Colors != nil {
		o, n := old.Colors, new.Colors
		if !strings.EqualFold(o.SouthColor, n.SouthColor) {
			line("  South color: %s → %s\n", FormatColor(o.SouthColor), FormatColor(n.SouthColor))
		}
		if !strings.EqualFold(o.SpawnColor, n.SpawnColor) {
			line("  Spawn color: %s → %s\n", FormatColor(o.SpawnColor), FormatColor(n.SpawnColor))
		}
		if o.Brightness != n.Brightness {
			line("  Brightness:  %d → %d\n", o.Brightness, n.Brightness)
		}
	}

	if new.Spawn != nil {
		switch {
		case old.Spawn == nil:
			line("  Spawn:       (not set) → %s, %s\n", FormatCoordinate(new.Spawn.Latitude), FormatCoordinate(new.Spawn.Longitude))
		case *old.Spawn != *new.Spawn:
			line("  Spawn:       %s, %s → %s, %s\n",
				FormatCoordinate(old.Spawn.Latitude), FormatCoordinate(old.Spawn.Longitude),
				FormatCoordinate(new.Spawn.Latitude), FormatCoordinate(new.Spawn.Longitude))
		}
	}

	if old.Advanced != nil && new.Advanced != nil {
		if old.Advanced.ServerMode != new.Advanced.ServerMode {
			line("  Server mode: %s → %s\n", OnOff(old.Advanced.ServerMode), OnOff(new.Advanced.ServerMode))
		}
		if old.Advanced.Model != new.Advanced.Model {
			line("  Model:       %s → %s\n", old.Advanced.Model.Label(), new.Advanced.Model.Label())
		}
	}

	if old.WiFi != nil && new.WiFi != nil {
		if old.WiFi.SSID != new.WiFi.SSID {
			line("  SSID:        %s → %s\n", old.WiFi.SSID, new.WiFi.SSID)
		}
		if old.WiFi.Password != new.WiFi.Password {
			line("  Password:    (changed)\n")
		}
	}

	if !hasChanges {
		b.WriteString("\n(no differences detected)\n")
	}

	return b.String()
}
