package config

import (
	"sort"
	"strings"
	"time"
)

// Registry represents the entire user configuration file.
// This stores known compass devices and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device address (host:port)
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents what we remember about a single compass.
// This is keyed by the device's address in the Registry.
type Device struct {
	Nickname string    `yaml:"nickname,omitempty" json:"nickname,omitempty"`   // User-friendly name
	Address  string    `yaml:"address" json:"address"`                         // host:port of the device API
	LastSeen time.Time `yaml:"last_seen,omitempty" json:"last_seen,omitempty"` // Last successful connection
	Firmware string    `yaml:"firmware,omitempty" json:"firmware,omitempty"`   // Build version reported by /info
}

// DisplayName returns the nickname, or the address when none is set.
func (d *Device) DisplayName() string {
	if d.Nickname != "" {
		return d.Nickname
	}
	return d.Address
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultDevice   string `yaml:"default_device,omitempty"` // Address used when --device is not given
	DiscoverTimeout int    `yaml:"discover_timeout"`         // mDNS discovery timeout in seconds
	RequestTimeout  int    `yaml:"request_timeout"`          // Device HTTP timeout in seconds
	HostPrefix      string `yaml:"host_prefix,omitempty"`    // mDNS hostname of a compass, "compass" when empty
	// WiFi passwords are NEVER stored in the config file
}

const (
	defaultDiscoverTimeout = 5
	defaultRequestTimeout  = 10
	defaultHostPrefix      = "compass"
)

func defaultPreferences() *Preferences {
	return &Preferences{
		DiscoverTimeout: defaultDiscoverTimeout,
		RequestTimeout:  defaultRequestTimeout,
	}
}

// DiscoverDuration returns the discovery timeout as a duration.
func (p *Preferences) DiscoverDuration() time.Duration {
	if p == nil || p.DiscoverTimeout <= 0 {
		return defaultDiscoverTimeout * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// MDNSHostPrefix returns the hostname discovery looks for.
func (p *Preferences) MDNSHostPrefix() string {
	if p == nil || p.HostPrefix == "" {
		return defaultHostPrefix
	}
	return p.HostPrefix
}

// RequestDuration returns the request timeout as a duration.
func (p *Preferences) RequestDuration() time.Duration {
	if p == nil || p.RequestTimeout <= 0 {
		return defaultRequestTimeout * time.Second
	}
	return time.Duration(p.RequestTimeout) * time.Second
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

// GetDevice retrieves device metadata by address.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(address string) *Device {
	return r.Devices[address]
}

// EnsureDevice ensures a device entry exists in the registry.
// If the device doesn't exist, creates a new entry.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(address string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[address]; exists {
		return device
	}

	device := &Device{Address: address}
	r.Devices[address] = device
	return device
}

// UpdateDeviceLastSeen records a successful connection to a device.
// An empty firmware leaves the stored version unchanged.
func (r *Registry) UpdateDeviceLastSeen(address, firmware string) {
	device := r.EnsureDevice(address)
	device.LastSeen = time.Now()
	if firmware != "" {
		device.Firmware = firmware
	}
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(address, nickname string) {
	device := r.EnsureDevice(address)
	device.Nickname = nickname
}

// SetDefaultDevice makes address the device used when none is given.
func (r *Registry) SetDefaultDevice(address string) {
	r.EnsureDevice(address)
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	r.Preferences.DefaultDevice = address
}

// DefaultDevice returns the default device entry, or nil when none is set.
func (r *Registry) DefaultDevice() *Device {
	if r.Preferences == nil || r.Preferences.DefaultDevice == "" {
		return nil
	}
	return r.EnsureDevice(r.Preferences.DefaultDevice)
}

// FindByNickname looks a device up by nickname, ignoring case.
func (r *Registry) FindByNickname(nickname string) *Device {
	for _, device := range r.Devices {
		if device.Nickname != "" && strings.EqualFold(device.Nickname, nickname) {
			return device
		}
	}
	return nil
}

// Resolve maps a nickname or address to a device address. Unknown names
// are returned unchanged so callers can treat them as addresses.
func (r *Registry) Resolve(name string) string {
	if device := r.FindByNickname(name); device != nil {
		return device.Address
	}
	return name
}

// SortedDevices returns the known devices ordered by address.
func (r *Registry) SortedDevices() []*Device {
	devices := make([]*Device, 0, len(r.Devices))
	for _, device := range r.Devices {
		devices = append(devices, device)
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Address < devices[j].Address
	})
	return devices
}
