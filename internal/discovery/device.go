package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device represents a discovered compass on the network
type Device struct {
	// ID is the suffix of the mDNS hostname (e.g., "a4c1" for "compass-a4c1.local").
	// Empty when the compass advertises the bare "compass.local" name.
	ID string `json:"id,omitempty"`

	// Hostname is the mDNS hostname (e.g., "compass-a4c1.local.")
	Hostname string `json:"hostname"`

	// IP is the IPv4 address (e.g., "192.168.4.1")
	IP string `json:"ip"`

	// Port is the HTTP port (typically 80)
	Port int `json:"port"`

	// Metadata contains additional mDNS TXT record data
	// Common fields: "path=/", "version=1.4.2"
	Metadata map[string]string `json:"metadata,omitempty"`

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time `json:"discovered_at"`
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	if d.ID == "" {
		return fmt.Sprintf("Compass (%s) at %s", d.Hostname, d.Address())
	}
	return fmt.Sprintf("Compass %s (%s) at %s", d.ID, d.Hostname, d.Address())
}

// Address returns host:port, bracketing IPv6 addresses.
func (d *Device) Address() string {
	return net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + d.Address()
}

// Firmware returns the version advertised in the TXT records, if any.
func (d *Device) Firmware() string {
	return d.GetMetadata("version")
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
