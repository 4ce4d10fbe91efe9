package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type for compass devices
	// The compass web server advertises as an "_http._tcp" service
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default HTTP port for compass devices
	DefaultPort = 80

	// DefaultHostPrefix is the hostname the compass firmware is assumed to
	// advertise. Firmware built with another name needs Scanner.HostPrefix.
	DefaultHostPrefix = "compass"
)

// hostnamePattern matches "<prefix>.local" and "<prefix>-<id>.local.",
// capturing the id.
func hostnamePattern(prefix string) *regexp.Regexp {
	if prefix == "" {
		prefix = DefaultHostPrefix
	}
	return regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(prefix) + `(?:[-_]([0-9a-z]+))?\.local\.?$`)
}

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration

	// HostPrefix is the mDNS hostname that identifies a compass
	HostPrefix string
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:    DefaultScanTimeout,
		HostPrefix: DefaultHostPrefix,
	}
}

// ScanForDevices discovers all compass devices on the local network
// Returns a list of discovered devices or an error
func (s *Scanner) ScanForDevices() ([]*Device, error) {
	return s.ScanForDevicesWithContext(context.Background())
}

// ScanForDevicesWithContext discovers devices with a custom context
func (s *Scanner) ScanForDevicesWithContext(ctx context.Context) ([]*Device, error) {
	// Create a context with timeout
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	collector := newCollector()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			if device := s.parseServiceEntry(entry); device != nil {
				collector.add(device)
			}
		}
	}()

	// Start browsing for HTTP services
	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for context to complete (timeout or cancellation)
	<-ctx.Done()

	return collector.devices(), nil
}

// WaitForDevice waits for the compass with the given hostname ID
// Returns the device or an error if not found within timeout
func (s *Scanner) WaitForDevice(id string) (*Device, error) {
	return s.WaitForDeviceWithContext(context.Background(), id)
}

// WaitForDeviceWithContext waits for a specific device with a custom context
func (s *Scanner) WaitForDeviceWithContext(ctx context.Context, id string) (*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	deviceChan := make(chan *Device, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			device := s.parseServiceEntry(entry)
			if device != nil && strings.EqualFold(device.ID, id) {
				select {
				case deviceChan <- device:
				default:
				}
				cancel() // Found the device, cancel context
				return
			}
		}
	}()

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for device or timeout
	select {
	case device := <-deviceChan:
		return device, nil
	case <-ctx.Done():
		select {
		case device := <-deviceChan:
			return device, nil
		default:
		}
		return nil, fmt.Errorf("compass %q not found within %v", id, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Device
// Returns nil if the entry is not a compass
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}

	matches := hostnamePattern(s.HostPrefix).FindStringSubmatch(hostname)
	if matches == nil {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}

	// Fallback to IPv6 if no IPv4
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Device{
		ID:           strings.ToLower(matches[1]),
		Hostname:     hostname,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// collector gathers devices from the browse goroutine. A compass that
// answers more than once is kept once, by address.
type collector struct {
	mu    sync.Mutex
	seen  map[string]bool
	found []*Device
}

func newCollector() *collector {
	return &collector{seen: make(map[string]bool)}
}

func (c *collector) add(device *Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen[device.Address()] {
		return
	}
	c.seen[device.Address()] = true
	c.found = append(c.found, device)
}

func (c *collector) devices() []*Device {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Device, len(c.found))
	copy(out, c.found)
	return out
}

// ScanForDevices is a convenience function to scan for devices with a custom timeout
func ScanForDevices(timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForDevices()
}
