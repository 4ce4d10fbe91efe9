package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mcompass/compass-cfg/internal/config"
	"github.com/mcompass/compass-cfg/internal/dashboard"
	"github.com/mcompass/compass-cfg/internal/deviceconfig"
	"github.com/mcompass/compass-cfg/internal/discovery"
	"github.com/mcompass/compass-cfg/internal/logging"
	"github.com/mcompass/compass-cfg/internal/ui"
)

// Common flags (persistent on root)
var (
	deviceAddr   string
	timeout      time.Duration
	outputFormat string
	logLevel     string
	logFile      string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&deviceAddr, "device", "d", "", "Device address host[:port] or registry nickname (skips discovery)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request or scan timeout (default from config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stdout")
}

// target is the device a command talks to and how it was found.
type target struct {
	Address string
	Source  string // "flag", "registry" or "discovery"
}

// loadRegistry returns the user registry. A broken config file is logged
// and replaced by defaults so device commands still work.
func loadRegistry() *config.Registry {
	reg, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Ignoring unreadable config file", zap.Error(err))
		return config.NewRegistry()
	}
	return reg
}

// requestTimeout returns --timeout or the configured request timeout.
func requestTimeout() time.Duration {
	if timeout > 0 {
		return timeout
	}
	return loadRegistry().Preferences.RequestDuration()
}

// discoverTimeout returns --timeout or the configured discovery timeout.
func discoverTimeout() time.Duration {
	if timeout > 0 {
		return timeout
	}
	return loadRegistry().Preferences.DiscoverDuration()
}

// resolveDevice picks the device in order: --device flag (address or
// nickname), the registry default device, then mDNS discovery when it finds
// exactly one compass.
func resolveDevice(ctx context.Context) (*target, error) {
	reg := loadRegistry()

	if deviceAddr != "" {
		return &target{Address: normalizeAddress(reg.Resolve(deviceAddr)), Source: "flag"}, nil
	}

	if device := reg.DefaultDevice(); device != nil {
		logging.Debug("Using default device", zap.String("address", device.Address))
		return &target{Address: normalizeAddress(device.Address), Source: "registry"}, nil
	}

	devices, err := scanWithNotice(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	printer := ui.NewPrinter(nil)
	switch len(devices) {
	case 0:
		return nil, fmt.Errorf("no devices found. Use --device to specify the address, or 'compass-cfg use <address>' to set a default")
	case 1:
		device := devices[0]
		printer.Println(fmt.Sprintf("Found %s", device))
		printer.Newline()
		return &target{Address: device.Address(), Source: "discovery"}, nil
	default:
		printer.Println(fmt.Sprintf("Found %d devices:", len(devices)))
		for i, device := range devices {
			printer.Println(fmt.Sprintf("%d. %s", i+1, device))
		}
		return nil, fmt.Errorf("multiple devices found. Use --device to specify which one")
	}
}

// resolveDashboardDevice resolves like resolveDevice, but when discovery
// finds no compass or several it lets the user pick one (or type an
// address) instead of failing.
func resolveDashboardDevice(ctx context.Context) (*target, error) {
	if deviceAddr != "" || loadRegistry().DefaultDevice() != nil {
		return resolveDevice(ctx)
	}

	devices, scanErr := scanWithNotice(ctx)
	if scanErr == nil && len(devices) == 1 {
		return &target{Address: devices[0].Address(), Source: "discovery"}, nil
	}
	if ctx.Err() != nil {
		return nil, errCancelled
	}

	picker := dashboard.NewPicker(ctx, devices, scanErr, scanDevices, discoverTimeout())
	final, err := tea.NewProgram(picker, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errCancelled
		}
		return nil, fmt.Errorf("device picker error: %w", err)
	}

	address := ""
	if p, ok := final.(dashboard.Picker); ok {
		address = p.Selected()
	}
	if address == "" {
		return nil, errCancelled
	}
	return &target{Address: address, Source: "picker"}, nil
}

// scanWithNotice tells the user a scan is running, then runs it.
func scanWithNotice(ctx context.Context) ([]*discovery.Device, error) {
	ui.NewPrinter(nil).PrintPleaseWait("No device specified, scanning for compass devices", discoverTimeout().String())
	return scanDevices(ctx)
}

// scanDevices runs one mDNS scan bounded by the discovery timeout.
func scanDevices(ctx context.Context) ([]*discovery.Device, error) {
	scanner := discovery.NewScanner()
	scanner.Timeout = discoverTimeout()
	scanner.HostPrefix = loadRegistry().Preferences.MDNSHostPrefix()
	return scanner.ScanForDevicesWithContext(ctx)
}

// normalizeAddress applies the default port so registry keys are stable.
func normalizeAddress(addr string) string {
	host, port, err := deviceconfig.ParseAddress(addr)
	if err != nil {
		return addr
	}
	return (&discovery.Device{IP: host, Port: port}).Address()
}

// newClient creates a device client honouring --timeout.
func newClient(address string) (*deviceconfig.Client, error) {
	host, port, err := deviceconfig.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	client := deviceconfig.NewClient(host, port)
	client.SetTimeout(requestTimeout())
	return client, nil
}

// connect resolves the device and creates a client for it. Commands retry
// failed reads; the dashboard client from newClient does not.
func connect(ctx context.Context) (*target, *deviceconfig.Client, error) {
	t, err := resolveDevice(ctx)
	if err != nil {
		return nil, nil, err
	}
	logging.Debug("Using device", zap.String("address", t.Address), zap.String("source", t.Source))

	client, err := newClient(t.Address)
	if err != nil {
		return nil, nil, err
	}
	client.SetRetry(deviceconfig.CommandMaxRetries, deviceconfig.DefaultRetryDelay)
	return t, client, nil
}

// rememberDevice records a successful exchange with a device in the
// registry. Failures only get logged; they never fail the command.
func rememberDevice(address, firmware string) {
	reg := loadRegistry()
	reg.UpdateDeviceLastSeen(address, firmware)
	if err := reg.Save(); err != nil {
		logging.Warn("Failed to update config registry", zap.String("address", address), zap.Error(err))
	}
}

// deviceHints turns a device error into troubleshooting tips for result boxes.
func deviceHints(err error) []string {
	if deviceconfig.IsValidationError(err) {
		return nil
	}
	return hintLines(deviceconfig.GetTroubleshootingHint(err))
}
