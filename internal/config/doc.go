// Package config provides user configuration management for compass-cfg.
//
// This package manages a YAML-based configuration file that remembers the
// compass devices the CLI has talked to (address, nickname, firmware, last
// seen) and application preferences such as the default device and timeouts.
// The configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/compass/config.yaml or $HOME/.config/compass/config.yaml
//   - macOS: $HOME/.config/compass/config.yaml
//   - Windows: %LOCALAPPDATA%\compass\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores WiFi passwords. Device WiFi settings
// only leave the device through an explicit backup with --include-wifi.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetDeviceNickname("192.168.4.1:80", "Workshop")
//	registry.SetDefaultDevice("192.168.4.1:80")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
