package store

import (
	"context"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
)

// Domain names, also used as dashboard tab identifiers in logs.
const (
	DomainColors   = "colors"
	DomainWiFi     = "wifi"
	DomainSpawn    = "spawn"
	DomainInfo     = "info"
	DomainAdvanced = "advanced"
)

// Store bundles the settings domains of one compass.
type Store struct {
	Colors   *Domain[deviceconfig.PointerColorConfig]
	WiFi     *Domain[deviceconfig.WiFiConfig]
	Spawn    *Domain[deviceconfig.SpawnConfig]
	Info     *Domain[deviceconfig.DeviceInfo]
	Advanced *Domain[deviceconfig.AdvancedConfig]
}

// New wires every domain to the client's endpoints.
func New(client *deviceconfig.Client) *Store {
	return &Store{
		Colors: NewDomain(DomainColors, client.LoadColorConfig,
			func(ctx context.Context, v deviceconfig.PointerColorConfig) error {
				return client.ApplyColorConfig(ctx, v).Err()
			}),
		WiFi:     NewDomain(DomainWiFi, client.GetWiFi, client.SetWiFi),
		Spawn:    NewDomain(DomainSpawn, client.GetSpawn, client.SetSpawn),
		Info:     NewReadOnlyDomain(DomainInfo, client.GetInfo),
		Advanced: NewDomain(DomainAdvanced, client.GetAdvanced, client.SetAdvanced),
	}
}

// InvalidateAll drops every cached value.
func (s *Store) InvalidateAll() {
	s.Colors.Invalidate()
	s.WiFi.Invalidate()
	s.Spawn.Invalidate()
	s.Info.Invalidate()
	s.Advanced.Invalidate()
}

// Invalidate drops the cached value of the named domain. Unknown names are ignored.
func (s *Store) Invalidate(domain string) {
	switch domain {
	case DomainColors:
		s.Colors.Invalidate()
	case DomainWiFi:
		s.WiFi.Invalidate()
	case DomainSpawn:
		s.Spawn.Invalidate()
	case DomainInfo:
		s.Info.Invalidate()
	case DomainAdvanced:
		s.Advanced.Invalidate()
	}
}
