package deviceconfig

import (
	"testing"
)

func sampleSettings() *ConfigUpdate {
	return &ConfigUpdate{
		Colors:   &PointerColorConfig{SouthColor: "#FF1414", SpawnColor: "#0000FF", Brightness: 70},
		Spawn:    &SpawnConfig{Latitude: 10, Longitude: 20},
		Advanced: &AdvancedConfig{ServerMode: false, Model: ModelGPS},
	}
}

func TestNewConfigBuilder_NoChanges(t *testing.T) {
	b := NewConfigBuilder(sampleSettings())

	if b.HasChanges() {
		t.Error("new builder should have no changes")
	}

	update, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !update.IsEmpty() {
		t.Errorf("Build() = %+v, want empty update", update)
	}
}

func TestBuilder_PartialColorChangeKeepsBaseline(t *testing.T) {
	update, err := NewConfigBuilder(sampleSettings()).
		SetSouthColor("green").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if update.Colors == nil {
		t.Fatal("Colors section missing")
	}
	want := PointerColorConfig{SouthColor: "#00FF00", SpawnColor: "#0000FF", Brightness: 70}
	if *update.Colors != want {
		t.Errorf("Colors = %+v, want %+v", *update.Colors, want)
	}
	if update.Spawn != nil || update.Advanced != nil || update.WiFi != nil {
		t.Errorf("unchanged sections should be nil: %+v", update)
	}
}

func TestBuilder_NilBaselineUsesDefaults(t *testing.T) {
	update, err := NewConfigBuilder(nil).SetBrightness(30).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if update.Colors.SouthColor != DefaultColor || update.Colors.Brightness != 30 {
		t.Errorf("Colors = %+v", update.Colors)
	}

	update, err = NewConfigBuilder(nil).SetServerMode(true).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if update.Advanced.Model != ModelGPS || !update.Advanced.ServerMode {
		t.Errorf("Advanced = %+v", update.Advanced)
	}
}

func TestBuilder_Validation(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ConfigBuilder) *ConfigBuilder
	}{
		{"bad color name", func(b *ConfigBuilder) *ConfigBuilder { return b.SetSpawnColor("mauve") }},
		{"brightness zero", func(b *ConfigBuilder) *ConfigBuilder { return b.SetBrightness(0) }},
		{"latitude out of range", func(b *ConfigBuilder) *ConfigBuilder { return b.SetSpawn(91, 0) }},
		{"spawn text not a number", func(b *ConfigBuilder) *ConfigBuilder { return b.SetSpawnText("x", "1") }},
		{"bad model", func(b *ConfigBuilder) *ConfigBuilder { return b.SetModel("pro") }},
		{"empty ssid", func(b *ConfigBuilder) *ConfigBuilder { return b.SetWiFi("", "password1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(NewConfigBuilder(sampleSettings())).Build()
			if err == nil {
				t.Fatal("Build() should fail")
			}
			if !IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestBuilder_WarningsDoNotFail(t *testing.T) {
	b := NewConfigBuilder(sampleSettings()).SetWiFi("OpenCafe", "")

	update, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if update.WiFi == nil || update.WiFi.SSID != "OpenCafe" {
		t.Errorf("WiFi = %+v", update.WiFi)
	}
	if len(b.Warnings()) != 1 {
		t.Errorf("Warnings() = %v, want 1", b.Warnings())
	}
}

func TestBuilder_Reset(t *testing.T) {
	b := NewConfigBuilder(sampleSettings()).
		SetSpawnColor("nope").
		SetSpawn(1, 2).
		SetModel(ModelLite)

	b.Reset()

	if b.HasChanges() {
		t.Error("HasChanges() after Reset() = true")
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate() after Reset() = %v", err)
	}
}

func TestBuilder_FluentAPI(t *testing.T) {
	update, err := NewConfigBuilder(sampleSettings()).
		SetSouthColor("#abcdef").
		SetSpawnColor("Orange").
		SetBrightness(100).
		SetSpawnText("45.0", "90.0").
		SetModel(ModelLite).
		SetServerMode(true).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if update.Colors.SouthColor != "#ABCDEF" || update.Colors.SpawnColor != "#FF7F00" {
		t.Errorf("Colors = %+v", update.Colors)
	}
	if *update.Spawn != (SpawnConfig{45, 90}) {
		t.Errorf("Spawn = %+v", update.Spawn)
	}
	if *update.Advanced != (AdvancedConfig{ServerMode: true, Model: ModelLite}) {
		t.Errorf("Advanced = %+v", update.Advanced)
	}
}
