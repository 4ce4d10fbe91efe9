package panel

import (
	"errors"
	"testing"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
)

var errOffline = errors.New("device offline")

func TestColorsForm_Defaults(t *testing.T) {
	f := NewColorsForm()
	if f.SouthColor != "#FF1414" || f.SpawnColor != "#FF1414" || f.Brightness != 56 {
		t.Errorf("NewColorsForm() = %+v", f)
	}
	if f.SouthKey() != "red" {
		t.Errorf("SouthKey() = %q, want red", f.SouthKey())
	}
}

func TestColorsForm_Loaded(t *testing.T) {
	tests := []struct {
		name      string
		cfg       deviceconfig.PointerColorConfig
		err       error
		wantSouth string
		wantKey   string
		wantBrt   int
	}{
		{
			name:      "palette colors",
			cfg:       deviceconfig.PointerColorConfig{SouthColor: "#ff7f00", SpawnColor: "#0000FF", Brightness: 30},
			wantSouth: "#ff7f00",
			wantKey:   "orange",
			wantBrt:   30,
		},
		{
			name:      "custom color has no selection",
			cfg:       deviceconfig.PointerColorConfig{SouthColor: "#123456", SpawnColor: "#0000FF", Brightness: 30},
			wantSouth: "#123456",
			wantKey:   "",
			wantBrt:   30,
		},
		{
			name:      "missing south color",
			cfg:       deviceconfig.PointerColorConfig{SpawnColor: "#0000FF", Brightness: 30},
			wantSouth: "#FF1414",
			wantKey:   "red",
			wantBrt:   30,
		},
		{
			name:      "brightness failed",
			cfg:       deviceconfig.PointerColorConfig{SouthColor: "#00FF00", SpawnColor: "#0000FF", Brightness: 56},
			err:       errOffline,
			wantSouth: "#00FF00",
			wantKey:   "green",
			wantBrt:   56,
		},
		{
			name:      "nothing loaded",
			err:       errOffline,
			wantSouth: "#FF1414",
			wantKey:   "red",
			wantBrt:   56,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewColorsForm().BeginLoad()
			if !f.Loading {
				t.Fatal("BeginLoad() should set Loading")
			}
			f = f.Loaded(tt.cfg, tt.err)

			if f.Loading {
				t.Error("Loaded() should clear Loading")
			}
			if f.SouthColor != tt.wantSouth {
				t.Errorf("SouthColor = %q, want %q", f.SouthColor, tt.wantSouth)
			}
			if f.SouthKey() != tt.wantKey {
				t.Errorf("SouthKey() = %q, want %q", f.SouthKey(), tt.wantKey)
			}
			if f.Brightness != tt.wantBrt {
				t.Errorf("Brightness = %d, want %d", f.Brightness, tt.wantBrt)
			}
		})
	}
}

func TestColorsForm_SelectRoundTrip(t *testing.T) {
	for _, c := range deviceconfig.Palette {
		f := NewColorsForm().SelectSouth(c.Key).SelectSpawn(c.Key)
		if f.SouthKey() != c.Key || f.SpawnKey() != c.Key {
			t.Errorf("select %q: keys = %q/%q", c.Key, f.SouthKey(), f.SpawnKey())
		}
	}

	if f := NewColorsForm().SelectSouth("magenta"); f.SouthColor != "#FF1414" {
		t.Errorf("unknown key should select red, got %q", f.SouthColor)
	}
}

func TestColorsForm_Adjust(t *testing.T) {
	f := NewColorsForm()

	f = f.Adjust(1)
	if f.SouthKey() != "orange" {
		t.Errorf("south after +1 = %q, want orange", f.SouthKey())
	}
	f = f.Adjust(-2)
	if f.SouthKey() != "violet" {
		t.Errorf("south after -2 = %q, want violet (wrap)", f.SouthKey())
	}

	f = f.FocusNext()
	if f.Focus != FieldSpawnColor {
		t.Fatalf("Focus = %v, want spawn color", f.Focus)
	}
	f = f.Loaded(deviceconfig.PointerColorConfig{SouthColor: f.SouthColor, SpawnColor: "#ABCDEF", Brightness: 56}, nil)
	f = f.Adjust(1)
	if f.SpawnKey() != "red" {
		t.Errorf("custom color should restart at the first entry, got %q", f.SpawnKey())
	}

	f = f.FocusNext()
	f = f.Adjust(20)
	if f.Brightness != 100 {
		t.Errorf("Brightness = %d, want clamped to 100", f.Brightness)
	}
	f = f.Adjust(-30)
	if f.Brightness != 1 {
		t.Errorf("Brightness = %d, want clamped to 1", f.Brightness)
	}

	if f.FocusNext().Focus != FieldSouthColor || NewColorsForm().FocusPrev().Focus != FieldBrightness {
		t.Error("focus should wrap")
	}
}

func TestColorsForm_IsImmutable(t *testing.T) {
	orig := NewColorsForm()
	_ = orig.SelectSouth("blue").SetBrightness(10).BeginSave()
	if orig.SouthColor != "#FF1414" || orig.Brightness != 56 || orig.Saving {
		t.Errorf("receiver modified: %+v", orig)
	}
}

func TestColorsForm_SaveKeepsEdits(t *testing.T) {
	f := NewColorsForm().SelectSouth("green").BeginSave()
	if !f.Saving || !f.Busy() {
		t.Fatal("BeginSave() should set Saving")
	}
	f = f.Saved(errOffline)
	if f.Saving {
		t.Error("Saved() should clear Saving on failure")
	}
	if f.SouthColor != "#00FF00" {
		t.Errorf("failed save rolled back local state: %q", f.SouthColor)
	}
	if got := f.Config(); got.SouthColor != "#00FF00" || got.Brightness != 56 {
		t.Errorf("Config() = %+v", got)
	}
}

func TestWiFiForm_Loaded(t *testing.T) {
	tests := []struct {
		name     string
		cfg      deviceconfig.WiFiConfig
		err      error
		wantSSID string
	}{
		{"both set", deviceconfig.WiFiConfig{SSID: "HomeNet", Password: "hunter22"}, nil, "HomeNet"},
		{"no password", deviceconfig.WiFiConfig{SSID: "Cafe"}, nil, ""},
		{"no ssid", deviceconfig.WiFiConfig{Password: "hunter22"}, nil, ""},
		{"error", deviceconfig.WiFiConfig{SSID: "HomeNet", Password: "hunter22"}, errOffline, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewWiFiForm().BeginLoad().Loaded(tt.cfg, tt.err)
			if f.Loading {
				t.Error("Loading not cleared")
			}
			if f.SSID != tt.wantSSID {
				t.Errorf("SSID = %q, want %q", f.SSID, tt.wantSSID)
			}
		})
	}
}

func TestWiFiForm_ConfigCarriesBothEdits(t *testing.T) {
	f := NewWiFiForm().
		Loaded(deviceconfig.WiFiConfig{SSID: "Old", Password: "oldpass1"}, nil).
		SetSSID("NewNet").
		ToggleFocus().
		SetPassword("newpass99")

	if f.Focus != FieldPassword {
		t.Errorf("Focus = %v, want password", f.Focus)
	}
	want := deviceconfig.WiFiConfig{SSID: "NewNet", Password: "newpass99"}
	if got := f.Config(); got != want {
		t.Errorf("Config() = %+v, want %+v", got, want)
	}
}

func TestSpawnForm_Loaded(t *testing.T) {
	f := NewSpawnForm().BeginLoad().Loaded(deviceconfig.SpawnConfig{Latitude: 45, Longitude: -122.5}, nil)
	if f.Latitude != "45" || f.Longitude != "-122.5" {
		t.Errorf("inputs = %q/%q", f.Latitude, f.Longitude)
	}

	f = NewSpawnForm().BeginLoad().Loaded(deviceconfig.SpawnConfig{}, deviceconfig.ErrSpawnNotSet)
	if f.Latitude != "" || f.Longitude != "" || f.Loading {
		t.Errorf("unset spawn should leave inputs empty: %+v", f)
	}
}

func TestSpawnForm_CanSave(t *testing.T) {
	tests := []struct {
		lat, lon string
		want     bool
	}{
		{"", "", false},
		{"1", "", false},
		{"", "1", false},
		{"  ", "1", false},
		{"0", "0", true},
		{"abc", "1", true},
	}
	for _, tt := range tests {
		f := NewSpawnForm().SetLatitude(tt.lat).SetLongitude(tt.lon)
		if got := f.CanSave(); got != tt.want {
			t.Errorf("CanSave(%q, %q) = %v, want %v", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestSpawnForm_Submit(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lon     string
		wantOK  bool
		wantCfg deviceconfig.SpawnConfig
	}{
		{"valid", "45.0", "90.0", true, deviceconfig.SpawnConfig{Latitude: 45, Longitude: 90}},
		{"zero accepted", "0", "0", true, deviceconfig.SpawnConfig{}},
		{"bounds inclusive", "-90", "180", true, deviceconfig.SpawnConfig{Latitude: -90, Longitude: 180}},
		{"latitude out of range", "91", "0", false, deviceconfig.SpawnConfig{}},
		{"longitude out of range", "0", "-180.5", false, deviceconfig.SpawnConfig{}},
		{"not a number", "north", "0", false, deviceconfig.SpawnConfig{}},
		{"empty", "", "10", false, deviceconfig.SpawnConfig{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSpawnForm().SetLatitude(tt.lat).SetLongitude(tt.lon)
			f, cfg, ok := f.Submit()
			if ok != tt.wantOK {
				t.Fatalf("Submit() ok = %v, want %v (error %q)", ok, tt.wantOK, f.Error)
			}
			if cfg != tt.wantCfg {
				t.Errorf("Submit() cfg = %+v, want %+v", cfg, tt.wantCfg)
			}
			if ok == f.ShowingError() {
				t.Errorf("ShowingError() = %v with ok = %v", f.ShowingError(), ok)
			}
		})
	}
}

func TestSpawnForm_ErrorLifecycle(t *testing.T) {
	f := NewSpawnForm().SetLatitude("100").SetLongitude("0")

	f, _, _ = f.Submit()
	first := f.ErrorSeq
	if !f.ShowingError() {
		t.Fatal("error should be visible after a rejected submit")
	}

	f, _, _ = f.Submit()
	if f.ErrorSeq == first {
		t.Fatal("each rejection should get a new sequence")
	}

	if f = f.ExpireError(first); !f.ShowingError() {
		t.Error("expiry of an older error should not hide the current one")
	}
	if f = f.ExpireError(f.ErrorSeq); f.ShowingError() {
		t.Error("expiry of the current error should hide it")
	}

	f, _, _ = f.Submit()
	if f = f.SetLongitude("1"); f.ShowingError() {
		t.Error("editing should hide the error")
	}
}

func TestInfoForm(t *testing.T) {
	f := NewInfoForm()
	for _, row := range f.Rows()[:5] {
		if row.Value != "Unknown" {
			t.Errorf("%s = %q, want Unknown", row.Label, row.Value)
		}
	}

	f = f.BeginLoad().Loaded(deviceconfig.DeviceInfo{BuildVersion: "2.1.0", GPSStatus: true}, nil)
	rows := f.Rows()
	if rows[0].Value != "2.1.0" || rows[5].Value != "Available" || rows[6].Value != "Unavailable" {
		t.Errorf("Rows() = %+v", rows)
	}

	f = NewInfoForm().BeginLoad().Loaded(deviceconfig.DeviceInfo{BuildVersion: "x"}, errOffline)
	if f.Info.BuildVersion != "Unknown" || f.Loading {
		t.Errorf("failed load = %+v", f)
	}
}

func TestAdvancedForm(t *testing.T) {
	f := NewAdvancedForm()
	if f.ServerMode || f.Model != deviceconfig.ModelGPS || f.Open {
		t.Errorf("NewAdvancedForm() = %+v", f)
	}

	f = f.BeginLoad().Loaded(deviceconfig.AdvancedConfig{ServerMode: false, Model: deviceconfig.ModelLite}, nil)
	f = f.OpenDialog().ToggleFocused()
	if !f.ServerMode {
		t.Error("ToggleFocused() on the first row should flip server mode")
	}

	f = f.Close()
	if f.Open || !f.ServerMode {
		t.Errorf("Close() should hide the dialog and keep edits: %+v", f)
	}

	f = f.OpenDialog().ToggleFocus().ToggleFocused()
	if f.Model != deviceconfig.ModelGPS {
		t.Errorf("Model = %q, want gps", f.Model)
	}

	f = f.BeginSave()
	if f.Open || !f.Saving {
		t.Errorf("BeginSave() should close the dialog: %+v", f)
	}
	want := deviceconfig.AdvancedConfig{ServerMode: true, Model: deviceconfig.ModelGPS}
	if got := f.Config(); got != want {
		t.Errorf("Config() = %+v, want %+v", got, want)
	}
	if f = f.Saved(nil); f.Saving {
		t.Error("Saved() should clear Saving")
	}
}
