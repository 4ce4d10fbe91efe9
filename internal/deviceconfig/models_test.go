package deviceconfig

import (
	"encoding/json"
	"testing"
)

// Test data - response captured from a compass on firmware 2.x
const validInfoResponse = `{"buildVersion":"2.1.0","gitBranch":"main","gitCommit":"9f2c1e7","buildTime":"14:02:11","buildDate":"2024-05-01","gpsStatus":"1","sensorStatus":"1"}`

const paddedInfoResponse = validInfoResponse + "\r\n\x00\x00\x00"

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantErr bool
	}{
		{
			name:  "valid JSON only",
			input: []byte(validInfoResponse),
			want:  validInfoResponse,
		},
		{
			name:  "padded response with trailing NULs",
			input: []byte(paddedInfoResponse),
			want:  validInfoResponse,
		},
		{
			name:  "JSON with leading whitespace",
			input: []byte("  \n  " + validInfoResponse),
			want:  validInfoResponse,
		},
		{
			name:    "empty input",
			input:   []byte(""),
			wantErr: true,
		},
		{
			name:    "no JSON object",
			input:   []byte("this is not JSON"),
			wantErr: true,
		},
		{
			name:    "unclosed JSON",
			input:   []byte(`{"key":"value"`),
			wantErr: true,
		},
		{
			name:  "JSON with escaped quotes and braces in strings",
			input: []byte(`{"key":"value with \"quotes\" and }"}garbage`),
			want:  `{"key":"value with \"quotes\" and }"}`,
		},
		{
			name:  "nested JSON objects",
			input: []byte(`{"outer":{"inner":"value"},"key2":"value2"}`),
			want:  `{"outer":{"inner":"value"},"key2":"value2"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanJSONResponse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("CleanJSONResponse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("CleanJSONResponse() = %v, want %v", string(got), tt.want)
			}
		})
	}
}

func TestWireValueDecoding(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"string", `{"v":"abc"}`, "abc"},
		{"integer", `{"v":42}`, "42"},
		{"float", `{"v":45.5}`, "45.5"},
		{"true", `{"v":true}`, "1"},
		{"false", `{"v":false}`, "0"},
		{"null", `{"v":null}`, ""},
		{"absent", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				V wireValue `json:"v"`
			}
			if err := json.Unmarshal([]byte(tt.json), &out); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if out.V.String() != tt.want {
				t.Errorf("wireValue = %q, want %q", out.V.String(), tt.want)
			}
		})
	}
}

func TestWireValueRejectsObjects(t *testing.T) {
	var out struct {
		V wireValue `json:"v"`
	}
	if err := json.Unmarshal([]byte(`{"v":{"nested":1}}`), &out); err == nil {
		t.Error("expected error for object value")
	}
}

func TestBrightnessDefaults(t *testing.T) {
	tests := []struct {
		raw  wireValue
		want int
	}{
		{"", DefaultBrightness},
		{"0", DefaultBrightness},
		{"abc", DefaultBrightness},
		{"75", 75},
		{"75.9", 75},
		{"250", MaxBrightness},
		{"-3", MinBrightness},
	}

	for _, tt := range tests {
		t.Run(string(tt.raw), func(t *testing.T) {
			got := brightnessResponse{Brightness: tt.raw}.toBrightness()
			if got != tt.want {
				t.Errorf("toBrightness(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestAdvancedModelMapping(t *testing.T) {
	tests := []struct {
		model string
		want  DeviceModel
	}{
		{"0", ModelLite},
		{"1", ModelGPS},
		{"", ModelGPS},
		{"7", ModelGPS},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := advancedResponse{Model: wireValue(tt.model)}.toAdvancedConfig()
			if got.Model != tt.want {
				t.Errorf("model %q -> %s, want %s", tt.model, got.Model, tt.want)
			}
		})
	}
}

func TestParseDeviceModel(t *testing.T) {
	tests := []struct {
		input   string
		want    DeviceModel
		wantErr bool
	}{
		{"lite", ModelLite, false},
		{"Standard", ModelLite, false},
		{"0", ModelLite, false},
		{"GPS", ModelGPS, false},
		{"1", ModelGPS, false},
		{"pro", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDeviceModel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeviceModel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDeviceModel(%q) = %s, want %s", tt.input, got, tt.want)
			}
			if tt.wantErr && !IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestQueryEncoding(t *testing.T) {
	advanced := AdvancedConfig{ServerMode: true, Model: ModelLite}.ToQuery()
	if advanced.Get("serverMode") != "1" || advanced.Get("model") != "0" {
		t.Errorf("AdvancedConfig.ToQuery() = %v", advanced)
	}

	spawn := SpawnConfig{Latitude: 12.34567, Longitude: -0.5}.ToQuery()
	if spawn.Get("latitude") != "12.34567" || spawn.Get("longitude") != "-0.5" {
		t.Errorf("SpawnConfig.ToQuery() = %v", spawn)
	}

	if got := BrightnessQuery(7).Get("brightness"); got != "7" {
		t.Errorf("BrightnessQuery(7) = %s", got)
	}

	// '#' must survive query encoding
	colors := PointColors{SouthColor: "#FF1414", SpawnColor: "#00FF00"}.ToQuery().Encode()
	if colors != "southColor=%23FF1414&spawnColor=%2300FF00" {
		t.Errorf("PointColors.ToQuery().Encode() = %s", colors)
	}
}

func TestDefaults(t *testing.T) {
	colors := DefaultPointerColorConfig()
	if colors.SouthColor != "#FF1414" || colors.SpawnColor != "#FF1414" || colors.Brightness != 56 {
		t.Errorf("DefaultPointerColorConfig() = %+v", colors)
	}

	info := DefaultDeviceInfo()
	if info.BuildVersion != "Unknown" || info.GPSStatus || info.SensorStatus {
		t.Errorf("DefaultDeviceInfo() = %+v", info)
	}

	advanced := DefaultAdvancedConfig()
	if advanced.ServerMode || advanced.Model != ModelGPS {
		t.Errorf("DefaultAdvancedConfig() = %+v", advanced)
	}
}
