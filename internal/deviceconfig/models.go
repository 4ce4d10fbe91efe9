package deviceconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Fallback values used when the device omits a field or returns it empty.
const (
	// DefaultColor is the pointer color used when none is configured (red)
	DefaultColor = "#FF1414"

	// DefaultBrightness is the LED brightness used when none is configured
	DefaultBrightness = 56

	// MinBrightness and MaxBrightness bound the brightness slider
	MinBrightness = 1
	MaxBrightness = 100

	// UnknownValue is displayed for missing device info fields
	UnknownValue = "Unknown"
)

// PointColors is the body of GET /pointColors and the query of POST /pointColors.
type PointColors struct {
	SouthColor string `json:"southColor" yaml:"south_color"` // Compass mode pointer color
	SpawnColor string `json:"spawnColor" yaml:"spawn_color"` // Spawn mode pointer color
}

// PointerColorConfig is the complete color settings domain: both pointer
// colors plus brightness. The device splits it across two endpoints.
type PointerColorConfig struct {
	SouthColor string `json:"southColor" yaml:"south_color"`
	SpawnColor string `json:"spawnColor" yaml:"spawn_color"`
	Brightness int    `json:"brightness" yaml:"brightness"`
}

// DefaultPointerColorConfig returns the configuration shown before the device answers.
func DefaultPointerColorConfig() PointerColorConfig {
	return PointerColorConfig{
		SouthColor: DefaultColor,
		SpawnColor: DefaultColor,
		Brightness: DefaultBrightness,
	}
}

// Colors returns the pointer color half of the configuration.
func (pc PointerColorConfig) Colors() PointColors {
	return PointColors{SouthColor: pc.SouthColor, SpawnColor: pc.SpawnColor}
}

// WiFiConfig holds the station credentials the device joins on boot.
type WiFiConfig struct {
	SSID     string `json:"ssid" yaml:"ssid"`
	Password string `json:"password" yaml:"password"`
}

// SpawnConfig is the spawn point the pointer targets when GPS is available.
type SpawnConfig struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// DeviceInfo is the read-only build and sensor status returned by GET /info.
type DeviceInfo struct {
	BuildVersion string `json:"buildVersion"`
	GitBranch    string `json:"gitBranch"`
	GitCommit    string `json:"gitCommit"`
	BuildTime    string `json:"buildTime"`
	BuildDate    string `json:"buildDate"`
	GPSStatus    bool   `json:"gpsStatus"`
	SensorStatus bool   `json:"sensorStatus"`
}

// DefaultDeviceInfo returns the placeholder info shown before the device answers.
func DefaultDeviceInfo() DeviceInfo {
	return DeviceInfo{
		BuildVersion: UnknownValue,
		GitBranch:    UnknownValue,
		GitCommit:    UnknownValue,
		BuildTime:    UnknownValue,
		BuildDate:    UnknownValue,
	}
}

// DeviceModel is the hardware edition the firmware runs as.
type DeviceModel string

const (
	// ModelLite is the standard edition without GPS ("0" on the wire)
	ModelLite DeviceModel = "lite"
	// ModelGPS is the GPS edition ("1" on the wire)
	ModelGPS DeviceModel = "gps"
)

// ParseDeviceModel accepts the display names and the wire values.
func ParseDeviceModel(s string) (DeviceModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lite", "standard", "0":
		return ModelLite, nil
	case "gps", "1":
		return ModelGPS, nil
	default:
		return "", NewValidationError(fmt.Sprintf("device model must be 'lite' or 'gps', got '%s'", s))
	}
}

// WireValue returns the "0"/"1" encoding used by /adveancedConfig.
func (m DeviceModel) WireValue() string {
	if m == ModelLite {
		return "0"
	}
	return "1"
}

// Label returns the edition name shown to users.
func (m DeviceModel) Label() string {
	if m == ModelLite {
		return "Standard Edition"
	}
	return "GPS Edition"
}

// AdvancedConfig holds the experimental settings.
type AdvancedConfig struct {
	// ServerMode enables configuration over Bluetooth
	ServerMode bool        `json:"serverMode" yaml:"server_mode"`
	Model      DeviceModel `json:"model" yaml:"model"`
}

// DefaultAdvancedConfig mirrors what the dashboard shows before loading.
func DefaultAdvancedConfig() AdvancedConfig {
	return AdvancedConfig{ServerMode: false, Model: ModelGPS}
}

// wireValue is a JSON scalar the firmware may encode as a string, number,
// boolean or null. It is kept as its string form.
type wireValue string

// UnmarshalJSON implements json.Unmarshaler
func (v *wireValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = wireValue(s)
	case 't':
		*v = "1"
	case 'f':
		*v = "0"
	case '{', '[':
		return fmt.Errorf("unexpected JSON %s for scalar field", string(data[:1]))
	default:
		// Numbers are kept verbatim
		*v = wireValue(data)
	}
	return nil
}

func (v wireValue) String() string {
	return strings.TrimSpace(string(v))
}

// orDefault returns the value or def when the device left it empty.
func (v wireValue) orDefault(def string) string {
	if s := v.String(); s != "" {
		return s
	}
	return def
}

// flag reports whether the wire value is the "1" encoding.
func (v wireValue) flag() bool {
	return v.String() == "1"
}

type pointColorsResponse struct {
	SouthColor wireValue `json:"southColor"`
	SpawnColor wireValue `json:"spawnColor"`
}

type brightnessResponse struct {
	Brightness wireValue `json:"brightness"`
}

type wifiResponse struct {
	SSID     wireValue `json:"ssid"`
	Password wireValue `json:"password"`
}

type spawnResponse struct {
	Latitude  wireValue `json:"latitude"`
	Longitude wireValue `json:"longitude"`
}

type infoResponse struct {
	BuildVersion wireValue `json:"buildVersion"`
	GitBranch    wireValue `json:"gitBranch"`
	GitCommit    wireValue `json:"gitCommit"`
	BuildTime    wireValue `json:"buildTime"`
	BuildDate    wireValue `json:"buildDate"`
	GPSStatus    wireValue `json:"gpsStatus"`
	SensorStatus wireValue `json:"sensorStatus"`
}

type advancedResponse struct {
	ServerMode wireValue `json:"serverMode"`
	Model      wireValue `json:"model"`
}

func (r pointColorsResponse) toPointColors() PointColors {
	return PointColors{
		SouthColor: r.SouthColor.orDefault(DefaultColor),
		SpawnColor: r.SpawnColor.orDefault(DefaultColor),
	}
}

// toBrightness falls back to the default for absent, zero or unparseable
// values and clamps the rest into the slider range.
func (r brightnessResponse) toBrightness() int {
	f, err := strconv.ParseFloat(r.Brightness.String(), 64)
	if err != nil || f == 0 {
		return DefaultBrightness
	}
	return ClampBrightness(int(f))
}

func (r wifiResponse) toWiFiConfig() WiFiConfig {
	return WiFiConfig{SSID: r.SSID.String(), Password: string(r.Password)}
}

// toSpawnConfig returns the stored point as is. Range checks happen when a
// point is saved, so an out-of-range value still reaches the form.
func (r spawnResponse) toSpawnConfig() (SpawnConfig, error) {
	lat, lon := r.Latitude.String(), r.Longitude.String()
	if lat == "" || lon == "" {
		return SpawnConfig{}, ErrSpawnNotSet
	}
	latitude, err := parseCoordinate("latitude", lat)
	if err != nil {
		return SpawnConfig{}, NewParseError("invalid spawn point from device", err)
	}
	longitude, err := parseCoordinate("longitude", lon)
	if err != nil {
		return SpawnConfig{}, NewParseError("invalid spawn point from device", err)
	}
	return SpawnConfig{Latitude: latitude, Longitude: longitude}, nil
}

func (r infoResponse) toDeviceInfo() DeviceInfo {
	return DeviceInfo{
		BuildVersion: r.BuildVersion.orDefault(UnknownValue),
		GitBranch:    r.GitBranch.orDefault(UnknownValue),
		GitCommit:    r.GitCommit.orDefault(UnknownValue),
		BuildTime:    r.BuildTime.orDefault(UnknownValue),
		BuildDate:    r.BuildDate.orDefault(UnknownValue),
		GPSStatus:    r.GPSStatus.flag(),
		SensorStatus: r.SensorStatus.flag(),
	}
}

func (r advancedResponse) toAdvancedConfig() AdvancedConfig {
	model := ModelGPS
	if r.Model.String() == "0" {
		model = ModelLite
	}
	return AdvancedConfig{
		ServerMode: r.ServerMode.flag(),
		Model:      model,
	}
}

// ToQuery converts PointColors to the query of POST /pointColors.
func (pc PointColors) ToQuery() url.Values {
	q := url.Values{}
	q.Set("southColor", pc.SouthColor)
	q.Set("spawnColor", pc.SpawnColor)
	return q
}

// BrightnessQuery builds the query of POST /brightness.
func BrightnessQuery(brightness int) url.Values {
	q := url.Values{}
	q.Set("brightness", strconv.Itoa(brightness))
	return q
}

// ToQuery converts WiFiConfig to the query of POST /setWiFi.
func (wc WiFiConfig) ToQuery() url.Values {
	q := url.Values{}
	q.Set("ssid", wc.SSID)
	q.Set("password", wc.Password)
	return q
}

// ToQuery converts SpawnConfig to the query of POST /spawn.
// Coordinates use the shortest decimal form, so 45.0 is sent as "45".
func (sc SpawnConfig) ToQuery() url.Values {
	q := url.Values{}
	q.Set("latitude", FormatCoordinate(sc.Latitude))
	q.Set("longitude", FormatCoordinate(sc.Longitude))
	return q
}

// ToQuery converts AdvancedConfig to the query of POST /adveancedConfig.
func (ac AdvancedConfig) ToQuery() url.Values {
	q := url.Values{}
	q.Set("serverMode", FormatFlag(ac.ServerMode))
	q.Set("model", ac.Model.WireValue())
	return q
}

// FormatCoordinate renders a coordinate in its shortest decimal form.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatFlag renders a boolean as the device's "0"/"1" encoding.
func FormatFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ClampBrightness forces a brightness value into [MinBrightness, MaxBrightness].
func ClampBrightness(v int) int {
	if v < MinBrightness {
		return MinBrightness
	}
	if v > MaxBrightness {
		return MaxBrightness
	}
	return v
}

// CleanJSONResponse extracts the first JSON object from a response body.
//
// The firmware's web server occasionally pads responses or appends a
// trailing newline and NUL bytes; anything after the closing brace of the
// first object is dropped.
func CleanJSONResponse(data []byte) ([]byte, error) {
	start := bytes.IndexByte(data, '{')
	if start == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(data); i++ {
		b := data[i]

		if escaped {
			escaped = false
			continue
		}
		if b == '\\' {
			escaped = true
			continue
		}

		// Braces inside strings don't count
		if b == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if b == '{' {
				depth++
			} else if b == '}' {
				depth--
				if depth == 0 {
					return data[start : i+1], nil
				}
			}
		}
	}

	return nil, fmt.Errorf("unclosed JSON object in response")
}

// decodeResponse cleans and unmarshals a device response body into v.
func decodeResponse(body []byte, v interface{}) error {
	cleaned, err := CleanJSONResponse(body)
	if err != nil {
		return NewParseError("failed to clean JSON response", err)
	}
	if err := json.Unmarshal(cleaned, v); err != nil {
		return NewParseError("failed to parse JSON response", err)
	}
	return nil
}
