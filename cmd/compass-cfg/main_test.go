package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
	"github.com/mcompass/compass-cfg/internal/logging"
)

func TestParseOnOff(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"ON", true, false},
		{" true ", true, false},
		{"1", true, false},
		{"off", false, false},
		{"Disabled", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseOnOff(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOnOff(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseOnOff(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"192.168.4.1", "192.168.4.1:80"},
		{"192.168.4.1:8080", "192.168.4.1:8080"},
		{"http://compass.local/", "compass.local:80"},
		{"[fe80::1]:81", "[fe80::1]:81"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeAddress(tt.input); got != tt.want {
				t.Errorf("normalizeAddress(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHintLines(t *testing.T) {
	if lines := hintLines(""); lines != nil {
		t.Errorf("hintLines(\"\") = %v, want nil", lines)
	}

	lines := hintLines("first\nsecond")
	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Errorf("hintLines split = %v", lines)
	}
}

func TestDeviceHintsSkipsValidation(t *testing.T) {
	if hints := deviceHints(deviceconfig.NewValidationError("bad")); hints != nil {
		t.Errorf("validation error hints = %v, want nil", hints)
	}
	if hints := deviceHints(deviceconfig.NewHTTPError(500, "boom")); len(hints) == 0 {
		t.Error("HTTP 500 should produce troubleshooting hints")
	}
}

func TestSections(t *testing.T) {
	cu := &deviceconfig.ConfigUpdate{
		Colors: &deviceconfig.PointerColorConfig{},
		WiFi:   &deviceconfig.WiFiConfig{},
	}
	if got := sectionList(cu); got != "colors, wifi" {
		t.Errorf("sectionList = %q, want %q", got, "colors, wifi")
	}
	if got := sectionList(&deviceconfig.ConfigUpdate{}); got != "(none)" {
		t.Errorf("sectionList(empty) = %q, want (none)", got)
	}
}

func TestReportJSONMasksPassword(t *testing.T) {
	report := &deviceconfig.DeviceReport{
		Address: "192.168.4.1:80",
		Settings: deviceconfig.ConfigUpdate{
			WiFi: &deviceconfig.WiFiConfig{SSID: "Home", Password: "secret123"},
		},
	}

	out := newReportJSON(report, []error{errors.New("spawn: timeout")})

	if out.WiFi == nil || out.WiFi.Password == "secret123" {
		t.Errorf("password not masked: %+v", out.WiFi)
	}
	if report.Settings.WiFi.Password != "secret123" {
		t.Error("masking must not modify the report")
	}
	if len(out.Errors) != 1 || out.Errors[0] != "spawn: timeout" {
		t.Errorf("errors = %v", out.Errors)
	}
}

func TestValidateFormat(t *testing.T) {
	defer func(old string) { outputFormat = old }(outputFormat)

	for _, format := range []string{formatDetailed, formatCompact, formatJSON} {
		outputFormat = format
		if err := validateFormat(); err != nil {
			t.Errorf("validateFormat(%q) = %v", format, err)
		}
	}

	outputFormat = "xml"
	if err := validateFormat(); err == nil {
		t.Error("validateFormat(xml) should fail")
	}
}

// countingServer counts the requests that reach the device.
func countingServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestCommandsRejectBeforeRequest(t *testing.T) {
	server, hits := countingServer(t)
	address := strings.TrimPrefix(server.URL, "http://")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "latitude out of range",
			args:    []string{"spawn", "set", "--device", address, "--", "91", "0"},
			wantErr: "latitude",
		},
		{
			name:    "longitude not a number",
			args:    []string{"spawn", "set", "--device", address, "10", "east"},
			wantErr: "longitude",
		},
		{
			name:    "colors without flags",
			args:    []string{"colors", "set", "--device", address},
			wantErr: "nothing to change",
		},
		{
			name:    "bad model",
			args:    []string{"advanced", "set", "--device", address, "--model", "pro"},
			wantErr: "model",
		},
		{
			name:    "bad server mode",
			args:    []string{"advanced", "set", "--device", address, "--server-mode", "sometimes"},
			wantErr: "server-mode",
		},
	}

	// Flag values persist between executions, so --model is checked before
	// --server-mode is set.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			err := rootCmd.ExecuteContext(context.Background())
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("device received %d requests, want 0", n)
	}
}

func TestLogOutput(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config directory layout is checked on linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(logging.LogLevelEnvVar, "")
	defer func(level, file string) { logLevel, logFile = level, file }(logLevel, logFile)

	dashboardLog := filepath.Join(dir, "compass", dashboardLogFile)

	tests := []struct {
		name  string
		cmd   string
		level string
		file  string
		want  string
	}{
		{"dashboard silent", "", "", "", ""},
		{"dashboard logs to config dir", "", "debug", "", dashboardLog},
		{"explicit file wins", "", "debug", "/tmp/x.log", "/tmp/x.log"},
		{"subcommand logs to stdout", "version", "debug", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logLevel, logFile = tt.level, tt.file
			cmd := rootCmd
			if tt.cmd != "" {
				found, _, err := rootCmd.Find([]string{tt.cmd})
				if err != nil {
					t.Fatalf("Find(%q) error = %v", tt.cmd, err)
				}
				cmd = found
			}
			if got := logOutput(cmd); got != tt.want {
				t.Errorf("logOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnectOptsIntoRetries(t *testing.T) {
	server, _ := countingServer(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	defer func(old string) { deviceAddr = old }(deviceAddr)
	deviceAddr = strings.TrimPrefix(server.URL, "http://")

	_, client, err := connect(context.Background())
	if err != nil {
		t.Fatalf("connect() error = %v", err)
	}
	if client.MaxRetries != deviceconfig.CommandMaxRetries {
		t.Errorf("command client MaxRetries = %d, want %d", client.MaxRetries, deviceconfig.CommandMaxRetries)
	}

	dashboardClient, err := newClient(deviceAddr)
	if err != nil {
		t.Fatalf("newClient() error = %v", err)
	}
	if dashboardClient.MaxRetries != 0 {
		t.Errorf("dashboard client MaxRetries = %d, want 0", dashboardClient.MaxRetries)
	}
}
