package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
	"github.com/mcompass/compass-cfg/internal/ui"
)

// Output formats accepted by --format
const (
	formatDetailed = "detailed"
	formatCompact  = "compact"
	formatJSON     = "json"
)

var assumeYes bool

// errCancelled is returned when the user declines a confirmation.
var errCancelled = errors.New("operation cancelled")

func init() {
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
}

func validateFormat() error {
	switch outputFormat {
	case formatDetailed, formatCompact, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (use detailed, compact or json)", outputFormat)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// reportJSON is the --format json shape of a device report.
type reportJSON struct {
	Address  string                           `json:"address"`
	Info     *deviceconfig.DeviceInfo         `json:"info,omitempty"`
	Colors   *deviceconfig.PointerColorConfig `json:"colors,omitempty"`
	WiFi     *deviceconfig.WiFiConfig         `json:"wifi,omitempty"`
	Spawn    *deviceconfig.SpawnConfig        `json:"spawn"`
	Advanced *deviceconfig.AdvancedConfig     `json:"advanced,omitempty"`
	Errors   []string                         `json:"errors,omitempty"`
}

func newReportJSON(report *deviceconfig.DeviceReport, errs []error) reportJSON {
	out := reportJSON{
		Address:  report.Address,
		Info:     report.Info,
		Colors:   report.Settings.Colors,
		Spawn:    report.Settings.Spawn,
		Advanced: report.Settings.Advanced,
	}
	if report.Settings.WiFi != nil {
		wifi := maskedWiFi(*report.Settings.WiFi)
		out.WiFi = &wifi
	}
	for _, err := range errs {
		out.Errors = append(out.Errors, err.Error())
	}
	return out
}

func maskedWiFi(wifi deviceconfig.WiFiConfig) deviceconfig.WiFiConfig {
	wifi.Password = deviceconfig.MaskPassword(wifi.Password)
	return wifi
}

// parseOnOff accepts the usual spellings of a boolean switch.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1", "enable", "enabled":
		return true, nil
	case "off", "false", "no", "0", "disable", "disabled":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

// hintLines splits a troubleshooting hint for display in a result box.
func hintLines(hint string) []string {
	if hint == "" {
		return nil
	}
	return strings.Split(hint, "\n")
}

// confirm shows c and returns an error unless the user agrees. --yes skips
// the prompt; without a terminal the operation is refused.
func confirm(c ui.Confirmation) error {
	if assumeYes {
		return nil
	}
	if !ui.IsTerminal() {
		return fmt.Errorf("confirmation required: re-run with --yes to proceed non-interactively")
	}
	if !ui.Confirm(os.Stdin, os.Stdout, c) {
		return errCancelled
	}
	return nil
}

// commandLine reconstructs the invocation for runner headers.
func commandLine(cmd *cobra.Command, args []string) string {
	if len(args) == 0 {
		return cmd.CommandPath()
	}
	return cmd.CommandPath() + " " + strings.Join(args, " ")
}
