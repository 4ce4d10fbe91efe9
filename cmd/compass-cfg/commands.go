package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
	"github.com/mcompass/compass-cfg/internal/ui"
)

// Command-specific flags
var (
	southColor   string
	spawnColor   string
	brightness   int
	showPassword bool
	serverMode   string
	deviceModel  string
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(infoCmd)

	colorsSetCmd.Flags().StringVar(&southColor, "south", "", "South pointer color (palette name or #RRGGBB)")
	colorsSetCmd.Flags().StringVar(&spawnColor, "spawn", "", "Spawn pointer color (palette name or #RRGGBB)")
	colorsSetCmd.Flags().IntVar(&brightness, "brightness", deviceconfig.DefaultBrightness, "LED brightness (1-100)")
	addApplyFlags(colorsSetCmd)
	colorsCmd.AddCommand(colorsGetCmd, colorsSetCmd)
	rootCmd.AddCommand(colorsCmd)

	wifiGetCmd.Flags().BoolVar(&showPassword, "show-password", false, "Print the WiFi password in clear text")
	addApplyFlags(wifiSetCmd)
	wifiCmd.AddCommand(wifiGetCmd, wifiSetCmd)
	rootCmd.AddCommand(wifiCmd)

	addApplyFlags(spawnSetCmd)
	spawnCmd.AddCommand(spawnGetCmd, spawnSetCmd)
	rootCmd.AddCommand(spawnCmd)

	advancedSetCmd.Flags().StringVar(&serverMode, "server-mode", "", "Bluetooth server mode (on or off)")
	advancedSetCmd.Flags().StringVar(&deviceModel, "model", "", "Device model (lite or gps)")
	addApplyFlags(advancedSetCmd)
	advancedCmd.AddCommand(advancedGetCmd, advancedSetCmd)
	rootCmd.AddCommand(advancedCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the network for compass devices",
	Long: `Discover compass devices on the local network using mDNS.

The compass advertises itself as compass.local (or compass-<id>.local).
Scan time defaults to the discover_timeout preference and can be changed
with --timeout.`,
	Example: `  # Scan with default timeout
  compass-cfg scan

  # Scan longer on a busy network
  compass-cfg scan --timeout 10s`,
	RunE: runScan,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all settings of a compass",
	Long: `Read device information and every settings domain from the compass.

Settings that cannot be read are reported as warnings; whatever could be
read is still shown. The WiFi password is always masked.`,
	Example: `  compass-cfg show
  compass-cfg show --device 192.168.4.1 --format json`,
	RunE: runShow,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show firmware and sensor information",
	RunE:  runInfo,
}

var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "Read or change pointer colors and brightness",
}

var colorsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show pointer colors and brightness",
	Args:  cobra.NoArgs,
	RunE:  runColorsGet,
}

var colorsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change pointer colors and brightness",
	Long: `Change the south pointer color, the spawn pointer color and the LED
brightness. Only the flags you pass are changed; the others keep their
current device value.

Colors are palette names (red, green, blue, ...) or #RRGGBB values.`,
	Example: `  compass-cfg colors set --south green
  compass-cfg colors set --spawn "#00FF00" --brightness 80 --verify`,
	Args: cobra.NoArgs,
	RunE: runColorsSet,
}

var wifiCmd = &cobra.Command{
	Use:   "wifi",
	Short: "Read or change the WiFi network the compass joins",
}

var wifiGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the configured WiFi network",
	Args:  cobra.NoArgs,
	RunE:  runWiFiGet,
}

var wifiSetCmd = &cobra.Command{
	Use:   "set <ssid> [password]",
	Short: "Change the WiFi network",
	Long: `Send new WiFi credentials to the compass.

The compass leaves the current network once it accepts the change. Omit
the password for an open network. You will be asked to confirm unless
--yes is given.`,
	Example: `  compass-cfg wifi set HomeNetwork secret123
  compass-cfg wifi set CafeOpen --yes`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWiFiSet,
}

var spawnCmd = &cobra.Command{
	Use:   "spawn",
	Short: "Read or change the spawn point",
}

var spawnGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the spawn point",
	Args:  cobra.NoArgs,
	RunE:  runSpawnGet,
}

var spawnSetCmd = &cobra.Command{
	Use:   "set <latitude> <longitude>",
	Short: "Change the spawn point",
	Long: `Set the spawn point the pointer targets in spawn mode.

Latitude must be within -90..90 and longitude within -180..180 degrees.
Values are checked before anything is sent to the compass.`,
	Example: `  compass-cfg spawn set 45.0 90.0

  # Negative coordinates need -- so they are not read as flags
  compass-cfg spawn set --verify -- -33.8688 151.2093`,
	Args: cobra.ExactArgs(2),
	RunE: runSpawnSet,
}

var advancedCmd = &cobra.Command{
	Use:   "advanced",
	Short: "Read or change experimental features",
}

var advancedGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show experimental features",
	Args:  cobra.NoArgs,
	RunE:  runAdvancedGet,
}

var advancedSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change experimental features",
	Long: `Change Bluetooth server mode and the device model.

These settings are experimental: server mode moves configuration to
Bluetooth and the device model decides which features the firmware
enables. You will be asked to confirm unless --yes is given.`,
	Example: `  compass-cfg advanced set --server-mode off
  compass-cfg advanced set --model lite`,
	Args: cobra.NoArgs,
	RunE: runAdvancedSet,
}

func runScan(cmd *cobra.Command, args []string) error {
	wait := discoverTimeout()
	if outputFormat != formatJSON {
		fmt.Printf("Scanning for compass devices (%s)...\n\n", wait)
	}

	devices, err := scanDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if outputFormat == formatJSON {
		return printJSON(devices)
	}

	if len(devices) == 0 {
		fmt.Println("No compass devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  • Make sure the compass is powered on and connected to WiFi")
		fmt.Println("  • Check that your computer is on the same network")
		fmt.Println("  • Try a longer scan: compass-cfg scan --timeout 10s")
		return nil
	}

	reg := loadRegistry()
	fmt.Printf("Found %d device(s):\n\n", len(devices))
	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device)
		if fw := device.Firmware(); fw != "" {
			fmt.Printf("   Firmware: %s\n", fw)
		}
		if known := reg.GetDevice(device.Address()); known != nil && known.Nickname != "" {
			fmt.Printf("   Nickname: %s\n", known.Nickname)
		}
	}
	fmt.Println("\nUse 'compass-cfg use <address>' to make one the default device.")
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	report, err := client.LoadReport(cmd.Context(), t.Address)
	errs := multierr.Errors(err)
	if report.Info == nil && report.Settings.IsEmpty() {
		return err
	}

	firmware := ""
	if report.Info != nil {
		firmware = report.Info.BuildVersion
	}
	rememberDevice(t.Address, firmware)

	switch outputFormat {
	case formatJSON:
		return printJSON(newReportJSON(report, errs))
	case formatCompact:
		fmt.Print(report.FormatCompact())
	default:
		fmt.Print(report.FormatDetailed())
	}

	if len(errs) > 0 {
		details := make(map[string]string, len(errs))
		for i, e := range errs {
			details[fmt.Sprintf("Error %d", i+1)] = e.Error()
		}
		fmt.Println()
		ui.NewPrinter(nil).PrintWarning("Some settings could not be read", details)
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	info, err := client.GetInfo(cmd.Context())
	if err != nil {
		return err
	}
	rememberDevice(t.Address, info.BuildVersion)

	if outputFormat == formatJSON {
		return printJSON(info)
	}
	fmt.Print(info.FormatDeviceInfo())
	return nil
}

func runColorsGet(cmd *cobra.Command, args []string) error {
	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	colors, err := client.LoadColorConfig(cmd.Context())
	if err != nil {
		return err
	}
	rememberDevice(t.Address, "")

	if outputFormat == formatJSON {
		return printJSON(colors)
	}
	fmt.Print(colors.FormatColorConfig())
	return nil
}

func runColorsSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("south") && !flags.Changed("spawn") && !flags.Changed("brightness") {
		return fmt.Errorf("nothing to change: pass --south, --spawn or --brightness")
	}

	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	// Unchanged values are sent as they are on the device
	colors, err := client.LoadColorConfig(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read current colors: %w", err)
	}
	current := &deviceconfig.ConfigUpdate{Colors: &colors}

	builder := deviceconfig.NewConfigBuilder(current)
	if flags.Changed("south") {
		builder.SetSouthColor(southColor)
	}
	if flags.Changed("spawn") {
		builder.SetSpawnColor(spawnColor)
	}
	if flags.Changed("brightness") {
		builder.SetBrightness(brightness)
	}

	update, err := buildUpdate(builder)
	if err != nil {
		return err
	}
	return applyUpdate(cmd, args, t, client, current, update, "Update Pointer Colors")
}

func runWiFiGet(cmd *cobra.Command, args []string) error {
	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	wifi, err := client.GetWiFi(cmd.Context())
	if err != nil {
		return err
	}
	rememberDevice(t.Address, "")

	if outputFormat == formatJSON {
		if !showPassword {
			wifi = maskedWiFi(wifi)
		}
		return printJSON(wifi)
	}

	fmt.Print(wifi.FormatWiFiConfig())
	if showPassword && wifi.Password != "" {
		fmt.Printf("Password (clear): %s\n", wifi.Password)
	}
	return nil
}

func runWiFiSet(cmd *cobra.Command, args []string) error {
	ssid := args[0]
	password := ""
	if len(args) > 1 {
		password = args[1]
	}

	builder := deviceconfig.NewConfigBuilder(nil).SetWiFi(ssid, password)
	update, err := buildUpdate(builder)
	if err != nil {
		return err
	}

	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	current := &deviceconfig.ConfigUpdate{}
	if wifi, err := client.GetWiFi(cmd.Context()); err == nil {
		current.WiFi = &wifi
	}

	if err := confirm(ui.WiFiChangeConfirmation(ssid)); err != nil {
		return err
	}

	// Hide the password from the runner header
	shown := []string{ssid}
	if password != "" {
		shown = append(shown, deviceconfig.MaskPassword(password))
	}
	return applyUpdate(cmd, shown, t, client, current, update, "Update WiFi Network")
}

func runSpawnGet(cmd *cobra.Command, args []string) error {
	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	var spawn *deviceconfig.SpawnConfig
	sc, err := client.GetSpawn(cmd.Context())
	switch {
	case errors.Is(err, deviceconfig.ErrSpawnNotSet):
	case err != nil:
		return err
	default:
		spawn = &sc
	}
	rememberDevice(t.Address, "")

	if outputFormat == formatJSON {
		return printJSON(spawn)
	}
	fmt.Print(deviceconfig.FormatSpawnConfig(spawn))
	return nil
}

func runSpawnSet(cmd *cobra.Command, args []string) error {
	// Coordinates are checked before any request is made
	builder := deviceconfig.NewConfigBuilder(nil).SetSpawnText(args[0], args[1])
	update, err := buildUpdate(builder)
	if err != nil {
		return err
	}

	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	current := &deviceconfig.ConfigUpdate{}
	if sc, err := client.GetSpawn(cmd.Context()); err == nil {
		current.Spawn = &sc
	}

	return applyUpdate(cmd, args, t, client, current, update, "Update Spawn Point")
}

func runAdvancedGet(cmd *cobra.Command, args []string) error {
	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	advanced, err := client.GetAdvanced(cmd.Context())
	if err != nil {
		return err
	}
	rememberDevice(t.Address, "")

	if outputFormat == formatJSON {
		return printJSON(advanced)
	}
	fmt.Print(advanced.FormatAdvancedConfig())
	return nil
}

func runAdvancedSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("server-mode") && !flags.Changed("model") {
		return fmt.Errorf("nothing to change: pass --server-mode or --model")
	}

	var (
		enable bool
		model  deviceconfig.DeviceModel
		err    error
	)
	if flags.Changed("server-mode") {
		if enable, err = parseOnOff(serverMode); err != nil {
			return fmt.Errorf("invalid --server-mode: %w", err)
		}
	}
	if flags.Changed("model") {
		if model, err = deviceconfig.ParseDeviceModel(deviceModel); err != nil {
			return err
		}
	}

	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	// Both values travel in one POST, so the other one comes from the device
	advanced, err := client.GetAdvanced(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read current experimental settings: %w", err)
	}
	current := &deviceconfig.ConfigUpdate{Advanced: &advanced}

	builder := deviceconfig.NewConfigBuilder(current)
	if flags.Changed("server-mode") {
		builder.SetServerMode(enable)
	}
	if flags.Changed("model") {
		builder.SetModel(model)
	}
	update, err := buildUpdate(builder)
	if err != nil {
		return err
	}

	if warning := deviceconfig.PromptBeforeDestructive(current, update); warning != "" {
		fmt.Println(warning)
	}
	if err := confirm(ui.ServerModeConfirmation()); err != nil {
		return err
	}

	return applyUpdate(cmd, args, t, client, current, update, "Update Experimental Features")
}
