package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcompass/compass-cfg/internal/config"
	"github.com/mcompass/compass-cfg/internal/logging"
	"github.com/mcompass/compass-cfg/internal/ui"
)

// reachTimeout bounds the reachability check in 'use'.
const reachTimeout = 3 * time.Second

var useNickname string

func init() {
	useCmd.Flags().StringVar(&useNickname, "name", "", "Nickname for the device (usable with --device)")
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(useCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List remembered compass devices",
	Long: `List the devices stored in the configuration file, with their nickname,
firmware version and when they were last reached. The default device is
marked with *.`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

var useCmd = &cobra.Command{
	Use:   "use <host[:port]|nickname>",
	Short: "Set the default device",
	Long: `Make a device the default for every command that talks to a compass,
so --device and discovery are no longer needed.

The device is contacted once to record its firmware version; it is saved
as the default even when it cannot be reached right now.`,
	Example: `  compass-cfg use 192.168.4.1
  compass-cfg use compass-a4c1.local --name Workshop
  compass-cfg use Workshop`,
	Args: cobra.ExactArgs(1),
	RunE: runUse,
}

func runDevices(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	devices := reg.SortedDevices()
	if outputFormat == formatJSON {
		return printJSON(devices)
	}

	if len(devices) == 0 {
		fmt.Println("No devices remembered yet.")
		fmt.Println("Run 'compass-cfg scan' to find a compass, then 'compass-cfg use <address>'.")
		return nil
	}

	var defaultAddr string
	if device := reg.DefaultDevice(); device != nil {
		defaultAddr = device.Address
	}

	for _, device := range devices {
		marker := " "
		if device.Address == defaultAddr {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, device.DisplayName())
		if device.Nickname != "" {
			fmt.Printf("    Address:   %s\n", device.Address)
		}
		if device.Firmware != "" {
			fmt.Printf("    Firmware:  %s\n", device.Firmware)
		}
		if !device.LastSeen.IsZero() {
			fmt.Printf("    Last seen: %s\n", device.LastSeen.Local().Format(time.RFC822))
		}
	}
	return nil
}

func runUse(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	address := normalizeAddress(reg.Resolve(args[0]))
	client, err := newClient(address)
	if err != nil {
		return err
	}

	reg.SetDefaultDevice(address)
	if useNickname != "" {
		if other := reg.FindByNickname(useNickname); other != nil && other.Address != address {
			return fmt.Errorf("nickname %q is already used by %s", useNickname, other.Address)
		}
		reg.SetDeviceNickname(address, useNickname)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), reachTimeout)
	defer cancel()

	details := map[string]string{"Address": address}
	info, reachErr := client.GetInfo(ctx)
	if reachErr == nil {
		reg.UpdateDeviceLastSeen(address, info.BuildVersion)
		details["Firmware"] = info.BuildVersion
	} else {
		logging.Debug("Default device not reachable", zap.String("address", address), zap.Error(reachErr))
	}
	if useNickname != "" {
		details["Nickname"] = useNickname
	}

	if err := reg.Save(); err != nil {
		return err
	}

	printer := ui.NewPrinter(nil)
	if reachErr != nil {
		details["Status"] = "not reachable right now"
		printer.PrintWarning("Default device saved", details)
		return nil
	}
	printer.PrintSuccess("Default device saved", details)
	return nil
}
