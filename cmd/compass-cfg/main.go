// Compass-cfg is a configuration utility for compass devices.
//
// It provides an interactive dashboard with one panel per settings domain
// (colors, WiFi, spawn point, device info, experimental features), device
// discovery, and direct commands for reading and writing each domain.
// This tool talks to the compass over its local HTTP API.
//
// Usage:
//
//	compass-cfg [command] [flags]
//
// Running without arguments launches the dashboard.
// See 'compass-cfg --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcompass/compass-cfg/internal/config"
	"github.com/mcompass/compass-cfg/internal/dashboard"
	"github.com/mcompass/compass-cfg/internal/logging"
	"github.com/mcompass/compass-cfg/internal/store"
	"github.com/mcompass/compass-cfg/internal/version"
)

// dashboardLogFile is where the dashboard logs when --log-level is set
// without --log-file, so log lines never draw over the alternate screen.
const dashboardLogFile = "compass-cfg.log"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		// Confirm has already told the user
		if !errors.Is(err, errCancelled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "compass-cfg",
	Short: "Compass Device Configuration Utility",
	Long: `A standalone utility for configuring compass devices.

Provides an interactive dashboard, device discovery, and direct commands
for the pointer colors, WiFi credentials, spawn point and experimental
features of a compass on the local network.

If no command is specified, the dashboard will launch automatically.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runDashboard,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("compass-cfg %s\n", version.Full())
	},
}

// setupLogging checks --format and initializes zap from --log-level /
// --log-file, falling back to COMPASS_LOG_LEVEL. Logging is silent when
// neither is set.
func setupLogging(cmd *cobra.Command, args []string) error {
	if err := validateFormat(); err != nil {
		return err
	}

	if err := logging.Initialize(logLevel, logOutput(cmd)); err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}
	logging.Debug("Starting", zap.String("command", cmd.CommandPath()), zap.String("version", version.Version))
	return nil
}

// logOutput picks the log destination. --log-file wins; otherwise the
// dashboard (the root command itself) logs to a file under the config
// directory, and subcommands log to stdout.
func logOutput(cmd *cobra.Command) string {
	if logFile != "" {
		return logFile
	}
	if cmd.Parent() != nil || (logLevel == "" && os.Getenv(logging.LogLevelEnvVar) == "") {
		return ""
	}
	dir, err := config.GetConfigDir()
	if err != nil || os.MkdirAll(dir, 0700) != nil {
		return ""
	}
	return filepath.Join(dir, dashboardLogFile)
}

// runDashboard launches the interactive dashboard for the resolved device
func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	target, err := resolveDashboardDevice(ctx)
	if err != nil {
		return err
	}

	client, err := newClient(target.Address)
	if err != nil {
		return err
	}

	s := store.New(client)
	model := dashboard.New(ctx, target.Address, s)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard error: %w", err)
	}

	// Remember the device when the dashboard managed to read it
	if info, ok := s.Info.Peek(); ok {
		rememberDevice(target.Address, info.BuildVersion)
	} else if _, ok := s.Colors.Peek(); ok {
		rememberDevice(target.Address, "")
	}
	return nil
}
