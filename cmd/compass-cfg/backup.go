package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
	"github.com/mcompass/compass-cfg/internal/ui"
)

// Backup flags
var (
	backupOut         string
	backupIncludeWiFi bool
	backupDescription string
)

func init() {
	backupCmd.Flags().StringVarP(&backupOut, "out", "o", "", "Snapshot file to write (default compass-<timestamp>.yaml)")
	backupCmd.Flags().BoolVar(&backupIncludeWiFi, "include-wifi", false, "Include WiFi credentials (stored in clear text)")
	backupCmd.Flags().StringVar(&backupDescription, "description", "", "Free-form note stored in the snapshot")
	rootCmd.AddCommand(backupCmd)

	restoreCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the restored settings after the result")
	rootCmd.AddCommand(restoreCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Save the compass settings to a snapshot file",
	Long: `Read every writable setting from the compass and save it as a YAML
snapshot that 'compass-cfg restore' can write back.

WiFi credentials are only included with --include-wifi, since the file
stores them in clear text. Snapshot files are readable only by you.`,
	Example: `  compass-cfg backup --out workshop.yaml
  compass-cfg backup --out full.yaml --include-wifi --description "before firmware update"`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Write a snapshot file back to the compass",
	Long: `Apply every section stored in a snapshot file and verify the compass
accepted it. You will be asked to confirm unless --yes is given.`,
	Example: `  compass-cfg restore workshop.yaml
  compass-cfg restore full.yaml --device 192.168.4.1 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func runBackup(cmd *cobra.Command, args []string) error {
	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	path := backupOut
	if path == "" {
		path = fmt.Sprintf("compass-%s.yaml", time.Now().Format("20060102-150405"))
	}

	snapshot, err := client.CaptureSnapshot(cmd.Context(), t.Address, backupDescription, backupIncludeWiFi)
	if err != nil {
		return err
	}
	if err := deviceconfig.WriteSnapshotFile(path, snapshot); err != nil {
		return err
	}
	rememberDevice(t.Address, snapshot.Firmware)

	printer := ui.NewPrinter(nil)
	printer.PrintSuccess("Snapshot saved", map[string]string{
		"File":     path,
		"Device":   t.Address,
		"Sections": sectionList(&snapshot.Settings),
	})
	if backupIncludeWiFi {
		printer.PrintWarning("The snapshot contains the WiFi password in clear text", map[string]string{
			"File": path,
		})
	}
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	path := args[0]

	snapshot, err := deviceconfig.ReadSnapshotFile(path)
	if err != nil {
		return err
	}
	names := sections(&snapshot.Settings)
	if len(names) == 0 {
		return fmt.Errorf("snapshot %s contains no settings", path)
	}

	t, client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	if err := confirm(ui.RestoreConfirmation(t.Address, names)); err != nil {
		return err
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Restore Snapshot",
		Command: commandLine(cmd, args),
		Params: map[string]string{
			"Device":   t.Address,
			"Snapshot": snapshot.Timestamp.Local().Format(time.RFC822),
		},
		StepNames: []string{"Check snapshot", "Apply settings", "Verify settings"},
		Verbose:   verbose,
		Hints:     deviceHints,
	})
	runner.SetDetail(snapshot.Settings.FormatChanges())

	_, err = runner.Run(cmd.Context(), func(ctx context.Context, onStep ui.StepCallback) (map[string]string, error) {
		onStep(1, "", ui.StepRunning, "")
		if err := snapshot.Check(); err != nil {
			onStep(1, "", ui.StepFailed, "")
			return nil, err
		}
		onStep(1, "", ui.StepComplete, sectionList(&snapshot.Settings))

		onStep(2, "", ui.StepRunning, "")
		if err := client.ApplyUpdate(ctx, &snapshot.Settings); err != nil {
			onStep(2, "", ui.StepFailed, "")
			return nil, fmt.Errorf("update failed: %w", err)
		}
		onStep(2, "", ui.StepComplete, "")

		onStep(3, "", ui.StepRunning, "")
		result := client.VerifyConfigurationWithRetry(ctx, &snapshot.Settings, deviceconfig.DefaultVerificationOptions())
		if !result.Success {
			onStep(3, "", ui.StepFailed, fmt.Sprintf("%d mismatch(es)", len(result.Mismatches)))
			return nil, result.Error
		}
		onStep(3, "", ui.StepComplete, fmt.Sprintf("%d attempt(s)", result.Attempts))
		return map[string]string{
			"Sections": sectionList(&snapshot.Settings),
			"Attempts": strconv.Itoa(result.Attempts),
		}, nil
	})
	if err != nil {
		return err
	}

	rememberDevice(t.Address, "")
	return nil
}

// sections names the parts of a snapshot that are present.
func sections(cu *deviceconfig.ConfigUpdate) []string {
	var names []string
	if cu.Colors != nil {
		names = append(names, "colors")
	}
	if cu.Spawn != nil {
		names = append(names, "spawn")
	}
	if cu.Advanced != nil {
		names = append(names, "advanced")
	}
	if cu.WiFi != nil {
		names = append(names, "wifi")
	}
	return names
}

func sectionList(cu *deviceconfig.ConfigUpdate) string {
	names := sections(cu)
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
