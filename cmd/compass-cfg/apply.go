package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
	"github.com/mcompass/compass-cfg/internal/ui"
)

// Set-command flags shared by colors, wifi, spawn and advanced
var (
	verifyUpdate bool
	verbose      bool
)

func addApplyFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&verifyUpdate, "verify", false, "Read the settings back and roll back if they did not stick")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the applied changes after the result")
}

// applyUpdate writes update to the device through a step runner. With
// --verify the affected sections are snapshotted first and restored if the
// read-back does not match.
func applyUpdate(cmd *cobra.Command, args []string, t *target, client *deviceconfig.Client, current, update *deviceconfig.ConfigUpdate, title string) error {
	if update.IsEmpty() {
		return fmt.Errorf("nothing to change: pass at least one setting flag")
	}

	steps := []string{"Apply settings"}
	if verifyUpdate {
		steps = []string{"Apply, verify and roll back on mismatch"}
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:     title,
		Command:   commandLine(cmd, args),
		Params:    map[string]string{"Device": t.Address},
		StepNames: steps,
		Verbose:   verbose,
		Hints:     deviceHints,
	})
	runner.SetDetail(deviceconfig.FormatDiff(current, update))

	_, err := runner.Run(cmd.Context(), func(ctx context.Context, onStep ui.StepCallback) (map[string]string, error) {
		if verifyUpdate {
			return safeApply(ctx, client, update, title, onStep)
		}

		onStep(1, "", ui.StepRunning, "")
		if err := client.ApplyUpdate(ctx, update); err != nil {
			onStep(1, "", ui.StepFailed, deviceconfig.GetShortErrorMessage(err))
			return nil, err
		}
		onStep(1, "", ui.StepComplete, "")
		return map[string]string{"Verified": "no (use --verify)"}, nil
	})
	if err != nil {
		return err
	}

	rememberDevice(t.Address, "")
	return nil
}

func safeApply(ctx context.Context, client *deviceconfig.Client, update *deviceconfig.ConfigUpdate, title string, onStep ui.StepCallback) (map[string]string, error) {
	onStep(1, "", ui.StepRunning, "")
	result := deviceconfig.NewRollbackManager(client).SafeUpdate(ctx, update, deviceconfig.DefaultVerificationOptions(), title)
	if !result.Success {
		message := "rollback failed"
		if result.RollbackSucceeded {
			message = "rolled back"
		}
		onStep(1, "", ui.StepFailed, message)
		return nil, result.Error
	}
	onStep(1, "", ui.StepComplete, fmt.Sprintf("%d read-back(s)", result.UpdateResult.Attempts))

	return map[string]string{
		"Verified": "yes",
		"Attempts": strconv.Itoa(result.UpdateResult.Attempts),
	}, nil
}

// buildUpdate finishes a builder, printing non-fatal warnings.
func buildUpdate(b *deviceconfig.ConfigBuilder) (*deviceconfig.ConfigUpdate, error) {
	update, err := b.Build()
	if err != nil {
		return nil, err
	}
	for _, warning := range b.Warnings() {
		fmt.Printf("%s %v\n", ui.WarningMarker, warning)
	}
	return update, nil
}
