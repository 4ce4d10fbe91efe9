// Package ui provides terminal output components for the compass-cfg CLI.
//
// These components use Lipgloss (and the Bubbles progress bar) to render
// styled output for one-shot commands. Unlike the interactive dashboard they
// follow a "run once and exit" pattern: they print and return, without
// waiting for keys.
//
// # Components
//
//   - Header: command banner showing operation name and parameters
//   - Progress: step lines and the overall bar for multi-step commands
//   - Result: success, failure and warning boxes
//   - TextBox: preformatted text such as a device report
//   - Confirm: typed confirmation before WiFi, experimental or restore changes
//
// Multi-step commands (restore, verified saves) are driven by a Runner,
// which prints the header, one line per step (followed by the bar when
// there is more than one step) and the result box:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Restore Snapshot",
//	    Command:   "compass-cfg restore backup.yaml",
//	    Params:    map[string]string{"Device": "192.168.4.1:80"},
//	    StepNames: []string{"Check snapshot", "Apply settings", "Verify settings"},
//	})
//
//	_, err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) (map[string]string, error) {
//	    onStep(1, "", ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, "", ui.StepComplete, "")
//	    return nil, nil
//	})
//
// # Logging Integration
//
// Logging is controlled separately by --log-level or COMPASS_LOG_LEVEL.
// When unset, zap is silent and only this package's output is shown.
package ui
