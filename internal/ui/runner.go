package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// maxDetailLines caps the detail box; a full snapshot diff can be long.
const maxDetailLines = 40

// RunnerConfig holds configuration for a multi-step command
type RunnerConfig struct {
	Title     string            // Command title (e.g., "Restore Snapshot")
	Command   string            // Full command (e.g., "compass-cfg restore backup.yaml")
	Params    map[string]string // Parameters to display in header
	StepNames []string          // Names for each step; sets the step count
	Verbose   bool              // Whether to show the detail box after the result
	Output    io.Writer         // Output writer (default: os.Stdout)

	// Hints returns troubleshooting tips for a failure. Optional.
	Hints func(error) []string
}

// Runner orchestrates the output of a multi-step device command.
// It manages the header, step lines and result box, and provides
// a callback for reporting progress.
type Runner struct {
	config    RunnerConfig
	header    *Header
	progress  *Progress
	output    io.Writer
	detail    string
	startTime time.Time
	width     int
}

// NewRunner creates a new runner for a multi-step command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := GetTerminalWidth()

	header := NewHeader(config.Title, config.Command, config.Params)
	header.SetWidth(width)

	var progress *Progress
	if len(config.StepNames) > 0 {
		progress = NewProgress(len(config.StepNames))
		progress.SetWidth(width)
		progress.SetStepNames(config.StepNames)
	}

	return &Runner{
		config:   config,
		header:   header,
		progress: progress,
		output:   config.Output,
		width:    width,
	}
}

// Operation is the function signature for the work a Runner drives.
// It reports progress through onStep and returns details for the result box.
type Operation func(ctx context.Context, onStep StepCallback) (map[string]string, error)

// Run prints the header, executes op and prints the result box.
func (r *Runner) Run(ctx context.Context, op Operation) (map[string]string, error) {
	r.startTime = time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := op(ctx, r.stepCallback())
	duration := time.Since(r.startTime)

	if err != nil {
		r.printFailure(err)
	} else {
		r.printSuccess(details, duration)
	}

	return details, err
}

// SetDetail stores text for the detail box shown in verbose mode
// and after failures.
func (r *Runner) SetDetail(text string) {
	r.detail = text
}

func (r *Runner) stepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}

		if name != "" {
			r.progress.Steps[stepNumber-1].Name = name
		}
		r.progress.UpdateStep(stepNumber, status, message)

		step := r.progress.Steps[stepNumber-1]
		switch status {
		case StepComplete, StepFailed, StepSkipped:
			_, _ = fmt.Fprintln(r.output, r.progress.renderStepLine(step))
			if r.progress.Total > 1 && status != StepFailed {
				_, _ = fmt.Fprintln(r.output, r.progress.renderBar())
			}
		case StepRunning:
			// Overwritten when the step finishes
			_, _ = fmt.Fprint(r.output, r.progress.renderStepLine(step)+"\r")
		}
	}
}

func (r *Runner) printSuccess(details map[string]string, duration time.Duration) {
	_, _ = fmt.Fprintln(r.output)

	if details == nil {
		details = make(map[string]string)
	}
	details["Duration"] = duration.Round(time.Millisecond).String()

	result := NewSuccessResult(r.config.Title+" complete", details)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())

	if r.config.Verbose {
		r.printDetail()
	}
}

func (r *Runner) printFailure(err error) {
	_, _ = fmt.Fprintln(r.output)

	var tips []string
	if r.config.Hints != nil {
		tips = r.config.Hints(err)
	}

	result := NewFailureResult(r.config.Title+" failed", err, tips)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())

	r.printDetail()
}

func (r *Runner) printDetail() {
	if r.detail == "" {
		return
	}
	_, _ = fmt.Fprintln(r.output)
	box := NewTextBox("Details", r.detail)
	box.SetWidth(r.width).SetMaxLines(maxDetailLines)
	_, _ = fmt.Fprintln(r.output, box.Render())
}
