package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirmation describes a prompt shown before an operation that can cut the
// compass off the network or overwrite its settings.
type Confirmation struct {
	Title      string   // e.g., "WIFI CHANGE"
	Warnings   []string // Bullet points
	Disclaimer string   // Optional muted paragraph
	Phrase     string   // What the user must type to proceed
}

// Confirm renders c to out and reads one line from in. It returns true only
// when the line matches c.Phrase, ignoring case and surrounding space.
func Confirm(in io.Reader, out io.Writer, c Confirmation) bool {
	width := GetTerminalWidth()

	lines := []string{
		"",
		lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true).
			Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, c.Title)),
		"",
	}

	bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
	for _, warning := range c.Warnings {
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	if c.Disclaimer != "" {
		disclaimerStyle := lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			Width(width - 12).
			PaddingLeft(3)
		lines = append(lines, disclaimerStyle.Render(c.Disclaimer), "")
	}

	// Double border in orange/warning color
	box := boxStyle(WarningColor, width).Render(strings.Join(lines, "\n"))
	_, _ = fmt.Fprintln(out, box)
	_, _ = fmt.Fprintln(out)

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", c.Phrase)))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}

	if strings.EqualFold(strings.TrimSpace(input), c.Phrase) {
		return true
	}

	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	_, _ = fmt.Fprintln(out, cancelStyle.Render("  Operation cancelled."))
	_, _ = fmt.Fprintln(out)
	return false
}

// WiFiChangeConfirmation is shown before new WiFi credentials are sent.
func WiFiChangeConfirmation(ssid string) Confirmation {
	return Confirmation{
		Title: "WIFI CHANGE",
		Warnings: []string{
			fmt.Sprintf("The compass will try to join %q", ssid),
			"It leaves the current network as soon as it accepts the change",
			"If the credentials are wrong it will not come back on this network",
		},
		Disclaimer: "Make sure the SSID and password are correct. Recovering a compass " +
			"that cannot join its network requires connecting to its own hotspot.",
		Phrase: "yes",
	}
}

// ServerModeConfirmation is shown before experimental settings are changed.
func ServerModeConfirmation() Confirmation {
	return Confirmation{
		Title: "EXPERIMENTAL FEATURES",
		Warnings: []string{
			"Server mode and device model are experimental settings",
			"A wrong device model disables GPS-based pointing",
		},
		Phrase: "yes",
	}
}

// RestoreConfirmation is shown before a snapshot overwrites the device.
func RestoreConfirmation(device string, sections []string) Confirmation {
	return Confirmation{
		Title: "RESTORE SNAPSHOT",
		Warnings: []string{
			"Current settings on " + device + " will be overwritten",
			"Sections: " + strings.Join(sections, ", "),
		},
		Phrase: "yes",
	}
}
