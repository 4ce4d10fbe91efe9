package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TextBox displays preformatted text, such as a device report or a list
// of verification mismatches, inside a muted border.
type TextBox struct {
	Title    string   // e.g., "Device Report"
	Lines    []string // Content lines
	Width    int      // Terminal width
	MaxLines int      // Maximum lines to display (0 = unlimited)
}

// NewTextBox creates a new text box
func NewTextBox(title, content string) *TextBox {
	return &TextBox{
		Title: title,
		Lines: strings.Split(strings.TrimRight(content, "\n"), "\n"),
		Width: GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (t *TextBox) SetWidth(width int) *TextBox {
	t.Width = width
	return t
}

// SetMaxLines limits the number of lines displayed
func (t *TextBox) SetMaxLines(max int) *TextBox {
	t.MaxLines = max
	return t
}

// Render returns the styled box as a string
func (t *TextBox) Render() string {
	width := t.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := t.Lines
	if t.MaxLines > 0 && len(lines) > t.MaxLines {
		lines = append(lines[:t.MaxLines:t.MaxLines], "... (output truncated)")
	}

	inner := lipgloss.JoinVertical(lipgloss.Left,
		BoxTitleStyle.Render(t.Title),
		"",
		BoxContentStyle.Render(strings.Join(lines, "\n")),
	)

	boxWidth := width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(boxWidth).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}
