package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mcompass/compass-cfg/internal/version"
)

// Application branding constants
const (
	AppName   = "COMPASS CONFIGURATION"
	GitHubURL = "github.com/mcompass/compass-cfg"
)

// Layout constants
const (
	DefaultWidth  = 80 // Used until the first tea.WindowSizeMsg arrives
	DefaultHeight = 24
	ModalWidth    = 52
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF")
	SubtleColor = lipgloss.Color("#626262")
	BorderColor = lipgloss.Color("#7D56F4")
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Tab bar
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Bold(true).
			Padding(0, 2)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Padding(0, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(16)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Inline validation popover (spawn panel)
	ErrorPopoverStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ErrorColor).
				Padding(0, 1)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SecondaryColor).
			Padding(0, 2)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(WarningColor).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

// AppVersion returns the application version from the version package
func AppVersion() string {
	return version.Version
}

// BuildHeaderContent creates header content with app name, device and URL
func BuildHeaderContent(address string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	middle := lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Render("@ " + address)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", middle, "  ", right)
}

// RenderApplicationContainer wraps a screen with the header, a footer for
// help text and an outer border that fills the terminal.
func RenderApplicationContainer(address, content, footerText string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= 0 {
		terminalWidth = DefaultWidth
	}
	if terminalHeight <= 0 {
		terminalHeight = DefaultHeight
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth-4).
		Padding(1, 2)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent(address)),
		contentStyle.Render(content),
		footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// RenderModal centers modal content over a dimmed background.
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= 0 {
		terminalWidth = DefaultWidth
	}
	if terminalHeight <= 0 {
		terminalHeight = DefaultHeight
	}
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// SafeModalWidth keeps a modal inside the terminal.
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}

// RenderTabs draws the tab bar with the active tab highlighted.
func RenderTabs(names []string, active int) string {
	tabs := make([]string, len(names))
	for i, name := range names {
		if i == active {
			tabs[i] = ActiveTabStyle.Render(name)
		} else {
			tabs[i] = InactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// RenderSwatch draws a small block in the given hex color.
func RenderSwatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██")
}

// RenderBrightnessBar draws a 20-cell gauge for a 1-100 value.
func RenderBrightnessBar(v int) string {
	filled := v / 5
	if filled < 1 {
		filled = 1
	}
	if filled > 20 {
		filled = 20
	}
	return lipgloss.NewStyle().Foreground(WarningColor).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(SubtleColor).Render(strings.Repeat("░", 20-filled))
}

// RenderButton draws a button, greyed out when disabled.
func RenderButton(label string, enabled bool) string {
	if enabled {
		return ButtonStyle.Render(label)
	}
	return DisabledButtonStyle.Render(label)
}

// RenderField renders one "label  value" row.
func RenderField(label, value string, focused bool) string {
	if focused {
		return FocusedLabelStyle.Render("→ "+label) + ValueStyle.Render(value)
	}
	return LabelStyle.Render("  "+label) + ValueStyle.Render(value)
}
