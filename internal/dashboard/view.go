package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
	"github.com/mcompass/compass-cfg/internal/panel"
)

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.Advanced.Open {
		return RenderModal(m.renderDialog(), m.Width, m.Height)
	}

	var b strings.Builder
	b.WriteString(RenderTabs(tabNames, int(m.active)))
	b.WriteString("\n\n")

	switch m.active {
	case TabColors:
		b.WriteString(m.renderColors())
	case TabWiFi:
		b.WriteString(m.renderWiFi())
	case TabSpawn:
		b.WriteString(m.renderSpawn())
	case TabInfo:
		b.WriteString(m.renderInfo())
	}

	var helpText string
	if m.editingText() {
		helpText = m.help.View(textKeyMap{m.keys})
	} else {
		helpText = m.help.View(m.keys)
	}

	return RenderApplicationContainer(m.Address, b.String(), helpText, m.Width, m.Height)
}

// renderStatus shows a spinner while the panel has a request in flight.
func (m Model) renderStatus(s panel.Status) string {
	switch {
	case s.Loading:
		return m.spinner.View() + " Loading..."
	case s.Saving:
		return m.spinner.View() + " Saving..."
	}
	return ""
}

func colorValue(hex string) string {
	return RenderSwatch(hex) + " " + deviceconfig.FormatColor(hex)
}

func (m Model) renderColors() string {
	f := m.Colors
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Pointer Colors"))
	b.WriteString("\n")
	b.WriteString(RenderField("South pointer", colorValue(f.SouthColor), f.Focus == panel.FieldSouthColor))
	b.WriteString("\n")
	b.WriteString(RenderField("Spawn pointer", colorValue(f.SpawnColor), f.Focus == panel.FieldSpawnColor))
	b.WriteString("\n")
	b.WriteString(RenderField("Brightness", fmt.Sprintf("%s %3d%%", RenderBrightnessBar(f.Brightness), f.Brightness), f.Focus == panel.FieldBrightness))
	b.WriteString("\n\n")

	b.WriteString(RenderButton("Save", !f.Loading))
	if status := m.renderStatus(f.Status); status != "" {
		b.WriteString("  " + status)
	}
	return b.String()
}

func (m Model) renderWiFi() string {
	f := m.WiFi
	var b strings.Builder

	b.WriteString(TitleStyle.Render("WiFi Network"))
	b.WriteString("\n")
	b.WriteString(RenderField("SSID", m.ssidInput.View(), f.Focus == panel.FieldSSID))
	b.WriteString("\n")
	b.WriteString(RenderField("Password", m.passwordInput.View(), f.Focus == panel.FieldPassword))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("The compass reconnects after saving; this dashboard may lose it."))
	b.WriteString("\n\n")

	b.WriteString(RenderButton("Save", !f.Loading))
	if status := m.renderStatus(f.Status); status != "" {
		b.WriteString("  " + status)
	}
	return b.String()
}

func (m Model) renderSpawn() string {
	f := m.Spawn
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Spawn Point"))
	b.WriteString("\n")
	b.WriteString(RenderField("Latitude", m.latInput.View(), f.Focus == panel.FieldLatitude))
	b.WriteString("\n")
	b.WriteString(RenderField("Longitude", m.lonInput.View(), f.Focus == panel.FieldLongitude))
	b.WriteString("\n\n")

	b.WriteString(RenderButton("Save", f.CanSave() && !f.Loading))
	if status := m.renderStatus(f.Status); status != "" {
		b.WriteString("  " + status)
	}
	if f.ShowingError() {
		b.WriteString("\n")
		b.WriteString(ErrorPopoverStyle.Render("✗ " + f.Error))
	}
	return b.String()
}

func (m Model) renderInfo() string {
	f := m.Info
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Device Information"))
	b.WriteString("\n")
	for _, row := range f.Rows() {
		b.WriteString(RenderField(row.Label, row.Value, false))
		b.WriteString("\n")
	}
	if status := m.renderStatus(f.Status); status != "" {
		b.WriteString("\n" + status)
	}
	return b.String()
}

func (m Model) renderDialog() string {
	f := m.Advanced
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("⚠ Experimental Features"))
	b.WriteString("\n\n")
	b.WriteString(RenderField("Server mode", toggleLabel(f.ServerMode), f.Focus == panel.FieldServerMode))
	b.WriteString("\n")
	b.WriteString(RenderField("Device model", modelChoice(f.Model), f.Focus == panel.FieldModel))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("Server mode exposes configuration over Bluetooth."))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.dialogKeys))

	return ModalStyle.
		Width(SafeModalWidth(ModalWidth, m.Width)).
		Render(b.String())
}

func toggleLabel(on bool) string {
	if on {
		return lipgloss.NewStyle().Foreground(SecondaryColor).Render("[x] ON")
	}
	return "[ ] OFF"
}

func modelChoice(model deviceconfig.DeviceModel) string {
	lite, gps := "( ) lite", "( ) gps"
	if model == deviceconfig.ModelLite {
		lite = "(•) lite"
	} else {
		gps = "(•) gps"
	}
	return lite + "  " + gps
}
