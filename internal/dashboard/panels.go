package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcompass/compass-cfg/internal/panel"
)

// updateColors handles keys on the Colors panel. Saving sends the pointer
// colors and the brightness as two separate requests.
func (m Model) updateColors(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.Colors = m.Colors.FocusPrev()
	case key.Matches(msg, m.keys.Down):
		m.Colors = m.Colors.FocusNext()
	case key.Matches(msg, m.keys.Left):
		m.Colors = m.Colors.Adjust(-1)
	case key.Matches(msg, m.keys.Right):
		m.Colors = m.Colors.Adjust(1)
	case key.Matches(msg, m.keys.Save):
		m.Colors = m.Colors.BeginSave()
		return m, save(m.store.Colors, TabColors, m.panel, m.Colors.Config())
	}
	return m, nil
}

func (m Model) updateWiFi(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if msg.Type == tea.KeyRunes {
			break
		}
		m.WiFi = m.WiFi.ToggleFocus()
		return m, m.focusInputs()
	case key.Matches(msg, m.keys.Save):
		m.WiFi = m.WiFi.BeginSave()
		return m, save(m.store.WiFi, TabWiFi, m.panel, m.WiFi.Config())
	}

	var cmd tea.Cmd
	if m.WiFi.Focus == panel.FieldSSID {
		m.ssidInput, cmd = m.ssidInput.Update(msg)
		m.WiFi = m.WiFi.SetSSID(m.ssidInput.Value())
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
		m.WiFi = m.WiFi.SetPassword(m.passwordInput.Value())
	}
	return m, cmd
}

// updateSpawn handles keys on the Spawn panel. A save with an invalid
// coordinate shows the error for errorDelay and sends nothing.
func (m Model) updateSpawn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if msg.Type == tea.KeyRunes {
			break
		}
		m.Spawn = m.Spawn.ToggleFocus()
		return m, m.focusInputs()
	case key.Matches(msg, m.keys.Save):
		if !m.Spawn.CanSave() {
			return m, nil
		}
		form, cfg, ok := m.Spawn.Submit()
		m.Spawn = form
		if !ok {
			return m, spawnErrorExpiry(form.ErrorSeq, m.errorDelay)
		}
		m.Spawn = m.Spawn.BeginSave()
		return m, save(m.store.Spawn, TabSpawn, m.panel, cfg)
	}

	var cmd tea.Cmd
	if m.Spawn.Focus == panel.FieldLatitude {
		m.latInput, cmd = m.latInput.Update(msg)
		if v := m.latInput.Value(); v != m.Spawn.Latitude {
			m.Spawn = m.Spawn.SetLatitude(v)
		}
	} else {
		m.lonInput, cmd = m.lonInput.Update(msg)
		if v := m.lonInput.Value(); v != m.Spawn.Longitude {
			m.Spawn = m.Spawn.SetLongitude(v)
		}
	}
	return m, cmd
}

func spawnErrorExpiry(seq uint64, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return spawnErrorExpiredMsg{seq: seq}
	})
}

// updateDialog handles keys while the experimental features dialog is open.
// Close only hides it; the edits stay in the form unsaved.
func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.dialogKeys.Up), key.Matches(msg, m.dialogKeys.Down):
		m.Advanced = m.Advanced.ToggleFocus()
	case key.Matches(msg, m.dialogKeys.Toggle):
		m.Advanced = m.Advanced.ToggleFocused()
	case key.Matches(msg, m.dialogKeys.Save):
		m.Advanced = m.Advanced.BeginSave()
		return m, save(m.store.Advanced, TabAdvanced, m.shell, m.Advanced.Config())
	case key.Matches(msg, m.dialogKeys.Close):
		m.Advanced = m.Advanced.Close()
	}
	return m, nil
}

// focusInputs focuses the input matching the active panel's form focus.
func (m *Model) focusInputs() tea.Cmd {
	m.blurInputs()
	var target *textinput.Model
	switch m.active {
	case TabWiFi:
		target = &m.ssidInput
		if m.WiFi.Focus == panel.FieldPassword {
			target = &m.passwordInput
		}
	case TabSpawn:
		target = &m.latInput
		if m.Spawn.Focus == panel.FieldLongitude {
			target = &m.lonInput
		}
	default:
		return nil
	}
	return target.Focus()
}

func (m *Model) blurInputs() {
	m.ssidInput.Blur()
	m.passwordInput.Blur()
	m.latInput.Blur()
	m.lonInput.Blur()
}
