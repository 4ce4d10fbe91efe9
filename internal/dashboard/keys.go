package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines key bindings for the dashboard
type keyMap struct {
	NextTab      key.Binding
	PrevTab      key.Binding
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Save         key.Binding
	Refresh      key.Binding
	Experimental key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Up, k.Left, k.Save, k.Refresh, k.Experimental, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Up, k.Down, k.Left, k.Right},
		{k.Save, k.Refresh, k.Experimental, k.Quit},
	}
}

// textKeyMap is shown on panels with text inputs, where letters are typed
// rather than treated as shortcuts.
type textKeyMap struct {
	keyMap
}

func (k textKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Up, k.Save, k.Refresh, k.Experimental, k.ForceQuit}
}

// dialogKeyMap defines key bindings for the experimental features dialog
type dialogKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Save   key.Binding
	Close  key.Binding
}

func (k dialogKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Toggle, k.Save, k.Close}
}

func (k dialogKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Toggle, k.Save, k.Close}}
}

func newKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓", "field"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/→", "change"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("enter", "save"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "reload"),
		),
		Experimental: key.NewBinding(
			key.WithKeys("x", "ctrl+x"),
			key.WithHelp("x", "experimental"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func newDialogKeyMap() dialogKeyMap {
	return dialogKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓", "field"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "left", "right", "h", "l"),
			key.WithHelp("space", "toggle"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter/s", "save"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "c"),
			key.WithHelp("esc/c", "close"),
		),
	}
}
