package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
	"github.com/mcompass/compass-cfg/internal/logging"
	"github.com/mcompass/compass-cfg/internal/panel"
	"github.com/mcompass/compass-cfg/internal/store"
)

// Tab identifies a dashboard panel.
type Tab int

const (
	TabColors Tab = iota
	TabWiFi
	TabSpawn
	TabInfo

	// TabAdvanced is the experimental features dialog. It is not in the
	// tab bar and its requests live as long as the dashboard.
	TabAdvanced
)

// tabCount is the number of panels in the tab bar.
const tabCount = 4

var tabNames = []string{"Colors", "WiFi", "Spawn", "Info"}

func (t Tab) String() string {
	switch t {
	case TabColors:
		return store.DomainColors
	case TabWiFi:
		return store.DomainWiFi
	case TabSpawn:
		return store.DomainSpawn
	case TabInfo:
		return store.DomainInfo
	case TabAdvanced:
		return store.DomainAdvanced
	}
	return "unknown"
}

// mount is one lifetime of a panel. Requests started under a mount use its
// context and carry its id; cancel ends them when the panel goes away.
type mount struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// Messages for async operations
type loadedMsg[T any] struct {
	tab   Tab
	mount uint64
	value T
	err   error
}

type savedMsg struct {
	tab   Tab
	mount uint64
	err   error
}

type spawnErrorExpiredMsg struct {
	seq uint64
}

// Model is the dashboard: a tab per settings panel plus the experimental
// features dialog, all backed by one store.
type Model struct {
	Address string

	store *store.Store

	// UI state
	Width  int
	Height int

	active Tab

	shell      mount // the dashboard itself; owns the Advanced requests
	panel      mount // the active tab
	lastMount  uint64
	errorDelay time.Duration

	// Panel forms
	Colors   panel.ColorsForm
	WiFi     panel.WiFiForm
	Spawn    panel.SpawnForm
	Info     panel.InfoForm
	Advanced panel.AdvancedForm

	// Widgets
	ssidInput     textinput.Model
	passwordInput textinput.Model
	latInput      textinput.Model
	lonInput      textinput.Model
	spinner       spinner.Model

	// Help
	help       help.Model
	keys       keyMap
	dialogKeys dialogKeyMap

	quitting bool
}

// New creates a dashboard for the device at address. The Colors panel and
// the experimental settings start loading as soon as Init runs. Cancelling
// ctx cancels every request the dashboard has in flight.
func New(ctx context.Context, address string, s *store.Store) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	m := Model{
		Address:       address,
		store:         s,
		active:        TabColors,
		errorDelay:    panel.SpawnErrorDuration,
		Colors:        panel.NewColorsForm(),
		WiFi:          panel.NewWiFiForm(),
		Spawn:         panel.NewSpawnForm(),
		Info:          panel.NewInfoForm(),
		Advanced:      panel.NewAdvancedForm(),
		ssidInput:     newInput("Network name", 32, false),
		passwordInput: newInput("Password (blank for open)", 63, true),
		latInput:      newInput("-90 to 90", 24, false),
		lonInput:      newInput("-180 to 180", 24, false),
		spinner:       sp,
		help:          help.New(),
		keys:          newKeyMap(),
		dialogKeys:    newDialogKeyMap(),
	}

	m.shell = m.newMount(ctx)
	m.panel = m.newMount(m.shell.ctx)
	m.Colors = m.Colors.BeginLoad()
	m.Advanced = m.Advanced.BeginLoad()
	return m
}

func newInput(placeholder string, limit int, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func (m *Model) newMount(parent context.Context) mount {
	m.lastMount++
	ctx, cancel := context.WithCancel(parent)
	return mount{id: m.lastMount, ctx: ctx, cancel: cancel}
}

// Init starts the first panel load and the experimental settings load
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadActive(),
		load(m.store.Advanced, TabAdvanced, m.shell),
	)
}

// ActiveTab returns the panel currently shown.
func (m Model) ActiveTab() Tab {
	return m.active
}

// Quitting reports whether the dashboard has been asked to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

func load[T any](d *store.Domain[T], tab Tab, mt mount) tea.Cmd {
	return func() tea.Msg {
		v, err := d.Load(mt.ctx)
		return loadedMsg[T]{tab: tab, mount: mt.id, value: v, err: err}
	}
}

func save[T any](d *store.Domain[T], tab Tab, mt mount, v T) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{tab: tab, mount: mt.id, err: d.Save(mt.ctx, v)}
	}
}

// loadActive loads the active panel under the current mount.
func (m Model) loadActive() tea.Cmd {
	switch m.active {
	case TabColors:
		return load(m.store.Colors, TabColors, m.panel)
	case TabWiFi:
		return load(m.store.WiFi, TabWiFi, m.panel)
	case TabSpawn:
		return load(m.store.Spawn, TabSpawn, m.panel)
	case TabInfo:
		return load(m.store.Info, TabInfo, m.panel)
	}
	return nil
}

// current reports whether a result belongs to a live mount. Results from a
// panel that has since been unmounted are dropped.
func (m Model) current(tab Tab, mountID uint64) bool {
	if tab == TabAdvanced {
		return mountID == m.shell.id
	}
	return tab == m.active && mountID == m.panel.id
}

// unmount cancels the active panel's requests and clears its busy flags.
func (m *Model) unmount() {
	m.panel.cancel()
	switch m.active {
	case TabColors:
		m.Colors.Status = panel.Status{}
	case TabWiFi:
		m.WiFi.Status = panel.Status{}
	case TabSpawn:
		m.Spawn.Status = panel.Status{}
	case TabInfo:
		m.Info.Status = panel.Status{}
	}
	m.blurInputs()
}

// mountTab makes t the active panel and starts its load.
func (m Model) mountTab(t Tab) (Model, tea.Cmd) {
	m.unmount()
	m.active = t
	m.panel = m.newMount(m.shell.ctx)

	switch t {
	case TabColors:
		m.Colors = m.Colors.BeginLoad()
	case TabWiFi:
		m.WiFi = m.WiFi.BeginLoad()
	case TabSpawn:
		m.Spawn = m.Spawn.BeginLoad()
	case TabInfo:
		m.Info = m.Info.BeginLoad()
	}
	logging.LogPanelEvent(t.String(), "mount", nil)

	return m, tea.Batch(m.focusInputs(), m.loadActive())
}

// refresh drops the active panel's cached value and mounts it again.
func (m Model) refresh() (Model, tea.Cmd) {
	m.store.Invalidate(m.active.String())
	return m.mountTab(m.active)
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	m.panel.cancel()
	m.shell.cancel()
	return m, tea.Quit
}

// logFailure records a failed request. Panels do not surface device errors.
func logFailure(tab Tab, event string, err error) {
	if err != nil {
		logging.LogPanelEvent(tab.String(), event, err)
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg[deviceconfig.PointerColorConfig]:
		if !m.current(msg.tab, msg.mount) {
			return m, nil
		}
		logFailure(msg.tab, "load", msg.err)
		m.Colors = m.Colors.Loaded(msg.value, msg.err)
		return m, nil

	case loadedMsg[deviceconfig.WiFiConfig]:
		if !m.current(msg.tab, msg.mount) {
			return m, nil
		}
		logFailure(msg.tab, "load", msg.err)
		m.WiFi = m.WiFi.Loaded(msg.value, msg.err)
		m.ssidInput.SetValue(m.WiFi.SSID)
		m.passwordInput.SetValue(m.WiFi.Password)
		return m, nil

	case loadedMsg[deviceconfig.SpawnConfig]:
		if !m.current(msg.tab, msg.mount) {
			return m, nil
		}
		if !errors.Is(msg.err, deviceconfig.ErrSpawnNotSet) {
			logFailure(msg.tab, "load", msg.err)
		}
		m.Spawn = m.Spawn.Loaded(msg.value, msg.err)
		m.latInput.SetValue(m.Spawn.Latitude)
		m.lonInput.SetValue(m.Spawn.Longitude)
		return m, nil

	case loadedMsg[deviceconfig.DeviceInfo]:
		if !m.current(msg.tab, msg.mount) {
			return m, nil
		}
		logFailure(msg.tab, "load", msg.err)
		m.Info = m.Info.Loaded(msg.value, msg.err)
		return m, nil

	case loadedMsg[deviceconfig.AdvancedConfig]:
		if !m.current(msg.tab, msg.mount) {
			return m, nil
		}
		logFailure(msg.tab, "load", msg.err)
		m.Advanced = m.Advanced.Loaded(msg.value, msg.err)
		return m, nil

	case savedMsg:
		if !m.current(msg.tab, msg.mount) {
			return m, nil
		}
		logFailure(msg.tab, "save", msg.err)
		switch msg.tab {
		case TabColors:
			m.Colors = m.Colors.Saved(msg.err)
		case TabWiFi:
			m.WiFi = m.WiFi.Saved(msg.err)
		case TabSpawn:
			m.Spawn = m.Spawn.Saved(msg.err)
		case TabAdvanced:
			m.Advanced = m.Advanced.Saved(msg.err)
		}
		return m, nil

	case spawnErrorExpiredMsg:
		m.Spawn = m.Spawn.ExpireError(msg.seq)
		return m, nil
	}

	return m, nil
}

// editingText reports whether the active panel routes letters to a text input.
func (m Model) editingText() bool {
	return m.active == TabWiFi || m.active == TabSpawn
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.Advanced.Open {
		return m.updateDialog(msg)
	}

	// On text panels printable keys belong to the focused input
	shortcuts := !m.editingText() || msg.Type != tea.KeyRunes

	switch {
	case key.Matches(msg, m.keys.NextTab):
		return m.mountTab((m.active + 1) % tabCount)
	case key.Matches(msg, m.keys.PrevTab):
		return m.mountTab((m.active + tabCount - 1) % tabCount)
	case shortcuts && key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case shortcuts && key.Matches(msg, m.keys.Experimental):
		m.Advanced = m.Advanced.OpenDialog()
		return m, nil
	case shortcuts && key.Matches(msg, m.keys.Quit):
		return m.quit()
	}

	switch m.active {
	case TabColors:
		return m.updateColors(msg)
	case TabWiFi:
		return m.updateWiFi(msg)
	case TabSpawn:
		return m.updateSpawn(msg)
	}
	return m, nil
}
