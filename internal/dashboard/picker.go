package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
	"github.com/mcompass/compass-cfg/internal/discovery"
	"github.com/mcompass/compass-cfg/internal/logging"
)

// ScanFunc looks for compass devices on the local network.
type ScanFunc func(ctx context.Context) ([]*discovery.Device, error)

// pickerScanMsg carries the result of one scan. seq drops results from a
// scan that was superseded by a rescan.
type pickerScanMsg struct {
	seq     uint64
	devices []*discovery.Device
	err     error
}

// pickerKeyMap defines key bindings for the device list
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Rescan, k.Manual, k.Quit}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualKeyMap defines key bindings for typing an address
type manualKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func (k manualKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k manualKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// deviceItem wraps a Device for use with bubbles/list
type deviceItem struct {
	device *discovery.Device
}

func (d deviceItem) FilterValue() string {
	return d.device.ID + " " + d.device.IP + " " + d.device.Hostname
}

func (d deviceItem) Title() string {
	if d.device.ID == "" {
		return "Compass"
	}
	return "Compass " + d.device.ID
}

func (d deviceItem) Description() string {
	parts := []string{d.device.Address(), strings.TrimSuffix(d.device.Hostname, ".")}
	if fw := d.device.Firmware(); fw != "" {
		parts = append(parts, "firmware "+fw)
	}
	return strings.Join(parts, " • ")
}

// Picker is the screen shown before the dashboard when discovery did not
// find exactly one compass. It lists the devices found, rescans on demand
// and accepts a typed address.
type Picker struct {
	ctx         context.Context
	scan        ScanFunc
	scanTimeout time.Duration

	Scanning  bool
	scanSeq   uint64
	scanStart time.Time
	Err       error

	devices list.Model

	ManualMode bool
	addrInput  textinput.Model
	inputErr   string

	spinner    spinner.Model
	bar        progress.Model
	help       help.Model
	keys       pickerKeyMap
	manualKeys manualKeyMap

	width  int
	height int

	selected string
	quitting bool
}

// NewPicker creates the picker seeded with the result of the scan that
// was already run. scan is used for rescans.
func NewPicker(ctx context.Context, devices []*discovery.Device, scanErr error, scan ScanFunc, scanTimeout time.Duration) Picker {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.Placeholder = "192.168.4.1"
	input.CharLimit = 64
	input.Width = 30

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(PrimaryColor).BorderForeground(PrimaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(SubtleColor).BorderForeground(PrimaryColor)

	l := list.New(deviceItems(devices), delegate, DefaultWidth-8, DefaultHeight-10)
	l.Title = "Compass devices on this network"
	l.Styles.Title = TitleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return Picker{
		ctx:         ctx,
		scan:        scan,
		scanTimeout: scanTimeout,
		Err:         scanErr,
		devices:     l,
		addrInput:   input,
		spinner:     s,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:        help.New(),
		keys: pickerKeyMap{
			Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
			Rescan: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
			Manual: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "enter address")),
			Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		},
		manualKeys: manualKeyMap{
			Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect")),
			Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		},
	}
}

func deviceItems(devices []*discovery.Device) []list.Item {
	items := make([]list.Item, 0, len(devices))
	for _, d := range devices {
		if d != nil {
			items = append(items, deviceItem{device: d})
		}
	}
	return items
}

func (p Picker) Init() tea.Cmd {
	return p.spinner.Tick
}

// Selected returns the chosen device address, or "" when the user quit.
func (p Picker) Selected() string {
	return p.selected
}

// Quitting reports whether the picker has finished.
func (p Picker) Quitting() bool {
	return p.quitting
}

func (p Picker) startScan() (Picker, tea.Cmd) {
	p.scanSeq++
	p.Scanning = true
	p.scanStart = time.Now()
	p.Err = nil

	seq, scan, ctx := p.scanSeq, p.scan, p.ctx
	return p, tea.Batch(p.spinner.Tick, func() tea.Msg {
		devices, err := scan(ctx)
		return pickerScanMsg{seq: seq, devices: devices, err: err}
	})
}

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.devices.SetSize(msg.Width-8, msg.Height-10)
		return p, nil

	case pickerScanMsg:
		if msg.seq != p.scanSeq {
			return p, nil
		}
		p.Scanning = false
		p.Err = msg.err
		if msg.err != nil {
			logging.Warn("Device scan failed", zap.Error(msg.err))
		}
		return p, p.devices.SetItems(deviceItems(msg.devices))

	case spinner.TickMsg:
		if !p.Scanning {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			p.quitting = true
			return p, tea.Quit
		}
		if p.ManualMode {
			return p.updateManual(msg)
		}
		return p.updateList(msg)
	}

	var cmd tea.Cmd
	p.devices, cmd = p.devices.Update(msg)
	return p, cmd
}

func (p Picker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While filtering every key belongs to the filter input
	if p.devices.FilterState() == list.Filtering {
		var cmd tea.Cmd
		p.devices, cmd = p.devices.Update(msg)
		return p, cmd
	}

	switch {
	case key.Matches(msg, p.keys.Quit):
		if msg.Type == tea.KeyEsc && p.devices.FilterState() == list.FilterApplied {
			p.devices.ResetFilter()
			return p, nil
		}
		p.quitting = true
		return p, tea.Quit

	case key.Matches(msg, p.keys.Select):
		if item, ok := p.devices.SelectedItem().(deviceItem); ok && !p.Scanning {
			p.selected = item.device.Address()
			p.quitting = true
			return p, tea.Quit
		}
		return p, nil

	case key.Matches(msg, p.keys.Rescan):
		if p.Scanning || p.scan == nil {
			return p, nil
		}
		return p.startScan()

	case key.Matches(msg, p.keys.Manual):
		p.ManualMode = true
		p.inputErr = ""
		p.addrInput.SetValue("")
		return p, p.addrInput.Focus()
	}

	var cmd tea.Cmd
	p.devices, cmd = p.devices.Update(msg)
	return p, cmd
}

func (p Picker) updateManual(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, p.manualKeys.Cancel):
		p.ManualMode = false
		p.inputErr = ""
		p.addrInput.Blur()
		return p, nil

	case key.Matches(msg, p.manualKeys.Confirm):
		host, port, err := deviceconfig.ParseAddress(p.addrInput.Value())
		if err != nil {
			p.inputErr = validationText(err)
			return p, nil
		}
		p.selected = (&discovery.Device{IP: host, Port: port}).Address()
		p.quitting = true
		p.addrInput.Blur()
		return p, tea.Quit
	}

	p.inputErr = ""
	var cmd tea.Cmd
	p.addrInput, cmd = p.addrInput.Update(msg)
	return p, cmd
}

func validationText(err error) string {
	if de, ok := deviceconfig.AsDeviceError(err); ok {
		return de.Message
	}
	return err.Error()
}

func (p Picker) View() string {
	if p.quitting {
		return ""
	}

	var content, helpText string
	switch {
	case p.ManualMode:
		content = p.renderManual()
		helpText = p.help.View(p.manualKeys)
	case p.Scanning:
		content = p.renderScanning()
		helpText = p.help.View(pickerKeyMap{Quit: p.keys.Quit})
	default:
		content = p.renderResults()
		helpText = p.help.View(p.keys)
	}
	return RenderApplicationContainer("no device selected", content, helpText, p.width, p.height)
}

func (p Picker) renderScanning() string {
	elapsed := time.Since(p.scanStart)
	percent := 1.0
	if p.scanTimeout > 0 && elapsed < p.scanTimeout {
		percent = float64(elapsed) / float64(p.scanTimeout)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(p.spinner.View()+" Searching for compass devices"),
		p.bar.ViewAs(percent),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
	)
}

func (p Picker) renderResults() string {
	if p.Err != nil || len(p.devices.Items()) == 0 {
		var headline string
		if p.Err != nil {
			headline = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true).Render("✗ Scan failed: " + p.Err.Error())
		} else {
			headline = lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render("⚠ No compass found on this network")
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			headline,
			"",
			"Troubleshooting:",
			"  • Check the compass is powered on",
			"  • Join the same WiFi network as the compass",
			"  • Press r to scan again, or m to type its address",
		)
	}
	return p.devices.View()
}

func (p Picker) renderManual() string {
	lines := []string{
		TitleStyle.Render("Enter the compass address"),
		RenderField("Address", p.addrInput.View(), true),
	}
	if p.inputErr != "" {
		lines = append(lines, "", ErrorPopoverStyle.Render(p.inputErr))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
