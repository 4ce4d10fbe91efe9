package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
	"github.com/mcompass/compass-cfg/internal/panel"
	"github.com/mcompass/compass-cfg/internal/store"
)

type request struct {
	method   string
	path     string
	rawQuery string
}

// fakeCompass serves fixed GET bodies and records every request. A path in
// hold blocks until the test ends or the request is cancelled.
type fakeCompass struct {
	server *httptest.Server

	mu       sync.Mutex
	bodies   map[string]string
	hold     map[string]bool
	requests []request
	released chan struct{}
}

func newFakeCompass(t *testing.T) *fakeCompass {
	t.Helper()
	fc := &fakeCompass{
		bodies: map[string]string{
			deviceconfig.PathPointColors: `{"southColor":"#FF1414","spawnColor":"#0000FF"}`,
			deviceconfig.PathBrightness:  `{"brightness":"70"}`,
			deviceconfig.PathWiFi:        `{"ssid":"HomeNet","password":"hunter22"}`,
			deviceconfig.PathSpawn:       `{}`,
			deviceconfig.PathInfo:        `{"buildVersion":"2.1.0","gitBranch":"main","gpsStatus":"1","sensorStatus":"0"}`,
			deviceconfig.PathAdvanced:    `{"serverMode":"0","model":"0"}`,
		},
		hold:     map[string]bool{},
		released: make(chan struct{}),
	}
	fc.server = httptest.NewServer(http.HandlerFunc(fc.handle))
	t.Cleanup(fc.server.Close)
	t.Cleanup(func() { close(fc.released) })
	return fc
}

func (fc *fakeCompass) handle(w http.ResponseWriter, r *http.Request) {
	fc.mu.Lock()
	fc.requests = append(fc.requests, request{r.Method, r.URL.Path, r.URL.RawQuery})
	body := fc.bodies[r.URL.Path]
	hold := fc.hold[r.URL.Path]
	fc.mu.Unlock()

	if hold {
		select {
		case <-fc.released:
		case <-r.Context().Done():
		}
		return
	}
	if r.Method == http.MethodPost {
		w.WriteHeader(http.StatusOK)
		return
	}
	_, _ = w.Write([]byte(body))
}

func (fc *fakeCompass) setBody(path, body string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.bodies[path] = body
}

func (fc *fakeCompass) holdPath(path string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.hold[path] = true
}

func (fc *fakeCompass) requestsFor(method, path string) []request {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	var out []request
	for _, r := range fc.requests {
		if r.method == method && r.path == path {
			out = append(out, r)
		}
	}
	return out
}

func (fc *fakeCompass) posts() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	n := 0
	for _, r := range fc.requests {
		if r.method == http.MethodPost {
			n++
		}
	}
	return n
}

func (fc *fakeCompass) dashboard() Model {
	client := deviceconfig.NewClientWithURL(fc.server.URL)
	return New(context.Background(), "compass.local", store.New(client))
}

// relevant filters out spinner, cursor and other widget messages.
func relevant(msg tea.Msg) bool {
	switch msg.(type) {
	case loadedMsg[deviceconfig.PointerColorConfig],
		loadedMsg[deviceconfig.WiFiConfig],
		loadedMsg[deviceconfig.SpawnConfig],
		loadedMsg[deviceconfig.DeviceInfo],
		loadedMsg[deviceconfig.AdvancedConfig],
		savedMsg,
		spawnErrorExpiredMsg,
		pickerScanMsg:
		return true
	}
	return false
}

// collect runs cmd, expanding batches, and returns the dashboard messages
// produced within wait.
func collect(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	out := make(chan tea.Msg, 64)
	var wg sync.WaitGroup

	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, bc := range batch {
					run(bc)
				}
				return
			}
			if relevant(msg) {
				out <- msg
			}
		}()
	}
	run(cmd)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(wait):
	}

	var msgs []tea.Msg
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

// pump feeds every dashboard message cmd yields back into m until the
// model settles.
func pump(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		var next []tea.Cmd
		for _, msg := range collect(cmd, 300*time.Millisecond) {
			updated, c := m.Update(msg)
			m = updated.(Model)
			next = append(next, c)
		}
		cmd = tea.Batch(next...)
	}
	return m
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func started(t *testing.T, fc *fakeCompass) Model {
	t.Helper()
	m := fc.dashboard()
	return pump(t, m, m.Init())
}

func TestInit_LoadsColorsAndAdvanced(t *testing.T) {
	fc := newFakeCompass(t)
	m := started(t, fc)

	if m.Colors.Loading || m.Advanced.Loading {
		t.Errorf("busy flags not cleared: colors=%v advanced=%v", m.Colors.Loading, m.Advanced.Loading)
	}
	if m.Colors.SpawnKey() != "blue" || m.Colors.Brightness != 70 {
		t.Errorf("Colors = %+v", m.Colors)
	}
	if m.Advanced.Model != deviceconfig.ModelLite {
		t.Errorf("Advanced.Model = %q, want lite", m.Advanced.Model)
	}
	if n := len(fc.requestsFor(http.MethodGet, deviceconfig.PathWiFi)); n != 0 {
		t.Errorf("WiFi loaded before its tab was opened (%d GETs)", n)
	}
}

func TestColors_MissingSouthColorShowsRed(t *testing.T) {
	fc := newFakeCompass(t)
	fc.setBody(deviceconfig.PathPointColors, `{"spawnColor":"#0000FF"}`)
	m := started(t, fc)

	if m.Colors.SouthColor != "#FF1414" || m.Colors.SouthKey() != "red" {
		t.Errorf("south = %q (%q), want #FF1414 (red)", m.Colors.SouthColor, m.Colors.SouthKey())
	}
	if !strings.Contains(m.View(), "Red (#FF1414)") {
		t.Error("view should name the red selection")
	}
}

func TestColors_SaveSendsBothRequests(t *testing.T) {
	fc := newFakeCompass(t)
	m := started(t, fc)

	m, _ = press(m, keyOf(tea.KeyRight))
	m, cmd := press(m, keyOf(tea.KeyEnter))
	if !m.Colors.Saving {
		t.Fatal("Saving should be set while the save is in flight")
	}
	m = pump(t, m, cmd)

	if m.Colors.Saving {
		t.Error("Saving not cleared")
	}
	colors := fc.requestsFor(http.MethodPost, deviceconfig.PathPointColors)
	brightness := fc.requestsFor(http.MethodPost, deviceconfig.PathBrightness)
	if len(colors) != 1 || len(brightness) != 1 {
		t.Fatalf("POST counts = %d/%d, want 1/1", len(colors), len(brightness))
	}
	if !strings.Contains(colors[0].rawQuery, "southColor=%23FF7F00") {
		t.Errorf("pointColors query = %q", colors[0].rawQuery)
	}
	if brightness[0].rawQuery != "brightness=70" {
		t.Errorf("brightness query = %q", brightness[0].rawQuery)
	}
}

func TestTabs_CachedDomainsAreNotRefetched(t *testing.T) {
	fc := newFakeCompass(t)
	m := started(t, fc)

	m, cmd := press(m, keyOf(tea.KeyTab))
	m = pump(t, m, cmd)
	if m.ActiveTab() != TabWiFi {
		t.Fatalf("ActiveTab() = %v, want wifi", m.ActiveTab())
	}
	m, cmd = press(m, keyOf(tea.KeyShiftTab))
	m = pump(t, m, cmd)

	if n := len(fc.requestsFor(http.MethodGet, deviceconfig.PathPointColors)); n != 1 {
		t.Errorf("GET /pointColors count = %d, want 1 (cached)", n)
	}
	if m.Colors.Loading {
		t.Error("Loading not cleared on a cached mount")
	}

	m, cmd = press(m, runes("r"))
	_ = pump(t, m, cmd)
	if n := len(fc.requestsFor(http.MethodGet, deviceconfig.PathPointColors)); n != 2 {
		t.Errorf("GET /pointColors count after reload = %d, want 2", n)
	}
}

func TestWiFi_SaveSendsBothCurrentValues(t *testing.T) {
	fc := newFakeCompass(t)
	m := started(t, fc)

	m, cmd := press(m, keyOf(tea.KeyTab))
	m = pump(t, m, cmd)
	if m.WiFi.SSID != "HomeNet" {
		t.Fatalf("WiFi.SSID = %q after load", m.WiFi.SSID)
	}

	m, _ = press(m, runes("5G"))
	m, _ = press(m, keyOf(tea.KeyDown))
	m, _ = press(m, runes("!"))
	m, cmd = press(m, keyOf(tea.KeyEnter))
	_ = pump(t, m, cmd)

	posts := fc.requestsFor(http.MethodPost, deviceconfig.PathSetWiFi)
	if len(posts) != 1 {
		t.Fatalf("POST /setWiFi count = %d, want 1", len(posts))
	}
	if posts[0].rawQuery != "password=hunter22%21&ssid=HomeNet5G" {
		t.Errorf("setWiFi query = %q", posts[0].rawQuery)
	}
}

func TestWiFi_LettersAreTypedNotShortcuts(t *testing.T) {
	fc := newFakeCompass(t)
	m := started(t, fc)

	m, cmd := press(m, keyOf(tea.KeyTab))
	m = pump(t, m, cmd)

	m, cmd = press(m, runes("q"))
	if m.Quitting() {
		t.Fatal("q on a text panel should be typed, not quit")
	}
	_ = cmd
	m, _ = press(m, runes("x"))
	if m.Advanced.Open {
		t.Error("x on a text panel should be typed")
	}
	if m.WiFi.SSID != "HomeNetqx" {
		t.Errorf("SSID = %q, want HomeNetqx", m.WiFi.SSID)
	}
}

func openSpawn(t *testing.T, fc *fakeCompass) Model {
	t.Helper()
	m := started(t, fc)
	m, cmd := press(m, keyOf(tea.KeyTab))
	m = pump(t, m, cmd)
	m, cmd = press(m, keyOf(tea.KeyTab))
	m = pump(t, m, cmd)
	if m.ActiveTab() != TabSpawn {
		t.Fatalf("ActiveTab() = %v, want spawn", m.ActiveTab())
	}
	return m
}

func TestSpawn_InvalidCoordinatesAreNeverSent(t *testing.T) {
	fc := newFakeCompass(t)
	m := openSpawn(t, fc)

	m, _ = press(m, runes("100"))
	m, _ = press(m, keyOf(tea.KeyDown))
	m, _ = press(m, runes("0"))
	m, cmd := press(m, keyOf(tea.KeyEnter))

	if !m.Spawn.ShowingError() {
		t.Fatal("error should be shown")
	}
	if !strings.Contains(m.View(), "latitude must be between -90 and 90") {
		t.Error("view should show the inline error")
	}
	if cmd == nil {
		t.Fatal("expected an expiry timer")
	}
	if fc.posts() != 0 {
		t.Fatalf("%d POSTs sent for invalid input", fc.posts())
	}

	if m.errorDelay != 2*time.Second || panel.SpawnErrorDuration != 2*time.Second {
		t.Errorf("error window = %v, want 2s", m.errorDelay)
	}

	// Re-run the rejection with a short window so the expiry can be observed
	m.errorDelay = 20 * time.Millisecond
	m, cmd = press(m, keyOf(tea.KeyEnter))
	m = pump(t, m, cmd)
	if m.Spawn.ShowingError() {
		t.Error("error should clear when its window expires")
	}
	if fc.posts() != 0 {
		t.Errorf("%d POSTs sent for invalid input", fc.posts())
	}
}

func TestSpawn_OutOfRangeStoredPointFillsInputs(t *testing.T) {
	fc := newFakeCompass(t)
	fc.setBody(deviceconfig.PathSpawn, `{"latitude":123,"longitude":45}`)
	m := openSpawn(t, fc)

	if m.Spawn.Latitude != "123" || m.Spawn.Longitude != "45" {
		t.Fatalf("inputs = %q/%q, want 123/45", m.Spawn.Latitude, m.Spawn.Longitude)
	}

	m, _ = press(m, keyOf(tea.KeyEnter))
	if !m.Spawn.ShowingError() {
		t.Error("saving the stored out-of-range point should be rejected")
	}
	if fc.posts() != 0 {
		t.Errorf("%d POSTs sent for invalid input", fc.posts())
	}
}

func TestSpawn_EmptyFieldDisablesSave(t *testing.T) {
	fc := newFakeCompass(t)
	m := openSpawn(t, fc)

	m, _ = press(m, runes("10"))
	m, cmd := press(m, keyOf(tea.KeyEnter))
	if cmd != nil || m.Spawn.ShowingError() {
		t.Error("save with an empty longitude should do nothing")
	}
}

func TestSpawn_ValidSaveIssuesOnePost(t *testing.T) {
	fc := newFakeCompass(t)
	m := openSpawn(t, fc)

	m, _ = press(m, runes("45.0"))
	m, _ = press(m, keyOf(tea.KeyDown))
	m, _ = press(m, runes("90.0"))
	m, cmd := press(m, keyOf(tea.KeyEnter))
	m = pump(t, m, cmd)

	posts := fc.requestsFor(http.MethodPost, deviceconfig.PathSpawn)
	if len(posts) != 1 {
		t.Fatalf("POST /spawn count = %d, want 1", len(posts))
	}
	if posts[0].rawQuery != "latitude=45&longitude=90" {
		t.Errorf("spawn query = %q, want latitude=45&longitude=90", posts[0].rawQuery)
	}
	if m.Spawn.Saving {
		t.Error("Saving not cleared")
	}
}

func TestSpawn_ZeroIsAccepted(t *testing.T) {
	fc := newFakeCompass(t)
	m := openSpawn(t, fc)

	m, _ = press(m, runes("0"))
	m, _ = press(m, keyOf(tea.KeyDown))
	m, _ = press(m, runes("0"))
	m, cmd := press(m, keyOf(tea.KeyEnter))
	_ = pump(t, m, cmd)

	posts := fc.requestsFor(http.MethodPost, deviceconfig.PathSpawn)
	if len(posts) != 1 || posts[0].rawQuery != "latitude=0&longitude=0" {
		t.Errorf("POST /spawn = %+v", posts)
	}
}

func TestAdvanced_SaveSendsAndCloses(t *testing.T) {
	fc := newFakeCompass(t)
	m := started(t, fc)

	m, _ = press(m, runes("x"))
	if !m.Advanced.Open {
		t.Fatal("dialog should open")
	}
	if n := len(fc.requestsFor(http.MethodGet, deviceconfig.PathAdvanced)); n != 1 {
		t.Errorf("opening the dialog should not reload (GETs = %d)", n)
	}

	m, _ = press(m, keyOf(tea.KeySpace))
	m, cmd := press(m, keyOf(tea.KeyEnter))
	if m.Advanced.Open {
		t.Error("Save should close the dialog")
	}
	m = pump(t, m, cmd)

	posts := fc.requestsFor(http.MethodPost, deviceconfig.PathAdvanced)
	if len(posts) != 1 {
		t.Fatalf("POST /adveancedConfig count = %d, want 1", len(posts))
	}
	if posts[0].rawQuery != "model=0&serverMode=1" {
		t.Errorf("advanced query = %q", posts[0].rawQuery)
	}
	if m.Advanced.Saving {
		t.Error("Saving not cleared")
	}
}

func TestAdvanced_GPSModelIsSentAsOne(t *testing.T) {
	fc := newFakeCompass(t)
	m := started(t, fc)

	m, _ = press(m, runes("x"))
	m, _ = press(m, keyOf(tea.KeyDown))
	m, _ = press(m, keyOf(tea.KeySpace))
	m, cmd := press(m, runes("s"))
	_ = pump(t, m, cmd)

	posts := fc.requestsFor(http.MethodPost, deviceconfig.PathAdvanced)
	if len(posts) != 1 || posts[0].rawQuery != "model=1&serverMode=0" {
		t.Errorf("POST /adveancedConfig = %+v", posts)
	}
}

func TestAdvanced_CloseSendsNothing(t *testing.T) {
	fc := newFakeCompass(t)
	m := started(t, fc)

	m, _ = press(m, runes("x"))
	m, _ = press(m, keyOf(tea.KeySpace))
	m, cmd := press(m, keyOf(tea.KeyEsc))
	if cmd != nil {
		t.Error("Close should not issue a command")
	}
	if m.Advanced.Open {
		t.Error("dialog should be closed")
	}
	if !m.Advanced.ServerMode {
		t.Error("unsaved edits are kept in the form")
	}
	if fc.posts() != 0 {
		t.Errorf("%d POSTs sent on Close", fc.posts())
	}
}

func TestUnmount_CancelsAndDropsStaleResults(t *testing.T) {
	fc := newFakeCompass(t)
	fc.holdPath(deviceconfig.PathWiFi)
	m := started(t, fc)

	m, wifiLoad := press(m, keyOf(tea.KeyTab))
	wifiMount := m.panel
	m, _ = press(m, keyOf(tea.KeyTab))

	if wifiMount.ctx.Err() == nil {
		t.Fatal("leaving the tab should cancel its context")
	}

	// The held request returns once cancelled; its result must be dropped
	m = pump(t, m, wifiLoad)
	if m.WiFi.SSID != "" {
		t.Errorf("stale load applied: SSID = %q", m.WiFi.SSID)
	}

	stale := loadedMsg[deviceconfig.WiFiConfig]{
		tab:   TabWiFi,
		mount: wifiMount.id,
		value: deviceconfig.WiFiConfig{SSID: "Late", Password: "latepass1"},
	}
	updated, _ := m.Update(stale)
	if got := updated.(Model).WiFi.SSID; got != "" {
		t.Errorf("stale message applied: SSID = %q", got)
	}
}

func TestFailures_AreSilent(t *testing.T) {
	fc := newFakeCompass(t)
	fc.setBody(deviceconfig.PathInfo, "")
	m := started(t, fc)

	m, _ = press(m, keyOf(tea.KeyShiftTab))
	if m.ActiveTab() != TabInfo {
		t.Fatalf("ActiveTab() = %v, want info", m.ActiveTab())
	}
	m = pump(t, m, m.loadActive())

	if m.Info.Loading {
		t.Error("Loading not cleared after a failure")
	}
	view := m.View()
	if !strings.Contains(view, "Unknown") {
		t.Error("info should fall back to Unknown")
	}
	if strings.Contains(strings.ToLower(view), "error") {
		t.Error("device failures should not be shown")
	}
}

func TestInfo_ShowsDeviceFields(t *testing.T) {
	fc := newFakeCompass(t)
	m := started(t, fc)

	m, cmd := press(m, keyOf(tea.KeyShiftTab))
	m = pump(t, m, cmd)

	view := m.View()
	for _, want := range []string{"2.1.0", "main", "Available", "Unavailable"} {
		if !strings.Contains(view, want) {
			t.Errorf("info view missing %q", want)
		}
	}
}

func TestQuit_CancelsEverything(t *testing.T) {
	fc := newFakeCompass(t)
	m := started(t, fc)

	shell := m.shell
	m, cmd := press(m, runes("q"))
	if !m.Quitting() {
		t.Fatal("q should quit on the colors panel")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit")
	}
	if shell.ctx.Err() == nil {
		t.Error("quit should cancel the dashboard context")
	}
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}
}
