package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/artillery-report-tui/internal/models"
	"github.com/j-veylop/artillery-report-tui/internal/report"
	"github.com/j-veylop/artillery-report-tui/internal/services"
)

// stubTab records the messages it receives.
type stubTab struct {
	name      string
	received  []tea.Msg
	capturing bool
}

func (s *stubTab) Init() tea.Cmd { return nil }

func (s *stubTab) Update(msg tea.Msg) (Tab, tea.Cmd) {
	s.received = append(s.received, msg)
	return s, nil
}

func (s *stubTab) View() string { return "stub:" + s.name }

func (s *stubTab) SetSize(_, _ int) {}

func (s *stubTab) ShortHelp() []key.Binding { return nil }

func (s *stubTab) FullHelp() [][]key.Binding { return nil }

func (s *stubTab) Capturing() bool { return s.capturing }

func (s *stubTab) count(match func(tea.Msg) bool) int {
	n := 0
	for _, msg := range s.received {
		if match(msg) {
			n++
		}
	}
	return n
}

func isKeyMsg(msg tea.Msg) bool {
	_, ok := msg.(tea.KeyMsg)
	return ok
}

func isReportChanged(msg tea.Msg) bool {
	_, ok := msg.(ReportChangedMsg)
	return ok
}

func newStubTabs(m *Model) []*stubTab {
	stubs := make([]*stubTab, tabCount)
	tabs := make([]Tab, tabCount)
	for i := range stubs {
		stubs[i] = &stubTab{name: TabID(i).String()}
		tabs[i] = stubs[i]
	}
	m.SetTabs(tabs)
	return stubs
}

func sampleReport() *report.Report {
	return &report.Report{
		Aggregate: report.Aggregate{
			Counters: map[string]float64{"http.requests": 10},
		},
		Intermediate: []report.Snapshot{
			{Counters: map[string]float64{"http.requests": 10}, Period: "1700000000000"},
		},
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabOverview {
		t.Error("Default tab should be Overview")
	}
	if len(model.tabs) != 5 {
		t.Errorf("Should have 5 tab placeholders, got %d", len(model.tabs))
	}
	if model.tabNames[TabEndpoints] != "Endpoints" {
		t.Errorf("tab names = %v", model.tabNames)
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil)
	cmd := model.Init()
	if cmd == nil {
		t.Error("Init returned nil command")
	}
	if model.state.IsInitialLoading() {
		t.Error("Initial loading should end when there is nothing to open")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil)
	msg := tea.WindowSizeMsg{Width: 100, Height: 50}

	newModel, _ := model.Update(msg)

	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}

	if m.width != 100 {
		t.Errorf("Width = %d, want 100", m.width)
	}
	if m.height != 50 {
		t.Errorf("Height = %d, want 50", m.height)
	}
	if !m.ready {
		t.Error("Model should be ready after WindowSizeMsg")
	}
}

func TestModel_Update_TabSwitch(t *testing.T) {
	model := NewModel(nil)
	model.ready = true
	model.width = 100
	model.height = 50

	model.Update(TabSwitchMsg{Tab: TabSummary})
	if model.activeTab != TabSummary {
		t.Errorf("ActiveTab = %v, want Summary", model.activeTab)
	}

	model.Update(runeKey('3'))
	if model.activeTab != TabEndpoints {
		t.Errorf("ActiveTab = %v, want Endpoints after key 3", model.activeTab)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.activeTab != TabSummary {
		t.Errorf("ActiveTab = %v, want Summary after tab", model.activeTab)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if model.activeTab != TabInfo {
		t.Errorf("ActiveTab = %v, want Info after wrapping backwards", model.activeTab)
	}

	model.Update(TabSwitchMsg{Tab: TabID(42)})
	if model.activeTab != TabInfo {
		t.Error("out of range tab switch should be ignored")
	}
}

func TestModel_GlobalKeysSuspendedWhileCapturing(t *testing.T) {
	model := NewModel(nil)
	stubs := newStubTabs(model)
	model.activeTab = TabExplorer
	stubs[TabExplorer].capturing = true

	_, cmd := model.Update(runeKey('q'))
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Error("q should not quit while the tab captures input")
		}
	}
	model.Update(runeKey('4'))
	if model.activeTab != TabExplorer {
		t.Error("digits should go to the capturing tab")
	}
	if stubs[TabExplorer].count(isKeyMsg) != 2 {
		t.Errorf("tab should receive both keys, got %v", stubs[TabExplorer].received)
	}

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should always quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
}

func TestModel_GlobalKeysNotForwarded(t *testing.T) {
	model := NewModel(nil)
	stubs := newStubTabs(model)

	model.Update(runeKey('2'))
	model.Update(runeKey('j'))

	if len(stubs[TabOverview].received) != 0 {
		t.Errorf("overview should not see the tab switch key, got %v", stubs[TabOverview].received)
	}
	if len(stubs[TabExplorer].received) != 1 {
		t.Errorf("explorer should receive j, got %v", stubs[TabExplorer].received)
	}
}

func TestModel_Update_Tick(t *testing.T) {
	model := NewModel(nil)
	msg := TickMsg{Time: time.Now()}

	_, cmd := model.Update(msg)
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil)

	view := model.View()
	if !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.ready = true
	model.width = 100
	model.height = 24

	view = model.View()
	if !strings.Contains(view, "Overview") || !strings.Contains(view, "Endpoints") {
		t.Error("View should show the tab names")
	}
	if !strings.Contains(view, "not yet implemented") {
		t.Error("View should show placeholder text")
	}
}

func TestModel_ViewShowsReportName(t *testing.T) {
	model := NewModel(nil)
	model.ready = true
	model.width = 120
	model.height = 24

	model.state.SetReport("/runs/nightly.json", sampleReport())
	if view := model.View(); !strings.Contains(view, "nightly.json") {
		t.Error("navbar should show the report file name")
	}
}

func TestModel_Help(t *testing.T) {
	model := NewModel(nil)
	model.ready = true
	model.width = 80
	model.height = 24

	model.Update(ToggleHelpMsg{})
	if !model.showHelp {
		t.Error("showHelp should be true")
	}

	view := model.View()
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("View should show help modal")
	}

	model.Update(runeKey('?'))
	if model.showHelp {
		t.Error("showHelp should be false after toggle")
	}

	model.showHelp = true
	model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.showHelp {
		t.Error("Esc should close help")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := NewModel(nil)

	model.Update(AddNotificationMsg{
		Message:  "Test Note",
		Type:     NotificationInfo,
		Duration: 0,
	})

	notifs := model.state.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}

	model.ready = true
	model.width = 80
	model.height = 24
	view := model.View()
	if !strings.Contains(view, "Test Note") {
		t.Error("View should show notification")
	}

	model.Update(RemoveNotificationMsg{ID: "nonexistent"})
	model.Update(ClearExpiredNotificationsMsg{})
	if len(model.state.GetNotifications()) != 1 {
		t.Error("notification without duration should persist")
	}
}

func TestModel_ReportLoaded(t *testing.T) {
	model := NewModel(nil)
	stubs := newStubTabs(model)
	r := sampleReport()

	_, cmd := model.Update(ReportLoadedMsg{Path: "/runs/a.json", Report: r})
	if cmd == nil {
		t.Fatal("first load should produce a notification")
	}
	if model.state.Report() != r {
		t.Error("state should hold the loaded report")
	}
	if len(model.state.Catalog()) == 0 {
		t.Error("catalog should be derived from the report")
	}

	for i, stub := range stubs {
		changed := stub.count(isReportChanged)
		if changed != 1 {
			t.Errorf("tab %d got %d ReportChangedMsg, want 1", i, changed)
		}
	}

	// The matching service event for the same load is a no-op.
	cmds := model.handleServiceEvent(services.ReportLoadedEvent{Path: "/runs/a.json", Report: r})
	if len(cmds) != 0 {
		t.Error("duplicate load should not notify again")
	}
	if got := stubs[TabInfo].count(isReportChanged); got != 1 {
		t.Errorf("duplicate load should not reach tabs, got %d", got)
	}
}

func TestModel_ReloadEvent(t *testing.T) {
	model := NewModel(nil)
	model.state.SetReport("/runs/a.json", sampleReport())

	next := sampleReport()
	cmds := model.handleServiceEvent(services.ReportLoadedEvent{Path: "/runs/a.json", Report: next, Reloaded: true})
	if len(cmds) == 0 {
		t.Fatal("reload should notify")
	}
	msg, ok := cmds[len(cmds)-1]().(AddNotificationMsg)
	if !ok || !strings.HasPrefix(msg.Message, "Reloaded a.json") {
		t.Errorf("unexpected notification %+v", msg)
	}
	if model.state.Report() != next || model.state.Reloads() != 1 {
		t.Error("reload should replace the report")
	}
}

func TestModel_ReloadWithoutReport(t *testing.T) {
	model := NewModel(nil)

	_, cmd := model.Update(runeKey('r'))
	if cmd == nil {
		t.Fatal("reload without report should warn")
	}
	cmds := model.handleReload()
	msg, ok := cmds[0]().(AddNotificationMsg)
	if !ok || msg.Type != NotificationWarning {
		t.Errorf("expected warning notification, got %+v", msg)
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(nil)

	recent := []models.RecentReport{{Path: "/runs/a.json", Label: "a.json"}}
	model.handleServiceEvent(services.RecentReportsEvent{Reports: recent})
	if got := model.state.Recent(); len(got) != 1 || got[0].Path != "/runs/a.json" {
		t.Errorf("recent = %v", got)
	}

	model.state.SetLoading("report", true)
	cmds := model.handleServiceEvent(services.ErrorEvent{Service: "reports", Error: report.ErrNotAReport})
	if len(cmds) != 1 {
		t.Fatal("Error event should trigger notification command")
	}
	msg := cmds[0]().(AddNotificationMsg)
	if msg.Type != NotificationError || !strings.Contains(msg.Message, "[reports]") {
		t.Errorf("unexpected notification %+v", msg)
	}
	if model.state.Loading.Report {
		t.Error("error should clear report loading")
	}
}

func TestModel_Update_Messages(t *testing.T) {
	model := NewModel(nil)

	model.Update(StartLoadingMsg{Resource: "report"})
	if !model.state.Loading.Report {
		t.Error("Loading.Report should be true")
	}

	model.Update(StopLoadingMsg{Resource: "report"})
	if model.state.Loading.Report {
		t.Error("Loading.Report should be false")
	}

	model.state.SetLoading("recent", true)
	model.Update(RecentReportsMsg{Reports: []models.RecentReport{{Path: "/x.json"}}})
	if model.state.Loading.Recent || len(model.state.Recent()) != 1 {
		t.Error("recent reports should be stored")
	}

	_, cmd := model.Update(RecentReportsMsg{Error: errors.New("db closed")})
	if cmd == nil {
		t.Error("recent reports error should warn")
	}
	if len(model.state.Recent()) != 1 {
		t.Error("failed refresh should keep the previous list")
	}

	model.state.SetLoading("report", true)
	model.Update(ReportFailedMsg{Path: "/x.json", Error: report.ErrNotAReport})
	if model.state.Loading.Report {
		t.Error("failure should clear report loading")
	}

	_, cmd = model.Update(ErrorMsg{Error: errors.New("boom"), Context: "export"})
	if cmd == nil {
		t.Error("ErrorMsg should notify")
	}

	// Without a manager, open requests are ignored.
	if cmds := model.handleOpenReport(OpenReportMsg{Path: "/x.json"}); len(cmds) != 0 {
		t.Error("open without manager should do nothing")
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		msg  ErrorMsg
		want string
	}{
		{ErrorMsg{Error: errors.New("boom")}, "boom"},
		{ErrorMsg{Error: errors.New("boom"), Context: "load"}, "load: boom"},
		{ErrorMsg{Context: "only context"}, "only context"},
	}
	for _, tt := range tests {
		if got := formatError(tt.msg); got != tt.want {
			t.Errorf("formatError(%+v) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestTabID_String(t *testing.T) {
	tests := []struct {
		id   TabID
		want string
	}{
		{TabOverview, "Overview"},
		{TabExplorer, "Explorer"},
		{TabEndpoints, "Endpoints"},
		{TabSummary, "Summary"},
		{TabInfo, "Info"},
		{TabID(999), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("TabID(%d).String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()
	_ = s
}
