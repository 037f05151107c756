package explorer

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/artillery-report-tui/internal/app"
	"github.com/j-veylop/artillery-report-tui/internal/config"
	"github.com/j-veylop/artillery-report-tui/internal/report"
)

func sampleReport() *report.Report {
	return &report.Report{
		Intermediate: []report.Snapshot{
			{
				Counters:  map[string]float64{"vusers.created": 10, "http.codes.200": 40},
				Rates:     map[string]float64{"http.request_rate": 4},
				Summaries: map[string]report.Summary{"http.response_time": {"p95": 120, "max": 300}},
				Period:    "1700000000000",
			},
			{
				Counters:  map[string]float64{"vusers.created": 12, "errors.ETIMEDOUT": 2},
				Rates:     map[string]float64{"http.request_rate": 6},
				Summaries: map[string]report.Summary{"http.response_time": {"p95": 140, "max": 280}},
				Period:    "1700000010000",
			},
		},
	}
}

func newLoadedModel(t *testing.T) (*Model, *app.State) {
	t.Helper()
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetReport("/tmp/run.json", sampleReport())

	m := New(state, &config.Config{ChartHeight: 4})
	m.SetSize(120, 60)
	return m, state
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// cursorTo moves the cursor onto the metric with the given key.
func cursorTo(t *testing.T, m *Model, key string) {
	t.Helper()
	for i, d := range m.visible {
		if d.Key == key {
			m.cursor = i
			return
		}
	}
	t.Fatalf("metric %q not visible", key)
}

func TestNew_EmptyState(t *testing.T) {
	m := New(app.NewState(), nil)
	if len(m.visible) != 0 {
		t.Errorf("visible = %d, want 0 without a report", len(m.visible))
	}
	if m.chartHeight != 10 {
		t.Errorf("chartHeight = %d, want 10", m.chartHeight)
	}
	m.SetSize(80, 20)
	if !strings.Contains(m.View(), "No report open") {
		t.Error("View should say no report is open")
	}
}

func TestModel_ReportChangedPopulates(t *testing.T) {
	state := app.NewState()
	m := New(state, nil)

	state.SetReport("/tmp/run.json", sampleReport())
	m.Update(app.ReportChangedMsg{Path: "/tmp/run.json"})

	// vusers.created, http.codes.200, errors.ETIMEDOUT, http.request_rate,
	// http.response_time.p95 and .max
	if len(m.visible) != 6 {
		t.Errorf("visible = %d, want 6", len(m.visible))
	}
}

func TestModel_CursorMovement(t *testing.T) {
	m, _ := newLoadedModel(t)

	m.Update(runeKey("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 at top", m.cursor)
	}

	m.Update(runeKey("j"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}

	m.Update(runeKey("G"))
	if m.cursor != len(m.visible)-1 {
		t.Errorf("cursor = %d, want last", m.cursor)
	}

	m.Update(runeKey("g"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestModel_ToggleSelection(t *testing.T) {
	m, _ := newLoadedModel(t)

	cursorTo(t, m, "http.response_time.p95")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	cursorTo(t, m, "http.response_time.max")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := m.Selected()
	if len(got) != 2 || got[0] != "http.response_time.p95" || got[1] != "http.response_time.max" {
		t.Fatalf("Selected() = %v", got)
	}

	view := m.View()
	if !strings.Contains(view, "■") {
		t.Error("selected metrics should carry a marker")
	}
	if !strings.Contains(view, "2 charted") {
		t.Error("header should count charted metrics")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Selected(); len(got) != 1 || got[0] != "http.response_time.p95" {
		t.Errorf("toggle again should deselect, got %v", got)
	}

	m.Update(runeKey("c"))
	if len(m.Selected()) != 0 {
		t.Error("c should clear the selection")
	}
}

func TestModel_ToggleDropsOldest(t *testing.T) {
	m, _ := newLoadedModel(t)
	for i := 0; i < maxSelected+1; i++ {
		m.toggle(string(rune('a' + i)))
	}

	got := m.Selected()
	if len(got) != maxSelected {
		t.Fatalf("len = %d, want %d", len(got), maxSelected)
	}
	if got[0] != "b" {
		t.Errorf("oldest selection should be dropped, got %v", got)
	}
}

func TestModel_Search(t *testing.T) {
	m, _ := newLoadedModel(t)

	m.Update(runeKey("/"))
	if !m.Capturing() {
		t.Fatal("search should capture input")
	}

	for _, r := range "resp" {
		m.Update(runeKey(string(r)))
	}
	if len(m.visible) != 2 {
		t.Errorf("visible = %d, want the two response time stats", len(m.visible))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Capturing() {
		t.Error("enter should leave the search box")
	}
	if len(m.visible) != 2 {
		t.Error("the filter should stay applied after enter")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.visible) != 6 {
		t.Errorf("esc should clear the filter, visible = %d", len(m.visible))
	}
}

func TestModel_SearchNoMatch(t *testing.T) {
	m, _ := newLoadedModel(t)
	m.Update(runeKey("/"))
	for _, r := range "zzz" {
		m.Update(runeKey(string(r)))
	}

	if !strings.Contains(m.View(), `No metrics match "zzz"`) {
		t.Error("View should report an empty filter result")
	}
}

func TestModel_Reload(t *testing.T) {
	m, state := newLoadedModel(t)
	m.toggle("errors.ETIMEDOUT")
	m.toggle("vusers.created")

	// The reloaded report no longer has errors.
	next := sampleReport()
	delete(next.Intermediate[1].Counters, "errors.ETIMEDOUT")
	state.SetReport("/tmp/run.json", next)
	m.Update(app.ReportChangedMsg{Path: "/tmp/run.json", Reloaded: true})

	if got := m.Selected(); len(got) != 1 || got[0] != "vusers.created" {
		t.Errorf("Selected() after reload = %v, want [vusers.created]", got)
	}

	state.SetReport("/tmp/other.json", sampleReport())
	m.Update(app.ReportChangedMsg{Path: "/tmp/other.json"})
	if len(m.Selected()) != 0 {
		t.Error("opening another report should clear the selection")
	}
}

func TestModel_ViewScrollsToCursor(t *testing.T) {
	m, _ := newLoadedModel(t)
	m.SetSize(100, 8)

	m.Update(runeKey("G"))
	view := m.View()
	last := m.visible[len(m.visible)-1]
	if !strings.Contains(view, last.Label) {
		t.Errorf("View should scroll to %q", last.Label)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil)
	if len(m.ShortHelp()) != 3 {
		t.Errorf("ShortHelp = %d bindings, want 3", len(m.ShortHelp()))
	}
	m.searching = true
	if len(m.ShortHelp()) != 2 {
		t.Errorf("ShortHelp while searching = %d bindings, want 2", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp should not be empty")
	}
}
