// Package explorer provides the metric explorer tab. It lists every metric
// found in the report, grouped by category, and charts the ones the user
// selects.
package explorer

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/artillery-report-tui/internal/app"
	"github.com/j-veylop/artillery-report-tui/internal/config"
	"github.com/j-veylop/artillery-report-tui/internal/metrics"
)

// maxSelected bounds how many series are charted at once.
const maxSelected = 7

// keyMap defines the key bindings specific to the explorer tab.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Toggle key.Binding
	Clear  key.Binding
	Search key.Binding
	Done   key.Binding
	Cancel key.Binding
}

// defaultKeyMap returns the default key bindings for the explorer tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle chart"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear selection"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Done: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply search"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
	}
}

// Model represents the explorer tab state.
type Model struct {
	state       *app.State
	config      *config.Config
	keys        keyMap
	search      textinput.Model
	searching   bool
	visible     metrics.Catalog
	selected    []string
	cursor      int
	offset      int
	width       int
	height      int
	chartHeight int
}

// New creates a new explorer model.
func New(state *app.State, cfg *config.Config) *Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter metrics"
	ti.CharLimit = 120

	chartHeight := 10
	if cfg != nil && cfg.ChartHeight > 0 {
		chartHeight = cfg.ChartHeight
	}

	m := &Model{
		state:       state,
		config:      cfg,
		keys:        defaultKeyMap(),
		search:      ti,
		chartHeight: chartHeight,
	}
	m.refresh()
	return m
}

// Init initializes the explorer tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Capturing reports whether the search box has focus.
func (m *Model) Capturing() bool {
	return m.searching
}

// Update handles messages for the explorer tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ReportChangedMsg:
		m.handleReportChanged(msg)

	case tea.KeyMsg:
		if m.searching {
			return m, m.handleSearchKey(msg)
		}
		return m, m.handleKeyMsg(msg)
	}

	return m, nil
}

// handleReportChanged resets the view for a new report. A reload of the
// same file keeps the search and whichever selected metrics still exist.
func (m *Model) handleReportChanged(msg app.ReportChangedMsg) {
	if !msg.Reloaded {
		m.selected = nil
		m.search.Reset()
		m.cursor, m.offset = 0, 0
		m.refresh()
		return
	}

	catalog := m.state.Catalog()
	m.selected = slices.DeleteFunc(m.selected, func(k string) bool {
		_, ok := catalog.Lookup(k)
		return !ok
	})
	m.refresh()
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Done):
		m.searching = false
		m.search.Blur()
		return nil
	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.search.Blur()
		m.search.Reset()
		m.refresh()
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor, m.offset = 0, 0
	m.refresh()
	return cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m.search.Focus()
	case key.Matches(msg, m.keys.Cancel):
		if m.search.Value() != "" {
			m.search.Reset()
			m.refresh()
		}
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.visible))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.visible))
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(m.visible) {
			m.toggle(m.visible[m.cursor].Key)
		}
	case key.Matches(msg, m.keys.Clear):
		m.selected = nil
	}
	return nil
}

// refresh recomputes the visible metrics from the catalog and the query.
func (m *Model) refresh() {
	m.visible = m.state.Catalog().Filter(m.search.Value())
	m.cursor = min(m.cursor, max(len(m.visible)-1, 0))
}

func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
}

// toggle adds metric k to the chart, or removes it if already charted.
// Once maxSelected series are charted the oldest selection is dropped.
func (m *Model) toggle(k string) {
	if i := slices.Index(m.selected, k); i >= 0 {
		m.selected = slices.Delete(m.selected, i, i+1)
		return
	}
	if len(m.selected) == maxSelected {
		m.selected = m.selected[1:]
	}
	m.selected = append(m.selected, k)
}

// Selected returns the charted metric keys in selection order.
func (m *Model) Selected() []string {
	return slices.Clone(m.selected)
}

// SetSize sets the available size for the explorer tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.search.Width = max(width-10, 10)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.searching {
		return []key.Binding{m.keys.Done, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Search, m.keys.Toggle, m.keys.Clear}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Top, m.keys.Bottom},
		{m.keys.Search, m.keys.Toggle, m.keys.Clear, m.keys.Cancel},
	}
}
