// Package endpoints provides the per-endpoint breakdown tab.
package endpoints

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/artillery-report-tui/internal/app"
	"github.com/j-veylop/artillery-report-tui/internal/config"
	"github.com/j-veylop/artillery-report-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the endpoints tab.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Expand key.Binding
}

// defaultKeyMap returns the default key bindings for the endpoints tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev endpoint"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next endpoint"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first endpoint"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last endpoint"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "expand"),
		),
	}
}

// Model represents the endpoints tab state.
type Model struct {
	state       *app.State
	config      *config.Config
	keys        keyMap
	shareBar    components.ShareBar
	expanded    string
	cursor      int
	offset      int
	width       int
	height      int
	chartHeight int
}

// New creates a new endpoints model.
func New(state *app.State, cfg *config.Config) *Model {
	chartHeight := 10
	if cfg != nil && cfg.ChartHeight > 0 {
		chartHeight = cfg.ChartHeight
	}
	return &Model{
		state:       state,
		config:      cfg,
		keys:        defaultKeyMap(),
		shareBar:    components.NewShareBar(30),
		chartHeight: chartHeight,
	}
}

// Init initializes the endpoints tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the endpoints tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ReportChangedMsg:
		m.handleReportChanged(msg)
	case tea.KeyMsg:
		m.handleKeyMsg(msg)
	}
	return m, nil
}

// handleReportChanged keeps the cursor on the same endpoint across a reload
// and starts from the top for a different report.
func (m *Model) handleReportChanged(msg app.ReportChangedMsg) {
	if !msg.Reloaded {
		m.cursor, m.offset = 0, 0
		m.expanded = ""
		return
	}

	endpoints := m.state.Endpoints()
	found := false
	for i, e := range endpoints {
		if e.Name == m.expanded {
			m.cursor = i
			found = true
			break
		}
	}
	if !found {
		m.expanded = ""
	}
	m.cursor = min(m.cursor, max(len(endpoints)-1, 0))
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) {
	endpoints := m.state.Endpoints()
	count := len(endpoints)
	if count == 0 {
		return
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, count-1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = count - 1
	case key.Matches(msg, m.keys.Expand):
		name := endpoints[m.cursor].Name
		if m.expanded == name {
			m.expanded = ""
		} else {
			m.expanded = name
		}
	}
}

// SetSize sets the available size for the endpoints tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.shareBar.SetWidth(max(width-40, 10))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Expand}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Top, m.keys.Bottom},
		{m.keys.Expand},
	}
}
