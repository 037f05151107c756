package components

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/artillery-report-tui/internal/ui/styles"
)

// LoadingIndicator shows a spinner while a report file is being read.
type LoadingIndicator struct {
	spinner    spinner.Model
	path       string
	labelStyle lipgloss.Style
	pathStyle  lipgloss.Style
}

// NewLoadingIndicator returns an indicator for the report at path. An empty
// path renders a generic label.
func NewLoadingIndicator(path string) LoadingIndicator {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingIndicator{
		spinner:    s,
		path:       path,
		labelStyle: lipgloss.NewStyle().Foreground(styles.TextSecondary),
		pathStyle:  lipgloss.NewStyle().Foreground(styles.TextMuted),
	}
}

// Init starts the spinner.
func (l LoadingIndicator) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its own tick messages.
func (l LoadingIndicator) Update(msg tea.Msg) (LoadingIndicator, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// SetPath changes the report being loaded.
func (l *LoadingIndicator) SetPath(path string) {
	l.path = path
}

// Path returns the report being loaded.
func (l LoadingIndicator) Path() string {
	return l.path
}

// Label names the file being loaded.
func (l LoadingIndicator) Label() string {
	if l.path == "" {
		return "Loading report..."
	}
	return "Loading " + filepath.Base(l.path) + "..."
}

// View renders the spinner and label centered in width x height, with the
// full path underneath when it says more than the label.
func (l LoadingIndicator) View(width, height int) string {
	content := l.spinner.View() + " " + l.labelStyle.Render(l.Label())
	if l.path != "" && filepath.Base(l.path) != l.path {
		content = lipgloss.JoinVertical(lipgloss.Center,
			content,
			l.pathStyle.Render(truncate(l.path, max(width-4, 10))),
		)
	}
	return styles.CenterBoth(content, width, height)
}
