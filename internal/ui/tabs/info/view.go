package info

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/artillery-report-tui/internal/app"
	"github.com/j-veylop/artillery-report-tui/internal/models"
	"github.com/j-veylop/artillery-report-tui/internal/ui/components"
	"github.com/j-veylop/artillery-report-tui/internal/ui/styles"
	"github.com/j-veylop/artillery-report-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderRecentCard())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Recent reports, configuration and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-8, 50), 100)
}

// renderRecentCard lists the recently opened reports. The open report is
// marked with a dot.
func (m *Model) renderRecentCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Recent reports"))

	recent := m.state.Recent()
	switch {
	case slices.Contains(m.state.GetLoadingResources(), "recent"):
		rows = append(rows, styles.HelpStyle.Render("Loading..."))
	case len(recent) == 0:
		rows = append(rows, styles.HelpStyle.Render("No reports opened yet. Run: arv path/to/report.json"))
	default:
		cursor := min(m.cursor, len(recent)-1)
		for i, r := range recent {
			rows = append(rows, m.renderRecentRow(r, i == cursor))
		}
		rows = append(rows, "", styles.HelpStyle.Render("Press enter to open the selected report"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRecentRow(r models.RecentReport, selected bool) string {
	marker := "  "
	if r.Path == m.state.ReportPath() {
		marker = lipgloss.NewStyle().Foreground(styles.Success).Render("● ")
	}

	details := styles.HelpStyle.Render(fmt.Sprintf("%d snapshots, %s requests, %s",
		r.Snapshots, components.FormatCount(float64(r.Requests)), components.FormatAgo(r.OpenedAt)))

	name := lipgloss.NewStyle().Width(28).MaxWidth(28).Render(r.DisplayName())
	row := marker + name + " " + details

	if selected {
		return styles.SelectedListItemStyle.Render(row)
	}
	return styles.ListItemStyle.Render(row)
}

// renderConfigCard renders the configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	if m.config != nil {
		rows = append(rows, m.renderConfigRow("Database", m.config.DatabasePath))
		rows = append(rows, m.renderConfigRow("Open report", orNone(m.state.ReportPath())))
		rows = append(rows, m.renderConfigRow("Watch", onOff(m.config.WatchReport)))
		rows = append(rows, m.renderConfigRow("Reload debounce", m.config.ReloadDebounce.String()))
		rows = append(rows, m.renderConfigRow("Notify on reload", onOff(m.config.NotifyOnReload)))
		rows = append(rows, m.renderConfigRow("Chart height", fmt.Sprintf("%d", m.config.ChartHeight)))
		rows = append(rows, m.renderConfigRow("Log file", orNone(m.config.LogPath)))
		rows = append(rows, m.renderConfigRow("Log level", m.config.LogLevel.String()))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About "+version.Name))

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("Recent reports shown: %s",
		styles.InfoTextStyle.Render(fmt.Sprintf("%d", app.RecentListSize))))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
