package summary

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/artillery-report-tui/internal/metrics"
	"github.com/j-veylop/artillery-report-tui/internal/ui/components"
	"github.com/j-veylop/artillery-report-tui/internal/ui/styles"
)

// View renders the summary tab.
func (m *Model) View() string {
	if !m.state.HasReport() {
		return styles.CenterBoth(styles.HelpStyle.Render("No report open"), m.width, m.height)
	}

	r := m.state.Report()

	var sections []string
	sections = append(sections, styles.TitleStyle.Render("Summary"))
	sections = append(sections, styles.HelpStyle.Render("Whole-run aggregate of the report"), "")

	if tables := metrics.BuildSummaryTables(r); len(tables) > 0 {
		sections = append(sections, card("Latency", renderSummaryTables(tables)))
	}
	if rows := metrics.BuildCounterTable(r); len(rows) > 0 {
		sections = append(sections, card("Counters and rates", renderCounterTable(rows)))
	} else {
		sections = append(sections, styles.HelpStyle.Render("The aggregate has no counters."))
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func card(title, body string) string {
	return styles.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, styles.CardTitleStyle.Render(title), body),
	)
}

// renderSummaryTables lays the summaries out as columns, one row per
// statistic. A statistic missing from a summary shows as n/a.
func renderSummaryTables(tables []metrics.SummaryTable) string {
	var stats []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, row := range t.Rows {
			if !seen[row.Stat] {
				seen[row.Stat] = true
				stats = append(stats, row.Stat)
			}
		}
	}

	header := []string{"stat"}
	for _, t := range tables {
		header = append(header, strings.TrimPrefix(t.Name, "http."))
	}

	grid := [][]string{header}
	for _, stat := range stats {
		line := []string{stat}
		for _, t := range tables {
			value := components.NotAvailable
			for _, row := range t.Rows {
				if row.Stat == stat {
					value = components.FormatValue(row.Value, t.Kind)
					break
				}
			}
			line = append(line, value)
		}
		grid = append(grid, line)
	}

	return renderGrid(grid)
}

func renderCounterTable(rows []metrics.CounterRow) string {
	grid := [][]string{{"metric", "key", "value"}}
	for _, row := range rows {
		value := components.FormatValue(row.Value, row.Kind)
		if row.IsRate {
			value += "/s"
		}
		grid = append(grid, []string{row.Label, row.Key, value})
	}
	return renderGrid(grid)
}

// renderGrid renders rows of cells with the first row as the header. The
// first column is left aligned, the rest right aligned.
func renderGrid(grid [][]string) string {
	widths := make([]int, len(grid[0]))
	for _, row := range grid {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var lines []string
	for r, row := range grid {
		cells := make([]string, len(row))
		for i, cell := range row {
			align := lipgloss.Right
			if i == 0 {
				align = lipgloss.Left
			}
			style := styles.TableCellStyle.Width(widths[i] + 2).Align(align)
			if r == 0 {
				style = style.Bold(true).Foreground(styles.Primary)
			}
			cells[i] = style.Render(cell)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		if r == 0 {
			lines = append(lines, lipgloss.NewStyle().Foreground(styles.Subtle).Render(
				strings.Repeat("─", lipgloss.Width(lines[0])),
			))
		}
	}
	return strings.Join(lines, "\n")
}
