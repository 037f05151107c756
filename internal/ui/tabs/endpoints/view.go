package endpoints

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/artillery-report-tui/internal/metrics"
	"github.com/j-veylop/artillery-report-tui/internal/report"
	"github.com/j-veylop/artillery-report-tui/internal/ui/components"
	"github.com/j-veylop/artillery-report-tui/internal/ui/styles"
)

// latencyStats are the per-endpoint response time statistics shown when an
// endpoint is expanded.
var latencyStats = []string{report.StatMin, report.StatMedian, report.StatP95, report.StatP99, report.StatMax}

// View renders the endpoints tab.
func (m *Model) View() string {
	if !m.state.HasReport() {
		return styles.CenterBoth(styles.HelpStyle.Render("No report open"), m.width, m.height)
	}

	endpoints := m.state.Endpoints()
	if len(endpoints) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Center,
			styles.TitleStyle.Render("No endpoint metrics"),
			styles.HelpStyle.Render("Enable the metrics-by-endpoint plugin to get a per-endpoint breakdown."),
		)
		return styles.CenterBoth(content, m.width, m.height)
	}

	header := styles.HelpStyle.Render(fmt.Sprintf("%d endpoints, by responses", len(endpoints)))
	body := m.renderList(endpoints, max(m.height-4, 4))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}

// renderList renders one row per endpoint, with the expanded endpoint's
// details below its row, scrolled to keep the cursor visible.
func (m *Model) renderList(endpoints []*metrics.EndpointMetric, height int) string {
	nameWidth := 0
	for _, e := range endpoints {
		nameWidth = max(nameWidth, lipgloss.Width(e.Name))
	}
	nameWidth = min(nameWidth, max(m.width-30, 20))

	var lines []string
	cursorStart, cursorEnd := 0, 0
	for i, e := range endpoints {
		if i == m.cursor {
			cursorStart = len(lines)
		}
		lines = append(lines, m.renderRow(e, nameWidth, i == m.cursor))
		if e.Name == m.expanded {
			lines = append(lines, strings.Split(m.renderDetail(e), "\n")...)
		}
		if i == m.cursor {
			cursorEnd = len(lines) - 1
		}
	}

	if cursorEnd >= m.offset+height {
		m.offset = cursorEnd - height + 1
	}
	if cursorStart < m.offset {
		m.offset = cursorStart
	}
	m.offset = min(m.offset, max(len(lines)-height, 0))

	end := min(m.offset+height, len(lines))
	return strings.Join(lines[m.offset:end], "\n")
}

func (m *Model) renderRow(e *metrics.EndpointMetric, nameWidth int, focused bool) string {
	indicator := "▸ "
	if e.Name == m.expanded {
		indicator = "▾ "
	}

	errors := ""
	if n := len(e.Errors); n > 0 {
		errors = styles.ErrorTextStyle.Render(fmt.Sprintf("  %d error types", n))
	}

	name := lipgloss.NewStyle().Width(nameWidth).MaxWidth(nameWidth).Render(e.Name)
	total := lipgloss.NewStyle().Width(12).Align(lipgloss.Right).Render(components.FormatCount(float64(e.Total())))
	row := indicator + name + total + errors

	if focused {
		return styles.SelectedListItemStyle.Render(row)
	}
	return styles.ListItemStyle.Render(row)
}

// renderDetail renders the share bars, latency figures and charts of one
// endpoint.
func (m *Model) renderDetail(e *metrics.EndpointMetric) string {
	barWidth := max(m.width-12, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Responses"))
	for _, code := range e.SortedCodes() {
		rows = append(rows, m.shareBar.View(e.Share(code), code, barWidth))
	}
	if len(e.Errors) > 0 {
		rows = append(rows, "", styles.CardTitleStyle.Render("Errors"))
		for _, name := range e.SortedErrors() {
			rows = append(rows, m.shareBar.View(e.Share(name), name, barWidth))
		}
	}

	r := m.state.Report()
	if summary, ok := metrics.EndpointResponseTime(r, e.Name); ok {
		var parts []string
		for _, stat := range latencyStats {
			if v, ok := summary.Stat(stat); ok {
				parts = append(parts, fmt.Sprintf("%s %s", styles.HelpStyle.Render(stat), components.FormatMillis(v)))
			}
		}
		if len(parts) > 0 {
			rows = append(rows, "", styles.CardTitleStyle.Render("Response time"), strings.Join(parts, "   "))
		}
	}

	chartWidth := max(m.width-24, 20)
	traffic := metrics.Series{Key: "responses", Points: e.TimeSeries}
	rows = append(rows, "", components.RenderSeriesChart([]metrics.Series{traffic}, metrics.KindCount, chartWidth, m.chartHeight, "responses per period"))

	latency := []metrics.Series{
		metrics.EndpointResponseSeries(r, e.Name, report.StatMedian),
		metrics.EndpointResponseSeries(r, e.Name, report.StatP95),
		metrics.EndpointResponseSeries(r, e.Name, report.StatP99),
	}
	if hasData(latency) {
		rows = append(rows, "", components.RenderSeriesChart(latency, metrics.KindTime, chartWidth, m.chartHeight, "response time"))
	}

	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func hasData(series []metrics.Series) bool {
	for _, s := range series {
		if !s.Empty() {
			return true
		}
	}
	return false
}
