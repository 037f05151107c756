package explorer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/artillery-report-tui/internal/metrics"
	"github.com/j-veylop/artillery-report-tui/internal/ui/components"
	"github.com/j-veylop/artillery-report-tui/internal/ui/styles"
)

const (
	sparkWidth = 16
	valueWidth = 12
)

var groupHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(styles.Primary)

// View renders the explorer tab.
func (m *Model) View() string {
	if !m.state.HasReport() {
		return styles.CenterBoth(styles.HelpStyle.Render("No report open"), m.width, m.height)
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	chart := ""
	if len(m.selected) > 0 {
		chart = m.renderChart()
	}

	listHeight := max(m.height-lipgloss.Height(chart)-4, 4)
	sections = append(sections, m.renderList(listHeight))

	if chart != "" {
		sections = append(sections, chart)
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderHeader() string {
	if m.searching || m.search.Value() != "" {
		return m.search.View()
	}
	count := fmt.Sprintf("%d metrics", len(m.visible))
	if n := len(m.selected); n > 0 {
		count += fmt.Sprintf(", %d charted", n)
	}
	return styles.HelpStyle.Render(count + "  (/ to search, enter to chart)")
}

// renderList renders the grouped metric list, scrolled so the cursor is
// visible within height lines.
func (m *Model) renderList(height int) string {
	if len(m.visible) == 0 {
		return styles.HelpStyle.Render(fmt.Sprintf("No metrics match %q", m.search.Value()))
	}

	labelWidth := 0
	for _, d := range m.visible {
		labelWidth = max(labelWidth, lipgloss.Width(d.Label))
	}
	labelWidth = min(labelWidth, max(m.width-sparkWidth-valueWidth-14, 20))

	var lines []string
	cursorLine := 0
	index := 0
	for _, g := range m.visible.Groups() {
		lines = append(lines, groupHeaderStyle.Render(g.Category.String()))
		for _, d := range g.Metrics {
			if index == m.cursor {
				cursorLine = len(lines)
			}
			lines = append(lines, m.renderMetric(d, labelWidth, index == m.cursor))
			index++
		}
	}

	if cursorLine < m.offset {
		m.offset = cursorLine
	}
	if cursorLine >= m.offset+height {
		m.offset = cursorLine - height + 1
	}
	m.offset = min(m.offset, max(len(lines)-height, 0))

	end := min(m.offset+height, len(lines))
	return strings.Join(lines[m.offset:end], "\n")
}

func (m *Model) renderMetric(d metrics.Descriptor, labelWidth int, focused bool) string {
	marker := "  "
	if i := slices.Index(m.selected, d.Key); i >= 0 {
		marker = lipgloss.NewStyle().Foreground(styles.SeriesColor(i)).Render("■") + " "
	}

	series := metrics.BuildSeries(m.state.Report(), d.Key)
	spark := components.RenderSparkline(series.Values(), sparkWidth)

	last := components.NotAvailable
	if p, ok := series.Last(); ok {
		last = components.FormatValue(p.Value, d.Kind)
	}

	label := lipgloss.NewStyle().Width(labelWidth).MaxWidth(labelWidth).Render(d.Label)
	row := fmt.Sprintf("%s%s  %s  %s",
		marker,
		label,
		lipgloss.NewStyle().Foreground(styles.Secondary).Width(sparkWidth).Render(spark),
		lipgloss.NewStyle().Width(valueWidth).Align(lipgloss.Right).Render(last),
	)

	if focused {
		return styles.SelectedListItemStyle.Render(row)
	}
	return styles.ListItemStyle.Render(row)
}

// renderChart charts the selected metrics. Metrics of different kinds
// share the axis, so the caption says the units are mixed.
func (m *Model) renderChart() string {
	catalog := m.state.Catalog()

	kind := metrics.KindCount
	caption := ""
	for i, k := range m.selected {
		d, ok := catalog.Lookup(k)
		if !ok {
			continue
		}
		if i == 0 {
			kind = d.Kind
		} else if d.Kind != kind {
			caption = "mixed units"
		}
	}

	series := metrics.BuildSeriesSet(m.state.Report(), m.selected)
	return components.RenderSeriesChart(series, kind, max(m.width-16, 20), m.chartHeight, caption)
}
