package overview

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/artillery-report-tui/internal/metrics"
	"github.com/j-veylop/artillery-report-tui/internal/ui/components"
	"github.com/j-veylop/artillery-report-tui/internal/ui/styles"
)

const statCardWidth = 20

// statCard is one headline figure.
type statCard struct {
	label string
	value string
	style lipgloss.Style
}

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.loading.View(m.width, m.height)
	}
	if !m.state.HasReport() {
		return m.renderEmpty()
	}

	ov := m.state.Overview()

	var sections []string
	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderStatCards(ov))
	sections = append(sections, m.renderMetadata(ov))
	if counts := m.renderCounts(ov); counts != "" {
		sections = append(sections, counts)
	}
	sections = append(sections, m.renderCharts()...)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("No report open"),
		styles.HelpStyle.Render("Run arv with a report.json, or open a recent report from the Info tab (5)."),
	)
	return styles.CenterBoth(content, m.width, m.height)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Overview")
	subtitle := styles.HelpStyle.Render(filepath.Base(m.state.ReportPath()))
	if n := m.state.Reloads(); n > 0 {
		subtitle += styles.HelpStyle.Render(fmt.Sprintf("  (reloaded %d×)", n))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// statCards lists the headline figures in display order.
func statCards(ov metrics.Overview) []statCard {
	failureStyle := styles.StatValueStyle
	if ov.VUsersFailed.Present && ov.VUsersFailed.Value > 0 {
		failureStyle = styles.ErrorTextStyle.Bold(true)
	}

	return []statCard{
		{"VUsers created", components.FormatFigure(ov.VUsersCreated, metrics.KindCount), styles.StatValueStyle},
		{"VUsers completed", components.FormatFigure(ov.VUsersCompleted, metrics.KindCount), styles.StatValueStyle},
		{"VUsers failed", components.FormatFigure(ov.VUsersFailed, metrics.KindCount), failureStyle},
		{"Completion", components.FormatPercent(ov.CompletionRate), styles.SuccessTextStyle.Bold(true)},
		{"Failure", components.FormatPercent(ov.FailureRate), failureStyle},
		{"Avg req/s", components.FormatFigure(ov.AvgRequestRate, metrics.KindCount), styles.StatValueStyle},
		{"Peak req/s", components.FormatFigure(ov.PeakRequestRate, metrics.KindCount), styles.StatValueStyle},
		{"Requests", components.FormatFigure(ov.TotalRequests, metrics.KindCount), styles.StatValueStyle},
		{"Downloaded", components.FormatFigure(ov.Downloaded, metrics.KindBytes), styles.StatValueStyle},
	}
}

// renderStatCards lays the cards out in as many rows as the width needs.
func (m *Model) renderStatCards(ov metrics.Overview) string {
	cards := statCards(ov)

	// Card width plus border and margin.
	perRow := max((m.width-6)/(statCardWidth+3), 1)

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		var rendered []string
		for _, c := range cards[start:end] {
			body := lipgloss.JoinVertical(lipgloss.Left,
				c.style.Render(c.value),
				styles.StatLabelStyle.Render(c.label),
			)
			rendered = append(rendered, styles.StatCardStyle.Width(statCardWidth).Render(body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderMetadata(ov metrics.Overview) string {
	cardWidth := min(max(m.width-6, 40), 80)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Run"))
	rows = append(rows, renderRow("File", m.state.ReportPath()))
	rows = append(rows, renderRow("Snapshots", fmt.Sprintf("%d", ov.Snapshots)))
	if ov.HasTimeline() {
		rows = append(rows, renderRow("Start", ov.Start.Local().Format("2006-01-02 15:04:05")))
		rows = append(rows, renderRow("End", ov.End.Local().Format("2006-01-02 15:04:05")))
		rows = append(rows, renderRow("Duration", components.FormatDuration(ov.Duration)))
	} else {
		rows = append(rows, renderRow("Duration", components.NotAvailable))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(12).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderCounts renders the error and status code bar charts side by side.
// It returns "" when the report has neither.
func (m *Model) renderCounts(ov metrics.Overview) string {
	cardWidth := max((m.width-14)/2, 30)

	var cards []string
	if len(ov.Codes) > 0 {
		cards = append(cards, countCard("HTTP codes", ov.Codes, cardWidth))
	}
	if len(ov.Errors) > 0 {
		cards = append(cards, countCard("Errors", ov.Errors, cardWidth))
	}
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func countCard(title string, counts []metrics.NamedCount, width int) string {
	values := make([]float64, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = c.Count
		labels[i] = styles.StatusStyle(c.Name).Render(c.Name)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(title),
		components.RenderBarChart(values, labels, width-6),
	)
	return styles.CardStyle.Width(width).Render(body)
}

// renderCharts renders every preset with data, followed by the status code
// chart.
func (m *Model) renderCharts() []string {
	r := m.state.Report()
	chartWidth := max(m.width-28, 20)

	var charts []string
	for _, p := range metrics.Presets {
		series := p.Available(r)
		if len(series) == 0 {
			continue
		}
		charts = append(charts, m.renderChart(p.Title, series, p.Kind, chartWidth))
	}

	if codes := metrics.BuildSeriesSet(r, metrics.CodeKeys(r)); len(codes) > 0 {
		charts = append(charts, m.renderChart("http.codes", codes, metrics.KindCount, chartWidth))
	}

	return charts
}

func (m *Model) renderChart(title string, series []metrics.Series, kind metrics.Kind, width int) string {
	chart := components.RenderSeriesChart(series, kind, width, m.chartHeight, kind.String())
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(title),
		chart,
	)
	return styles.CardStyle.Render(body)
}
