// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/artillery-report-tui/internal/metrics"
	"github.com/j-veylop/artillery-report-tui/internal/ui/styles"
)

// seriesColors are the asciigraph colors matching styles.SeriesColors.
var seriesColors = []asciigraph.AnsiColor{
	asciigraph.HotPink,
	asciigraph.DeepSkyBlue,
	asciigraph.Green,
	asciigraph.Gold,
	asciigraph.DarkOrange,
	asciigraph.MediumPurple,
	asciigraph.Cyan,
}

const (
	minChartWidth  = 20
	minChartHeight = 3
)

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	return asciigraph.Plot(data,
		asciigraph.Height(max(height, minChartHeight)),
		asciigraph.Width(max(width, minChartWidth)),
		asciigraph.Caption(caption),
	)
}

// AlignSeries lines several series up on the union of their timestamps.
// A series without an observation at a timestamp gets NaN there, which
// asciigraph leaves blank instead of drawing a zero.
func AlignSeries(series []metrics.Series) (times []time.Time, columns [][]float64) {
	seen := make(map[int64]time.Time)
	for _, s := range series {
		for _, p := range s.Points {
			seen[p.Time.UnixMilli()] = p.Time
		}
	}
	for _, t := range seen {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	index := make(map[int64]int, len(times))
	for i, t := range times {
		index[t.UnixMilli()] = i
	}

	columns = make([][]float64, len(series))
	for i, s := range series {
		col := make([]float64, len(times))
		for j := range col {
			col[j] = math.NaN()
		}
		for _, p := range s.Points {
			col[index[p.Time.UnixMilli()]] = p.Value
		}
		columns[i] = col
	}
	return times, columns
}

// RenderSeriesChart plots one or more metric series against time with a
// legend. Missing observations show as gaps.
func RenderSeriesChart(series []metrics.Series, kind metrics.Kind, width, height int, caption string) string {
	var plotted []metrics.Series
	for _, s := range series {
		if !s.Empty() {
			plotted = append(plotted, s)
		}
	}
	if len(plotted) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	times, columns := AlignSeries(plotted)
	width = max(width, minChartWidth)
	finite := false
	for i, col := range columns {
		columns[i] = stretch(col, width)
		for _, v := range columns[i] {
			finite = finite || !math.IsNaN(v)
		}
	}
	if !finite {
		return styles.HelpStyle.Render("No data available")
	}

	colors := make([]asciigraph.AnsiColor, len(plotted))
	legends := make([]string, len(plotted))
	for i, s := range plotted {
		colors[i] = SeriesAnsiColor(i)
		legends[i] = s.Key
	}

	if caption == "" {
		caption = kind.String()
	}
	caption = fmt.Sprintf("%s  %s - %s", caption,
		times[0].Local().Format("15:04:05"), times[len(times)-1].Local().Format("15:04:05"))

	// No asciigraph.Width here: its interpolation would smear NaN gaps.
	return asciigraph.PlotMany(columns,
		asciigraph.Height(max(height, minChartHeight)),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	)
}

// stretch resamples values to width columns by nearest neighbour, which
// keeps both observed values and gaps intact.
func stretch(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		out[i] = values[i*len(values)/width]
	}
	return out
}

// SeriesAnsiColor returns the chart color of the i-th series. It matches
// styles.SeriesColor(i).
func SeriesAnsiColor(i int) asciigraph.AnsiColor {
	return seriesColors[i%len(seriesColors)]
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-12, 10)

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		paddedLabel := strings.Repeat(" ", maxLabelLen-lipgloss.Width(label)) + label
		barLen := max(int((v/maxVal)*float64(barWidth)), 0)

		bar := strings.Repeat("█", barLen)
		lines = append(lines, paddedLabel+" │"+bar+" "+FormatCount(v))
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart scaled between
// the smallest and largest value.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	span := maxVal - minVal

	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		idx := 0
		if span > 0 {
			idx = int((val - minVal) / span * float64(len(sparkChars)-1))
		}
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}
