package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/artillery-report-tui/internal/ui/styles"
)

// ShareBar renders the share of a total, such as one status code's part of
// an endpoint's responses.
type ShareBar struct {
	progress progress.Model
}

// NewShareBar creates a share bar with the default gradient.
func NewShareBar(width int) ShareBar {
	p := progress.New(
		progress.WithScaledGradient("#5a56e0", "#ee6ff8"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return ShareBar{progress: p}
}

// SetWidth sets the bar width.
func (s *ShareBar) SetWidth(width int) {
	s.progress.Width = width
}

// Width returns the bar width.
func (s ShareBar) Width() int {
	return s.progress.Width
}

// View renders a labelled bar with the percentage on the right. The label
// is colored by StatusStyle, so status codes read as outcomes.
func (s ShareBar) View(percent float64, label string, width int) string {
	s.progress.Width = max(width-30, 10)

	bar := s.progress.ViewAs(clampShare(percent) / 100)

	percentStr := styles.GetShareStyle(percent).
		Width(7).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.1f%%", percent))

	labelStr := styles.StatusStyle(label).
		Width(20).
		Render(truncate(label, 19))

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

// ViewCompact renders the bar and percentage without a label.
func (s ShareBar) ViewCompact(percent float64, width int) string {
	s.progress.Width = max(width-8, 5)

	bar := s.progress.ViewAs(clampShare(percent) / 100)
	percentStr := styles.GetShareStyle(percent).Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

func clampShare(percent float64) float64 {
	return min(max(percent, 0), 100)
}

// truncate shortens s to n cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n || n < 1 {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > n-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
