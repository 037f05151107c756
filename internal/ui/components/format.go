package components

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/j-veylop/artillery-report-tui/internal/metrics"
)

// NotAvailable is shown for figures missing from the report.
const NotAvailable = "n/a"

// FormatCount renders a counter with thousands separators. Fractions are
// kept to two digits, which covers rates and means.
func FormatCount(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}

// FormatMillis renders a duration given in milliseconds.
func FormatMillis(ms float64) string {
	switch {
	case math.Abs(ms) >= 60_000:
		return FormatDuration(time.Duration(ms * float64(time.Millisecond)))
	case math.Abs(ms) >= 1000:
		return fmt.Sprintf("%.2f s", ms/1000)
	default:
		return fmt.Sprintf("%s ms", humanize.CommafWithDigits(ms, 1))
	}
}

// FormatBytes renders a byte count in SI units.
func FormatBytes(v float64) string {
	if v < 0 {
		return "-" + humanize.Bytes(uint64(-v))
	}
	return humanize.Bytes(uint64(v))
}

// FormatValue renders v according to the metric kind.
func FormatValue(v float64, kind metrics.Kind) string {
	switch kind {
	case metrics.KindTime:
		return FormatMillis(v)
	case metrics.KindBytes:
		return FormatBytes(v)
	default:
		return FormatCount(v)
	}
}

// FormatFigure renders a headline figure, or NotAvailable when absent.
func FormatFigure(f metrics.Figure, kind metrics.Kind) string {
	if !f.Present {
		return NotAvailable
	}
	return FormatValue(f.Value, kind)
}

// FormatPercent renders a percentage figure.
func FormatPercent(f metrics.Figure) string {
	if !f.Present {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", f.Value)
}

// FormatDuration renders a run duration as h/m/s.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatAgo renders how long ago t was, e.g. "3 minutes ago".
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return humanize.Time(t)
}
