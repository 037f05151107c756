package metrics

import (
	"fmt"
	"time"

	"github.com/j-veylop/artillery-report-tui/internal/report"
)

// Point is one observation of a series.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is a metric resolved across snapshots. Buckets without an
// observation are left out, so a gap never reads as zero.
type Series struct {
	Key    string
	Points []Point
}

// ParsePeriod converts a snapshot period into a time.
func ParsePeriod(p report.Period) (time.Time, error) {
	t, err := p.Time()
	if err != nil {
		return time.Time{}, fmt.Errorf("parse period: %w", err)
	}
	return t, nil
}

// BuildSeries resolves key in every snapshot of the report.
func BuildSeries(r *report.Report, key string) Series {
	s := Series{Key: key}
	if r == nil {
		return s
	}

	for _, snap := range r.Intermediate {
		v, ok := Resolve(snap, key)
		if !ok {
			continue
		}
		ts, err := ParsePeriod(snap.Period)
		if err != nil {
			continue
		}
		s.Points = append(s.Points, Point{Time: ts, Value: v})
	}
	return s
}

// BuildSeriesSet resolves several keys at once, keeping the order given.
func BuildSeriesSet(r *report.Report, keys []string) []Series {
	out := make([]Series, 0, len(keys))
	for _, key := range keys {
		out = append(out, BuildSeries(r, key))
	}
	return out
}

// Empty reports whether the series has no observations.
func (s Series) Empty() bool {
	return len(s.Points) == 0
}

// Values returns the observed values in time order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// Max returns the largest observed value, or false for an empty series.
func (s Series) Max() (float64, bool) {
	if s.Empty() {
		return 0, false
	}
	peak := s.Points[0].Value
	for _, p := range s.Points[1:] {
		peak = max(peak, p.Value)
	}
	return peak, true
}

// Last returns the most recent observation, or false for an empty series.
func (s Series) Last() (Point, bool) {
	if s.Empty() {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}
