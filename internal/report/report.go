// Package report defines the Artillery report document and its admission check.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// Statistic field names found in summary blocks.
const (
	StatMin    = "min"
	StatMax    = "max"
	StatCount  = "count"
	StatMean   = "mean"
	StatMedian = "median"
	StatP50    = "p50"
	StatP75    = "p75"
	StatP90    = "p90"
	StatP95    = "p95"
	StatP99    = "p99"
	StatP999   = "p999"
)

// SummaryStats lists the statistic fields in display order.
var SummaryStats = []string{
	StatMin, StatMax, StatCount, StatMean, StatMedian,
	StatP50, StatP75, StatP90, StatP95, StatP99, StatP999,
}

// Report is a parsed load-test report. It is never mutated after loading.
type Report struct {
	Aggregate    Aggregate  `json:"aggregate"`
	Intermediate []Snapshot `json:"intermediate"`
}

// Aggregate holds the whole-run counters, rates and summaries.
type Aggregate struct {
	Counters  Values    `json:"counters"`
	Rates     Values    `json:"rates"`
	Summaries Summaries `json:"summaries"`
}

// Snapshot is one time bucket of the run. Period marks the end of the bucket.
type Snapshot struct {
	Counters  Values    `json:"counters"`
	Rates     Values    `json:"rates"`
	Summaries Summaries `json:"summaries"`
	Period    Period    `json:"period"`
}

// UnmarshalJSON decodes an object and leaves the snapshot empty for any
// other JSON value.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	if !gjson.ParseBytes(data).IsObject() {
		*s = Snapshot{}
		return nil
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Snapshot(p)
	return nil
}

// Values maps metric keys to numbers. Entries that are not JSON numbers,
// null included, are dropped while decoding.
type Values map[string]float64

// UnmarshalJSON keeps numeric entries. A value that is not an object
// decodes to nil.
func (v *Values) UnmarshalJSON(data []byte) error {
	*v = numericFields(gjson.ParseBytes(data))
	return nil
}

// Summaries maps summary names to their statistics. Entries that are not
// objects are dropped while decoding.
type Summaries map[string]Summary

// UnmarshalJSON keeps object entries. A value that is not an object
// decodes to nil.
func (m *Summaries) UnmarshalJSON(data []byte) error {
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		*m = nil
		return nil
	}

	out := make(Summaries)
	doc.ForEach(func(name, value gjson.Result) bool {
		if value.IsObject() {
			out[name.String()] = Summary(numericFields(value))
		}
		return true
	})
	*m = out
	return nil
}

// numericFields collects the number-typed members of an object.
func numericFields(doc gjson.Result) map[string]float64 {
	if !doc.IsObject() {
		return nil
	}
	out := make(map[string]float64)
	doc.ForEach(func(name, value gjson.Result) bool {
		if value.Type == gjson.Number {
			out[name.String()] = value.Float()
		}
		return true
	})
	return out
}

// Summary is a sparse block of distribution statistics. A missing field
// means the producer did not report it.
type Summary map[string]float64

// Stat returns the named statistic and whether it is present.
func (s Summary) Stat(name string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s[name]
	return v, ok
}

// UnmarshalJSON keeps numeric fields and drops everything else, null
// included. A value that is not an object decodes to nil.
func (s *Summary) UnmarshalJSON(data []byte) error {
	*s = numericFields(gjson.ParseBytes(data))
	return nil
}

// Period is a millisecond epoch timestamp carried as a numeric string.
type Period string

// UnmarshalJSON accepts both "1700000000000" and 1700000000000. Any other
// JSON value leaves the period empty, which Millis reports as invalid.
func (p *Period) UnmarshalJSON(data []byte) error {
	switch v := gjson.ParseBytes(data); v.Type {
	case gjson.String:
		*p = Period(v.Str)
	case gjson.Number:
		*p = Period(v.Raw)
	default:
		*p = ""
	}
	return nil
}

// Millis returns the period as milliseconds since the epoch.
func (p Period) Millis() (int64, error) {
	if ms, err := strconv.ParseInt(string(p), 10, 64); err == nil {
		return ms, nil
	}
	f, err := strconv.ParseFloat(string(p), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", string(p), err)
	}
	return int64(f), nil
}

// Time returns the period as a UTC time.
func (p Period) Time() (time.Time, error) {
	ms, err := p.Millis()
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// Len returns the number of snapshots.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Intermediate)
}

// SortSnapshots orders snapshots by ascending period. Reports are expected to
// arrive sorted; this is for consumers that cannot guarantee it. Snapshots with
// an unparseable period keep their relative order at the end.
func SortSnapshots(snapshots []Snapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		a, errA := snapshots[i].Period.Millis()
		b, errB := snapshots[j].Period.Millis()
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return a < b
		}
	})
}
