package metrics

import (
	"strings"

	"github.com/j-veylop/artillery-report-tui/internal/report"
)

// Resolve returns the value of key in a snapshot. The boolean is false when
// the snapshot has no observation for the key; callers must gap the point
// rather than plot zero.
//
// A composite key such as http.response_time.p95 is tried as a summary field
// first, then as a counter, then as a rate.
func Resolve(s report.Snapshot, key string) (float64, bool) {
	return resolve(s.Counters, s.Rates, s.Summaries, key)
}

// ResolveAggregate applies the same precedence to the whole-run aggregate.
func ResolveAggregate(a report.Aggregate, key string) (float64, bool) {
	return resolve(a.Counters, a.Rates, a.Summaries, key)
}

func resolve(counters, rates map[string]float64, summaries map[string]report.Summary, key string) (float64, bool) {
	if idx := strings.LastIndexByte(key, '.'); idx >= 0 {
		if summary, ok := summaries[key[:idx]]; ok {
			if v, ok := summary.Stat(key[idx+1:]); ok {
				return v, true
			}
		}
	}

	if v, ok := counters[key]; ok {
		return v, true
	}

	if v, ok := rates[key]; ok {
		return v, true
	}

	return 0, false
}
