package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/j-veylop/artillery-report-tui/internal/report"
)

// Figure is a headline number that may be missing from the report.
type Figure struct {
	Value   float64
	Present bool
}

func figure(v float64, ok bool) Figure {
	return Figure{Value: v, Present: ok}
}

// NamedCount is a labelled counter value, e.g. an error code and its count.
type NamedCount struct {
	Name  string
	Count float64
}

// Overview holds the run-level figures shown on the overview tab.
type Overview struct {
	VUsersCreated   Figure
	VUsersCompleted Figure
	VUsersFailed    Figure
	CompletionRate  Figure
	FailureRate     Figure
	AvgRequestRate  Figure
	PeakRequestRate Figure
	TotalRequests   Figure
	Downloaded      Figure

	Snapshots int
	Start     time.Time
	End       time.Time
	Duration  time.Duration

	Errors []NamedCount
	Codes  []NamedCount
}

// HasTimeline reports whether the start and end periods could be read.
func (o Overview) HasTimeline() bool {
	return !o.Start.IsZero()
}

// BuildOverview derives the overview figures from a report.
func BuildOverview(r *report.Report) Overview {
	var o Overview
	if r == nil {
		return o
	}

	agg := r.Aggregate
	o.VUsersCreated = figure(ResolveAggregate(agg, keyVUsersCreated))
	o.VUsersCompleted = figure(ResolveAggregate(agg, keyVUsersComplete))
	o.VUsersFailed = figure(ResolveAggregate(agg, keyVUsersFailed))
	o.AvgRequestRate = figure(ResolveAggregate(agg, keyRequestRate))
	o.TotalRequests = figure(ResolveAggregate(agg, keyHTTPRequests))
	o.Downloaded = figure(ResolveAggregate(agg, keyDownloaded))

	if created := o.VUsersCreated.Value; created > 0 {
		o.CompletionRate = Figure{Value: o.VUsersCompleted.Value / created * 100, Present: true}
		o.FailureRate = Figure{Value: o.VUsersFailed.Value / created * 100, Present: true}
	}

	if peak, ok := BuildSeries(r, keyRequestRate).Max(); ok {
		o.PeakRequestRate = Figure{Value: peak, Present: true}
	}

	o.Snapshots = len(r.Intermediate)
	if o.Snapshots > 0 {
		first, errFirst := ParsePeriod(r.Intermediate[0].Period)
		last, errLast := ParsePeriod(r.Intermediate[o.Snapshots-1].Period)
		if errFirst == nil && errLast == nil {
			o.Start = first
			o.End = last
			o.Duration = last.Sub(first).Round(time.Second)
		}
	}

	o.Errors = prefixedCounts(agg.Counters, prefixErrors)
	sort.SliceStable(o.Errors, func(i, j int) bool { return o.Errors[i].Count > o.Errors[j].Count })
	o.Codes = prefixedCounts(agg.Counters, prefixHTTPCodes)

	return o
}

// prefixedCounts returns counters under prefix with the prefix stripped,
// sorted by name.
func prefixedCounts(counters map[string]float64, prefix string) []NamedCount {
	var out []NamedCount
	for key, value := range counters {
		if name, ok := strings.CutPrefix(key, prefix); ok && name != "" {
			out = append(out, NamedCount{Name: name, Count: value})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SummaryRow is one statistic of a summary table.
type SummaryRow struct {
	Stat  string
	Value float64
}

// SummaryTable is an aggregate summary rendered as rows of statistics.
type SummaryTable struct {
	Name string
	Kind Kind
	Rows []SummaryRow
}

// summaryTableNames are the aggregate summaries shown on the summary tab.
var summaryTableNames = []string{
	keyResponseTime,
	keyResponseTime + ".2xx",
	keyResponseTime + ".4xx",
	keyResponseTime + ".5xx",
	keySessionLength,
}

// summaryTableStats are the statistics listed per table.
var summaryTableStats = []string{
	report.StatMin, report.StatMax, report.StatMean, report.StatMedian,
	report.StatP95, report.StatP99,
}

// BuildSummaryTables returns a table for each well-known aggregate summary
// present in the report. Statistics missing from a summary get no row.
func BuildSummaryTables(r *report.Report) []SummaryTable {
	if r == nil {
		return nil
	}

	var tables []SummaryTable
	for _, name := range summaryTableNames {
		summary, ok := r.Aggregate.Summaries[name]
		if !ok {
			continue
		}
		table := SummaryTable{Name: name, Kind: Classify(name).Kind}
		for _, stat := range summaryTableStats {
			if v, ok := summary.Stat(stat); ok {
				table.Rows = append(table.Rows, SummaryRow{Stat: stat, Value: v})
			}
		}
		tables = append(tables, table)
	}
	return tables
}

// CounterRow is one aggregate counter or rate.
type CounterRow struct {
	Descriptor
	Value  float64
	IsRate bool
}

// BuildCounterTable lists the aggregate counters and rates outside the plugin
// namespaces, ordered by key.
func BuildCounterTable(r *report.Report) []CounterRow {
	if r == nil {
		return nil
	}

	var rows []CounterRow
	for key, value := range r.Aggregate.Counters {
		if d := Classify(key); !d.Plugin && !isExcluded(key) {
			rows = append(rows, CounterRow{Descriptor: d, Value: value})
		}
	}
	for key, value := range r.Aggregate.Rates {
		if d := Classify(key); !d.Plugin && !isExcluded(key) {
			rows = append(rows, CounterRow{Descriptor: d, Value: value, IsRate: true})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}
