package metrics

import (
	"strings"

	"github.com/j-veylop/artillery-report-tui/internal/report"
)

// Preset is a fixed chart of one or more related series.
type Preset struct {
	Title string
	Kind  Kind
	Keys  []string
}

// statKeys expands a summary name into its per-statistic keys.
func statKeys(name string, stats ...string) []string {
	keys := make([]string, len(stats))
	for i, stat := range stats {
		keys[i] = name + "." + stat
	}
	return keys
}

// Presets are the charts shown on the overview tab, in display order.
var Presets = []Preset{
	{
		Title: "Load summary",
		Kind:  KindCount,
		Keys:  []string{keyVUsersCreated, keyVUsersComplete, keyVUsersFailed, keyHTTPRequests},
	},
	{
		Title: "http.request_rate",
		Kind:  KindCount,
		Keys:  []string{keyRequestRate},
	},
	{
		Title: "http.response_time",
		Kind:  KindTime,
		Keys: statKeys(keyResponseTime,
			report.StatMin, report.StatMean, report.StatP50, report.StatP95, report.StatMax),
	},
	{
		Title: "http.response_time.2xx",
		Kind:  KindTime,
		Keys: statKeys(keyResponseTime+".2xx",
			report.StatMin, report.StatMean, report.StatP50, report.StatP95, report.StatP99, report.StatMax),
	},
	{
		Title: "http.downloaded_bytes",
		Kind:  KindBytes,
		Keys:  []string{keyDownloaded},
	},
	{
		Title: "vusers.session_length",
		Kind:  KindTime,
		Keys: statKeys(keySessionLength,
			report.StatMin, report.StatMean, report.StatP50, report.StatP95, report.StatP99, report.StatMax),
	},
}

// CodeKeys returns the http.codes.* keys seen anywhere in the report's
// snapshots, ordered by code. It backs the status code chart.
func CodeKeys(r *report.Report) []string {
	var keys []string
	for _, d := range BuildCatalog(r) {
		if d.Category == CategoryHTTP && strings.HasPrefix(d.Key, prefixHTTPCodes) {
			keys = append(keys, d.Key)
		}
	}
	return keys
}

// Available returns the subset of the preset's keys with at least one
// observation in the report.
func (p Preset) Available(r *report.Report) []Series {
	var out []Series
	for _, s := range BuildSeriesSet(r, p.Keys) {
		if !s.Empty() {
			out = append(out, s)
		}
	}
	return out
}
