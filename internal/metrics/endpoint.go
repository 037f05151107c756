package metrics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/j-veylop/artillery-report-tui/internal/report"
)

const endpointPrefix = "plugins.metrics-by-endpoint."

// endpointKeyRe splits plugins.metrics-by-endpoint.<endpoint>.<codes|errors>.<label>.
// The endpoint capture is non-greedy, so a name containing ".codes." or
// ".errors." is cut at the first occurrence.
var endpointKeyRe = regexp.MustCompile(`^plugins\.metrics-by-endpoint\.(.*?)\.(codes|errors)\.(.*)$`)

// EndpointMetric is the per-endpoint breakdown reconstructed from plugin counters.
type EndpointMetric struct {
	Name       string
	Codes      map[string]int64
	Errors     map[string]int64
	TimeSeries []Point
}

// Total is the sum of all code and error counts.
func (e *EndpointMetric) Total() int64 {
	var total int64
	for _, v := range e.Codes {
		total += v
	}
	for _, v := range e.Errors {
		total += v
	}
	return total
}

// Share returns the percentage of the total taken by a code or error label.
func (e *EndpointMetric) Share(label string) float64 {
	total := e.Total()
	if total == 0 {
		return 0
	}
	count, ok := e.Codes[label]
	if !ok {
		count = e.Errors[label]
	}
	return float64(count) / float64(total) * 100
}

// SortedCodes returns the code labels in ascending order.
func (e *EndpointMetric) SortedCodes() []string {
	return sortedKeys(e.Codes)
}

// SortedErrors returns the error labels in ascending order.
func (e *EndpointMetric) SortedErrors() []string {
	return sortedKeys(e.Errors)
}

// parseEndpointKey splits an endpoint counter key into name, kind and label.
func parseEndpointKey(key string) (name, kind, label string, ok bool) {
	if !strings.HasPrefix(key, endpointPrefix) {
		return "", "", "", false
	}
	m := endpointKeyRe.FindStringSubmatch(key)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

// BuildEndpointBreakdown groups the aggregate's metrics-by-endpoint counters by
// endpoint and builds one time series point per snapshot for each of them.
// Endpoints whose counters are all zero are kept.
func BuildEndpointBreakdown(r *report.Report) map[string]*EndpointMetric {
	endpoints := make(map[string]*EndpointMetric)
	if r == nil {
		return endpoints
	}

	for key, value := range r.Aggregate.Counters {
		name, kind, label, ok := parseEndpointKey(key)
		if !ok {
			continue
		}
		e, exists := endpoints[name]
		if !exists {
			e = &EndpointMetric{
				Name:   name,
				Codes:  make(map[string]int64),
				Errors: make(map[string]int64),
			}
			endpoints[name] = e
		}
		if kind == "codes" {
			e.Codes[label] = int64(value)
		} else {
			e.Errors[label] = int64(value)
		}
	}

	if len(endpoints) == 0 {
		return endpoints
	}

	for _, e := range endpoints {
		e.TimeSeries = make([]Point, 0, len(r.Intermediate))
	}

	for _, snap := range r.Intermediate {
		ts, err := ParsePeriod(snap.Period)
		if err != nil {
			continue
		}

		perEndpoint := make(map[string]float64)
		for key, value := range snap.Counters {
			if name, _, _, ok := parseEndpointKey(key); ok {
				perEndpoint[name] += value
			}
		}

		for name, e := range endpoints {
			e.TimeSeries = append(e.TimeSeries, Point{Time: ts, Value: perEndpoint[name]})
		}
	}

	return endpoints
}

// SortedEndpoints orders endpoints by total descending, then by name.
func SortedEndpoints(endpoints map[string]*EndpointMetric) []*EndpointMetric {
	out := make([]*EndpointMetric, 0, len(endpoints))
	for _, e := range endpoints {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Total(), out[j].Total()
		if ti != tj {
			return ti > tj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// EndpointResponseTime returns the aggregate latency summary recorded for an
// endpoint under plugins.metrics-by-endpoint.response_time.<endpoint>.
func EndpointResponseTime(r *report.Report, name string) (report.Summary, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.Aggregate.Summaries[endpointPrefix+"response_time."+name]
	return s, ok
}

// EndpointResponseSeries resolves one latency statistic of an endpoint across
// every snapshot, skipping buckets without it.
func EndpointResponseSeries(r *report.Report, name, stat string) Series {
	return BuildSeries(r, endpointPrefix+"response_time."+name+"."+stat)
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
