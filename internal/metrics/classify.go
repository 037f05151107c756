// Package metrics discovers, classifies and resolves the metric series of a report.
package metrics

import "strings"

// Category groups metrics for presentation.
type Category int

const (
	// CategoryHTTP covers request, response and status code counters.
	CategoryHTTP Category = iota
	// CategoryVUsers covers virtual user lifecycle metrics.
	CategoryVUsers
	// CategoryErrors covers errors.<name> counters.
	CategoryErrors
	// CategoryRates covers per-second rates.
	CategoryRates
	// CategoryResponseTime covers latency statistics.
	CategoryResponseTime
	// CategoryOther is everything else.
	CategoryOther
)

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case CategoryHTTP:
		return "HTTP"
	case CategoryVUsers:
		return "VUsers"
	case CategoryErrors:
		return "Errors"
	case CategoryRates:
		return "Rates"
	case CategoryResponseTime:
		return "Response Time"
	default:
		return "Other"
	}
}

// Kind is the unit of a metric's values.
type Kind int

const (
	// KindCount is a plain count or rate.
	KindCount Kind = iota
	// KindTime is a duration in milliseconds.
	KindTime
	// KindBytes is a byte count.
	KindBytes
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindBytes:
		return "bytes"
	default:
		return "count"
	}
}

// Descriptor describes a metric key.
type Descriptor struct {
	Key      string
	Label    string
	Category Category
	Kind     Kind
	// Plugin marks keys in the plugins.* namespace, which the general catalog
	// leaves to the endpoint breakdown.
	Plugin bool
}

const (
	prefixErrors    = "errors."
	prefixHTTP      = "http."
	prefixHTTPCodes = "http.codes."
	prefixVUsers    = "vusers."
	prefixPlugins   = "plugins."

	keyHTTPRequests   = "http.requests"
	keyHTTPResponses  = "http.responses"
	keyDownloaded     = "http.downloaded_bytes"
	keyResponseTime   = "http.response_time"
	keySessionLength  = "vusers.session_length"
	keyRequestRate    = "http.request_rate"
	keyVUsersCreated  = "vusers.created"
	keyVUsersComplete = "vusers.completed"
	keyVUsersFailed   = "vusers.failed"
)

// statSuffixes are the summary fields that mark a key as a statistic.
var statSuffixes = []string{
	".min", ".max", ".mean", ".median",
	".p50", ".p75", ".p90", ".p95", ".p99", ".p999",
}

// responseTimeBases are summary names whose bare key is itself a latency metric.
var responseTimeBases = map[string]bool{
	keyResponseTime:          true,
	keyResponseTime + ".2xx": true,
	keyResponseTime + ".3xx": true,
	keyResponseTime + ".4xx": true,
	keyResponseTime + ".5xx": true,
}

// Classify maps a metric key to its descriptor. It depends on the key only,
// so the same key always yields the same descriptor.
func Classify(key string) Descriptor {
	d := Descriptor{Key: key, Label: Label(key), Category: CategoryOther, Kind: KindCount}

	switch {
	case strings.HasPrefix(key, prefixErrors) && len(key) > len(prefixErrors):
		d.Category = CategoryErrors

	case strings.HasPrefix(key, prefixHTTPCodes) && len(key) > len(prefixHTTPCodes),
		key == keyHTTPRequests, key == keyHTTPResponses:
		d.Category = CategoryHTTP

	case strings.HasPrefix(key, prefixHTTP) && (hasStatSuffix(key) || responseTimeBases[key]):
		d.Category = CategoryResponseTime
		d.Kind = KindTime

	case key == keyDownloaded:
		d.Category = CategoryHTTP
		d.Kind = KindBytes

	case strings.HasPrefix(key, prefixVUsers):
		d.Category = CategoryVUsers
		if key == keySessionLength || strings.HasPrefix(key, keySessionLength+".") && hasStatSuffix(key) {
			d.Kind = KindTime
		}

	case strings.HasPrefix(key, prefixPlugins):
		d.Plugin = true

	case isRateKey(key):
		d.Category = CategoryRates

	case strings.HasPrefix(key, prefixHTTP):
		d.Category = CategoryHTTP
	}

	return d
}

// Label returns the display label for a key.
func Label(key string) string {
	switch {
	case strings.HasPrefix(key, prefixErrors):
		return "Error: " + strings.TrimPrefix(key, prefixErrors)
	case strings.HasPrefix(key, prefixHTTPCodes):
		return "HTTP " + strings.TrimPrefix(key, prefixHTTPCodes)
	}

	if base, stat, ok := splitStat(key); ok {
		return summaryLabel(base, stat)
	}
	return key
}

// summaryLabel renders "<summary> (<stat>)", e.g. "Response Time 2xx (p95)".
func summaryLabel(base, stat string) string {
	if strings.HasPrefix(base, keyResponseTime) {
		base = "Response Time" + strings.Replace(strings.TrimPrefix(base, keyResponseTime), ".", " ", 1)
	}
	return base + " (" + stat + ")"
}

func hasStatSuffix(key string) bool {
	for _, suffix := range statSuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

// splitStat splits "<summary>.<stat>" when the last segment is a known statistic.
func splitStat(key string) (base, stat string, ok bool) {
	if !hasStatSuffix(key) {
		return "", "", false
	}
	idx := strings.LastIndexByte(key, '.')
	return key[:idx], key[idx+1:], true
}

// isRateKey reports whether the last segment names a rate, e.g. http.request_rate.
func isRateKey(key string) bool {
	last := key
	if idx := strings.LastIndexByte(key, '.'); idx >= 0 {
		last = key[idx+1:]
	}
	return last == "rate" || strings.HasSuffix(last, "_rate")
}
