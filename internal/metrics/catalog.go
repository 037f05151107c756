package metrics

import (
	"sort"
	"strings"

	"github.com/j-veylop/artillery-report-tui/internal/report"
)

// excludedFragments keeps plugin namespaces and per-scenario breakdowns out of
// the general catalog.
var excludedFragments = []string{"plugins.", "created_by_name"}

// Catalog is the ordered, de-duplicated set of metrics discovered in a report.
type Catalog []Descriptor

// BuildCatalog scans every snapshot and returns all metric keys it finds.
// A metric seen in any bucket is listed once, even if earlier buckets lack it.
// Entries are exactly what Classify returns for their key.
func BuildCatalog(r *report.Report) Catalog {
	if r == nil {
		return nil
	}

	seen := make(map[string]Descriptor)
	add := func(d Descriptor) {
		if _, ok := seen[d.Key]; ok || d.Plugin || isExcluded(d.Key) {
			return
		}
		seen[d.Key] = d
	}

	for _, snap := range r.Intermediate {
		for key := range snap.Counters {
			add(Classify(key))
		}
		for key := range snap.Rates {
			add(Classify(key))
		}
		for name, summary := range snap.Summaries {
			for stat := range summary {
				add(Classify(name + "." + stat))
			}
		}
	}

	catalog := make(Catalog, 0, len(seen))
	for _, d := range seen {
		catalog = append(catalog, d)
	}
	sort.Slice(catalog, func(i, j int) bool {
		a, b := catalog[i], catalog[j]
		if ca, cb := a.Category.String(), b.Category.String(); ca != cb {
			return ca < cb
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.Key < b.Key
	})
	return catalog
}

func isExcluded(key string) bool {
	for _, fragment := range excludedFragments {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}

// Lookup returns the descriptor for key.
func (c Catalog) Lookup(key string) (Descriptor, bool) {
	for _, d := range c {
		if d.Key == key {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Filter returns the descriptors whose label or key contains query,
// case-insensitively. An empty query returns the catalog unchanged.
func (c Catalog) Filter(query string) Catalog {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c
	}

	out := make(Catalog, 0, len(c))
	for _, d := range c {
		if strings.Contains(strings.ToLower(d.Label), query) || strings.Contains(strings.ToLower(d.Key), query) {
			out = append(out, d)
		}
	}
	return out
}

// Group is a run of catalog entries sharing a category.
type Group struct {
	Category Category
	Metrics  []Descriptor
}

// Groups splits the catalog into consecutive category groups, preserving order.
func (c Catalog) Groups() []Group {
	var groups []Group
	for _, d := range c {
		if n := len(groups); n > 0 && groups[n-1].Category == d.Category {
			groups[n-1].Metrics = append(groups[n-1].Metrics, d)
			continue
		}
		groups = append(groups, Group{Category: d.Category, Metrics: []Descriptor{d}})
	}
	return groups
}
