// Package models defines data structures and domain types.
package models

import (
	"path/filepath"
	"time"
)

// RecentReport is a previously opened report file. Only file metadata and
// headline counts are kept; the parsed report itself is never stored.
type RecentReport struct {
	OpenedAt  time.Time
	Path      string
	Label     string
	Snapshots int
	Requests  int64
	OpenCount int
}

// NewRecentReport describes a report opened now.
func NewRecentReport(path string, snapshots int, requests int64) RecentReport {
	return RecentReport{
		Path:      path,
		Label:     filepath.Base(path),
		OpenedAt:  time.Now(),
		Snapshots: snapshots,
		Requests:  requests,
	}
}

// DisplayName returns the label, falling back to the file name.
func (r RecentReport) DisplayName() string {
	if r.Label != "" {
		return r.Label
	}
	return filepath.Base(r.Path)
}
