// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/artillery-report-tui/internal/metrics"
	"github.com/j-veylop/artillery-report-tui/internal/models"
	"github.com/j-veylop/artillery-report-tui/internal/report"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Report  bool
	Recent  bool
}

// State is the data shared between the application model and its tabs.
// Everything derived from the report is rebuilt together in SetReport, so
// tabs never see a catalog from one report and endpoints from another.
type State struct {
	mu sync.RWMutex

	report    *report.Report
	path      string
	reloads   int
	catalog   metrics.Catalog
	endpoints []*metrics.EndpointMetric
	overview  metrics.Overview
	recent    []models.RecentReport

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state with the initial load pending.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "report":
		s.Loading.Report = loading
	case "recent":
		s.Loading.Recent = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Report || s.Loading.Recent
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Report {
		resources = append(resources, "report")
	}
	if s.Loading.Recent {
		resources = append(resources, "recent")
	}
	return resources
}

// SetReport installs a new report and rebuilds the catalog, endpoint
// breakdown and overview from it. It returns false when r is already the
// current report, so the same load arriving twice is applied once.
func (s *State) SetReport(path string, r *report.Report) bool {
	if r == nil {
		return false
	}

	catalog := metrics.BuildCatalog(r)
	endpoints := metrics.SortedEndpoints(metrics.BuildEndpointBreakdown(r))
	overview := metrics.BuildOverview(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.report == r {
		return false
	}
	if s.report != nil && s.path == path {
		s.reloads++
	} else {
		s.reloads = 0
	}

	s.report = r
	s.path = path
	s.catalog = catalog
	s.endpoints = endpoints
	s.overview = overview
	s.LastUpdated = time.Now()
	return true
}

// Report returns the current report, or nil before the first load.
func (s *State) Report() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// HasReport reports whether a report has been loaded.
func (s *State) HasReport() bool {
	return s.Report() != nil
}

// ReportPath returns the path of the current report.
func (s *State) ReportPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Reloads returns how many times the current path has been reloaded.
func (s *State) Reloads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reloads
}

// Catalog returns the metric catalog of the current report.
func (s *State) Catalog() metrics.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Endpoints returns the endpoint breakdown, busiest first.
func (s *State) Endpoints() []*metrics.EndpointMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endpoints
}

// Overview returns the headline figures of the current report.
func (s *State) Overview() metrics.Overview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overview
}

// SetRecent replaces the recent reports list.
func (s *State) SetRecent(recent []models.RecentReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = recent
}

// Recent returns a copy of the recent reports list.
func (s *State) Recent() []models.RecentReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]models.RecentReport, len(s.recent))
	copy(recent, s.recent)
	return recent
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time a report was installed.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
