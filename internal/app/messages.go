package app

import (
	"time"

	"github.com/j-veylop/artillery-report-tui/internal/models"
	"github.com/j-veylop/artillery-report-tui/internal/report"
	"github.com/j-veylop/artillery-report-tui/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// OpenReportMsg requests loading the report at Path.
type OpenReportMsg struct {
	Path string
}

// ReloadReportMsg requests re-reading the open report from disk.
type ReloadReportMsg struct{}

// ReportLoadedMsg carries a freshly loaded report.
type ReportLoadedMsg struct {
	Path     string
	Report   *report.Report
	Reloaded bool
}

// ReportFailedMsg is returned when an open or reload request fails. The
// error itself is surfaced through the service ErrorEvent.
type ReportFailedMsg struct {
	Path  string
	Error error
}

// ReportChangedMsg is delivered to every tab after the state switched to a
// new report, so tabs can reset cursors and selections.
type ReportChangedMsg struct {
	Path     string
	Reloaded bool
}

// RecentReportsMsg contains the recently opened reports.
type RecentReportsMsg struct {
	Reports []models.RecentReport
	Error   error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
