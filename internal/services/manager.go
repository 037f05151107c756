// Package services provides service orchestration for the TUI.
package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/artillery-report-tui/internal/config"
	"github.com/j-veylop/artillery-report-tui/internal/db"
	"github.com/j-veylop/artillery-report-tui/internal/logger"
	"github.com/j-veylop/artillery-report-tui/internal/metrics"
	"github.com/j-veylop/artillery-report-tui/internal/models"
	"github.com/j-veylop/artillery-report-tui/internal/report"
	"github.com/j-veylop/artillery-report-tui/internal/services/reports"
)

// recentLimit bounds how many report paths are remembered.
const recentLimit = 50

type (
	// ReportLoadedEvent is emitted when a report is opened or reloaded.
	ReportLoadedEvent struct {
		Report   *report.Report
		Path     string
		Reloaded bool
	}

	// RecentReportsEvent is emitted when the recent reports list changes.
	RecentReportsEvent struct {
		Reports []models.RecentReport
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ReportLoadedEvent) isServiceEvent()  {}
func (RecentReportsEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()         {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	reports     *reports.Service
	database    *db.DB
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent

	notifyOnReload bool
	notify         func(title, body string) error
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		eventChan:      make(chan ServiceEvent, 100),
		stopChan:       make(chan struct{}),
		notifyOnReload: cfg.NotifyOnReload,
		notify: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.reports = reports.New(reports.Options{
		Watch:    cfg.WatchReport,
		Debounce: cfg.ReloadDebounce,
	})

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.reports.Events():
			m.handleReportEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleReportEvent records, notifies and broadcasts report events.
func (m *Manager) handleReportEvent(event reports.Event) {
	switch event.Type {
	case reports.EventReportLoaded:
		m.recordRecent(event.Path, event.Report)
		m.broadcast(ReportLoadedEvent{Report: event.Report, Path: event.Path})

	case reports.EventReportReloaded:
		if m.notifyOnReload {
			m.sendNotification("Report reloaded",
				fmt.Sprintf("%s: %d snapshots", filepath.Base(event.Path), event.Report.Len()))
		}
		m.broadcast(ReportLoadedEvent{Report: event.Report, Path: event.Path, Reloaded: true})

	case reports.EventError:
		if m.notifyOnReload && m.reports.Current() != nil {
			m.sendNotification("Report reload failed", event.Error.Error())
		}
		m.broadcast(ErrorEvent{
			Service: "reports",
			Error:   event.Error,
		})
	}
}

// recordRecent stores the opened report in the recent list.
func (m *Manager) recordRecent(path string, r *report.Report) {
	if m.database == nil || r == nil {
		return
	}

	requests, _ := metrics.ResolveAggregate(r.Aggregate, "http.requests")
	recent := models.NewRecentReport(path, r.Len(), int64(requests))

	if err := m.database.UpsertRecentReport(&recent); err != nil {
		logger.Error("failed to record recent report", "path", path, "error", err)
		m.broadcast(ErrorEvent{Service: "db", Error: err})
		return
	}
	if _, err := m.database.PruneRecentReports(recentLimit); err != nil {
		logger.Warn("failed to prune recent reports", "error", err)
	}

	if list, err := m.RecentReports(recentLimit); err == nil {
		m.broadcast(RecentReportsEvent{Reports: list})
	}
}

func (m *Manager) sendNotification(title, body string) {
	if m.notify == nil {
		return
	}
	if err := m.notify(title, body); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	select {
	case m.eventChan <- event:
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// OpenReport loads the report at path. Subscribers receive a
// ReportLoadedEvent on success and an ErrorEvent on failure.
func (m *Manager) OpenReport(path string) (*report.Report, error) {
	return m.reports.Open(path)
}

// ReloadReport re-reads the open report from disk.
func (m *Manager) ReloadReport() (*report.Report, error) {
	return m.reports.Reload()
}

// CurrentReport returns the open report, or nil.
func (m *Manager) CurrentReport() *report.Report {
	return m.reports.Current()
}

// ReportPath returns the path of the open report.
func (m *Manager) ReportPath() string {
	return m.reports.Path()
}

// RecentReports returns the most recently opened reports.
func (m *Manager) RecentReports(limit int) ([]models.RecentReport, error) {
	if m.database == nil {
		return nil, errors.New("database not initialized")
	}
	return m.database.GetRecentReports(limit)
}

// Reports returns the report service.
func (m *Manager) Reports() *reports.Service {
	return m.reports
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	if m.stopChan != nil {
		close(m.stopChan)
	}

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if m.reports != nil {
		if err := m.reports.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
