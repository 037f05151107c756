// Package reports loads Artillery report files and reloads them when they change on disk.
package reports

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/artillery-report-tui/internal/logger"
	"github.com/j-veylop/artillery-report-tui/internal/report"
)

// ErrNoReport is returned by Reload when no report has been opened yet.
var ErrNoReport = errors.New("no report opened")

// ErrReportSwitched is returned by Reload when another report was opened
// while the file was being read.
var ErrReportSwitched = errors.New("report switched during reload")

// DefaultDebounce is the reload delay used when Options.Debounce is zero.
const DefaultDebounce = 250 * time.Millisecond

// EventType defines the type of report event.
type EventType int

const (
	// EventReportLoaded is sent when a report is opened.
	EventReportLoaded EventType = iota
	// EventReportReloaded is sent when the watched file changed and parsed cleanly.
	EventReportReloaded
	// EventError is sent when a load or reload fails. The previous report stays current.
	EventError
)

// Event represents a report service event.
type Event struct {
	Type   EventType
	Path   string
	Report *report.Report
	Error  error
}

// Options configures the service.
type Options struct {
	// Watch reloads the open report whenever its file is written.
	Watch bool
	// Debounce collapses bursts of writes into a single reload.
	Debounce time.Duration
}

// Service owns the currently open report.
type Service struct {
	mu       sync.RWMutex
	current  *report.Report
	path     string
	loadedAt time.Time

	opts      Options
	watcher   *fsnotify.Watcher
	eventChan chan Event
	stopChan  chan struct{}
	closeOnce sync.Once
}

// New creates a report service. No report is open until Open is called.
func New(opts Options) *Service {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Service{
		opts:      opts,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}
}

// Events returns the event channel for subscribing to report changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Current returns the open report, or nil.
func (s *Service) Current() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the path of the open report.
func (s *Service) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// LoadedAt returns when the open report was last read.
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Watching reports whether file watching is enabled.
func (s *Service) Watching() bool {
	return s.opts.Watch
}

// Open loads the report at path and makes it current. On failure the
// previously open report is kept and the error is returned.
func (s *Service) Open(path string) (*report.Report, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve report path: %w", err)
	}

	r, err := report.Load(abs)
	if err != nil {
		s.sendEvent(Event{Type: EventError, Path: abs, Error: err})
		return nil, err
	}

	s.mu.Lock()
	previous := s.path
	s.current = r
	s.path = abs
	s.loadedAt = time.Now()
	s.mu.Unlock()

	logger.Info("report loaded", "path", abs, "snapshots", r.Len())
	s.sendEvent(Event{Type: EventReportLoaded, Path: abs, Report: r})

	if s.opts.Watch && previous != abs {
		if err := s.startWatcher(abs); err != nil {
			logger.Warn("report watch disabled", "path", abs, "error", err)
		}
	}

	return r, nil
}

// Reload re-reads the open report from disk.
func (s *Service) Reload() (*report.Report, error) {
	path := s.Path()
	if path == "" {
		return nil, ErrNoReport
	}

	r, err := report.Load(path)
	if err != nil {
		logger.Warn("report reload failed", "path", path, "error", err)
		s.sendEvent(Event{Type: EventError, Path: path, Error: err})
		return nil, err
	}

	if !s.replaceIfCurrent(path, r) {
		logger.Debug("stale reload dropped", "path", path, "current", s.Path())
		return nil, ErrReportSwitched
	}

	logger.Info("report reloaded", "path", path, "snapshots", r.Len())
	s.sendEvent(Event{Type: EventReportReloaded, Path: path, Report: r})
	return r, nil
}

// replaceIfCurrent installs r only while path is still the open report.
func (s *Service) replaceIfCurrent(path string, r *report.Report) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path != path {
		return false
	}
	s.current = r
	s.loadedAt = time.Now()
	return true
}

// startWatcher replaces any running watcher with one on the directory of path.
// The directory is watched so that editors replacing the file by rename are seen.
func (s *Service) startWatcher(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	s.mu.Lock()
	old := s.watcher
	s.watcher = watcher
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			logger.Error("failed to close watcher", "error", err)
		}
	}

	go s.watchLoop(watcher, filepath.Base(path))
	return nil
}

// watchLoop reloads the report after a quiet period following writes to name.
func (s *Service) watchLoop(watcher *fsnotify.Watcher, name string) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(s.opts.Debounce, func() {
				if _, err := s.Reload(); err != nil {
					logger.Debug("reload after change failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Path: s.Path(), Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event without blocking, dropping the oldest event when full.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		watcher := s.watcher
		s.watcher = nil
		s.mu.Unlock()

		if watcher != nil {
			err = watcher.Close()
		}
	})
	return err
}
