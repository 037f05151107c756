package services

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/artillery-report-tui/internal/config"
	"github.com/j-veylop/artillery-report-tui/internal/report"
)

const testReport = `{
	"aggregate": {"counters": {"http.requests": 42}, "rates": {}, "summaries": {}},
	"intermediate": [
		{"counters": {"http.requests": 42}, "rates": {}, "summaries": {}, "period": "1700000000000"}
	]
}`

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) notify(title, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	return nil
}

func (n *recordingNotifier) Titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.titles...)
}

func newTestManager(t *testing.T, cfg *config.Config) (*Manager, string) {
	t.Helper()

	tmpDir := t.TempDir()
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.DatabasePath = filepath.Join(tmpDir, "test.db")
	if cfg.ReloadDebounce == 0 {
		cfg.ReloadDebounce = 20 * time.Millisecond
	}

	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	mgr.notify = nil
	t.Cleanup(func() { _ = mgr.Close() })

	path := filepath.Join(tmpDir, "report.json")
	if err := os.WriteFile(path, []byte(testReport), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return mgr, path
}

func waitFor[T ServiceEvent](t *testing.T, ch <-chan ServiceEvent) T {
	t.Helper()

	timeout := time.After(3 * time.Second)
	for {
		select {
		case e := <-ch:
			if event, ok := e.(T); ok {
				return event
			}
		case <-timeout:
			var zero T
			t.Fatalf("timeout waiting for %T", zero)
			return zero
		}
	}
}

func TestNewManager(t *testing.T) {
	mgr, _ := newTestManager(t, nil)

	if mgr.Reports() == nil {
		t.Error("Reports service should be initialized")
	}
	if mgr.Database() == nil {
		t.Error("Database should be initialized")
	}
	if mgr.CurrentReport() != nil {
		t.Error("No report should be open")
	}
}

func TestNewManager_BadDatabase(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := NewManager(&config.Config{DatabasePath: filepath.Join(blocker, "sub", "test.db")})
	if err == nil {
		t.Error("NewManager should fail when the database directory cannot be created")
	}
}

func TestManager_OpenReport(t *testing.T) {
	mgr, path := newTestManager(t, nil)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	r, err := mgr.OpenReport(path)
	if err != nil {
		t.Fatalf("OpenReport failed: %v", err)
	}

	loaded := waitFor[ReportLoadedEvent](t, ch)
	if loaded.Report != r || loaded.Reloaded {
		t.Errorf("unexpected event %+v", loaded)
	}
	if mgr.ReportPath() != path {
		t.Errorf("ReportPath() = %q, want %q", mgr.ReportPath(), path)
	}

	recent := waitFor[RecentReportsEvent](t, ch)
	if len(recent.Reports) != 1 {
		t.Fatalf("expected 1 recent report, got %d", len(recent.Reports))
	}
	if recent.Reports[0].Path != path || recent.Reports[0].Requests != 42 || recent.Reports[0].Snapshots != 1 {
		t.Errorf("unexpected recent report %+v", recent.Reports[0])
	}

	list, err := mgr.RecentReports(10)
	if err != nil || len(list) != 1 {
		t.Errorf("RecentReports() = %v, %v", list, err)
	}
}

func TestManager_OpenInvalid(t *testing.T) {
	mgr, path := newTestManager(t, nil)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	if err := os.WriteFile(path, []byte(`{"foo":1}`), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := mgr.OpenReport(path); !errors.Is(err, report.ErrNotAReport) {
		t.Fatalf("OpenReport error = %v, want ErrNotAReport", err)
	}

	event := waitFor[ErrorEvent](t, ch)
	if event.Service != "reports" || !errors.Is(event.Error, report.ErrNotAReport) {
		t.Errorf("unexpected error event %+v", event)
	}

	list, err := mgr.RecentReports(10)
	if err != nil {
		t.Fatalf("RecentReports failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("failed open should not be recorded, got %d entries", len(list))
	}
}

func TestManager_ReloadNotifies(t *testing.T) {
	mgr, path := newTestManager(t, &config.Config{NotifyOnReload: true})

	notifier := &recordingNotifier{}
	mgr.notify = notifier.notify

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	if _, err := mgr.OpenReport(path); err != nil {
		t.Fatalf("OpenReport failed: %v", err)
	}
	waitFor[ReportLoadedEvent](t, ch)

	if _, err := mgr.ReloadReport(); err != nil {
		t.Fatalf("ReloadReport failed: %v", err)
	}
	reloaded := waitFor[ReportLoadedEvent](t, ch)
	if !reloaded.Reloaded {
		t.Error("expected a reload event")
	}

	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := mgr.ReloadReport(); err == nil {
		t.Fatal("ReloadReport should fail on invalid JSON")
	}
	waitFor[ErrorEvent](t, ch)

	titles := notifier.Titles()
	if len(titles) != 2 || titles[0] != "Report reloaded" || titles[1] != "Report reload failed" {
		t.Errorf("notifications = %v", titles)
	}
	if mgr.CurrentReport() == nil {
		t.Error("failed reload should keep the previous report")
	}
}

func TestManager_NoNotifyByDefault(t *testing.T) {
	mgr, path := newTestManager(t, nil)

	notifier := &recordingNotifier{}
	mgr.notify = notifier.notify

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	if _, err := mgr.OpenReport(path); err != nil {
		t.Fatalf("OpenReport failed: %v", err)
	}
	waitFor[ReportLoadedEvent](t, ch)
	if _, err := mgr.ReloadReport(); err != nil {
		t.Fatalf("ReloadReport failed: %v", err)
	}
	waitFor[ReportLoadedEvent](t, ch)

	if titles := notifier.Titles(); len(titles) != 0 {
		t.Errorf("unexpected notifications %v", titles)
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr, _ := newTestManager(t, nil)

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}
	if cmd == nil {
		t.Error("Subscribe returned nil command")
	}

	mgr.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Channel should be closed")
		}
	default:
		t.Error("Unsubscribe should close the channel")
	}
}

func TestManager_Broadcast(t *testing.T) {
	mgr, _ := newTestManager(t, nil)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	event := ErrorEvent{Service: "test", Error: errors.New("boom")}
	mgr.broadcast(event)

	select {
	case e := <-ch:
		if e != event {
			t.Errorf("Got event %v, want %v", e, event)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for broadcast")
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- RecentReportsEvent{}

	if msg := WaitForEvent(ch)(); msg == nil {
		t.Error("WaitForEvent cmd returned nil msg")
	}

	close(ch)
	if msg := WaitForEvent(ch)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %v", msg)
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = ReportLoadedEvent{}
	var _ ServiceEvent = RecentReportsEvent{}
	var _ ServiceEvent = ErrorEvent{}
}

func TestManager_CloseEmpty(t *testing.T) {
	mgr := &Manager{}
	if err := mgr.Close(); err != nil {
		t.Errorf("Close on empty manager failed: %v", err)
	}
}
