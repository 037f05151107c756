package reports

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/artillery-report-tui/internal/report"
)

const firstReport = `{
	"aggregate": {"counters": {"http.requests": 10}, "rates": {}, "summaries": {}},
	"intermediate": [
		{"counters": {"http.requests": 10}, "rates": {}, "summaries": {}, "period": "1700000000000"}
	]
}`

const secondReport = `{
	"aggregate": {"counters": {"http.requests": 25}, "rates": {}, "summaries": {}},
	"intermediate": [
		{"counters": {"http.requests": 10}, "rates": {}, "summaries": {}, "period": "1700000000000"},
		{"counters": {"http.requests": 15}, "rates": {}, "summaries": {}, "period": "1700000010000"}
	]
}`

func writeReport(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
}

func newTestService(t *testing.T, opts Options) (*Service, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "report.json")
	writeReport(t, path, firstReport)

	svc := New(opts)
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})

	return svc, path
}

func waitForEvent(t *testing.T, svc *Service, want EventType) Event {
	t.Helper()

	timeout := time.After(3 * time.Second)
	for {
		select {
		case event := <-svc.Events():
			if event.Type == want {
				return event
			}
		case <-timeout:
			t.Fatalf("timeout waiting for event %d", want)
		}
	}
}

func TestNew_DefaultDebounce(t *testing.T) {
	svc := New(Options{})
	defer func() { _ = svc.Close() }()

	if svc.opts.Debounce != DefaultDebounce {
		t.Errorf("Debounce = %v, want %v", svc.opts.Debounce, DefaultDebounce)
	}
	if svc.Current() != nil {
		t.Error("new service should have no report")
	}
	if svc.Watching() {
		t.Error("watching should be off by default")
	}
}

func TestOpen(t *testing.T) {
	svc, path := newTestService(t, Options{})

	r, err := svc.Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if svc.Current() != r {
		t.Error("Current() should return the opened report")
	}
	if svc.Path() != path {
		t.Errorf("Path() = %q, want %q", svc.Path(), path)
	}
	if svc.LoadedAt().IsZero() {
		t.Error("LoadedAt() should be set")
	}

	event := waitForEvent(t, svc, EventReportLoaded)
	if event.Report != r || event.Path != path {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestOpen_InvalidKeepsPrevious(t *testing.T) {
	svc, path := newTestService(t, Options{})

	first, err := svc.Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	bad := filepath.Join(filepath.Dir(path), "bad.json")
	writeReport(t, bad, `{"foo": 1}`)

	if _, err := svc.Open(bad); !errors.Is(err, report.ErrNotAReport) {
		t.Fatalf("Open(bad) error = %v, want ErrNotAReport", err)
	}
	if svc.Current() != first {
		t.Error("failed open should keep the previous report")
	}
	if svc.Path() != path {
		t.Errorf("Path() = %q, want %q", svc.Path(), path)
	}

	event := waitForEvent(t, svc, EventError)
	if !errors.Is(event.Error, report.ErrNotAReport) {
		t.Errorf("event error = %v", event.Error)
	}
}

func TestOpen_Missing(t *testing.T) {
	svc := New(Options{})
	defer func() { _ = svc.Close() }()

	if _, err := svc.Open(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Open() should fail for a missing file")
	}
	if svc.Current() != nil {
		t.Error("Current() should stay nil")
	}
}

func TestReload(t *testing.T) {
	svc, path := newTestService(t, Options{})

	if _, err := svc.Reload(); !errors.Is(err, ErrNoReport) {
		t.Fatalf("Reload() before Open error = %v, want ErrNoReport", err)
	}

	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	writeReport(t, path, secondReport)
	r, err := svc.Reload()
	if err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if r.Len() != 2 || svc.Current() != r {
		t.Errorf("reload did not replace the report")
	}

	writeReport(t, path, "{invalid")
	if _, err := svc.Reload(); err == nil {
		t.Fatal("Reload() should fail on invalid JSON")
	}
	if svc.Current() != r {
		t.Error("failed reload should keep the previous report")
	}
}

func TestReload_DropsStaleReport(t *testing.T) {
	svc, first := newTestService(t, Options{})

	second := filepath.Join(filepath.Dir(first), "other.json")
	writeReport(t, second, secondReport)

	if _, err := svc.Open(first); err != nil {
		t.Fatalf("Open(first) failed: %v", err)
	}
	stale, err := report.Load(first)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	current, err := svc.Open(second)
	if err != nil {
		t.Fatalf("Open(second) failed: %v", err)
	}

	if svc.replaceIfCurrent(first, stale) {
		t.Fatal("replaceIfCurrent() installed a report for a path that is no longer open")
	}
	if svc.Current() != current || svc.Path() != second {
		t.Errorf("current = %p at %s, want %p at %s", svc.Current(), svc.Path(), current, second)
	}

	fresh, err := report.Load(second)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !svc.replaceIfCurrent(second, fresh) || svc.Current() != fresh {
		t.Error("replaceIfCurrent() should install a report for the open path")
	}
}

func TestWatchFileChange(t *testing.T) {
	svc, path := newTestService(t, Options{Watch: true, Debounce: 20 * time.Millisecond})

	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	waitForEvent(t, svc, EventReportLoaded)

	writeReport(t, path, secondReport)

	event := waitForEvent(t, svc, EventReportReloaded)
	if event.Report.Len() != 2 {
		t.Errorf("reloaded report has %d snapshots, want 2", event.Report.Len())
	}
	if svc.Current().Len() != 2 {
		t.Errorf("Current() has %d snapshots, want 2", svc.Current().Len())
	}
}

func TestWatchFileChange_Error(t *testing.T) {
	svc, path := newTestService(t, Options{Watch: true, Debounce: 20 * time.Millisecond})

	first, err := svc.Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	waitForEvent(t, svc, EventReportLoaded)

	writeReport(t, path, "{invalid")

	waitForEvent(t, svc, EventError)
	if svc.Current() != first {
		t.Error("invalid rewrite should keep the previous report")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	svc, path := newTestService(t, Options{Watch: true, Debounce: 20 * time.Millisecond})

	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	waitForEvent(t, svc, EventReportLoaded)

	writeReport(t, filepath.Join(filepath.Dir(path), "other.json"), secondReport)

	select {
	case event := <-svc.Events():
		t.Errorf("unexpected event %+v", event)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSendEvent_Full(t *testing.T) {
	svc := New(Options{})
	defer func() { _ = svc.Close() }()

	for i := 0; i < 110; i++ {
		svc.sendEvent(Event{Type: EventReportReloaded})
	}

	if len(svc.Events()) != 100 {
		t.Errorf("expected 100 events, got %d", len(svc.Events()))
	}
}

func TestClose_Twice(t *testing.T) {
	svc := New(Options{Watch: true})
	if err := svc.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}
}
