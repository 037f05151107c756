package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/artillery-report-tui/internal/config"
	"github.com/j-veylop/artillery-report-tui/internal/report"
	"github.com/j-veylop/artillery-report-tui/internal/services"
)

func newTestManager(t *testing.T) (*services.Manager, string) {
	t.Helper()

	tmpDir := t.TempDir()
	mgr, err := services.NewManager(&config.Config{
		DatabasePath:   filepath.Join(tmpDir, "test.db"),
		ReloadDebounce: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	path := filepath.Join(tmpDir, "report.json")
	data := `{"aggregate":{"counters":{"http.requests":3}},"intermediate":[{"counters":{"http.requests":3},"period":"1700000000000"}]}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return mgr, path
}

func TestCommands_Tick(t *testing.T) {
	cmds := NewCommands(nil)
	cmd := cmds.Tick(time.Millisecond)
	if cmd == nil {
		t.Error("Tick returned nil")
	}
}

func TestCommands_DefaultTick(t *testing.T) {
	cmds := NewCommands(nil)
	cmd := cmds.DefaultTick()
	if cmd == nil {
		t.Error("DefaultTick returned nil")
	}
}

func TestCommands_Notifications(t *testing.T) {
	cmds := NewCommands(nil)

	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
	}{
		{"Success", cmds.NotifySuccess, NotificationSuccess},
		{"Error", cmds.NotifyError, NotificationError},
		{"Warning", cmds.NotifyWarning, NotificationWarning},
		{"Info", cmds.NotifyInfo, NotificationInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.fn("msg")
			msg := cmd()

			addMsg, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
		})
	}
}

func TestCommands_ClearNotification(t *testing.T) {
	cmds := NewCommands(nil)
	cmd := cmds.ClearNotification("id", time.Millisecond)
	if cmd == nil {
		t.Error("ClearNotification returned nil")
	}
}

func TestCommands_Quit(t *testing.T) {
	cmds := NewCommands(nil)
	msg := cmds.Quit()()
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("Expected QuitMsg, got %T", msg)
	}
}

func TestCommands_NilManager(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.OpenReport("/x.json") != nil || cmds.ReloadReport() != nil || cmds.LoadRecent() != nil {
		t.Error("report commands need a manager")
	}
}

func TestCommands_OpenAndReload(t *testing.T) {
	mgr, path := newTestManager(t)
	cmds := NewCommands(mgr)

	msg := cmds.OpenReport(path)()
	loaded, ok := msg.(ReportLoadedMsg)
	if !ok {
		t.Fatalf("Expected ReportLoadedMsg, got %T", msg)
	}
	if loaded.Report == nil || loaded.Reloaded || loaded.Path != path {
		t.Errorf("unexpected load %+v", loaded)
	}

	msg = cmds.ReloadReport()()
	reloaded, ok := msg.(ReportLoadedMsg)
	if !ok || !reloaded.Reloaded {
		t.Errorf("Expected reloaded ReportLoadedMsg, got %#v", msg)
	}

	msg = cmds.LoadRecent()()
	recent, ok := msg.(RecentReportsMsg)
	if !ok || recent.Error != nil || len(recent.Reports) != 1 {
		t.Errorf("unexpected recent reports %#v", msg)
	}
}

func TestCommands_OpenFailure(t *testing.T) {
	mgr, path := newTestManager(t)
	if err := os.WriteFile(path, []byte(`{"not":"a report"}`), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	msg := NewCommands(mgr).OpenReport(path)()
	failed, ok := msg.(ReportFailedMsg)
	if !ok {
		t.Fatalf("Expected ReportFailedMsg, got %T", msg)
	}
	if !errors.Is(failed.Error, report.ErrNotAReport) {
		t.Errorf("error = %v, want ErrNotAReport", failed.Error)
	}
}

func TestSubscribeAndWait(t *testing.T) {
	mgr, _ := newTestManager(t)

	msg := subscribeToServicesCmd(mgr)()
	sub, ok := msg.(SubscriptionEventMsg)
	if !ok || sub.Channel == nil {
		t.Fatalf("Expected SubscriptionEventMsg, got %#v", msg)
	}

	sub.Channel <- services.ErrorEvent{Service: "test"}
	got := waitForServiceEventCmd(sub.Channel)()
	if ev, ok := got.(ServiceEventMsg); !ok || ev.Event.(services.ErrorEvent).Service != "test" {
		t.Errorf("unexpected msg %#v", got)
	}

	mgr.Unsubscribe(sub.Channel)
	if got := waitForServiceEventCmd(sub.Channel)(); got != nil {
		t.Errorf("closed channel should yield nil, got %#v", got)
	}
}
