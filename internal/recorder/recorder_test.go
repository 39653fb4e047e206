package recorder_test

import (
	"testing"
	"time"

	"github.com/fakeyudi/devpulse/internal/event"
	"github.com/fakeyudi/devpulse/internal/eventlog"
	"github.com/fakeyudi/devpulse/internal/recorder"
	"github.com/fakeyudi/devpulse/internal/signal"
)

const testDebounce = 30 * time.Millisecond

func newRecorder(t *testing.T) (*eventlog.Log, *recorder.Recorder, *signal.Hub) {
	t.Helper()
	log := eventlog.New(50)
	rec := recorder.New(log, recorder.WithDebounce(testDebounce))
	hub := signal.NewHub()
	rec.Attach(hub)
	t.Cleanup(rec.Close)
	return log, rec, hub
}

// waitForEvents polls until the log reaches n events or the deadline passes.
func waitForEvents(t *testing.T, log *eventlog.Log, n int) []event.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if log.Len() >= n {
			return log.Snapshot()
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %d", n, log.Len())
	return nil
}

func TestSwitchDeduplication(t *testing.T) {
	log, _, hub := newRecorder(t)

	docA := &signal.Document{Resource: "a.go", Language: "go"}
	hub.EmitActiveDocumentChanged(docA)
	hub.EmitActiveDocumentChanged(docA) // redundant, must be dropped
	hub.EmitActiveDocumentChanged(&signal.Document{Resource: "b.go", Language: "go"})
	hub.EmitActiveDocumentChanged(docA)

	got := log.Snapshot()
	if len(got) != 3 {
		t.Fatalf("expected 3 switch events, got %d: %+v", len(got), got)
	}
	if got[1].PrevResource != "a.go" || got[1].Resource != "b.go" {
		t.Errorf("second switch: got %q -> %q", got[1].PrevResource, got[1].Resource)
	}
}

func TestSeedSuppressesFirstRedundantSwitch(t *testing.T) {
	log, rec, hub := newRecorder(t)

	rec.Seed(&signal.Document{Resource: "a.go"})
	hub.EmitActiveDocumentChanged(&signal.Document{Resource: "a.go"})
	if log.Len() != 0 {
		t.Fatalf("seeded resource re-reported: expected 0 events, got %d", log.Len())
	}

	hub.EmitActiveDocumentChanged(&signal.Document{Resource: "b.go"})
	got := log.Snapshot()
	if len(got) != 1 || got[0].PrevResource != "a.go" {
		t.Fatalf("expected one switch from seeded resource, got %+v", got)
	}
}

func TestNilDocumentSwitch(t *testing.T) {
	log, _, hub := newRecorder(t)

	hub.EmitActiveDocumentChanged(&signal.Document{Resource: "a.go"})
	hub.EmitActiveDocumentChanged(nil)
	hub.EmitActiveDocumentChanged(nil) // consecutive nil is redundant

	got := log.Snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[1].PrevResource != "a.go" || got[1].Resource != "" {
		t.Errorf("closing switch: got %q -> %q", got[1].PrevResource, got[1].Resource)
	}
}

func TestDebounceCoalescesBurst(t *testing.T) {
	log, _, hub := newRecorder(t)

	hub.EmitTextChanged(signal.TextEdit{Resource: "a.go", Changes: 2})
	hub.EmitTextChanged(signal.TextEdit{Resource: "a.go", Changes: 1})
	hub.EmitTextChanged(signal.TextEdit{Resource: "a.go"}) // zero defaults to 1

	if log.Len() != 0 {
		t.Fatalf("edits emitted before quiet period: %d events", log.Len())
	}

	got := waitForEvents(t, log, 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 coalesced event, got %d", len(got))
	}
	if got[0].Kind != event.KindTextChange || got[0].ChangeCount != 4 {
		t.Errorf("coalesced event: got kind=%s count=%d, want text_change count=4", got[0].Kind, got[0].ChangeCount)
	}
}

func TestDebouncePerResourceIndependence(t *testing.T) {
	log, _, hub := newRecorder(t)

	hub.EmitTextChanged(signal.TextEdit{Resource: "a.go", Changes: 1})
	hub.EmitTextChanged(signal.TextEdit{Resource: "b.go", Changes: 1})
	hub.EmitTextChanged(signal.TextEdit{Resource: "a.go", Changes: 1})

	got := waitForEvents(t, log, 2)
	counts := map[string]int{}
	for _, e := range got {
		if e.Kind != event.KindTextChange {
			t.Fatalf("unexpected kind %s", e.Kind)
		}
		counts[e.Resource] = e.ChangeCount
	}
	if counts["a.go"] != 2 || counts["b.go"] != 1 {
		t.Errorf("per-resource counts: got %v, want a.go=2 b.go=1", counts)
	}
}

func TestImmediateKindsAppendUnconditionally(t *testing.T) {
	log, _, hub := newRecorder(t)

	exit := 1
	hub.EmitDocumentSaved(signal.Document{Resource: "a.go", Language: "go"})
	hub.EmitDebugStarted(signal.DebugSession{Name: "run", Type: "go"})
	hub.EmitDebugStopped(signal.DebugSession{Name: "run", Type: "go"})
	hub.EmitDiagnosticsChanged(signal.Diagnostics{Resources: []string{"a.go"}, Errors: 3, Warnings: 1})
	hub.EmitTerminalCommandStarted(signal.TerminalCommand{Command: "go test ./...", TerminalID: "t1"})
	hub.EmitTerminalCommandEnded(signal.TerminalCommand{Command: "go test ./...", TerminalID: "t1", ExitCode: &exit})
	hub.EmitBreakpointsChanged(signal.BreakpointsDelta{Added: 1})

	got := log.Snapshot()
	wantKinds := []event.Kind{
		event.KindFileSave,
		event.KindDebugStart,
		event.KindDebugStop,
		event.KindDiagnosticChange,
		event.KindTerminalStart,
		event.KindTerminalEnd,
		event.KindBreakpointChange,
	}
	if len(got) != len(wantKinds) {
		t.Fatalf("expected %d events, got %d", len(wantKinds), len(got))
	}
	for i, k := range wantKinds {
		if got[i].Kind != k {
			t.Errorf("event %d: got kind %s, want %s", i, got[i].Kind, k)
		}
	}
	if got[3].Errors != 3 || got[3].Warnings != 1 {
		t.Errorf("diagnostic totals: got %d/%d, want 3/1", got[3].Errors, got[3].Warnings)
	}
	if got[5].ExitCode == nil || *got[5].ExitCode != 1 {
		t.Errorf("exit code not preserved: %+v", got[5].ExitCode)
	}
}

func TestCloseCancelsPendingTimers(t *testing.T) {
	log := eventlog.New(50)
	rec := recorder.New(log, recorder.WithDebounce(testDebounce))
	hub := signal.NewHub()
	rec.Attach(hub)

	hub.EmitTextChanged(signal.TextEdit{Resource: "a.go", Changes: 1})
	rec.Close()

	time.Sleep(3 * testDebounce)
	if log.Len() != 0 {
		t.Fatalf("timer fired after Close: %d events", log.Len())
	}

	// Signals after Close are ignored too: subscriptions were disposed.
	hub.EmitDocumentSaved(signal.Document{Resource: "a.go"})
	if log.Len() != 0 {
		t.Fatalf("event recorded after Close")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	rec := recorder.New(eventlog.New(10))
	rec.Close()
	rec.Close()
}
