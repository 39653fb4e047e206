package eventlog_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/devpulse/internal/event"
	"github.com/fakeyudi/devpulse/internal/eventlog"
)

// Property: after any sequence of pushes, the log holds the min(n, capacity)
// most recent events, in push order.
func TestRetentionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 32).Draw(t, "capacity")
		n := rapid.IntRange(0, 100).Draw(t, "pushes")

		log := eventlog.New(capacity)
		pushed := make([]event.Event, 0, n)
		for i := 0; i < n; i++ {
			e := event.FileSave(int64(i), "file", "go")
			log.Push(e)
			pushed = append(pushed, e)
		}

		got := log.Snapshot()
		want := pushed
		if len(want) > capacity {
			want = want[len(want)-capacity:]
		}
		if len(got) != len(want) {
			t.Fatalf("Snapshot length: got %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i].TimeMs != want[i].TimeMs {
				t.Fatalf("Snapshot[%d]: got ts %d, want %d", i, got[i].TimeMs, want[i].TimeMs)
			}
		}
		if log.Len() != len(want) {
			t.Errorf("Len: got %d, want %d", log.Len(), len(want))
		}
	})
}

// Property: Since(w, now) is exactly the suffix of Snapshot with
// timestamp >= now-w.
func TestSinceIsSuffixProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 32).Draw(t, "capacity")
		n := rapid.IntRange(0, 60).Draw(t, "pushes")

		log := eventlog.New(capacity)
		ts := int64(0)
		for i := 0; i < n; i++ {
			ts += int64(rapid.IntRange(0, 500).Draw(t, "gap"))
			log.Push(event.TextChange(ts, "file", 1))
		}
		now := ts + int64(rapid.IntRange(0, 1000).Draw(t, "lag"))
		window := int64(rapid.IntRange(0, 5000).Draw(t, "window"))

		got := log.Since(window, now)
		all := log.Snapshot()
		cutoff := now - window

		var want []event.Event
		for i, e := range all {
			if e.TimeMs >= cutoff {
				want = all[i:]
				break
			}
		}
		if len(got) != len(want) {
			t.Fatalf("Since length: got %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i].TimeMs != want[i].TimeMs {
				t.Fatalf("Since[%d]: got ts %d, want %d", i, got[i].TimeMs, want[i].TimeMs)
			}
		}
	})
}

func TestCapacityOneKeepsLatest(t *testing.T) {
	log := eventlog.New(1)
	log.Push(event.FileSave(1, "first", "go"))
	log.Push(event.FileSave(2, "second", "go"))

	got := log.Snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Resource != "second" {
		t.Errorf("expected latest event, got %q", got[0].Resource)
	}
}

func TestPushBelowCapacityNeverEvicts(t *testing.T) {
	log := eventlog.New(10)
	for i := 0; i < 10; i++ {
		log.Push(event.FileSave(int64(i), "file", "go"))
	}
	if log.Len() != 10 {
		t.Fatalf("Len: got %d, want 10", log.Len())
	}
	if got := log.Snapshot(); got[0].TimeMs != 0 {
		t.Errorf("oldest event was evicted below capacity: first ts %d", got[0].TimeMs)
	}
}

func TestSinceBounds(t *testing.T) {
	log := eventlog.New(10)
	log.Push(event.FileSave(100, "a", "go"))
	log.Push(event.FileSave(200, "b", "go"))

	if got := log.Since(1000, 300); len(got) != 2 {
		t.Errorf("wide window: got %d events, want 2", len(got))
	}
	// Cutoff 300-150=150 brackets only the ts-200 event.
	if got := log.Since(150, 300); len(got) != 1 || got[0].Resource != "b" {
		t.Errorf("narrow window: got %+v, want only the ts-200 event", got)
	}
	// Cutoff exactly on a timestamp is inclusive.
	if got := log.Since(100, 300); len(got) != 1 || got[0].TimeMs != 200 {
		t.Errorf("boundary window: got %+v, want only the ts-200 event", got)
	}
	if got := log.Since(10, 1000); len(got) != 0 {
		t.Errorf("excluding window: got %d events, want 0", len(got))
	}
}

func TestClearKeepsCapacity(t *testing.T) {
	log := eventlog.New(5)
	for i := 0; i < 7; i++ {
		log.Push(event.FileSave(int64(i), "file", "go"))
	}
	log.Clear()
	if log.Len() != 0 {
		t.Fatalf("Len after Clear: got %d, want 0", log.Len())
	}
	if log.Cap() != 5 {
		t.Fatalf("Cap after Clear: got %d, want 5", log.Cap())
	}
	log.Push(event.FileSave(99, "file", "go"))
	if got := log.Snapshot(); len(got) != 1 || got[0].TimeMs != 99 {
		t.Errorf("push after Clear: got %+v", got)
	}
}

func TestNonPositiveCapacityFallsBack(t *testing.T) {
	if got := eventlog.New(0).Cap(); got != eventlog.DefaultCapacity {
		t.Errorf("Cap: got %d, want %d", got, eventlog.DefaultCapacity)
	}
	if got := eventlog.New(-3).Cap(); got != eventlog.DefaultCapacity {
		t.Errorf("Cap: got %d, want %d", got, eventlog.DefaultCapacity)
	}
}
