package bundle_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/devpulse/internal/ambient"
	"github.com/fakeyudi/devpulse/internal/bundle"
	"github.com/fakeyudi/devpulse/internal/event"
	"github.com/fakeyudi/devpulse/internal/phase"
)

var renderTime = time.Unix(1_700_000_000, 0).UTC()

func minimalBundle() *bundle.ContextBundle {
	return &bundle.ContextBundle{
		Version:   bundle.Version,
		Timestamp: renderTime.Format(time.RFC3339),
		Phase: phase.Assessment{
			Phase:       phase.Unknown,
			Confidence:  0,
			Reasoning:   "insufficient activity",
			RecentFiles: []string{},
		},
	}
}

func TestFormatEmptySectionsOmitted(t *testing.T) {
	out := bundle.Format(minimalBundle(), renderTime)

	if !strings.Contains(out, "## Phase: unknown (0% confidence)") {
		t.Errorf("missing phase header:\n%s", out)
	}
	for _, absent := range []string{"Problems:", "Open tabs", "Branch:", "Breakpoints", "Recent activity:", "Active:", "Selection:"} {
		if strings.Contains(out, absent) {
			t.Errorf("empty section %q was rendered:\n%s", absent, out)
		}
	}
}

func TestFormatSectionOrder(t *testing.T) {
	b := minimalBundle()
	b.Phase = phase.Assessment{Phase: phase.Building, Confidence: 0.6, Reasoning: "focused writing: 3 edit bursts concentrated in 1 distinct files, only 0 file switches"}
	b.State = ambient.State{
		ActiveEditor: &ambient.Editor{Resource: "main.go", Language: "go", CursorLine: 10, LineCount: 100, Dirty: true},
		OpenTabs:     []ambient.Tab{{Resource: "main.go", Active: true, Dirty: true}, {Resource: "util.go"}},
		Diagnostics:  []ambient.Diagnostic{{Severity: ambient.SeverityError, Resource: "main.go", Line: 3, Message: "undefined: x", Source: "compiler"}},
		Breakpoints:  []ambient.Breakpoint{{Resource: "main.go", Line: 12, Condition: "i > 3", Enabled: false}},
		GitStatus:    &ambient.GitStatus{Branch: "main", Ahead: 2, Behind: 1, Modified: []string{"main.go"}},
	}
	b.Selection = &ambient.Selection{Resource: "main.go", StartLine: 5, EndLine: 7, Text: "x := 1\n", Language: "go"}
	b.EventLog = []event.Event{event.FileSave(renderTime.UnixMilli()-5000, "main.go", "go")}

	out := bundle.Format(b, renderTime)

	markers := []string{
		"## Phase: building (60% confidence)",
		"Active: main.go (go), line 10 of 100 [unsaved]",
		"Selection: main.go lines 5-7",
		"Problems: 1 errors, 0 warnings",
		"error main.go:3 undefined: x [compiler]",
		"Open tabs (2):",
		"- main.go (active, unsaved)",
		"Branch: main (ahead 2, behind 1)",
		"Breakpoints (1):",
		"- main.go:12 if i > 3 (disabled)",
		"Recent activity:",
		"- 5s ago: saved main.go",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(out, m)
		if idx == -1 {
			t.Fatalf("missing %q in output:\n%s", m, out)
		}
		if idx < last {
			t.Errorf("section %q out of order", m)
		}
		last = idx
	}
}

// Property: line caps hold for any list sizes, and headers carry the true
// untruncated totals.
func TestFormatCapsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nErrs := rapid.IntRange(0, 40).Draw(t, "errors")
		nWarns := rapid.IntRange(0, 40).Draw(t, "warnings")
		nTabs := rapid.IntRange(0, 40).Draw(t, "tabs")
		nBPs := rapid.IntRange(0, 40).Draw(t, "breakpoints")

		b := minimalBundle()
		for i := 0; i < nErrs; i++ {
			b.State.Diagnostics = append(b.State.Diagnostics, ambient.Diagnostic{
				Severity: ambient.SeverityError, Resource: "e.go", Line: i + 1, Message: "boom",
			})
		}
		for i := 0; i < nWarns; i++ {
			b.State.Diagnostics = append(b.State.Diagnostics, ambient.Diagnostic{
				Severity: ambient.SeverityWarning, Resource: "w.go", Line: i + 1, Message: "meh",
			})
		}
		for i := 0; i < nTabs; i++ {
			b.State.OpenTabs = append(b.State.OpenTabs, ambient.Tab{Resource: fmt.Sprintf("tab%d.go", i)})
		}
		for i := 0; i < nBPs; i++ {
			b.State.Breakpoints = append(b.State.Breakpoints, ambient.Breakpoint{Resource: "bp.go", Line: i + 1, Enabled: true})
		}

		out := bundle.Format(b, renderTime)

		if got := strings.Count(out, "\nerror "); got > 10 {
			t.Fatalf("%d error lines rendered, cap is 10", got)
		}
		if got := strings.Count(out, "\nwarning "); got > 5 {
			t.Fatalf("%d warning lines rendered, cap is 5", got)
		}
		if got := strings.Count(out, "\n- tab"); got > 15 {
			t.Fatalf("%d tab lines rendered, cap is 15", got)
		}
		if got := strings.Count(out, "\n- bp.go:"); got > 10 {
			t.Fatalf("%d breakpoint lines rendered, cap is 10", got)
		}

		if nErrs+nWarns > 0 {
			header := fmt.Sprintf("Problems: %d errors, %d warnings", nErrs, nWarns)
			if !strings.Contains(out, header) {
				t.Fatalf("header with true totals %q missing", header)
			}
		}
		if nTabs > 0 && !strings.Contains(out, fmt.Sprintf("Open tabs (%d):", nTabs)) {
			t.Fatalf("tab header with true total missing")
		}
		if nBPs > 0 && !strings.Contains(out, fmt.Sprintf("Breakpoints (%d):", nBPs)) {
			t.Fatalf("breakpoint header with true total missing")
		}
	})
}

func TestNarrativePhrasing(t *testing.T) {
	now := renderTime
	exit := 0
	b := minimalBundle()
	b.EventLog = []event.Event{
		event.FileSwitch(now.UnixMilli()-60_000, "old.go", "new.go", "go"),
		event.TerminalEnd(now.UnixMilli()-30_000, "go test ./...", "t1", &exit),
		event.TerminalEnd(now.UnixMilli()-20_000, "make lint", "t1", nil),
		event.DiagnosticChange(now.UnixMilli()-10_000, []string{"a.go"}, 2, 1),
	}

	out := bundle.Format(b, now)
	for _, want := range []string{
		"- 60s ago: switched from old.go to new.go",
		"- 30s ago: `go test ./...` exited with 0",
		"- 20s ago: finished `make lint`",
		"- 10s ago: problems changed: 2 errors, 1 warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing narrative line %q in:\n%s", want, out)
		}
	}
}
