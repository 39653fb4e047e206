// Package assemble orchestrates one inference cycle: read the event window,
// poll ambient state, classify, capture the selection, and compose the
// versioned bundle.
package assemble

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fakeyudi/devpulse/internal/ambient"
	"github.com/fakeyudi/devpulse/internal/bundle"
	"github.com/fakeyudi/devpulse/internal/eventlog"
	"github.com/fakeyudi/devpulse/internal/phase"
)

// Defaults for the assembly window and the diagnostics cap.
const (
	DefaultWindow         = 60 * time.Second
	DefaultMaxDiagnostics = 50
)

// SelectionProvider reports the current non-empty selection, nil when there
// is none.
type SelectionProvider interface {
	Selection() *ambient.Selection
}

// SelectionFunc adapts a function to SelectionProvider.
type SelectionFunc func() *ambient.Selection

func (f SelectionFunc) Selection() *ambient.Selection { return f() }

// Assembler builds context bundles. Zero value uses the defaults.
type Assembler struct {
	Window         time.Duration
	MaxDiagnostics int
}

// Assemble runs one cycle. Ambient polls run concurrently and fail
// independently: a failing poll degrades its field to nil/empty and never
// aborts the cycle or its siblings. The classifier and formatter stages are
// pure, so no error here can corrupt the log.
func (a *Assembler) Assemble(ctx context.Context, log *eventlog.Log, poller ambient.Poller, sel SelectionProvider, now time.Time) *bundle.ContextBundle {
	window := a.Window
	if window <= 0 {
		window = DefaultWindow
	}
	maxDiags := a.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultMaxDiagnostics
	}

	events := log.Since(window.Milliseconds(), now.UnixMilli())

	var state ambient.State
	// Every closure returns nil: errgroup is used purely as fire-and-await-all,
	// results land in their own slots and failures are swallowed per poll.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if ed, err := poller.ActiveEditor(gctx); err == nil {
			state.ActiveEditor = ed
		}
		return nil
	})
	g.Go(func() error {
		if tabs, err := poller.OpenTabs(gctx); err == nil {
			state.OpenTabs = tabs
		}
		return nil
	})
	g.Go(func() error {
		if diags, err := poller.Diagnostics(gctx); err == nil {
			state.Diagnostics = capDiagnostics(diags, maxDiags)
		}
		return nil
	})
	g.Go(func() error {
		if bps, err := poller.Breakpoints(gctx); err == nil {
			state.Breakpoints = bps
		}
		return nil
	})
	g.Go(func() error {
		// Best-effort: an absent source-control provider leaves the field nil.
		if git, err := poller.GitStatus(gctx); err == nil {
			state.GitStatus = git
		}
		return nil
	})
	_ = g.Wait()

	state.WorkspaceFolders = poller.WorkspaceFolders()
	state.DirtyFiles = dirtyFiles(state.OpenTabs)

	assessment := phase.Classify(events)

	b := &bundle.ContextBundle{
		Version:   bundle.Version,
		Timestamp: now.UTC().Format(time.RFC3339),
		EventLog:  events,
		State:     state,
		Phase:     assessment,
	}
	if sel != nil {
		if s := sel.Selection(); s != nil && s.Text != "" {
			b.Selection = s
		}
	}
	return b
}

// capDiagnostics keeps at most max entries, errors first, then warnings,
// then the rest, preserving relative order within each class.
func capDiagnostics(diags []ambient.Diagnostic, max int) []ambient.Diagnostic {
	if len(diags) <= max {
		return diags
	}
	ordered := make([]ambient.Diagnostic, 0, len(diags))
	for _, sev := range []ambient.Severity{ambient.SeverityError, ambient.SeverityWarning} {
		for _, d := range diags {
			if d.Severity == sev {
				ordered = append(ordered, d)
			}
		}
	}
	for _, d := range diags {
		if d.Severity != ambient.SeverityError && d.Severity != ambient.SeverityWarning {
			ordered = append(ordered, d)
		}
	}
	return ordered[:max]
}

// dirtyFiles derives the unsaved-file list from the open tabs.
func dirtyFiles(tabs []ambient.Tab) []string {
	var dirty []string
	for _, t := range tabs {
		if t.Dirty {
			dirty = append(dirty, t.Resource)
		}
	}
	return dirty
}
