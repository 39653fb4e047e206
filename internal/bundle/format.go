package bundle

import (
	"fmt"
	"strings"
	"time"

	"github.com/fakeyudi/devpulse/internal/ambient"
	"github.com/fakeyudi/devpulse/internal/event"
)

// Per-section line caps. Headers always print the true totals; lists are cut
// hard at these limits.
const (
	maxErrorLines      = 10
	maxWarningLines    = 5
	maxTabLines        = 15
	maxBreakpointLines = 10
)

// Format renders b as a deterministic plain-text summary. Sections with no
// data are omitted entirely. Relative event ages are computed against now.
func Format(b *ContextBundle, now time.Time) string {
	var sb strings.Builder

	writePhase(&sb, b)
	writeActiveEditor(&sb, b.State.ActiveEditor)
	writeSelection(&sb, b.Selection)
	writeDiagnostics(&sb, b.State.Diagnostics)
	writeTabs(&sb, b.State.OpenTabs)
	writeGit(&sb, b.State.GitStatus)
	writeBreakpoints(&sb, b.State.Breakpoints)
	writeNarrative(&sb, b.EventLog, now)

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writePhase(sb *strings.Builder, b *ContextBundle) {
	pct := int(b.Phase.Confidence*100 + 0.5)
	fmt.Fprintf(sb, "## Phase: %s (%d%% confidence)\n", b.Phase.Phase, pct)
	if b.Phase.Reasoning != "" {
		fmt.Fprintf(sb, "%s\n", b.Phase.Reasoning)
	}
	sb.WriteString("\n")
}

func writeActiveEditor(sb *strings.Builder, ed *ambient.Editor) {
	if ed == nil {
		return
	}
	line := fmt.Sprintf("Active: %s", ed.Resource)
	if ed.Language != "" {
		line += fmt.Sprintf(" (%s)", ed.Language)
	}
	line += fmt.Sprintf(", line %d of %d", ed.CursorLine, ed.LineCount)
	if ed.Dirty {
		line += " [unsaved]"
	}
	sb.WriteString(line + "\n\n")
}

func writeSelection(sb *strings.Builder, sel *ambient.Selection) {
	if sel == nil || sel.Text == "" {
		return
	}
	fmt.Fprintf(sb, "Selection: %s lines %d-%d\n", sel.Resource, sel.StartLine, sel.EndLine)
	fmt.Fprintf(sb, "```%s\n", sel.Language)
	sb.WriteString(sel.Text)
	if !strings.HasSuffix(sel.Text, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```\n\n")
}

func writeDiagnostics(sb *strings.Builder, diags []ambient.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	var errs, warns []ambient.Diagnostic
	for _, d := range diags {
		switch d.Severity {
		case ambient.SeverityError:
			errs = append(errs, d)
		case ambient.SeverityWarning:
			warns = append(warns, d)
		}
	}

	fmt.Fprintf(sb, "Problems: %d errors, %d warnings\n", len(errs), len(warns))
	for _, d := range capDiags(errs, maxErrorLines) {
		sb.WriteString(diagLine(d))
	}
	for _, d := range capDiags(warns, maxWarningLines) {
		sb.WriteString(diagLine(d))
	}
	sb.WriteString("\n")
}

func capDiags(diags []ambient.Diagnostic, limit int) []ambient.Diagnostic {
	if len(diags) > limit {
		return diags[:limit]
	}
	return diags
}

func diagLine(d ambient.Diagnostic) string {
	line := fmt.Sprintf("%s %s:%d %s", d.Severity, d.Resource, d.Line, d.Message)
	if d.Source != "" {
		line += fmt.Sprintf(" [%s]", d.Source)
	}
	return line + "\n"
}

func writeTabs(sb *strings.Builder, tabs []ambient.Tab) {
	if len(tabs) == 0 {
		return
	}
	fmt.Fprintf(sb, "Open tabs (%d):\n", len(tabs))
	shown := tabs
	if len(shown) > maxTabLines {
		shown = shown[:maxTabLines]
	}
	for _, tab := range shown {
		var notes []string
		if tab.Active {
			notes = append(notes, "active")
		}
		if tab.Dirty {
			notes = append(notes, "unsaved")
		}
		if len(notes) > 0 {
			fmt.Fprintf(sb, "- %s (%s)\n", tab.Resource, strings.Join(notes, ", "))
		} else {
			fmt.Fprintf(sb, "- %s\n", tab.Resource)
		}
	}
	sb.WriteString("\n")
}

func writeGit(sb *strings.Builder, git *ambient.GitStatus) {
	if git == nil {
		return
	}
	line := fmt.Sprintf("Branch: %s", git.Branch)
	if git.Ahead > 0 || git.Behind > 0 {
		line += fmt.Sprintf(" (ahead %d, behind %d)", git.Ahead, git.Behind)
	}
	sb.WriteString(line + "\n")
	if len(git.Modified) > 0 {
		fmt.Fprintf(sb, "Modified: %s\n", strings.Join(git.Modified, ", "))
	}
	if len(git.Staged) > 0 {
		fmt.Fprintf(sb, "Staged: %s\n", strings.Join(git.Staged, ", "))
	}
	sb.WriteString("\n")
}

func writeBreakpoints(sb *strings.Builder, bps []ambient.Breakpoint) {
	if len(bps) == 0 {
		return
	}
	fmt.Fprintf(sb, "Breakpoints (%d):\n", len(bps))
	shown := bps
	if len(shown) > maxBreakpointLines {
		shown = shown[:maxBreakpointLines]
	}
	for _, bp := range shown {
		line := fmt.Sprintf("- %s:%d", bp.Resource, bp.Line)
		if bp.Condition != "" {
			line += fmt.Sprintf(" if %s", bp.Condition)
		}
		if !bp.Enabled {
			line += " (disabled)"
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
}

func writeNarrative(sb *strings.Builder, events []event.Event, now time.Time) {
	if len(events) == 0 {
		return
	}
	sb.WriteString("Recent activity:\n")
	nowMs := now.UnixMilli()
	for _, e := range events {
		age := (nowMs - e.TimeMs) / 1000
		if age < 0 {
			age = 0
		}
		fmt.Fprintf(sb, "- %ds ago: %s\n", age, narrate(e))
	}
	sb.WriteString("\n")
}

// narrate phrases one event for the activity section.
func narrate(e event.Event) string {
	switch e.Kind {
	case event.KindFileSwitch:
		if e.Resource == "" {
			return fmt.Sprintf("left %s", e.PrevResource)
		}
		if e.PrevResource == "" {
			return fmt.Sprintf("switched to %s", e.Resource)
		}
		return fmt.Sprintf("switched from %s to %s", e.PrevResource, e.Resource)
	case event.KindFileSave:
		return fmt.Sprintf("saved %s", e.Resource)
	case event.KindDebugStart:
		return fmt.Sprintf("started debugging %s (%s)", e.SessionName, e.SessionType)
	case event.KindDebugStop:
		return fmt.Sprintf("stopped debugging %s", e.SessionName)
	case event.KindDiagnosticChange:
		return fmt.Sprintf("problems changed: %d errors, %d warnings", e.Errors, e.Warnings)
	case event.KindTerminalStart:
		return fmt.Sprintf("ran `%s`", e.Command)
	case event.KindTerminalEnd:
		if e.ExitCode == nil {
			return fmt.Sprintf("finished `%s`", e.Command)
		}
		return fmt.Sprintf("`%s` exited with %d", e.Command, *e.ExitCode)
	case event.KindTextChange:
		return fmt.Sprintf("edited %s (%d changes)", e.Resource, e.ChangeCount)
	case event.KindBreakpointChange:
		return fmt.Sprintf("breakpoints changed: %d added, %d removed, %d modified", e.Added, e.Removed, e.Modified)
	default:
		return string(e.Kind)
	}
}
