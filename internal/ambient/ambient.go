// Package ambient defines the editor-state snapshot polled fresh on every
// assembly cycle, and the Poller interface its providers satisfy.
package ambient

import "context"

// Editor describes the currently focused document. Line fields are 1-indexed;
// the conversion from host coordinates happens where the value is captured.
type Editor struct {
	Resource   string `json:"resource"`
	Language   string `json:"language,omitempty"`
	CursorLine int    `json:"cursor_line"`
	LineCount  int    `json:"line_count"`
	Dirty      bool   `json:"dirty,omitempty"`
}

// Tab is one open editor tab.
type Tab struct {
	Resource string `json:"resource"`
	Active   bool   `json:"active,omitempty"`
	Dirty    bool   `json:"dirty,omitempty"`
}

// Severity of a diagnostic entry.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Diagnostic is one reported problem. Line is 1-indexed.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Resource string   `json:"resource"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
	Source   string   `json:"source,omitempty"`
}

// Breakpoint is one set breakpoint. Line is 1-indexed.
type Breakpoint struct {
	Resource  string `json:"resource"`
	Line      int    `json:"line"`
	Condition string `json:"condition,omitempty"`
	Enabled   bool   `json:"enabled"`
}

// GitStatus is the source-control summary. Nil in a State means the provider
// was unavailable.
type GitStatus struct {
	Branch   string   `json:"branch"`
	Ahead    int      `json:"ahead"`
	Behind   int      `json:"behind"`
	Modified []string `json:"modified"`
	Staged   []string `json:"staged"`
}

// Selection is a non-empty text selection captured at assembly time.
// StartLine and EndLine are 1-indexed.
type Selection struct {
	Resource  string `json:"resource"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Text      string `json:"text"`
	Language  string `json:"language,omitempty"`
}

// State is the ambient snapshot included in a bundle. It is assembled fresh
// each cycle and never cached between cycles.
type State struct {
	ActiveEditor     *Editor      `json:"active_editor"`
	OpenTabs         []Tab        `json:"open_tabs"`
	DirtyFiles       []string     `json:"dirty_files"`
	Diagnostics      []Diagnostic `json:"diagnostics"`
	Breakpoints      []Breakpoint `json:"breakpoints"`
	GitStatus        *GitStatus   `json:"git_status"`
	WorkspaceFolders []string     `json:"workspace_folders"`
}

// Poller exposes the five independent, idempotent ambient queries plus a
// synchronous workspace-roots accessor. Implementations must be read-only
// and side-effect free; a failing query degrades to nil, never more.
type Poller interface {
	ActiveEditor(ctx context.Context) (*Editor, error)
	OpenTabs(ctx context.Context) ([]Tab, error)
	Diagnostics(ctx context.Context) ([]Diagnostic, error)
	Breakpoints(ctx context.Context) ([]Breakpoint, error)
	GitStatus(ctx context.Context) (*GitStatus, error)
	WorkspaceFolders() []string
}

// BridgeState is the ambient snapshot shape pushed over the editor-bridge
// stream. The bridge poller serves polls from the most recent one received.
type BridgeState struct {
	ActiveEditor *Editor      `json:"active_editor,omitempty"`
	OpenTabs     []Tab        `json:"open_tabs,omitempty"`
	Diagnostics  []Diagnostic `json:"diagnostics,omitempty"`
	Breakpoints  []Breakpoint `json:"breakpoints,omitempty"`
	Selection    *Selection   `json:"selection,omitempty"`
}
