// Package signal abstracts the push-based notification surface of the editor
// host. The recorder subscribes per signal kind and receives raw payloads; a
// subscription returns a Disposable that must be released on shutdown.
package signal

// Disposable releases one subscription.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a plain function to Disposable.
type DisposeFunc func()

func (f DisposeFunc) Dispose() { f() }

// Document identifies an editable document as reported by the host.
type Document struct {
	Resource string // stable identifier, e.g. a URI or path
	Language string // short content-type tag, display only
}

// DebugSession names a debug session lifecycle notification.
type DebugSession struct {
	Name string
	Type string
}

// Diagnostics carries the global error/warning totals recomputed at
// notification time, plus the resources the notification was about.
type Diagnostics struct {
	Resources []string
	Errors    int
	Warnings  int
}

// TerminalCommand describes a terminal command lifecycle notification.
// ExitCode is nil on start notifications and when the status is unknown.
type TerminalCommand struct {
	Command    string
	TerminalID string
	ExitCode   *int
}

// TextEdit reports an edit notification. Changes counts the discrete change
// batches in the notification, never characters.
type TextEdit struct {
	Resource string
	Changes  int
}

// BreakpointsDelta reports a breakpoint set change.
type BreakpointsDelta struct {
	Added    int
	Removed  int
	Modified int
}

// Source is the raw notification surface. A nil document on
// OnActiveDocumentChanged means no editor is active.
type Source interface {
	OnActiveDocumentChanged(func(doc *Document)) Disposable
	OnDocumentSaved(func(Document)) Disposable
	OnDebugStarted(func(DebugSession)) Disposable
	OnDebugStopped(func(DebugSession)) Disposable
	OnDiagnosticsChanged(func(Diagnostics)) Disposable
	OnTerminalCommandStarted(func(TerminalCommand)) Disposable
	OnTerminalCommandEnded(func(TerminalCommand)) Disposable
	OnTextChanged(func(TextEdit)) Disposable
	OnBreakpointsChanged(func(BreakpointsDelta)) Disposable
}
