// Package event defines the activity-event union recorded by the pipeline.
// Events carry metadata only — resource identifiers, counts, command text —
// never source file content.
package event

import "time"

// Kind discriminates the event union. One value per observed signal kind.
type Kind string

const (
	KindFileSwitch       Kind = "file_switch"
	KindFileSave         Kind = "file_save"
	KindDebugStart       Kind = "debug_start"
	KindDebugStop        Kind = "debug_stop"
	KindDiagnosticChange Kind = "diagnostic_change"
	KindTerminalStart    Kind = "terminal_command_start"
	KindTerminalEnd      Kind = "terminal_command_end"
	KindTextChange       Kind = "text_change"
	KindBreakpointChange Kind = "breakpoint_change"
)

// Event is one immutable activity observation. It is a tagged union encoded
// as a flat struct: Kind selects which of the optional fields are meaningful,
// everything else stays at its zero value and is dropped from JSON.
type Event struct {
	Kind   Kind  `json:"kind"`
	TimeMs int64 `json:"timestamp_ms"` // capture time, unix milliseconds

	// file_switch: PrevResource and Resource are both nullable (empty means
	// no document on that side of the switch). Resource doubles as the
	// subject of file_save and text_change.
	PrevResource string `json:"prev_resource,omitempty"`
	Resource     string `json:"resource,omitempty"`
	Language     string `json:"language,omitempty"`

	// debug_start / debug_stop
	SessionName string `json:"session_name,omitempty"`
	SessionType string `json:"session_type,omitempty"`

	// diagnostic_change: running global totals at notification time, not deltas.
	Resources []string `json:"resources,omitempty"`
	Errors    int      `json:"errors,omitempty"`
	Warnings  int      `json:"warnings,omitempty"`

	// terminal_command_start / terminal_command_end
	Command    string `json:"command,omitempty"`
	TerminalID string `json:"terminal_id,omitempty"`
	ExitCode   *int   `json:"exit_code,omitempty"` // nil when the exit status is unknown

	// text_change: number of discrete edit batches coalesced into this record.
	ChangeCount int `json:"change_count,omitempty"`

	// breakpoint_change
	Added    int `json:"added,omitempty"`
	Removed  int `json:"removed,omitempty"`
	Modified int `json:"modified,omitempty"`
}

// NowMs returns the current time in unix milliseconds, the clock resolution
// used for all event timestamps.
func NowMs() int64 {
	return time.Now().UnixMilli()
}

func FileSwitch(tsMs int64, prev, next, language string) Event {
	return Event{Kind: KindFileSwitch, TimeMs: tsMs, PrevResource: prev, Resource: next, Language: language}
}

func FileSave(tsMs int64, resource, language string) Event {
	return Event{Kind: KindFileSave, TimeMs: tsMs, Resource: resource, Language: language}
}

func DebugStart(tsMs int64, name, sessionType string) Event {
	return Event{Kind: KindDebugStart, TimeMs: tsMs, SessionName: name, SessionType: sessionType}
}

func DebugStop(tsMs int64, name, sessionType string) Event {
	return Event{Kind: KindDebugStop, TimeMs: tsMs, SessionName: name, SessionType: sessionType}
}

func DiagnosticChange(tsMs int64, resources []string, errors, warnings int) Event {
	return Event{Kind: KindDiagnosticChange, TimeMs: tsMs, Resources: resources, Errors: errors, Warnings: warnings}
}

func TerminalStart(tsMs int64, command, terminalID string) Event {
	return Event{Kind: KindTerminalStart, TimeMs: tsMs, Command: command, TerminalID: terminalID}
}

func TerminalEnd(tsMs int64, command, terminalID string, exitCode *int) Event {
	return Event{Kind: KindTerminalEnd, TimeMs: tsMs, Command: command, TerminalID: terminalID, ExitCode: exitCode}
}

func TextChange(tsMs int64, resource string, changeCount int) Event {
	return Event{Kind: KindTextChange, TimeMs: tsMs, Resource: resource, ChangeCount: changeCount}
}

func BreakpointChange(tsMs int64, added, removed, modified int) Event {
	return Event{Kind: KindBreakpointChange, TimeMs: tsMs, Added: added, Removed: removed, Modified: modified}
}
