package signal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/fakeyudi/devpulse/internal/ambient"
)

// Feed consumes the editor-bridge stream: one JSON record per line. Raw
// notification records are emitted into the hub; periodic "state" records
// (ambient snapshots pushed by the bridge) go to OnState when set.
type Feed struct {
	Hub *Hub
	// OnState receives ambient snapshots carried on the same stream.
	OnState func(ambient.BridgeState)

	// terminalID labels terminal records that arrive without one.
	terminalID string
}

// feedRecord is the union of every line shape the bridge may send.
type feedRecord struct {
	Kind string `json:"kind"`

	Resource  string   `json:"resource"`
	Language  string   `json:"language"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Resources []string `json:"resources"`
	Errors    int      `json:"errors"`
	Warnings  int      `json:"warnings"`
	Command   string   `json:"command"`
	Terminal  string   `json:"terminal_id"`
	ExitCode  *int     `json:"exit_code"`
	Changes   int      `json:"changes"`
	Added     int      `json:"added"`
	Removed   int      `json:"removed"`
	Modified  int      `json:"modified"`

	State *ambient.BridgeState `json:"state"`
}

// Run reads records from r until EOF or ctx cancellation. Unparseable lines
// and unknown kinds are skipped; a flaky bridge must not stall capture.
func (f *Feed) Run(ctx context.Context, r io.Reader) error {
	if f.terminalID == "" {
		f.terminalID = uuid.New().String()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec feedRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		f.dispatch(rec)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading bridge feed: %w", err)
	}
	return nil
}

func (f *Feed) dispatch(rec feedRecord) {
	switch rec.Kind {
	case "active_document_changed":
		if rec.Resource == "" {
			f.Hub.EmitActiveDocumentChanged(nil)
			return
		}
		f.Hub.EmitActiveDocumentChanged(&Document{Resource: rec.Resource, Language: rec.Language})

	case "document_saved":
		f.Hub.EmitDocumentSaved(Document{Resource: rec.Resource, Language: rec.Language})

	case "debug_started":
		f.Hub.EmitDebugStarted(DebugSession{Name: rec.Name, Type: rec.Type})

	case "debug_stopped":
		f.Hub.EmitDebugStopped(DebugSession{Name: rec.Name, Type: rec.Type})

	case "diagnostics_changed":
		f.Hub.EmitDiagnosticsChanged(Diagnostics{Resources: rec.Resources, Errors: rec.Errors, Warnings: rec.Warnings})

	case "terminal_command_started":
		f.Hub.EmitTerminalCommandStarted(TerminalCommand{Command: rec.Command, TerminalID: f.terminal(rec)})

	case "terminal_command_ended":
		f.Hub.EmitTerminalCommandEnded(TerminalCommand{Command: rec.Command, TerminalID: f.terminal(rec), ExitCode: rec.ExitCode})

	case "text_changed":
		changes := rec.Changes
		if changes <= 0 {
			changes = 1
		}
		f.Hub.EmitTextChanged(TextEdit{Resource: rec.Resource, Changes: changes})

	case "breakpoints_changed":
		f.Hub.EmitBreakpointsChanged(BreakpointsDelta{Added: rec.Added, Removed: rec.Removed, Modified: rec.Modified})

	case "state":
		if rec.State != nil && f.OnState != nil {
			f.OnState(*rec.State)
		}
	}
}

func (f *Feed) terminal(rec feedRecord) string {
	if rec.Terminal != "" {
		return rec.Terminal
	}
	return f.terminalID
}
