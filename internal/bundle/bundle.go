// Package bundle defines the versioned context bundle produced per assembly
// cycle, its JSON wire codec, and the token-bounded text formatter.
package bundle

import (
	"github.com/fakeyudi/devpulse/internal/ambient"
	"github.com/fakeyudi/devpulse/internal/event"
	"github.com/fakeyudi/devpulse/internal/phase"
)

// Version is the wire-format version of ContextBundle. Any structural change
// to the bundle shape must increment it.
const Version = 1

// ContextBundle packages one inference cycle: the event window, the ambient
// snapshot, the phase assessment, and any current selection. Immutable once
// built.
type ContextBundle struct {
	Version   int                `json:"version"`
	Timestamp string             `json:"timestamp"` // RFC 3339
	EventLog  []event.Event      `json:"event_log"`
	State     ambient.State      `json:"state"`
	Phase     phase.Assessment   `json:"phase"`
	Selection *ambient.Selection `json:"selection,omitempty"`
}
