// Package eventlog holds recent activity events in a fixed-capacity ring.
// Storage is pre-sized at construction and never reallocated; once full,
// each push evicts exactly the oldest event.
package eventlog

import (
	"sync"

	"github.com/fakeyudi/devpulse/internal/event"
)

// DefaultCapacity is used when the caller passes a non-positive capacity.
const DefaultCapacity = 200

// Log is a bounded, append-only event buffer. Safe for concurrent use: the
// recorder pushes from notification goroutines while the assembly loop reads.
type Log struct {
	mu    sync.Mutex
	slots []event.Event
	next  int // write cursor into slots
	size  int // live count, size <= len(slots)
}

// New returns an empty log with the given fixed capacity.
// Non-positive capacities fall back to DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{slots: make([]event.Event, capacity)}
}

// Push appends e, evicting the oldest event when the ring is full. O(1).
func (l *Log) Push(e event.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.slots[l.next] = e
	l.next = (l.next + 1) % len(l.slots)
	if l.size < len(l.slots) {
		l.size++
	}
}

// Snapshot returns the live events oldest first, as a fresh slice.
func (l *Log) Snapshot() []event.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]event.Event, 0, l.size)
	start := l.next - l.size
	if start < 0 {
		start += len(l.slots)
	}
	for i := 0; i < l.size; i++ {
		out = append(out, l.slots[(start+i)%len(l.slots)])
	}
	return out
}

// Since returns the suffix of Snapshot whose timestamp is at or after
// nowMs-windowMs. Empty when nothing qualifies.
func (l *Log) Since(windowMs, nowMs int64) []event.Event {
	all := l.Snapshot()
	cutoff := nowMs - windowMs
	for i, e := range all {
		if e.TimeMs >= cutoff {
			return all[i:]
		}
	}
	return nil
}

// Clear resets the log to empty without reallocating storage.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next = 0
	l.size = 0
}

// Len returns the number of live events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Cap returns the fixed capacity.
func (l *Log) Cap() int { return len(l.slots) }
