// Package recorder translates raw host notifications into typed events and
// appends them to the bounded log, applying deduplication to document
// switches and trailing-edge debounce to edit bursts.
package recorder

import (
	"sync"
	"time"

	"github.com/fakeyudi/devpulse/internal/event"
	"github.com/fakeyudi/devpulse/internal/eventlog"
	"github.com/fakeyudi/devpulse/internal/signal"
)

// DefaultDebounce is the quiet period after which a per-resource edit burst
// is flushed as a single text_change event.
const DefaultDebounce = 2 * time.Second

// pendingEdits tracks one resource's in-flight debounce window.
type pendingEdits struct {
	count int
	gen   int // bumped on every reschedule; stale timer fires are ignored
	timer *time.Timer
}

// Recorder owns the event log's write path. Its mutex serializes pushes and
// guards the dedup and debounce state shared across notification goroutines.
type Recorder struct {
	log      *eventlog.Log
	now      func() int64 // millisecond clock
	debounce time.Duration

	mu        sync.Mutex
	closed    bool
	hasActive bool
	active    string
	activeSet bool // false until the first switch or seed
	pending   map[string]*pendingEdits
	subs      []signal.Disposable
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the millisecond clock (tests).
func WithClock(now func() int64) Option {
	return func(r *Recorder) { r.now = now }
}

// WithDebounce overrides the edit-burst quiet period (tests).
func WithDebounce(d time.Duration) Option {
	return func(r *Recorder) { r.debounce = d }
}

// New returns a recorder appending to log.
func New(log *eventlog.Log, opts ...Option) *Recorder {
	r := &Recorder{
		log:      log,
		now:      event.NowMs,
		debounce: DefaultDebounce,
		pending:  map[string]*pendingEdits{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Seed primes the switch deduplication state with the document active at
// startup, without emitting an event. A nil doc seeds "no active editor".
func (r *Recorder) Seed(doc *signal.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeSet = true
	if doc == nil {
		r.hasActive = false
		r.active = ""
		return
	}
	r.hasActive = true
	r.active = doc.Resource
}

// Attach subscribes to every signal kind on src. May be called for multiple
// sources; Close releases all of them.
func (r *Recorder) Attach(src signal.Source) {
	subs := []signal.Disposable{
		src.OnActiveDocumentChanged(r.onActiveDocumentChanged),
		src.OnDocumentSaved(r.onDocumentSaved),
		src.OnDebugStarted(r.onDebugStarted),
		src.OnDebugStopped(r.onDebugStopped),
		src.OnDiagnosticsChanged(r.onDiagnosticsChanged),
		src.OnTerminalCommandStarted(r.onTerminalCommandStarted),
		src.OnTerminalCommandEnded(r.onTerminalCommandEnded),
		src.OnTextChanged(r.onTextChanged),
		src.OnBreakpointsChanged(r.onBreakpointsChanged),
	}
	r.mu.Lock()
	r.subs = append(r.subs, subs...)
	r.mu.Unlock()
}

// Close releases all subscriptions and cancels pending debounce timers.
// No timer fires and no event is appended after Close returns.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	for _, p := range r.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
	}
	r.pending = map[string]*pendingEdits{}
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, s := range subs {
		s.Dispose()
	}
}

// onActiveDocumentChanged records a file_switch unless the reported document
// equals the last recorded one (redundant host notifications).
func (r *Recorder) onActiveDocumentChanged(doc *signal.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	newHas := doc != nil
	newRes := ""
	newLang := ""
	if doc != nil {
		newRes = doc.Resource
		newLang = doc.Language
	}

	if r.activeSet && r.hasActive == newHas && r.active == newRes {
		return
	}

	prev := ""
	if r.hasActive {
		prev = r.active
	}
	r.log.Push(event.FileSwitch(r.now(), prev, newRes, newLang))

	r.activeSet = true
	r.hasActive = newHas
	r.active = newRes
}

// onTextChanged coalesces edits per resource: the quiet-period timer resets
// on every new edit, and the eventual record carries the summed batch count.
// Resources debounce independently.
func (r *Recorder) onTextChanged(e signal.TextEdit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	p, ok := r.pending[e.Resource]
	if !ok {
		p = &pendingEdits{}
		r.pending[e.Resource] = p
	}
	changes := e.Changes
	if changes <= 0 {
		changes = 1
	}
	p.count += changes
	p.gen++

	// Cancel before reschedule so one burst never emits twice.
	if p.timer != nil {
		p.timer.Stop()
	}
	resource, gen := e.Resource, p.gen
	p.timer = time.AfterFunc(r.debounce, func() {
		r.flushEdits(resource, gen)
	})
}

func (r *Recorder) flushEdits(resource string, gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	p, ok := r.pending[resource]
	if !ok || p.gen != gen {
		return // superseded by a newer edit or already flushed
	}
	delete(r.pending, resource)
	r.log.Push(event.TextChange(r.now(), resource, p.count))
}

func (r *Recorder) onDocumentSaved(doc signal.Document) {
	r.push(event.FileSave(0, doc.Resource, doc.Language))
}

func (r *Recorder) onDebugStarted(s signal.DebugSession) {
	r.push(event.DebugStart(0, s.Name, s.Type))
}

func (r *Recorder) onDebugStopped(s signal.DebugSession) {
	r.push(event.DebugStop(0, s.Name, s.Type))
}

func (r *Recorder) onDiagnosticsChanged(d signal.Diagnostics) {
	r.push(event.DiagnosticChange(0, d.Resources, d.Errors, d.Warnings))
}

func (r *Recorder) onTerminalCommandStarted(c signal.TerminalCommand) {
	r.push(event.TerminalStart(0, c.Command, c.TerminalID))
}

func (r *Recorder) onTerminalCommandEnded(c signal.TerminalCommand) {
	r.push(event.TerminalEnd(0, c.Command, c.TerminalID, c.ExitCode))
}

func (r *Recorder) onBreakpointsChanged(d signal.BreakpointsDelta) {
	r.push(event.BreakpointChange(0, d.Added, d.Removed, d.Modified))
}

// push timestamps e and appends it unconditionally.
func (r *Recorder) push(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	e.TimeMs = r.now()
	r.log.Push(e)
}
