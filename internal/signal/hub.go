package signal

import "sync"

// Hub is an in-process Source. Concrete feeds (filesystem watcher, editor
// bridge, shell hook log) emit into a Hub and the recorder subscribes to it.
// It also serves as the test double for Source.
type Hub struct {
	mu     sync.Mutex
	nextID int

	activeDoc   map[int]func(*Document)
	saved       map[int]func(Document)
	debugStart  map[int]func(DebugSession)
	debugStop   map[int]func(DebugSession)
	diagnostics map[int]func(Diagnostics)
	termStart   map[int]func(TerminalCommand)
	termEnd     map[int]func(TerminalCommand)
	textChanged map[int]func(TextEdit)
	breakpoints map[int]func(BreakpointsDelta)
}

// NewHub returns an empty hub with no subscribers.
func NewHub() *Hub {
	return &Hub{
		activeDoc:   map[int]func(*Document){},
		saved:       map[int]func(Document){},
		debugStart:  map[int]func(DebugSession){},
		debugStop:   map[int]func(DebugSession){},
		diagnostics: map[int]func(Diagnostics){},
		termStart:   map[int]func(TerminalCommand){},
		termEnd:     map[int]func(TerminalCommand){},
		textChanged: map[int]func(TextEdit){},
		breakpoints: map[int]func(BreakpointsDelta){},
	}
}

// subscribe registers fn-removal under a fresh id and returns the disposable.
func (h *Hub) subscribe(register func(id int), remove func(id int)) Disposable {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	register(id)
	h.mu.Unlock()
	return DisposeFunc(func() {
		h.mu.Lock()
		remove(id)
		h.mu.Unlock()
	})
}

func (h *Hub) OnActiveDocumentChanged(fn func(*Document)) Disposable {
	return h.subscribe(func(id int) { h.activeDoc[id] = fn }, func(id int) { delete(h.activeDoc, id) })
}

func (h *Hub) OnDocumentSaved(fn func(Document)) Disposable {
	return h.subscribe(func(id int) { h.saved[id] = fn }, func(id int) { delete(h.saved, id) })
}

func (h *Hub) OnDebugStarted(fn func(DebugSession)) Disposable {
	return h.subscribe(func(id int) { h.debugStart[id] = fn }, func(id int) { delete(h.debugStart, id) })
}

func (h *Hub) OnDebugStopped(fn func(DebugSession)) Disposable {
	return h.subscribe(func(id int) { h.debugStop[id] = fn }, func(id int) { delete(h.debugStop, id) })
}

func (h *Hub) OnDiagnosticsChanged(fn func(Diagnostics)) Disposable {
	return h.subscribe(func(id int) { h.diagnostics[id] = fn }, func(id int) { delete(h.diagnostics, id) })
}

func (h *Hub) OnTerminalCommandStarted(fn func(TerminalCommand)) Disposable {
	return h.subscribe(func(id int) { h.termStart[id] = fn }, func(id int) { delete(h.termStart, id) })
}

func (h *Hub) OnTerminalCommandEnded(fn func(TerminalCommand)) Disposable {
	return h.subscribe(func(id int) { h.termEnd[id] = fn }, func(id int) { delete(h.termEnd, id) })
}

func (h *Hub) OnTextChanged(fn func(TextEdit)) Disposable {
	return h.subscribe(func(id int) { h.textChanged[id] = fn }, func(id int) { delete(h.textChanged, id) })
}

func (h *Hub) OnBreakpointsChanged(fn func(BreakpointsDelta)) Disposable {
	return h.subscribe(func(id int) { h.breakpoints[id] = fn }, func(id int) { delete(h.breakpoints, id) })
}

// snapshot copies the handler map's values so emits never hold the hub lock
// while calling out.
func snapshot[T any](h *Hub, m map[int]T) []T {
	h.mu.Lock()
	out := make([]T, 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	h.mu.Unlock()
	return out
}

func (h *Hub) EmitActiveDocumentChanged(doc *Document) {
	for _, fn := range snapshot(h, h.activeDoc) {
		fn(doc)
	}
}

func (h *Hub) EmitDocumentSaved(doc Document) {
	for _, fn := range snapshot(h, h.saved) {
		fn(doc)
	}
}

func (h *Hub) EmitDebugStarted(s DebugSession) {
	for _, fn := range snapshot(h, h.debugStart) {
		fn(s)
	}
}

func (h *Hub) EmitDebugStopped(s DebugSession) {
	for _, fn := range snapshot(h, h.debugStop) {
		fn(s)
	}
}

func (h *Hub) EmitDiagnosticsChanged(d Diagnostics) {
	for _, fn := range snapshot(h, h.diagnostics) {
		fn(d)
	}
}

func (h *Hub) EmitTerminalCommandStarted(c TerminalCommand) {
	for _, fn := range snapshot(h, h.termStart) {
		fn(c)
	}
}

func (h *Hub) EmitTerminalCommandEnded(c TerminalCommand) {
	for _, fn := range snapshot(h, h.termEnd) {
		fn(c)
	}
}

func (h *Hub) EmitTextChanged(e TextEdit) {
	for _, fn := range snapshot(h, h.textChanged) {
		fn(e)
	}
}

func (h *Hub) EmitBreakpointsChanged(d BreakpointsDelta) {
	for _, fn := range snapshot(h, h.breakpoints) {
		fn(d)
	}
}
