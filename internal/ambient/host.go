package ambient

import (
	"context"
	"sync"
)

// HostPoller is the Poller shipped with the CLI. Git status and open tabs
// come from the local machine; editor, diagnostics, breakpoints, and the
// selection come from the most recent snapshot pushed over the editor bridge,
// when one is connected. Without a bridge those polls answer empty, the same
// degradation as any unavailable provider.
type HostPoller struct {
	WorkDir string
	Git     *GitPoller
	Tabs    *TabReader

	mu     sync.Mutex
	bridge *BridgeState
}

// NewHostPoller wires a poller for one workspace root.
func NewHostPoller(workDir string) *HostPoller {
	return &HostPoller{
		WorkDir: workDir,
		Git:     &GitPoller{WorkDir: workDir},
		Tabs:    &TabReader{WorkDir: workDir},
	}
}

// SetBridgeState stores the latest snapshot from the editor bridge.
// Safe to call from the feed goroutine while polls are in flight.
func (h *HostPoller) SetBridgeState(st BridgeState) {
	h.mu.Lock()
	h.bridge = &st
	h.mu.Unlock()
}

func (h *HostPoller) bridgeState() *BridgeState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bridge
}

func (h *HostPoller) ActiveEditor(ctx context.Context) (*Editor, error) {
	if st := h.bridgeState(); st != nil {
		return st.ActiveEditor, nil
	}
	return nil, nil
}

func (h *HostPoller) OpenTabs(ctx context.Context) ([]Tab, error) {
	if st := h.bridgeState(); st != nil && len(st.OpenTabs) > 0 {
		return st.OpenTabs, nil
	}
	if h.Tabs == nil {
		return nil, nil
	}
	return h.Tabs.Read(), nil
}

func (h *HostPoller) Diagnostics(ctx context.Context) ([]Diagnostic, error) {
	if st := h.bridgeState(); st != nil {
		return st.Diagnostics, nil
	}
	return nil, nil
}

func (h *HostPoller) Breakpoints(ctx context.Context) ([]Breakpoint, error) {
	if st := h.bridgeState(); st != nil {
		return st.Breakpoints, nil
	}
	return nil, nil
}

func (h *HostPoller) GitStatus(ctx context.Context) (*GitStatus, error) {
	if h.Git == nil {
		return nil, nil
	}
	return h.Git.Status(ctx)
}

func (h *HostPoller) WorkspaceFolders() []string {
	if h.WorkDir == "" {
		return nil
	}
	return []string{h.WorkDir}
}

// Selection returns the selection from the latest bridge snapshot, nil when
// no bridge is connected or nothing is selected.
func (h *HostPoller) Selection() *Selection {
	if st := h.bridgeState(); st != nil {
		return st.Selection
	}
	return nil
}
