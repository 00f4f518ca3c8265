package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/core/ports"
)

const defaultIdleTTL = 30 * time.Minute

// Workspace bundles the per-session components. Each is owned by exactly one
// browser session.
type Workspace struct {
	Session   *SessionStore
	Checklist *ChecklistEngine
	Inventory *InventoryTracker

	restore    sync.Once
	restoreErr error
	lastSeen   atomic.Int64
}

func (w *Workspace) touch(now time.Time) { w.lastSeen.Store(now.UnixNano()) }

// WorkspaceConfig holds the collaborators shared by every workspace.
type WorkspaceConfig struct {
	Storage      ports.SessionStorage
	Gateway      ports.BackendGateway
	Recorder     ports.BatchRecorder // optional
	ChangeReason string
	Timeout      time.Duration
	IdleTTL      time.Duration
	// OnSizeChange, when set, is called with the workspace count after it changes.
	OnSizeChange func(n int)
}

// Workspaces is the registry of live sessions. Persisted state survives
// eviction; an evicted workspace is restored on its next request.
type Workspaces struct {
	cfg WorkspaceConfig
	log zerolog.Logger
	now func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

// NewWorkspaces creates an empty registry.
func NewWorkspaces(cfg WorkspaceConfig, log zerolog.Logger) *Workspaces {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	return &Workspaces{
		cfg:   cfg,
		log:   log,
		now:   time.Now,
		items: make(map[string]*Workspace),
	}
}

// Get returns the workspace for a session id, restoring it from storage on
// first access. A failed restore is not cached.
func (ws *Workspaces) Get(ctx context.Context, sessionID string) (*Workspace, error) {
	w := ws.getOrCreate(sessionID)
	w.restore.Do(func() {
		w.restoreErr = w.Session.Restore(ctx)
	})
	if w.restoreErr != nil {
		ws.Drop(sessionID)
		return nil, w.restoreErr
	}
	return w, nil
}

// Create registers a fresh workspace that skips restore, used at login.
func (ws *Workspaces) Create(sessionID string) *Workspace {
	w := ws.build(sessionID)
	w.restore.Do(func() {})

	ws.mu.Lock()
	ws.items[sessionID] = w
	n := len(ws.items)
	ws.mu.Unlock()

	ws.sizeChanged(n)
	return w
}

// Drop forgets a workspace.
func (ws *Workspaces) Drop(sessionID string) {
	ws.mu.Lock()
	_, ok := ws.items[sessionID]
	delete(ws.items, sessionID)
	n := len(ws.items)
	ws.mu.Unlock()

	if ok {
		ws.sizeChanged(n)
	}
}

// Len returns the number of live workspaces.
func (ws *Workspaces) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.items)
}

// Sweep evicts workspaces idle for longer than the configured TTL and returns
// how many were removed.
func (ws *Workspaces) Sweep() int {
	cutoff := ws.now().Add(-ws.cfg.IdleTTL).UnixNano()

	ws.mu.Lock()
	removed := 0
	for id, w := range ws.items {
		if w.lastSeen.Load() < cutoff {
			delete(ws.items, id)
			removed++
		}
	}
	n := len(ws.items)
	ws.mu.Unlock()

	if removed > 0 {
		ws.log.Debug().Int("removed", removed).Int("remaining", n).Msg("idle workspaces swept")
		ws.sizeChanged(n)
	}
	return removed
}

// RunSweeper sweeps on every tick until ctx is cancelled.
func (ws *Workspaces) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ws.Sweep()
		}
	}
}

func (ws *Workspaces) getOrCreate(sessionID string) *Workspace {
	ws.mu.Lock()
	w, ok := ws.items[sessionID]
	if !ok {
		w = ws.build(sessionID)
		ws.items[sessionID] = w
	}
	n := len(ws.items)
	w.touch(ws.now())
	ws.mu.Unlock()

	if !ok {
		ws.sizeChanged(n)
	}
	return w
}

func (ws *Workspaces) build(sessionID string) *Workspace {
	log := ws.log.With().Str("session_id", sessionID).Logger()
	session := NewSessionStore(sessionID, ws.cfg.Storage, ws.log)
	w := &Workspace{
		Session:   session,
		Checklist: NewChecklistEngine(ws.cfg.Gateway, session, ws.cfg.Timeout, log),
		Inventory: NewInventoryTracker(ws.cfg.Gateway, session, ws.cfg.Recorder, ws.cfg.ChangeReason, ws.cfg.Timeout, log),
	}
	w.touch(ws.now())
	return w
}

func (ws *Workspaces) sizeChanged(n int) {
	if ws.cfg.OnSizeChange != nil {
		ws.cfg.OnSizeChange(n)
	}
}
