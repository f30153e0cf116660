// Package runtime wraps one internal/backend pane plus its internal/vt
// screen model into a single live session: the readLoop/Write/Resize/Close
// shape of the teacher's terminal.Panel, generalized so the pty underneath
// can be a tmux pane Thurbox adopted rather than one it spawned itself.
package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/thurbeen/thurbox/internal/backend"
	"github.com/thurbeen/thurbox/internal/thurerr"
	"github.com/thurbeen/thurbox/internal/types"
	"github.com/thurbeen/thurbox/internal/vt"
)

// Status is a session's live runtime state, distinct from the persisted
// types.SessionStatus: a session can be types.SessionStatusRunning in the
// store while its runtime briefly reports StatusReconnecting after a
// Thurbox restart, before the first Adopt snapshot lands.
type Status string

const (
	StatusStarting     Status = "starting"
	StatusLive         Status = "live"
	StatusReconnecting Status = "reconnecting"
	StatusDead         Status = "dead"
	StatusDetached     Status = "detached"
)

// Handle is one running child: the pane backing it, the VT screen fed by
// its output, and the bookkeeping needed to restart or detach it.
type Handle struct {
	SessionID types.SessionId
	BackendID types.BackendId
	Screen    *vt.Screen

	mu              sync.Mutex
	status          Status
	lastActivity    time.Time
	claudeSessionID string
	spec            backend.SpawnSpec

	onOutput func(types.SessionId)
	onDead   func(types.SessionId, *int)

	cancel context.CancelFunc
}

// Manager owns every live Handle and the single Backend they share,
// mirroring the one-layout-manager-per-process shape the teacher uses for
// its panels, generalized from one pty per panel to many panes behind one
// multiplexer connection.
type Manager struct {
	mu       sync.Mutex
	backend  backend.Backend
	handles  map[types.SessionId]*Handle
	onOutput func(types.SessionId)
	onDead   func(types.SessionId, *int)
}

// NewManager builds a Manager over b. onOutput is called (off the read
// goroutine) whenever a session's screen changes, so internal/app can
// schedule a redraw; onDead is called once a session's child has exited,
// carrying its exit code when the multiplexer can report one.
func NewManager(b backend.Backend, onOutput func(types.SessionId), onDead func(types.SessionId, *int)) *Manager {
	return &Manager{
		backend:  b,
		handles:  make(map[types.SessionId]*Handle),
		onOutput: onOutput,
		onDead:   onDead,
	}
}

// Spawn starts a fresh child for spec and begins streaming its output.
func (m *Manager) Spawn(ctx context.Context, spec backend.SpawnSpec) (*Handle, error) {
	if err := m.backend.EnsureReady(ctx); err != nil {
		return nil, thurerr.BackendUnavailable("multiplexer not ready", err)
	}
	backendID, err := m.backend.Spawn(ctx, spec)
	if err != nil {
		return nil, thurerr.SpawnFailed("spawn failed", err)
	}
	cols, rows := spec.Cols, spec.Rows
	if cols == 0 {
		cols = 80
	}
	if rows == 0 {
		rows = 24
	}
	h := m.newHandle(spec.SessionID, backendID, spec, cols, rows)
	h.setStatus(StatusLive)
	m.register(h)
	m.startReadLoop(h)
	return h, nil
}

// Adopt reattaches to a pane the multiplexer already hosts, typically on
// Thurbox startup after reading live sessions out of internal/store.
func (m *Manager) Adopt(ctx context.Context, sessionID types.SessionId, backendID types.BackendId, cols, rows int, claudeSessionID string) (*Handle, error) {
	if err := m.backend.EnsureReady(ctx); err != nil {
		return nil, thurerr.BackendUnavailable("multiplexer not ready", err)
	}
	h := m.newHandle(sessionID, backendID, backend.SpawnSpec{SessionID: sessionID, Cols: cols, Rows: rows}, cols, rows)
	h.claudeSessionID = claudeSessionID
	h.setStatus(StatusReconnecting)
	m.register(h)

	snapshot, err := m.backend.Adopt(ctx, backendID)
	if err != nil {
		h.setStatus(StatusDead)
		return h, thurerr.BackendProtocol("adopt failed", err)
	}
	if len(snapshot) > 0 {
		h.Screen.Feed(snapshot)
	}
	h.setStatus(StatusLive)
	m.startReadLoop(h)
	return h, nil
}

func (m *Manager) newHandle(sessionID types.SessionId, backendID types.BackendId, spec backend.SpawnSpec, cols, rows int) *Handle {
	return &Handle{
		SessionID:    sessionID,
		BackendID:    backendID,
		Screen:       vt.NewScreen(cols, rows),
		status:       StatusStarting,
		lastActivity: time.Now(),
		spec:         spec,
		onOutput:     m.onOutput,
		onDead:       m.onDead,
	}
}

func (m *Manager) register(h *Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handles[h.SessionID] = h
}

func (m *Manager) startReadLoop(h *Handle) {
	ctx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	ch := m.backend.Output(h.BackendID)
	go func() {
		ticker := time.NewTicker(backend.LivenessPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case chunk, ok := <-ch:
				if !ok {
					m.markDead(ctx, h)
					return
				}
				h.Screen.Feed(chunk)
				h.mu.Lock()
				h.lastActivity = time.Now()
				h.mu.Unlock()
				if h.onOutput != nil {
					h.onOutput(h.SessionID)
				}
			case <-ticker.C:
				dead, err := m.backend.IsDead(ctx, h.BackendID)
				if err == nil && dead {
					m.markDead(ctx, h)
					return
				}
			}
		}
	}()
}

func (m *Manager) markDead(ctx context.Context, h *Handle) {
	h.setStatus(StatusDead)
	if h.onDead != nil {
		h.onDead(h.SessionID, nil)
	}
}

// Handle looks up a session's runtime handle by id.
func (m *Manager) Handle(sessionID types.SessionId) (*Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[sessionID]
	return h, ok
}

// Write sends input to a session's child.
func (m *Manager) Write(ctx context.Context, sessionID types.SessionId, data []byte) error {
	h, ok := m.Handle(sessionID)
	if !ok {
		return thurerr.NotFound("session " + string(sessionID) + " not found")
	}
	return m.backend.Write(ctx, h.BackendID, data)
}

// Resize changes a session's pane and screen dimensions together.
func (m *Manager) Resize(ctx context.Context, sessionID types.SessionId, cols, rows int) error {
	h, ok := m.Handle(sessionID)
	if !ok {
		return thurerr.NotFound("session " + string(sessionID) + " not found")
	}
	if err := m.backend.Resize(ctx, h.BackendID, cols, rows); err != nil {
		return thurerr.BackendProtocol("resize failed", err)
	}
	h.Screen.Resize(cols, rows)
	return nil
}

// Detach stops streaming a session's output without killing its child,
// leaving it running in the multiplexer for a later Adopt.
func (m *Manager) Detach(ctx context.Context, sessionID types.SessionId) error {
	h, ok := m.Handle(sessionID)
	if !ok {
		return thurerr.NotFound("session " + string(sessionID) + " not found")
	}
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.mu.Unlock()
	h.setStatus(StatusDetached)
	return m.backend.Detach(ctx, h.BackendID)
}

// Kill terminates a session's child and removes its handle.
func (m *Manager) Kill(ctx context.Context, sessionID types.SessionId) error {
	h, ok := m.Handle(sessionID)
	if !ok {
		return thurerr.NotFound("session " + string(sessionID) + " not found")
	}
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.mu.Unlock()
	err := m.backend.Kill(ctx, h.BackendID)
	m.mu.Lock()
	delete(m.handles, sessionID)
	m.mu.Unlock()
	if err != nil {
		return thurerr.BackendProtocol("kill failed", err)
	}
	return nil
}

// Restart spawns a replacement child for a dead session, carrying forward
// its claude_session_id so the new process can resume the conversation —
// the runtime analogue of the teacher's Panel.RespawnShell, generalized
// from "always respawn the default shell" to "respawn the same role,
// optionally with a resume flag the caller already spliced into spec.Args".
func (m *Manager) Restart(ctx context.Context, spec backend.SpawnSpec) (*Handle, error) {
	old, existed := m.Handle(spec.SessionID)
	if existed {
		old.mu.Lock()
		if old.cancel != nil {
			old.cancel()
		}
		old.mu.Unlock()
		m.mu.Lock()
		delete(m.handles, spec.SessionID)
		m.mu.Unlock()
	}
	return m.Spawn(ctx, spec)
}

func (h *Handle) setStatus(s Status) {
	h.mu.Lock()
	h.status = s
	h.mu.Unlock()
}

// Status returns the handle's current runtime status.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// LastActivity returns the time output was last fed to the screen.
func (h *Handle) LastActivity() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastActivity
}

// ClaudeSessionID returns the resumable conversation id threaded through
// from Adopt or a prior Spawn, if any.
func (h *Handle) ClaudeSessionID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.claudeSessionID
}

// SetClaudeSessionID records a resumable conversation id, typically parsed
// out of a child's output by internal/app once it announces one.
func (h *Handle) SetClaudeSessionID(id string) {
	h.mu.Lock()
	h.claudeSessionID = id
	h.mu.Unlock()
}
