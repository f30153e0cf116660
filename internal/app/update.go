package app

import (
	"github.com/micro-editor/tcell/v2"

	"github.com/thurbeen/thurbox/internal/input"
	"github.com/thurbeen/thurbox/internal/types"
)

// Update is Thurbox's one state transition function: given the current
// Model and the next Msg, it returns the next Model and whatever Effects
// the executor must carry out. It never blocks and never performs I/O,
// generalizing the teacher's LayoutManager.HandleEvent into a single total
// function over a sealed event set (§4.8).
func Update(m Model, msg Msg) (Model, []Effect) {
	switch ev := msg.(type) {
	case KeyEvent:
		return handleKey(m, ev.Event)
	case MouseEvent:
		return handleMouse(m, ev.Event)
	case ResizeEvent:
		return handleResize(m, ev)
	case PasteEvent:
		return handlePaste(m, ev)
	case BackendOutputEvent:
		// Output already landed in the session's vt.Screen by the time this
		// arrives; Update has nothing to mutate, the message exists only to
		// trigger a redraw.
		return m, nil
	case BackendDeadEvent:
		return handleBackendDead(m, ev)
	case TickEvent:
		return handleTick(m, ev)
	case SyncEvent:
		return handleSync(m, ev)
	case StatusTimeoutEvent:
		m.StatusBar = StatusBar{}
		return m, nil
	case WorktreeStatusEvent:
		return handleWorktreeStatus(m, ev)
	}
	return m, nil
}

// handleMouse only drives scrollback: wheel events translate into a
// Scroll effect for the active session. Click-drag text selection needs
// pane-relative coordinates Update has no way to compute (that is
// internal/view's layout, not model state), so the executor applies
// input.HandleMouse/ClampToContent directly against the live runtime
// Handle and view geometry rather than routing through Update for that
// part of mouse handling.
func handleMouse(m Model, ev *tcell.EventMouse) (Model, []Effect) {
	sess, ok := m.ActiveSession()
	if !ok {
		return m, nil
	}
	switch ev.Buttons() {
	case tcell.WheelUp:
		return m, []Effect{Scroll{SessionID: sess.ID, Delta: -3}}
	case tcell.WheelDown:
		return m, []Effect{Scroll{SessionID: sess.ID, Delta: 3}}
	}
	return m, nil
}

// handleResize updates the viewport dimensions Update itself cares about
// (modal layout, page-scroll sizing) and tells every live session's pane
// to match, per §4.3's "resize fans out to every live pane" requirement.
func handleResize(m Model, ev ResizeEvent) (Model, []Effect) {
	m.ViewportCols = ev.Cols
	m.ViewportRows = ev.Rows

	var effects []Effect
	for id, s := range m.Sessions {
		if s.DeletedAt != nil || s.BackendID == nil {
			continue
		}
		effects = append(effects, Resize{SessionID: id, Cols: ev.Cols, Rows: ev.Rows})
	}
	return m, effects
}

// handlePaste forwards pasted text to the active session's child, wrapped
// in bracketed-paste escapes when the terminal has focus (§4.8).
func handlePaste(m Model, ev PasteEvent) (Model, []Effect) {
	if m.Focus != types.FocusTerminal {
		return m, nil
	}
	sess, ok := m.ActiveSession()
	if !ok {
		return m, nil
	}
	return m, []Effect{Write{SessionID: sess.ID, Data: input.PasteBytes(ev.Text, true)}}
}

// handleBackendDead records a session's exit: Error status, the kind/detail
// the executor observed, but only when the session hasn't already been
// soft-deleted or restarted out from under the dead reader.
func handleBackendDead(m Model, ev BackendDeadEvent) (Model, []Effect) {
	sess, ok := m.Sessions[ev.SessionID]
	if !ok || sess.DeletedAt != nil {
		return m, nil
	}
	sess.Status = types.SessionStatusError
	if ev.ExitCode != nil && *ev.ExitCode != 0 {
		sess.ErrorKind = "child_exited_non_zero"
	} else {
		sess.ErrorKind = "child_exited"
	}
	m.Sessions[ev.SessionID] = sess
	return m, nil
}

// handleTick is a no-op on Model today: activity badges are computed from
// Session.LastActivityAt at render time (internal/view), and the status
// bar is cleared only by StatusTimeoutEvent; StatusBar.ExpiresAt is not
// checked here.
// Kept as its own Msg/branch so a future tick-driven model mutation (e.g.
// auto-clearing a stale "Syncing" badge) has somewhere to live without
// touching the dispatch table.
func handleTick(m Model, ev TickEvent) (Model, []Effect) {
	return m, nil
}

// handleSync merges a reconciliation pass's ChangeSet into the model,
// replacing whichever projects/sessions the other instance (or this one's
// own write, echoed back) changed on disk.
func handleSync(m Model, ev SyncEvent) (Model, []Effect) {
	for _, p := range ev.Change.Projects {
		replaced := false
		for i, existing := range m.Projects {
			if existing.ID == p.ID {
				m.Projects[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			m.Projects = append(m.Projects, p)
		}
	}
	for _, s := range ev.Change.Sessions {
		m.Sessions[s.ID] = s
	}
	return m, nil
}

// handleWorktreeStatus folds a background fetch poll's result into the
// matching session's Worktree, the way handleSync folds in a reconciliation
// pass's ChangeSet. The status arrives through internal/worktree.Fetcher's
// status callback, which does not touch the store, and this only updates
// what the view layer reads.
func handleWorktreeStatus(m Model, ev WorktreeStatusEvent) (Model, []Effect) {
	sess, ok := m.Sessions[ev.SessionID]
	if !ok || sess.Worktree == nil {
		return m, nil
	}
	wt := *sess.Worktree
	wt.Sync = ev.Status
	sess.Worktree = &wt
	m.Sessions[ev.SessionID] = sess
	return m, nil
}
