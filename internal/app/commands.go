package app

import (
	"github.com/thurbeen/thurbox/internal/types"
)

// defaultChildCommand is the argv[0] used for a freshly spawned or
// restarted session's child: claude, the first entry of
// backend.KnownAITools. The other tools in that list are never spawned
// from here.
const defaultChildCommand = "claude"

// quitCommand detaches every live session without killing it and stops the
// run loop, per §4.8's Ctrl+Q ("detach all, persist metadata, do not
// kill"). Persisting metadata is the executor's job once it sees Quit; the
// model itself has nothing left to mutate.
func quitCommand(m Model) (Model, []Effect) {
	var effects []Effect
	for id, s := range m.Sessions {
		if s.Status == types.SessionStatusError || s.DeletedAt != nil {
			continue
		}
		effects = append(effects, Detach{SessionID: id})
	}
	effects = append(effects, Quit{})
	return m, effects
}

// newCommand opens the session-creation modal appropriate to the current
// focus: a fresh project when the project list has focus, a fresh session
// against the already-selected project otherwise.
func newCommand(m Model) (Model, []Effect) {
	var targetProject types.ProjectId
	if proj, ok := m.ActiveProject(); ok {
		targetProject = proj.ID
	}
	m.Modal = NewSessionCreateModal(m.Focus, targetProject)
	return m, nil
}

// closeCommand kills the active session's child and, if it owns a
// worktree, removes the checkout alongside it (§4.8 Ctrl+C).
func closeCommand(m Model) (Model, []Effect) {
	sess, ok := m.ActiveSession()
	if !ok {
		return m, nil
	}
	effects := []Effect{Kill{SessionID: sess.ID}}
	if sess.Worktree != nil {
		effects = append(effects, WorktreeRemove{Path: sess.Worktree.Path})
	}
	return m, effects
}

// deleteCommand soft-deletes the session or project under the current
// focus, pushing a Tombstone onto the undo stack so Ctrl+Z can restore it.
// SessionList deletes the highlighted session; ProjectList deletes the
// highlighted project (cascading to its sessions is the store's concern,
// per §4.4's invariant, not the model's).
func deleteCommand(m Model) (Model, []Effect) {
	switch m.Focus {
	case types.FocusSessionList, types.FocusTerminal:
		sess, ok := m.ActiveSession()
		if !ok {
			return m, nil
		}
		m.UndoStack = append(m.UndoStack, Tombstone{Kind: TombstoneSession, SessionID: sess.ID})
		return m, []Effect{StoreWrite{Op: OpSoftDeleteSession, Payload: SoftDeleteSessionPayload{SessionID: sess.ID}}}
	case types.FocusProjectList:
		proj, ok := m.ActiveProject()
		if !ok {
			return m, nil
		}
		m.UndoStack = append(m.UndoStack, Tombstone{Kind: TombstoneProject, ProjectID: proj.ID})
		return m, []Effect{StoreWrite{Op: OpSoftDeleteProject, Payload: SoftDeleteProjectPayload{ProjectID: proj.ID}}}
	}
	return m, nil
}

// editCommand opens the role/MCP editor over the active project (§4.8
// Ctrl+E).
func editCommand(m Model) (Model, []Effect) {
	proj, ok := m.ActiveProject()
	if !ok {
		return m, nil
	}
	m.Modal = NewProjectEditModal(proj)
	return m, nil
}

// restartCommand kills and respawns the active session's child, carrying
// its claude_session_id forward as --resume and re-resolving its role's
// arguments against the project's current state (§4.6 Restart).
func restartCommand(m Model) (Model, []Effect) {
	sess, ok := m.ActiveSession()
	if !ok {
		return m, nil
	}
	proj, ok := m.ActiveProject()
	if !ok {
		return m, nil
	}
	spec := buildSpawnSpec(defaultChildCommand, sess, proj, m.ViewportCols, m.ViewportRows)
	return m, []Effect{Restart{Spec: spec}}
}

// syncCommand runs a manual fetch+rebase against the active session's
// worktree, if it has one (§4.8 Ctrl+S).
func syncCommand(m Model) (Model, []Effect) {
	sess, ok := m.ActiveSession()
	if !ok || sess.Worktree == nil {
		return m, nil
	}
	return m, []Effect{WorktreeSync{
		SessionID: sess.ID,
		Worktree:  sess.Worktree,
		RemoteRef: "origin/" + sess.Worktree.Branch,
	}}
}

// undoCommand pops the most recent tombstone and restores it (§4.8
// Ctrl+Z). Restoring a project does not resurrect sessions it cascaded
// onto when deleted; those need their own tombstone entries, which
// deleteCommand never produces today since cascading delete is the
// store's job, not the model's.
func undoCommand(m Model) (Model, []Effect) {
	if len(m.UndoStack) == 0 {
		return m, nil
	}
	last := m.UndoStack[len(m.UndoStack)-1]
	m.UndoStack = m.UndoStack[:len(m.UndoStack)-1]

	switch last.Kind {
	case TombstoneSession:
		return m, []Effect{StoreWrite{Op: OpRestoreSession, Payload: RestoreSessionPayload{SessionID: last.SessionID}}}
	case TombstoneProject:
		return m, []Effect{StoreWrite{Op: OpRestoreProject, Payload: RestoreProjectPayload{ProjectID: last.ProjectID}}}
	}
	return m, nil
}
