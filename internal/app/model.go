// Package app holds Thurbox's single mutable model and the total update
// function that is its only mutator, generalizing the teacher's
// LayoutManager (one struct owning focus, panels, and modal state, driven
// by one HandleEvent dispatch) from an editor's tree/tabs/terminals to
// Thurbox's project/session/terminal domain.
package app

import (
	"time"

	"github.com/micro-editor/tcell/v2"

	"github.com/thurbeen/thurbox/internal/sync"
	"github.com/thurbeen/thurbox/internal/types"
)

// Severity tags a status-bar message the way a log level would, so the
// view layer can color it.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// StatusBar is the one-line transient message shown beneath the session
// list, cleared when a StatusTimeoutEvent arrives. ExpiresAt is carried
// but not compared against the clock anywhere; nothing sends that event
// when it passes.
type StatusBar struct {
	Message   string
	Severity  Severity
	ExpiresAt time.Time
}

// Selection tracks which project and, within it, which session is
// highlighted. SessionIdxByProject is keyed by project so switching
// projects and back restores the previously highlighted session.
type Selection struct {
	ProjectIdx          int
	SessionIdxByProject map[types.ProjectId]int
}

// SessionIdx returns the remembered session index for projectID, 0 if
// none has been recorded yet.
func (s Selection) SessionIdx(projectID types.ProjectId) int {
	if s.SessionIdxByProject == nil {
		return 0
	}
	return s.SessionIdxByProject[projectID]
}

// WithSessionIdx returns a copy of s recording idx for projectID.
func (s Selection) WithSessionIdx(projectID types.ProjectId, idx int) Selection {
	next := make(map[types.ProjectId]int, len(s.SessionIdxByProject)+1)
	for k, v := range s.SessionIdxByProject {
		next[k] = v
	}
	next[projectID] = idx
	s.SessionIdxByProject = next
	return s
}

// Model is Thurbox's single mutable state, the only thing Update mutates.
// Nothing in here talks to a pty, a database, or a multiplexer — that is
// exactly what makes Update pure and testable without any of those.
type Model struct {
	Projects []types.Project
	Sessions map[types.SessionId]types.Session

	Focus     types.Focus
	Selection Selection

	Modal     *Modal
	StatusBar StatusBar

	ViewportCols int
	ViewportRows int

	QuickCommandMode bool
	QuickFind        *QuickFindState

	// UndoStack holds the most recently soft-deleted project/session ids,
	// most recent last, consumed by Ctrl+Z (§4.8).
	UndoStack []Tombstone

	// InfoPanelVisible toggles with F2; hidden entirely below the 120-column
	// breakpoint regardless of this flag (internal/view's call, not ours).
	InfoPanelVisible bool

	// HelpVisible toggles with F1.
	HelpVisible bool
}

// Tombstone names one soft-deleted record for Ctrl+Z restore.
type Tombstone struct {
	Kind      TombstoneKind
	ProjectID types.ProjectId
	SessionID types.SessionId
}

type TombstoneKind string

const (
	TombstoneProject TombstoneKind = "project"
	TombstoneSession TombstoneKind = "session"
)

// NewModel builds the initial model for a freshly loaded project/session
// set, focused on the project list with nothing selected.
func NewModel(projects []types.Project, sessions map[types.SessionId]types.Session) Model {
	if sessions == nil {
		sessions = make(map[types.SessionId]types.Session)
	}
	return Model{
		Projects:  projects,
		Sessions:  sessions,
		Focus:     types.FocusProjectList,
		Selection: Selection{SessionIdxByProject: make(map[types.ProjectId]int)},
	}
}

// ActiveProject returns the project under the current selection, if any.
func (m Model) ActiveProject() (types.Project, bool) {
	if m.Selection.ProjectIdx < 0 || m.Selection.ProjectIdx >= len(m.Projects) {
		return types.Project{}, false
	}
	return m.Projects[m.Selection.ProjectIdx], true
}

// ActiveSession returns the session under the current selection within
// the active project, if any.
func (m Model) ActiveSession() (types.Session, bool) {
	proj, ok := m.ActiveProject()
	if !ok {
		return types.Session{}, false
	}
	sessions := m.sessionsForProject(proj.ID)
	idx := m.Selection.SessionIdx(proj.ID)
	if idx < 0 || idx >= len(sessions) {
		return types.Session{}, false
	}
	return sessions[idx], true
}

// sessionsForProject returns non-deleted sessions belonging to projectID
// in a stable order (by CreatedAt), the order internal/view lists them in.
func (m Model) sessionsForProject(projectID types.ProjectId) []types.Session {
	var out []types.Session
	for _, s := range m.Sessions {
		if s.ProjectID == projectID && s.DeletedAt == nil {
			out = append(out, s)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.Before(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Msg is the sealed set of events flowing into Update: §4.8's own list
// (KeyEvent, ResizeEvent, PasteEvent, MouseEvent, BackendOutput,
// BackendDead, Tick, Sync, StatusTimeout) plus WorktreeStatusEvent, which
// §4.8 has no slot for but the worktree fetcher's background poll needs
// one.
type Msg interface{ isMsg() }

type KeyEvent struct{ Event *tcell.EventKey }
type MouseEvent struct{ Event *tcell.EventMouse }
type ResizeEvent struct{ Cols, Rows int }
type PasteEvent struct{ Text string }
type BackendOutputEvent struct{ SessionID types.SessionId }
type BackendDeadEvent struct {
	SessionID types.SessionId
	ExitCode  *int
}
type TickEvent struct{ At time.Time }
type SyncEvent struct{ Change sync.ChangeSet }
type StatusTimeoutEvent struct{}

// WorktreeStatusEvent carries a freshly computed SyncStatus up from
// internal/worktree's background fetch worker through its status callback;
// Update folds it into the live session's Worktree for rendering and
// writes nothing to the store (§4.7).
type WorktreeStatusEvent struct {
	SessionID types.SessionId
	Status    types.SyncStatus
}

func (KeyEvent) isMsg()            {}
func (MouseEvent) isMsg()          {}
func (ResizeEvent) isMsg()         {}
func (PasteEvent) isMsg()          {}
func (BackendOutputEvent) isMsg()  {}
func (BackendDeadEvent) isMsg()    {}
func (TickEvent) isMsg()           {}
func (SyncEvent) isMsg()           {}
func (StatusTimeoutEvent) isMsg()  {}
func (WorktreeStatusEvent) isMsg() {}
