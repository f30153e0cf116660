package app

import (
	"github.com/thurbeen/thurbox/internal/backend"
	"github.com/thurbeen/thurbox/internal/types"
)

// Effect is one descriptor Update emits for the executor to carry out.
// Update itself never performs any of these — it only describes them,
// keeping the state machine free of I/O (§4.8).
type Effect interface{ isEffect() }

// Spawn starts a fresh child for a session whose record already exists
// (created synchronously by the executor as part of the same modal step
// that produces this effect).
type Spawn struct {
	Spec backend.SpawnSpec
}

// Kill terminates a session's child. Pair with a WorktreeRemove when the
// session closed owns a worktree (§4.8 Ctrl+C).
type Kill struct {
	SessionID types.SessionId
}

// Write delivers raw bytes to a session's child, the terminal-forwarding
// path and the rebase-conflict-prompt injection both funnel through this.
type Write struct {
	SessionID types.SessionId
	Data      []byte
}

// Resize changes a session's pane dimensions to match the terminal pane's
// current viewport.
type Resize struct {
	SessionID  types.SessionId
	Cols, Rows int
}

// Detach stops streaming a session without killing it (Ctrl+Q on quit).
type Detach struct {
	SessionID types.SessionId
}

// Restart kills and respawns a session's child, carrying its
// claude_session_id forward as a resume flag (Ctrl+R).
type Restart struct {
	Spec backend.SpawnSpec
}

// StoreWrite is the generic persistence descriptor: Op names the store
// operation (e.g. "create_project", "soft_delete_session", "set_roles"),
// and Payload carries whatever that operation needs. internal/app never
// imports internal/store directly — keeping the store an executor-side
// concern is what keeps Update free of I/O and a database handle.
type StoreWrite struct {
	Op      string
	Payload any
}

// WorktreeCreate runs `git worktree add` for a freshly chosen branch.
type WorktreeCreate struct {
	SessionID  types.SessionId
	RepoPath   string
	BaseBranch string
	NewBranch  string
}

// WorktreeRemove deletes a worktree checkout, dispatched alongside Kill
// when a session with a worktree is explicitly closed.
type WorktreeRemove struct {
	Path string
}

// WorktreeSync runs a manual fetch+rebase against a worktree's tracked
// remote (Ctrl+S).
type WorktreeSync struct {
	SessionID types.SessionId
	Worktree  *types.Worktree
	RemoteRef string
}

// Scroll adjusts a session's VT scrollback offset, the Shift+Arrow/
// Shift+Page/mouse-wheel path named in §4.8's focus-and-key-routing rule.
// Applied directly against the live internal/runtime.Handle's Screen by
// the executor rather than mutating Model, since scroll position is
// render state, not application state. A negative Delta scrolls up into
// history, a positive one back toward the live view.
type Scroll struct {
	SessionID types.SessionId
	Delta     int
}

// Quit tells the executor to detach every live session (never kill),
// persist any pending metadata, and stop the run loop — Ctrl+Q.
type Quit struct{}

func (Spawn) isEffect()          {}
func (Kill) isEffect()           {}
func (Write) isEffect()          {}
func (Resize) isEffect()         {}
func (Detach) isEffect()         {}
func (Restart) isEffect()        {}
func (StoreWrite) isEffect()     {}
func (WorktreeCreate) isEffect() {}
func (WorktreeRemove) isEffect() {}
func (WorktreeSync) isEffect()   {}
func (Scroll) isEffect()         {}
func (Quit) isEffect()           {}

// Payload shapes for StoreWrite, named per the Op string they accompany.
type CreateProjectPayload struct{ Project types.Project }
type UpdateProjectPayload struct{ Project types.Project }
type SoftDeleteProjectPayload struct{ ProjectID types.ProjectId }
type RestoreProjectPayload struct{ ProjectID types.ProjectId }
type SetRolesPayload struct {
	ProjectID types.ProjectId
	Roles     []types.Role
}
type SetMcpServersPayload struct {
	ProjectID types.ProjectId
	Servers   []types.McpServer
}
type CreateSessionPayload struct{ Session types.Session }
type UpdateSessionPayload struct{ Session types.Session }
type SoftDeleteSessionPayload struct{ SessionID types.SessionId }
type RestoreSessionPayload struct{ SessionID types.SessionId }

const (
	OpCreateProject     = "create_project"
	OpUpdateProject     = "update_project"
	OpSoftDeleteProject = "soft_delete_project"
	OpRestoreProject    = "restore_project"
	OpSetRoles          = "set_roles"
	OpSetMcpServers     = "set_mcp_servers"
	OpCreateSession     = "create_session"
	OpUpdateSession     = "update_session"
	OpSoftDeleteSession = "soft_delete_session"
	OpRestoreSession    = "restore_session"
)
