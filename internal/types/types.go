// Package types holds Thurbox's plain data model: the identifiers and
// records shared by internal/store, internal/backend, internal/runtime,
// internal/worktree, and internal/app. Nothing in this package talks to a
// database, a pty, or a multiplexer — it is pure data.
package types

import (
	"time"

	"github.com/google/uuid"
)

// ProjectId identifies a project: one or more repository paths grouped
// under a name, with its own roles and MCP servers.
type ProjectId string

// RoleId identifies a role: a named permission profile translated into
// spawn-time arguments for a session's child process.
type RoleId string

// SessionId identifies one running or historical child session.
type SessionId string

// BackendId identifies a session's handle in the multiplexer (e.g. a tmux
// pane id such as "%12"). Stable across Thurbox restarts as long as the
// multiplexer's server process survives.
type BackendId string

// InstanceId identifies one running Thurbox process, for multi-instance
// sync conflict attribution.
type InstanceId string

// McpServerId identifies an MCP server definition attachable to a project.
type McpServerId string

// WorktreeId is not a store-level identity: worktrees are keyed by
// SessionId in the model (one worktree per session, §4.2), so the store
// addresses a worktree row by its owning session. Kept as a distinct type
// for clarity at call sites that pass a worktree path around.
type WorktreeId = SessionId

// NewProjectId, NewRoleId, ... mint fresh random v4 identifiers, the way
// the teacher mints ids for its own history and nugget records with
// uuid.New().
func NewProjectId() ProjectId     { return ProjectId(uuid.NewString()) }
func NewRoleId() RoleId           { return RoleId(uuid.NewString()) }
func NewSessionId() SessionId     { return SessionId(uuid.NewString()) }
func NewInstanceId() InstanceId   { return InstanceId(uuid.NewString()) }
func NewMcpServerId() McpServerId { return McpServerId(uuid.NewString()) }

// PermissionMode constrains what a role's child process may do without
// prompting, translated into the child's own CLI flags at spawn time.
type PermissionMode string

const (
	PermissionModeDefault           PermissionMode = "default"
	PermissionModePlan              PermissionMode = "plan"
	PermissionModeAcceptEdits       PermissionMode = "accept_edits"
	PermissionModeDontAsk           PermissionMode = "dont_ask"
	PermissionModeBypassPermissions PermissionMode = "bypass_permissions"
)

// Role is a named permission profile: allowed/disallowed tool patterns and
// an optional system-prompt suffix, unique by name within its project.
// Tool strings are either bare capability names ("Read", "Bash") or scoped
// patterns ("Bash(git:*)", "Edit(src/**)"); a string naming both allow and
// deny is denied.
type Role struct {
	ID                 RoleId
	ProjectID          ProjectId
	Name               string
	Description        string
	PermissionMode     *PermissionMode
	AllowedTools       []string
	DisallowedTools    []string
	AppendSystemPrompt string
}

// Denies reports whether tool is excluded by DisallowedTools, which wins
// over AllowedTools when both name the same pattern.
func (r Role) Denies(tool string) bool {
	for _, d := range r.DisallowedTools {
		if d == tool {
			return true
		}
	}
	return false
}

// Allows reports whether tool is permitted: present in AllowedTools (or
// AllowedTools empty, meaning "everything not denied") and not denied.
func (r Role) Allows(tool string) bool {
	if r.Denies(tool) {
		return false
	}
	if len(r.AllowedTools) == 0 {
		return true
	}
	for _, a := range r.AllowedTools {
		if a == tool {
			return true
		}
	}
	return false
}

// McpServer is a Model Context Protocol server definition a project's
// roles can attach to their child's environment.
type McpServer struct {
	ProjectID ProjectId
	Name      string
	Command   string
	Args      []string
	Env       map[string]string
}

// Project groups one or more repository paths under a name, the roles
// spawnable against it, and the MCP servers its sessions can see.
type Project struct {
	ID          ProjectId
	Name        string
	Repos       []string
	Roles       []Role
	McpServers  []McpServer
	IsAdmin     bool
	PinnedIndex *uint32
	DeletedAt   *time.Time
}

// DefaultProject synthesizes the ephemeral project used when no
// non-deleted user project exists, rooted at cwd and never persisted.
func DefaultProject(cwd string) Project {
	return Project{
		ID:    ProjectId("default"),
		Name:  "Default",
		Repos: []string{cwd},
	}
}

// SessionStatus is the lifecycle state of a Session as tracked in the
// store; it is distinct from runtime liveness (see internal/runtime.Status:
// starting, live, reconnecting, dead, detached).
type SessionStatus string

const (
	SessionStatusStarting SessionStatus = "starting"
	SessionStatusRunning  SessionStatus = "running"
	SessionStatusIdle     SessionStatus = "idle"
	SessionStatusError    SessionStatus = "error"
)

// BackendType names which multiplexer hosts a session's pane. LocalTmux is
// the only implementation today; the field exists so a session record
// already carries the information a future remote backend would need.
type BackendType string

const (
	BackendTypeLocalTmux BackendType = "local_tmux"
)

// Session is one spawned child: a role run against an optional worktree,
// hosted in a backend pane, with a resumable claude_session_id assigned
// before spawn and never mutated by a restart.
type Session struct {
	ID              SessionId
	ProjectID       ProjectId
	Name            string
	ClaudeSessionID string
	BackendID       *BackendId
	BackendType     BackendType
	Cwd             string
	Status          SessionStatus
	ErrorKind       string
	ErrorDetail     string
	RoleID          *RoleId
	Worktree        *Worktree
	CreatedAt       time.Time
	LastActivityAt  time.Time
	DeletedAt       *time.Time
}

// SyncState reports a worktree's position relative to its tracked remote,
// as computed by the periodic fetch worker in internal/worktree.
type SyncState string

const (
	SyncStateUpToDate SyncState = "up_to_date"
	SyncStateBehind   SyncState = "behind"
	SyncStateAhead    SyncState = "ahead"
	SyncStateDiverged SyncState = "diverged"
	SyncStateSyncing  SyncState = "syncing"
	SyncStateError    SyncState = "error"
)

// SyncStatus is a worktree's last-computed ahead/behind/dirty snapshot.
type SyncStatus struct {
	State     SyncState
	Ahead     int
	Behind    int
	Detail    string
	CheckedAt time.Time
}

// Worktree is the auxiliary checkout backing one session: a distinct
// branch sharing its repository's object store, removed on explicit
// session close and preserved on application quit.
type Worktree struct {
	SessionID SessionId
	RepoPath  string
	Path      string
	Branch    string
	Sync      SyncStatus
}

// Focus identifies which part of the UI has keyboard focus, used both by
// internal/app's routing table and internal/view's tri-state border style.
type Focus int

const (
	FocusProjectList Focus = iota
	FocusSessionList
	FocusTerminal
	FocusModal
)
