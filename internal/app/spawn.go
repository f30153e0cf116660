package app

import (
	"github.com/thurbeen/thurbox/internal/backend"
	"github.com/thurbeen/thurbox/internal/types"
)

// resolveRole finds role by id within project, returning the zero Role
// (no restrictions, default command) when roleID is nil or unknown.
func resolveRole(project types.Project, roleID *types.RoleId) types.Role {
	if roleID == nil {
		return types.Role{}
	}
	for _, r := range project.Roles {
		if r.ID == *roleID {
			return r
		}
	}
	return types.Role{}
}

// roleArgs translates a Role's permission fields into CLI flags, the
// "freshly-resolved role arguments from the current project state" spec.md
// names for both initial spawn and restart.
func roleArgs(role types.Role) []string {
	var args []string
	if role.PermissionMode != nil {
		args = append(args, "--permission-mode", string(*role.PermissionMode))
	}
	for _, t := range role.AllowedTools {
		args = append(args, "--allowedTools", t)
	}
	for _, t := range role.DisallowedTools {
		args = append(args, "--disallowedTools", t)
	}
	if role.AppendSystemPrompt != "" {
		args = append(args, "--append-system-prompt", role.AppendSystemPrompt)
	}
	return args
}

// buildSpawnSpec assembles the backend.SpawnSpec for a session: command
// and args from its role, claude_session_id always threaded through as
// --resume so a restart (or an adopt racing a fresh spawn) always resumes
// rather than starting a new conversation (§4.2 invariant).
func buildSpawnSpec(command string, session types.Session, project types.Project, cols, rows int) backend.SpawnSpec {
	role := resolveRole(project, session.RoleID)
	args := roleArgs(role)
	args = append(args, "--resume", session.ClaudeSessionID)

	return backend.SpawnSpec{
		SessionID: session.ID,
		Command:   command,
		Args:      args,
		WorkDir:   session.Cwd,
		Cols:      cols,
		Rows:      rows,
	}
}

// BuildSpawnSpec exposes buildSpawnSpec to cmd/thurbox's executor, which
// needs the same role-argument resolution to issue the Spawn effect a
// WorktreeCreate defers until the checkout path is known (modal_update.go's
// session-create flow can't build that Spawn itself, since it doesn't yet
// know where the worktree landed).
func BuildSpawnSpec(session types.Session, project types.Project, cols, rows int) backend.SpawnSpec {
	return buildSpawnSpec(defaultChildCommand, session, project, cols, rows)
}
