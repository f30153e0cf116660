package store

import (
	"database/sql"
	"strings"

	"github.com/thurbeen/thurbox/internal/thurerr"
	"github.com/thurbeen/thurbox/internal/types"
)

// CreateSession inserts a new session row. claude_session_id must be
// globally unique — a collision surfaces as StoreConflict since two
// sessions racing to reuse a resumed id would otherwise silently clobber
// one another.
func (s *Store) CreateSession(sess *types.Session) error {
	var roleID interface{}
	if sess.RoleID != nil {
		roleID = string(*sess.RoleID)
	}
	var backendID interface{}
	if sess.BackendID != nil {
		backendID = string(*sess.BackendID)
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, project_id, name, claude_session_id, backend_id, backend_type, cwd, status, error_kind, error_detail, role_id, created_at, last_activity_at, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.ProjectID, sess.Name, sess.ClaudeSessionID, backendID, string(sess.BackendType), sess.Cwd,
		string(sess.Status), sess.ErrorKind, sess.ErrorDetail, roleID,
		sess.CreatedAt.Unix(), sess.LastActivityAt.Unix(), unixOrNil(sess.DeletedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return thurerr.StoreConflict("claude_session_id already in use", err)
		}
		return thurerr.StoreUnavailable("failed to create session", err)
	}
	if sess.Worktree != nil {
		if err := s.UpsertWorktree(sess.Worktree); err != nil {
			return err
		}
	}
	return nil
}

// UpdateSession persists a session's mutable fields: status, backend id,
// activity timestamp, and error detail. claude_session_id, project, and
// cwd never change after creation (§4.1 invariant).
func (s *Store) UpdateSession(sess *types.Session) error {
	var backendID interface{}
	if sess.BackendID != nil {
		backendID = string(*sess.BackendID)
	}
	_, err := s.db.Exec(
		`UPDATE sessions SET backend_id = ?, status = ?, error_kind = ?, error_detail = ?, last_activity_at = ?, deleted_at = ?
		 WHERE id = ?`,
		backendID, string(sess.Status), sess.ErrorKind, sess.ErrorDetail, sess.LastActivityAt.Unix(), unixOrNil(sess.DeletedAt),
		sess.ID,
	)
	if err != nil {
		return thurerr.StoreUnavailable("failed to update session", err)
	}
	return nil
}

// GetSession fetches one session by id, including its worktree if any.
func (s *Store) GetSession(id types.SessionId) (*types.Session, error) {
	row := s.db.QueryRow(
		`SELECT id, project_id, name, claude_session_id, backend_id, backend_type, cwd, status, error_kind, error_detail, role_id, created_at, last_activity_at, deleted_at
		 FROM sessions WHERE id = ?`, id,
	)
	sess, err := scanSessionRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, thurerr.NotFound("session " + string(id) + " not found")
		}
		return nil, thurerr.StoreUnavailable("failed to get session", err)
	}
	wt, err := s.GetWorktree(sess.ID)
	if err != nil {
		return nil, err
	}
	sess.Worktree = wt
	return sess, nil
}

// ListSessions returns sessions for a project (or every project, when
// projectID is empty), ordered by most recently active first.
func (s *Store) ListSessions(projectID types.ProjectId, includeDeleted bool) ([]types.Session, error) {
	query := `SELECT id, project_id, name, claude_session_id, backend_id, backend_type, cwd, status, error_kind, error_detail, role_id, created_at, last_activity_at, deleted_at FROM sessions WHERE 1=1`
	args := []interface{}{}
	if projectID != "" {
		query += ` AND project_id = ?`
		args = append(args, projectID)
	}
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY last_activity_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, thurerr.StoreUnavailable("failed to list sessions", err)
	}
	defer rows.Close()

	var sessions []types.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		wt, err := s.GetWorktree(sess.ID)
		if err != nil {
			return nil, err
		}
		sess.Worktree = wt
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// SoftDeleteSession tombstones a session. Its worktree row is left intact
// until the caller (internal/worktree) has removed the checkout on disk.
func (s *Store) SoftDeleteSession(id types.SessionId) error {
	_, err := s.db.Exec(`UPDATE sessions SET deleted_at = ? WHERE id = ?`, nowUnix(), id)
	if err != nil {
		return thurerr.StoreUnavailable("failed to tombstone session", err)
	}
	return nil
}

// RestoreSession clears a session's tombstone.
func (s *Store) RestoreSession(id types.SessionId) error {
	_, err := s.db.Exec(`UPDATE sessions SET deleted_at = NULL WHERE id = ?`, id)
	if err != nil {
		return thurerr.StoreUnavailable("failed to restore session", err)
	}
	return nil
}

// ReapTombstones hard-deletes sessions (and projects) whose tombstone is
// older than TombstoneTTL, per §4.6's cascading hard-delete rule. liveIDs
// lists sessions whose backend pane is still alive, which must never be
// hard-deleted even past the TTL.
func (s *Store) ReapTombstones(liveIDs map[types.SessionId]bool) (int, error) {
	cutoff := nowUnix() - int64(TombstoneTTL.Seconds())
	rows, err := s.db.Query(`SELECT id FROM sessions WHERE deleted_at IS NOT NULL AND deleted_at < ?`, cutoff)
	if err != nil {
		return 0, thurerr.StoreUnavailable("failed to query tombstoned sessions", err)
	}
	var candidates []types.SessionId
	for rows.Next() {
		var id types.SessionId
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, thurerr.StoreUnavailable("failed to scan tombstoned session", err)
		}
		candidates = append(candidates, id)
	}
	rows.Close()

	reaped := 0
	for _, id := range candidates {
		if liveIDs[id] {
			continue
		}
		if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
			return reaped, thurerr.StoreUnavailable("failed to hard-delete session", err)
		}
		reaped++
	}

	if _, err := s.db.Exec(`DELETE FROM projects WHERE deleted_at IS NOT NULL AND deleted_at < ? AND id NOT IN (SELECT project_id FROM sessions)`, cutoff); err != nil {
		return reaped, thurerr.StoreUnavailable("failed to hard-delete projects", err)
	}
	return reaped, nil
}

func scanSession(rows *sql.Rows) (types.Session, error) {
	var sess types.Session
	var backendID, roleID sql.NullString
	var createdAt, lastActivityAt int64
	var deletedAt sql.NullInt64
	if err := rows.Scan(
		&sess.ID, &sess.ProjectID, &sess.Name, &sess.ClaudeSessionID, &backendID, &sess.BackendType, &sess.Cwd,
		&sess.Status, &sess.ErrorKind, &sess.ErrorDetail, &roleID, &createdAt, &lastActivityAt, &deletedAt,
	); err != nil {
		return sess, thurerr.StoreUnavailable("failed to scan session", err)
	}
	return finishSessionScan(sess, backendID, roleID, createdAt, lastActivityAt, deletedAt), nil
}

func scanSessionRow(row *sql.Row) (*types.Session, error) {
	var sess types.Session
	var backendID, roleID sql.NullString
	var createdAt, lastActivityAt int64
	var deletedAt sql.NullInt64
	if err := row.Scan(
		&sess.ID, &sess.ProjectID, &sess.Name, &sess.ClaudeSessionID, &backendID, &sess.BackendType, &sess.Cwd,
		&sess.Status, &sess.ErrorKind, &sess.ErrorDetail, &roleID, &createdAt, &lastActivityAt, &deletedAt,
	); err != nil {
		return nil, err
	}
	result := finishSessionScan(sess, backendID, roleID, createdAt, lastActivityAt, deletedAt)
	return &result, nil
}

func finishSessionScan(sess types.Session, backendID, roleID sql.NullString, createdAt, lastActivityAt int64, deletedAt sql.NullInt64) types.Session {
	if backendID.Valid {
		id := types.BackendId(backendID.String)
		sess.BackendID = &id
	}
	if roleID.Valid {
		id := types.RoleId(roleID.String)
		sess.RoleID = &id
	}
	sess.CreatedAt = unixToTime(createdAt)
	sess.LastActivityAt = unixToTime(lastActivityAt)
	sess.DeletedAt = timeFromUnix(deletedAt)
	return sess
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint")
}
