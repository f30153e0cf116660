package store

import (
	"database/sql"

	"github.com/thurbeen/thurbox/internal/thurerr"
	"github.com/thurbeen/thurbox/internal/types"
)

// UpsertWorktree inserts or replaces the single worktree row owned by a
// session (one worktree per session, §4.2).
func (s *Store) UpsertWorktree(wt *types.Worktree) error {
	_, err := s.db.Exec(
		`INSERT INTO worktrees (session_id, repo_path, path, branch, sync_state, sync_ahead, sync_behind, sync_detail, sync_checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   repo_path = excluded.repo_path, path = excluded.path, branch = excluded.branch,
		   sync_state = excluded.sync_state, sync_ahead = excluded.sync_ahead, sync_behind = excluded.sync_behind,
		   sync_detail = excluded.sync_detail, sync_checked_at = excluded.sync_checked_at`,
		wt.SessionID, wt.RepoPath, wt.Path, wt.Branch,
		string(wt.Sync.State), wt.Sync.Ahead, wt.Sync.Behind, wt.Sync.Detail, wt.Sync.CheckedAt.Unix(),
	)
	if err != nil {
		return thurerr.StoreUnavailable("failed to upsert worktree", err)
	}
	return nil
}

// GetWorktree fetches a session's worktree row, or nil if it has none.
func (s *Store) GetWorktree(sessionID types.SessionId) (*types.Worktree, error) {
	row := s.db.QueryRow(
		`SELECT session_id, repo_path, path, branch, sync_state, sync_ahead, sync_behind, sync_detail, sync_checked_at
		 FROM worktrees WHERE session_id = ?`, sessionID,
	)
	var wt types.Worktree
	var checkedAt int64
	err := row.Scan(&wt.SessionID, &wt.RepoPath, &wt.Path, &wt.Branch, &wt.Sync.State, &wt.Sync.Ahead, &wt.Sync.Behind, &wt.Sync.Detail, &checkedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, thurerr.StoreUnavailable("failed to get worktree", err)
	}
	wt.Sync.CheckedAt = unixToTime(checkedAt)
	return &wt, nil
}

// DeleteWorktree removes a session's worktree row once its on-disk
// checkout has been removed by internal/worktree.
func (s *Store) DeleteWorktree(sessionID types.SessionId) error {
	_, err := s.db.Exec(`DELETE FROM worktrees WHERE session_id = ?`, sessionID)
	if err != nil {
		return thurerr.StoreUnavailable("failed to delete worktree", err)
	}
	return nil
}
