package store

import (
	"database/sql"
	"encoding/json"

	"github.com/thurbeen/thurbox/internal/thurerr"
	"github.com/thurbeen/thurbox/internal/types"
)

// ListProjects returns every project ordered by pinned_index then name,
// the admin project (pinned at index 0) always sorting first.
func (s *Store) ListProjects(includeDeleted bool) ([]types.Project, error) {
	query := `SELECT id, name, repos_json, is_admin, pinned_index, deleted_at FROM projects`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY COALESCE(pinned_index, 999999), name COLLATE NOCASE`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, thurerr.StoreUnavailable("failed to list projects", err)
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		roles, err := s.ListRoles(p.ID)
		if err != nil {
			return nil, err
		}
		p.Roles = roles
		servers, err := s.ListMcpServers(p.ID)
		if err != nil {
			return nil, err
		}
		p.McpServers = servers
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject fetches one project by id, including its roles and servers.
func (s *Store) GetProject(id types.ProjectId) (*types.Project, error) {
	row := s.db.QueryRow(
		`SELECT id, name, repos_json, is_admin, pinned_index, deleted_at FROM projects WHERE id = ?`, id,
	)
	p, err := scanProjectRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, thurerr.NotFound("project " + string(id) + " not found")
		}
		return nil, thurerr.StoreUnavailable("failed to get project", err)
	}
	roles, err := s.ListRoles(p.ID)
	if err != nil {
		return nil, err
	}
	p.Roles = roles
	servers, err := s.ListMcpServers(p.ID)
	if err != nil {
		return nil, err
	}
	p.McpServers = servers
	return p, nil
}

// CreateProject inserts a new project after validating its name is
// non-empty, within length, and unique (case-insensitive) among
// non-deleted projects.
func (s *Store) CreateProject(p *types.Project) error {
	if err := validateName("name", p.Name); err != nil {
		return err
	}
	collide, err := s.nameCollision(p.Name, string(p.ID))
	if err != nil {
		return err
	}
	if collide {
		return thurerr.ValidationFailed("name", "duplicate")
	}

	reposJSON, err := json.Marshal(p.Repos)
	if err != nil {
		return thurerr.ValidationFailed("repos", "could not encode")
	}

	_, err = s.db.Exec(
		`INSERT INTO projects (id, name, repos_json, is_admin, pinned_index, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(reposJSON), boolToInt(p.IsAdmin), pinnedIndexValue(p.PinnedIndex), unixOrNil(p.DeletedAt),
	)
	if err != nil {
		return thurerr.StoreUnavailable("failed to create project", err)
	}
	return nil
}

// UpdateProject updates name and repos for an existing project; the pinned
// index is not changed. The admin project cannot be edited at all (§4.1).
func (s *Store) UpdateProject(p *types.Project) error {
	existing, err := s.GetProject(p.ID)
	if err != nil {
		return err
	}
	if existing.IsAdmin {
		return thurerr.Forbidden("the admin project cannot be edited")
	}
	if err := validateName("name", p.Name); err != nil {
		return err
	}
	collide, err := s.nameCollision(p.Name, string(p.ID))
	if err != nil {
		return err
	}
	if collide {
		return thurerr.ValidationFailed("name", "duplicate")
	}

	reposJSON, err := json.Marshal(p.Repos)
	if err != nil {
		return thurerr.ValidationFailed("repos", "could not encode")
	}
	_, err = s.db.Exec(
		`UPDATE projects SET name = ?, repos_json = ? WHERE id = ?`,
		p.Name, string(reposJSON), p.ID,
	)
	if err != nil {
		return thurerr.StoreUnavailable("failed to update project", err)
	}
	return nil
}

// SoftDeleteProject tombstones a project and cascades the tombstone to
// its non-deleted sessions (§4.6's cascading soft-delete invariant). The
// admin project cannot be deleted.
func (s *Store) SoftDeleteProject(id types.ProjectId) error {
	existing, err := s.GetProject(id)
	if err != nil {
		return err
	}
	if existing.IsAdmin {
		return thurerr.Forbidden("the admin project cannot be deleted")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return thurerr.StoreUnavailable("failed to begin transaction", err)
	}
	now := nowUnix()
	if _, err := tx.Exec(`UPDATE projects SET deleted_at = ? WHERE id = ?`, now, id); err != nil {
		tx.Rollback()
		return thurerr.StoreUnavailable("failed to tombstone project", err)
	}
	if _, err := tx.Exec(
		`UPDATE sessions SET deleted_at = ? WHERE project_id = ? AND deleted_at IS NULL`, now, id,
	); err != nil {
		tx.Rollback()
		return thurerr.StoreUnavailable("failed to tombstone project sessions", err)
	}
	if err := tx.Commit(); err != nil {
		return thurerr.StoreUnavailable("failed to commit project delete", err)
	}
	return nil
}

// RestoreProject clears a project's tombstone (Ctrl+Z undo).
func (s *Store) RestoreProject(id types.ProjectId) error {
	_, err := s.db.Exec(`UPDATE projects SET deleted_at = NULL WHERE id = ?`, id)
	if err != nil {
		return thurerr.StoreUnavailable("failed to restore project", err)
	}
	return nil
}

func scanProject(rows *sql.Rows) (types.Project, error) {
	var p types.Project
	var reposJSON string
	var isAdmin int
	var pinnedIndex sql.NullInt64
	var deletedAt sql.NullInt64
	if err := rows.Scan(&p.ID, &p.Name, &reposJSON, &isAdmin, &pinnedIndex, &deletedAt); err != nil {
		return p, thurerr.StoreUnavailable("failed to scan project", err)
	}
	return finishProjectScan(p, reposJSON, isAdmin, pinnedIndex, deletedAt)
}

func scanProjectRow(row *sql.Row) (*types.Project, error) {
	var p types.Project
	var reposJSON string
	var isAdmin int
	var pinnedIndex sql.NullInt64
	var deletedAt sql.NullInt64
	if err := row.Scan(&p.ID, &p.Name, &reposJSON, &isAdmin, &pinnedIndex, &deletedAt); err != nil {
		return nil, err
	}
	result, err := finishProjectScan(p, reposJSON, isAdmin, pinnedIndex, deletedAt)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func finishProjectScan(p types.Project, reposJSON string, isAdmin int, pinnedIndex, deletedAt sql.NullInt64) (types.Project, error) {
	if err := json.Unmarshal([]byte(reposJSON), &p.Repos); err != nil {
		return p, thurerr.StoreUnavailable("failed to decode repos", err)
	}
	p.IsAdmin = isAdmin != 0
	if pinnedIndex.Valid {
		v := uint32(pinnedIndex.Int64)
		p.PinnedIndex = &v
	}
	p.DeletedAt = timeFromUnix(deletedAt)
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func pinnedIndexValue(v *uint32) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
