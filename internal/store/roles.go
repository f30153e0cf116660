package store

import (
	"database/sql"
	"encoding/json"

	"github.com/thurbeen/thurbox/internal/thurerr"
	"github.com/thurbeen/thurbox/internal/types"
)

// ListRoles returns every role for a project, insertion order (rowid).
func (s *Store) ListRoles(projectID types.ProjectId) ([]types.Role, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, name, description, permission_mode, allowed_tools_json, disallowed_tools_json, append_system_prompt
		 FROM roles WHERE project_id = ? ORDER BY rowid`, projectID,
	)
	if err != nil {
		return nil, thurerr.StoreUnavailable("failed to list roles", err)
	}
	defer rows.Close()

	var roles []types.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// SetRoles atomically replaces every role belonging to projectID: it
// validates every incoming role first (unique, non-empty names), and only
// then deletes the old rows and inserts the new ones within a single
// transaction, so a single invalid role leaves the stored set untouched
// (spec.md's "Atomic replace" invariant).
func (s *Store) SetRoles(projectID types.ProjectId, roles []types.Role) error {
	seen := make(map[string]bool, len(roles))
	for _, r := range roles {
		if err := validateName("name", r.Name); err != nil {
			return err
		}
		if seen[r.Name] {
			return thurerr.ValidationFailed("name", "duplicate")
		}
		seen[r.Name] = true
	}

	tx, err := s.db.Begin()
	if err != nil {
		return thurerr.StoreUnavailable("failed to begin transaction", err)
	}
	if _, err := tx.Exec(`DELETE FROM roles WHERE project_id = ?`, projectID); err != nil {
		tx.Rollback()
		return thurerr.StoreUnavailable("failed to clear roles", err)
	}
	for _, r := range roles {
		allowedJSON, _ := json.Marshal(r.AllowedTools)
		disallowedJSON, _ := json.Marshal(r.DisallowedTools)
		var permMode interface{}
		if r.PermissionMode != nil {
			permMode = string(*r.PermissionMode)
		}
		if _, err := tx.Exec(
			`INSERT INTO roles (id, project_id, name, description, permission_mode, allowed_tools_json, disallowed_tools_json, append_system_prompt)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, projectID, r.Name, r.Description, permMode, string(allowedJSON), string(disallowedJSON), r.AppendSystemPrompt,
		); err != nil {
			tx.Rollback()
			return thurerr.StoreUnavailable("failed to insert role", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return thurerr.StoreUnavailable("failed to commit roles", err)
	}
	return nil
}

func scanRole(rows *sql.Rows) (types.Role, error) {
	var r types.Role
	var permMode sql.NullString
	var allowedJSON, disallowedJSON string
	if err := rows.Scan(&r.ID, &r.ProjectID, &r.Name, &r.Description, &permMode, &allowedJSON, &disallowedJSON, &r.AppendSystemPrompt); err != nil {
		return r, thurerr.StoreUnavailable("failed to scan role", err)
	}
	if permMode.Valid {
		mode := types.PermissionMode(permMode.String)
		r.PermissionMode = &mode
	}
	if err := json.Unmarshal([]byte(allowedJSON), &r.AllowedTools); err != nil {
		return r, thurerr.StoreUnavailable("failed to decode allowed tools", err)
	}
	if err := json.Unmarshal([]byte(disallowedJSON), &r.DisallowedTools); err != nil {
		return r, thurerr.StoreUnavailable("failed to decode disallowed tools", err)
	}
	return r, nil
}
