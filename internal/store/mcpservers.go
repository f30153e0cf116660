package store

import (
	"database/sql"
	"encoding/json"

	"github.com/thurbeen/thurbox/internal/thurerr"
	"github.com/thurbeen/thurbox/internal/types"
)

// ListMcpServers returns every MCP server definition for a project.
func (s *Store) ListMcpServers(projectID types.ProjectId) ([]types.McpServer, error) {
	rows, err := s.db.Query(
		`SELECT project_id, name, command, args_json, env_json FROM mcp_servers WHERE project_id = ? ORDER BY name`,
		projectID,
	)
	if err != nil {
		return nil, thurerr.StoreUnavailable("failed to list mcp servers", err)
	}
	defer rows.Close()

	var servers []types.McpServer
	for rows.Next() {
		m, err := scanMcpServer(rows)
		if err != nil {
			return nil, err
		}
		servers = append(servers, m)
	}
	return servers, rows.Err()
}

// SetMcpServers atomically replaces a project's MCP server set, the same
// validate-then-replace shape as SetRoles.
func (s *Store) SetMcpServers(projectID types.ProjectId, servers []types.McpServer) error {
	seen := make(map[string]bool, len(servers))
	for _, m := range servers {
		if err := validateName("name", m.Name); err != nil {
			return err
		}
		if seen[m.Name] {
			return thurerr.ValidationFailed("name", "duplicate")
		}
		seen[m.Name] = true
	}

	tx, err := s.db.Begin()
	if err != nil {
		return thurerr.StoreUnavailable("failed to begin transaction", err)
	}
	if _, err := tx.Exec(`DELETE FROM mcp_servers WHERE project_id = ?`, projectID); err != nil {
		tx.Rollback()
		return thurerr.StoreUnavailable("failed to clear mcp servers", err)
	}
	for _, m := range servers {
		argsJSON, _ := json.Marshal(m.Args)
		envJSON, _ := json.Marshal(m.Env)
		if _, err := tx.Exec(
			`INSERT INTO mcp_servers (project_id, name, command, args_json, env_json) VALUES (?, ?, ?, ?, ?)`,
			projectID, m.Name, m.Command, string(argsJSON), string(envJSON),
		); err != nil {
			tx.Rollback()
			return thurerr.StoreUnavailable("failed to insert mcp server", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return thurerr.StoreUnavailable("failed to commit mcp servers", err)
	}
	return nil
}

func scanMcpServer(rows *sql.Rows) (types.McpServer, error) {
	var m types.McpServer
	var argsJSON, envJSON string
	if err := rows.Scan(&m.ProjectID, &m.Name, &m.Command, &argsJSON, &envJSON); err != nil {
		return m, thurerr.StoreUnavailable("failed to scan mcp server", err)
	}
	if err := json.Unmarshal([]byte(argsJSON), &m.Args); err != nil {
		return m, thurerr.StoreUnavailable("failed to decode mcp args", err)
	}
	if err := json.Unmarshal([]byte(envJSON), &m.Env); err != nil {
		return m, thurerr.StoreUnavailable("failed to decode mcp env", err)
	}
	return m, nil
}
