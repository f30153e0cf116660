package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/thurbeen/thurbox/internal/config"
	"github.com/thurbeen/thurbox/internal/store"
	"github.com/thurbeen/thurbox/internal/types"
)

// adminProjectName is the fixed, non-editable, non-deletable project
// pinned at index 0 of every project list (§4.1 invariant: "is_admin true
// for exactly one project"). Its sessions are how a user runs Thurbox's
// own admin RPC surface as a child the same way any other project runs
// a coding assistant.
const adminProjectName = "Thurbox Admin"

// loadInitialState reads every non-deleted project and session out of the
// store, ensuring the admin project exists and synthesizing the ephemeral
// Default project (never persisted) when no other user project does.
func loadInitialState(st *store.Store) ([]types.Project, map[types.SessionId]types.Session, error) {
	if err := ensureAdminProject(st); err != nil {
		return nil, nil, err
	}

	projects, err := st.ListProjects(false)
	if err != nil {
		return nil, nil, err
	}

	hasUserProject := false
	for _, p := range projects {
		if !p.IsAdmin {
			hasUserProject = true
			break
		}
	}
	if !hasUserProject {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		projects = append(projects, types.DefaultProject(cwd))
	}

	sessions := make(map[types.SessionId]types.Session)
	for _, p := range projects {
		if p.ID == types.ProjectId("default") {
			continue
		}
		sess, err := st.ListSessions(p.ID, false)
		if err != nil {
			return nil, nil, err
		}
		for _, s := range sess {
			sessions[s.ID] = s
		}
	}

	return projects, sessions, nil
}

func ensureAdminProject(st *store.Store) error {
	projects, err := st.ListProjects(true)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if p.IsAdmin {
			return nil
		}
	}

	zero := uint32(0)
	admin := types.Project{
		ID:          types.NewProjectId(),
		Name:        adminProjectName,
		Repos:       []string{config.DataDir},
		IsAdmin:     true,
		PinnedIndex: &zero,
	}
	return st.CreateProject(&admin)
}

// adminMcpConfig is the on-disk shape of <data-dir>/admin/.mcp.json,
// naming the admin RPC binary's path so external tooling (e.g. a
// coding assistant's own MCP client) can locate it without searching PATH.
type adminMcpConfig struct {
	McpServers map[string]adminMcpServer `json:"mcpServers"`
}

type adminMcpServer struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// writeAdminMcpConfig rewrites the admin MCP descriptor on every launch,
// per spec.md §6's persisted-state table. The admin RPC binary itself is
// an external collaborator (spec.md §1 Non-goals); this file only ever
// records where it would live, alongside whatever binary this process
// was launched from.
func writeAdminMcpConfig() error {
	selfPath, err := os.Executable()
	if err != nil {
		selfPath = "thurbox"
	}
	adminPath := filepath.Join(filepath.Dir(selfPath), "thurboxadmin")

	dir := filepath.Join(config.DataDir, "admin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	cfg := adminMcpConfig{
		McpServers: map[string]adminMcpServer{
			"thurbox-admin": {Command: adminPath},
		},
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ".mcp.json"), data, 0o644)
}
