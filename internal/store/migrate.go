package store

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/thurbeen/thurbox/internal/config"
	"github.com/thurbeen/thurbox/internal/thurerr"
	"github.com/thurbeen/thurbox/internal/types"
)

// legacyConfig is the shape of a pre-store config.toml: projects with
// their repos, roles, and MCP servers inline, the way agent-deck's
// userconfig.go lays out per-feature TOML tables (`[tools.my-ai]`,
// `[mcps.exa]`) rather than a flat key list.
type legacyConfig struct {
	Projects []legacyProject `toml:"projects"`
}

type legacyProject struct {
	Name  string               `toml:"name"`
	Repos []string             `toml:"repos"`
	Roles []legacyRole         `toml:"roles"`
	Mcps  map[string]legacyMcp `toml:"mcps"`
}

type legacyRole struct {
	Name               string   `toml:"name"`
	Description        string   `toml:"description"`
	PermissionMode     string   `toml:"permission_mode"`
	AllowedTools       []string `toml:"allowed_tools"`
	DisallowedTools    []string `toml:"disallowed_tools"`
	AppendSystemPrompt string   `toml:"append_system_prompt"`
}

type legacyMcp struct {
	Command string            `toml:"command"`
	Args    []string          `toml:"args"`
	Env     map[string]string `toml:"env"`
}

// ImportLegacyConfig looks for <configDir>/config.toml; if present, it
// imports its projects/roles/MCP servers into the store and renames the
// file to config.toml.bak so the import only ever runs once (spec.md §6:
// "rename the legacy file to config.toml.bak").
func (s *Store) ImportLegacyConfig(configDir string) error {
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	var legacy legacyConfig
	if _, err := toml.DecodeFile(path, &legacy); err != nil {
		return thurerr.StoreUnavailable("failed to parse legacy config.toml", err)
	}

	for _, lp := range legacy.Projects {
		project := types.Project{
			ID:    types.NewProjectId(),
			Name:  lp.Name,
			Repos: lp.Repos,
		}
		if err := s.CreateProject(&project); err != nil {
			config.Logger.Printf("skipping legacy project %q: %v", lp.Name, err)
			continue
		}

		roles := make([]types.Role, 0, len(lp.Roles))
		for _, lr := range lp.Roles {
			role := types.Role{
				ID:                 types.NewRoleId(),
				ProjectID:          project.ID,
				Name:               lr.Name,
				Description:        lr.Description,
				AllowedTools:       lr.AllowedTools,
				DisallowedTools:    lr.DisallowedTools,
				AppendSystemPrompt: lr.AppendSystemPrompt,
			}
			if lr.PermissionMode != "" {
				mode := types.PermissionMode(lr.PermissionMode)
				role.PermissionMode = &mode
			}
			roles = append(roles, role)
		}
		if len(roles) > 0 {
			if err := s.SetRoles(project.ID, roles); err != nil {
				config.Logger.Printf("skipping legacy roles for project %q: %v", lp.Name, err)
			}
		}

		servers := make([]types.McpServer, 0, len(lp.Mcps))
		for name, lm := range lp.Mcps {
			servers = append(servers, types.McpServer{
				ProjectID: project.ID,
				Name:      name,
				Command:   lm.Command,
				Args:      lm.Args,
				Env:       lm.Env,
			})
		}
		if len(servers) > 0 {
			if err := s.SetMcpServers(project.ID, servers); err != nil {
				config.Logger.Printf("skipping legacy mcp servers for project %q: %v", lp.Name, err)
			}
		}
	}

	backupPath := path + ".bak"
	if err := os.Rename(path, backupPath); err != nil {
		return thurerr.StoreUnavailable("failed to rename legacy config", err)
	}
	return nil
}
