package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const legacyTOML = `
[[projects]]
name = "legacy-proj"
repos = ["/tmp/legacy"]

[[projects.roles]]
name = "reviewer"
description = "reviews code"
allowed_tools = ["Read"]

[projects.mcps.exa]
command = "npx"
args = ["-y", "exa-mcp"]
`

func TestImportLegacyConfigRenamesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	assert.NoError(t, os.WriteFile(path, []byte(legacyTOML), 0o644))

	s := newTestStore(t)
	assert.NoError(t, s.ImportLegacyConfig(dir))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)

	projects, err := s.ListProjects(false)
	assert.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.Equal(t, "legacy-proj", projects[0].Name)
	assert.Len(t, projects[0].Roles, 1)
	assert.Len(t, projects[0].McpServers, 1)
}

func TestImportLegacyConfigNoopWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.ImportLegacyConfig(t.TempDir()))
}
