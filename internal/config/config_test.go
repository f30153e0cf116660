package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitConfigDirUsesThurboxConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("THURBOX_CONFIG_HOME", dir)

	err := InitConfigDir("")
	assert.NoError(t, err)
	assert.Equal(t, dir, ConfigDir)
}

func TestInitConfigDirFallsBackToXDG(t *testing.T) {
	t.Setenv("THURBOX_CONFIG_HOME", "")
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	err := InitConfigDir("")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "thurbox"), ConfigDir)
}

func TestInitConfigDirFlagOverridesWhenExists(t *testing.T) {
	t.Setenv("THURBOX_CONFIG_HOME", t.TempDir())
	override := t.TempDir()

	err := InitConfigDir(override)
	assert.NoError(t, err)
	assert.Equal(t, override, ConfigDir)
}

func TestInitDataDirUsesThurboxDataHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("THURBOX_DATA_HOME", dir)

	err := InitDataDir("")
	assert.NoError(t, err)
	assert.Equal(t, dir, DataDir)
}

func TestInitDataDirFallsBackToXDG(t *testing.T) {
	t.Setenv("THURBOX_DATA_HOME", "")
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)

	err := InitDataDir("")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "thurbox"), DataDir)
}
