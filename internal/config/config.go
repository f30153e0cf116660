// Package config resolves Thurbox's on-disk locations (config directory,
// data directory, log file) and owns the semantic theme table used by
// internal/view to style panels, modals, and the status bar.
package config

import (
	"errors"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

// ConfigDir holds the theme file and any legacy config.toml awaiting import.
var ConfigDir string

// DataDir holds thurbox.db, thurbox.log and any per-worktree scratch state.
var DataDir string

// InitConfigDir resolves Thurbox's configuration directory per the XDG base
// directory spec: THURBOX_CONFIG_HOME, then XDG_CONFIG_HOME, then ~/.config.
// A non-empty flagConfigDir always wins if it exists.
func InitConfigDir(flagConfigDir string) error {
	var e error

	configHome := os.Getenv("THURBOX_CONFIG_HOME")
	if configHome == "" {
		xdgHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgHome == "" {
			home, err := homedir.Dir()
			if err != nil {
				return errors.New("error finding your home directory\ncan't load config files: " + err.Error())
			}
			xdgHome = filepath.Join(home, ".config")
		}
		configHome = filepath.Join(xdgHome, "thurbox")
	}
	ConfigDir = configHome

	if len(flagConfigDir) > 0 {
		if _, err := os.Stat(flagConfigDir); os.IsNotExist(err) {
			e = errors.New("error: " + flagConfigDir + " does not exist, defaulting to " + ConfigDir)
		} else {
			ConfigDir = flagConfigDir
			return nil
		}
	}

	if err := os.MkdirAll(ConfigDir, 0o755); err != nil {
		return errors.New("error creating configuration directory: " + err.Error())
	}

	return e
}

// InitDataDir resolves Thurbox's data directory: THURBOX_DATA_HOME, then
// XDG_DATA_HOME, then ~/.local/share. This is where thurbox.db and
// thurbox.log live, and where the sync watcher in internal/sync is pointed.
func InitDataDir(flagDataDir string) error {
	dataHome := os.Getenv("THURBOX_DATA_HOME")
	if dataHome == "" {
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData == "" {
			home, err := homedir.Dir()
			if err != nil {
				return errors.New("error finding your home directory\ncan't load data files: " + err.Error())
			}
			xdgData = filepath.Join(home, ".local", "share")
		}
		dataHome = filepath.Join(xdgData, "thurbox")
	}
	DataDir = dataHome

	if len(flagDataDir) > 0 {
		DataDir = flagDataDir
	}

	if err := os.MkdirAll(DataDir, 0o755); err != nil {
		return errors.New("error creating data directory: " + err.Error())
	}

	return nil
}
