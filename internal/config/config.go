package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// ConfigDirEnv overrides the configuration directory
	ConfigDirEnv = "HAC_CONFIG"
)

var (
	// ConfigDir holds hac.toml, keybinds.json and the log file
	ConfigDir string

	// DataDir holds the database and the default collections directory
	DataDir string

	// CollectionsDir is where collection files are read from and written to
	CollectionsDir string

	// ConfigFile is the TOML settings file
	ConfigFile string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string

	// DatabasePath is the SQLite database file for execution history
	DatabasePath string

	// LogFile receives application logs while the terminal is in use
	LogFile string
)

// Initialize resolves every path and creates the directories hac writes to.
// Empty arguments fall back to $HAC_CONFIG / XDG locations under the home
// directory.
func Initialize(configDir, dataDir string) error {
	var err error

	if configDir == "" {
		configDir, err = defaultConfigDir()
		if err != nil {
			return err
		}
	}
	if dataDir == "" {
		dataDir, err = defaultDataDir()
		if err != nil {
			return err
		}
	}

	ConfigDir, err = expandHome(configDir)
	if err != nil {
		return err
	}
	DataDir, err = expandHome(dataDir)
	if err != nil {
		return err
	}

	CollectionsDir = filepath.Join(DataDir, "collections")
	ConfigFile = filepath.Join(ConfigDir, "hac.toml")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	DatabasePath = filepath.Join(DataDir, "hac.db")
	LogFile = filepath.Join(ConfigDir, "hac.log")

	for _, dir := range []string{ConfigDir, DataDir} {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ResolveCollectionsDir picks the collections directory from settings,
// relative paths being relative to the data directory, and creates it.
func ResolveCollectionsDir(s Settings) (string, error) {
	dir := CollectionsDir
	if s.CollectionsDir != "" {
		expanded, err := expandHome(s.CollectionsDir)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(DataDir, expanded)
		}
		dir = expanded
	}

	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create collections directory %s: %w", dir, err)
	}
	return dir, nil
}

func defaultConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hac"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "hac"), nil
}

func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "hac"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "hac"), nil
}

// expandHome expands a leading ~/ to the home directory
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}
