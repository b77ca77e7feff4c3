// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// HistoryEnv names the environment variable that overrides the history path.
const HistoryEnv = "TYPETEST_HISTORY"

const appDir = "typetest"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultHistoryPath returns the default path for the history log.
func DefaultHistoryPath() string {
	return filepath.Join(XDGDataHome(), appDir, "history.txt")
}

// DefaultDBPath returns the default path for the SQLite stats index.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appDir, "stats.db")
}

// DefaultCorpusDir returns the directory searched for custom sentence files.
func DefaultCorpusDir() string {
	return filepath.Join(XDGConfigHome(), appDir, "corpus")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}

// ResolveHistoryPath picks the history path: flag, then environment, then
// config file, then the default.
func ResolveHistoryPath(flagValue string, fileCfg FileConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(HistoryEnv); v != "" {
		return v
	}
	if fileCfg.History.Path != nil && *fileCfg.History.Path != "" {
		return *fileCfg.History.Path
	}
	return DefaultHistoryPath()
}
