package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "cfgrepair"

	// DefaultDocument is the configuration document repaired when
	// no other path is given.
	DefaultDocument = "appwrite.config.json"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/cfgrepair by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/cfgrepair/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/cfgrepair/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
