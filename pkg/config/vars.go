package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "minedist"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/minedist by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/minedist/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/minedist/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// EnvFilePath returns the path of an optional .env file in the config
// directory.
func EnvFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), ".env")
}
