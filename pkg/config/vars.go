package config

import (
	"path/filepath"
)

// Cache modes.
const (
	CacheOn      = "on"
	CacheOff     = "off"
	CacheRefresh = "refresh"
)

// AppName is used in generating file system paths.
const AppName = "occdl"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/occdl by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/occdl by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// ArchiveDir returns the directory for downloaded occurrence archives.
// Returns ~/.cache/occdl/archives by default.
func ArchiveDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "archives")
}

// VocabularyDir returns the directory of the key-value store that keeps
// server vocabularies.
// Returns ~/.cache/occdl/vocab by default.
func VocabularyDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "vocab")
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/occdl/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/occdl/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
