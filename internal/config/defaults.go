package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath  = "~/.config/clean-folder/config.toml"
	localConfigName    = "clean-folder.toml"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultHistoryPath = "~/.local/share/clean-folder/history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Path: defaultHistoryPath,
		},
		Lock: Lock{
			Dir: defaultLockDir(),
		},
	}
}

func defaultLockDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "clean-folder", "locks")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "clean-folder", "locks")
	}
	return filepath.Join(home, ".cache", "clean-folder", "locks")
}
