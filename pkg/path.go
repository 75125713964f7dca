package pkg

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment variables overriding the default directories.
const (
	ConfigDirEnv = "MIMOLU_CONFIG_DIR"
	CacheDirEnv  = "MIMOLU_CACHE_DIR"
)

// ConfigDir returns the directory holding the configuration file.
//
// It is $MIMOLU_CONFIG_DIR if set, otherwise the [Name] subdirectory of the
// user configuration directory (e.g. ~/.config/mimolu).
func ConfigDir() string {
	return userDir(ConfigDirEnv, os.UserConfigDir, ".config")
}

// CacheDir returns the directory holding transient files such as the REPL
// history and profiles.
//
// It is $MIMOLU_CACHE_DIR if set, otherwise the [Name] subdirectory of the
// user cache directory (e.g. ~/.cache/mimolu).
func CacheDir() string {
	return userDir(CacheDirEnv, os.UserCacheDir, ".cache")
}

func userDir(env string, base func() (string, error), fallback string) string {
	if dir := strings.TrimSpace(os.Getenv(env)); dir != "" {
		return dir
	}

	dir, err := base()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Name)
}
