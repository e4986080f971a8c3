package ux

import (
	"os"
	"path/filepath"
)

// ConfigFileNames are the project-level config files, in priority order
var ConfigFileNames = []string{".driftguard.yaml", "driftguard.yaml"}

// DiscoverConfigFile searches for a driftguard config file.
// Priority: startDir -> parent dirs (stopping at the git root) -> user config dir.
// It returns "" when nothing is found.
func DiscoverConfigFile(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if isFile(path) {
				return path
			}
		}

		// Stop at git root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if path := UserConfigFile(); path != "" && isFile(path) {
		return path
	}

	return ""
}

// UserConfigFile returns the per-user config path, honouring XDG_CONFIG_HOME
func UserConfigFile() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "driftguard", "config.yaml")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
