package paths

import (
	"os"
	"path/filepath"
)

// GetConviveHome returns CONVIVE_HOME or ~/.convive default
func GetConviveHome() string {
	conviveHome := os.Getenv("CONVIVE_HOME")
	if conviveHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".convive"
		}
		return filepath.Join(homeDir, ".convive")
	}
	return ExpandPath(conviveHome)
}

// GetDBPath returns $CONVIVE_HOME/data.db
func GetDBPath() string {
	return filepath.Join(GetConviveHome(), "data.db")
}

// GetSettingsPath returns $CONVIVE_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetConviveHome(), "settings.json")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
