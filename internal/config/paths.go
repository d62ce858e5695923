package config

import (
	"os"
	"path/filepath"
)

const appDirName = ".agentview"

// DataDir returns the base data directory for agentview.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// ConfigPath returns the path to the TOML configuration file.
func ConfigPath() (string, error) {
	return dataPath("config.toml")
}

// StateDBPath returns the path to the bbolt file holding local UI state.
func StateDBPath() (string, error) {
	return dataPath("state.db")
}

// StateFallbackPath is the JSON file used for UI state when the bbolt file
// is locked by another instance.
func StateFallbackPath() (string, error) {
	return dataPath("state.json")
}

// UILogPath returns the path the terminal UI writes its log to.
func UILogPath() (string, error) {
	return dataPath("ui.log")
}

// StreamLogPath returns the path of the event stream debug log.
func StreamLogPath() (string, error) {
	return dataPath("ui-stream.log")
}

// TokenPath is the default access token file, written by the login command.
func TokenPath() (string, error) {
	return dataPath("token")
}

// RefreshTokenPath is the default refresh token file.
func RefreshTokenPath() (string, error) {
	return dataPath("refresh_token")
}

func dataPath(name string) (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, name), nil
}
