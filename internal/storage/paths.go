// Package storage persists search results in a BadgerDB analysis cache.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName = "chesscore"

	// dataDirEnv overrides the platform data directory when set.
	dataDirEnv = "CHESSCORE_DATA"
)

// DataDir returns the directory chesscore keeps its files in, creating it
// if needed. CHESSCORE_DATA wins when set; otherwise it is appName under
// the platform data root (see dataRoot).
func DataDir() (string, error) {
	dir := os.Getenv(dataDirEnv)
	if dir == "" {
		root, err := dataRoot(runtime.GOOS, os.Getenv, os.UserHomeDir)
		if err != nil {
			return "", err
		}
		dir = filepath.Join(root, appName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabaseDir returns the directory holding the analysis database.
func DatabaseDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "analysis")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}

// dataRoot picks the per-user data root for goos:
//   - darwin: ~/Library/Application Support
//   - windows: %APPDATA%, else ~/AppData/Roaming
//   - others: $XDG_DATA_HOME, else ~/.local/share
func dataRoot(goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	var env string
	var fallback []string
	switch goos {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if env != "" {
		if dir := getenv(env); dir != "" {
			return dir, nil
		}
	}
	homeDir, err := home()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{homeDir}, fallback...)...), nil
}
