package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "stiker"

// userDataBase returns the per-user directory applications keep data in.
func userDataBase() (string, error) {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
	} else if runtime.GOOS != "darwin" {
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Roaming"), nil
	}
	return filepath.Join(home, ".local", "share"), nil
}

// DatabaseDir returns the default badger directory, creating it if needed:
// <data dir>/stiker/db, where the data dir is $XDG_DATA_HOME (or
// ~/.local/share) on Linux, ~/Library/Application Support on macOS and
// %APPDATA% on Windows.
func DatabaseDir() (string, error) {
	base, err := userDataBase()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, appName, "db")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
