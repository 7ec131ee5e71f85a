package homedir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Get returns the home directory of the current user.
func Get() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("homedir: could not resolve home: %w", err)
	}

	return dir, nil
}

// Expand resolves a leading "~/" against the home directory.
func Expand(path string) (string, error) {
	if path != "~" && !hasTildePrefix(path) {
		return path, nil
	}

	dir, err := Get()
	if err != nil {
		return "", err
	}

	if path == "~" {
		return dir, nil
	}

	return filepath.Join(dir, path[2:]), nil
}

func hasTildePrefix(path string) bool {
	return len(path) >= 2 && path[0] == '~' && path[1] == '/'
}
