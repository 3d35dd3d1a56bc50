package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/jot/internal/config"
)

// ErrRootNotFound is returned by FindRoot when no marker is found.
var ErrRootNotFound = errors.New("notes root not found")

// DefaultDir returns <home>/Documents/NotesData.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, "Documents", "NotesData"), nil
}

// FindRoot looks upwards from startDir for a directory holding a .jot.yaml
// file and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, config.FileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

// ResolveDir picks the notes directory: an explicit flag, then JOT_DIR, then
// the nearest .jot.yaml above cwd, then DefaultDir.
func ResolveDir(flagDir, cwd string) (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if env := config.DirFromEnv(); env != "" {
		return env, nil
	}
	if cwd != "" {
		if root, err := FindRoot(cwd); err == nil {
			return root, nil
		}
	}
	return DefaultDir()
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
