package common

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Singleton for resolved project paths.
var (
	resolvedRoot    string
	resolvedStamps  string
	resolvedOutputs string
	pathsOnce       sync.Once
	pathsError      error
)

// RepoMarkerFiles are files that indicate the root of a terrain-builder
// checkout when --working-dir isn't given explicitly.
var RepoMarkerFiles = []string{"go.mod", "terrain.yaml", "terrain.yml"}

// initPaths resolves project paths once at startup by walking up from the
// current working directory looking for a marker file.
func initPaths() {
	pathsOnce.Do(func() {
		root, err := findRepoRoot()
		if err != nil {
			pathsError = err
			return
		}

		resolvedRoot = root
		resolvedStamps = filepath.Join(root, "stamps")
		resolvedOutputs = filepath.Join(root, "out")

		Verbose("Resolved project root: %s", root)
		Verbose("Stamp catalog directory: %s", resolvedStamps)
	})
}

// findRepoRoot searches for the project root by looking for marker files
// starting from the current directory and walking up the directory tree.
func findRepoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := cwd
	for i := 0; i < 6; i++ {
		if isRepoRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// A bare generation doesn't strictly need a project root, only
	// somewhere to read stamps from and write outputs to; fall back to cwd
	// rather than failing, unlike the marker search this is adapted from.
	return cwd, nil
}

func isRepoRoot(dir string) bool {
	for _, marker := range RepoMarkerFiles {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// ProjectRoot returns the resolved project root directory.
func ProjectRoot() (string, error) {
	initPaths()
	return resolvedRoot, pathsError
}

// StampCatalogDir returns the default directory searched for detail-stamp
// JSON patches when no --stamps-dir flag is given.
func StampCatalogDir() (string, error) {
	initPaths()
	if pathsError != nil {
		return "", pathsError
	}
	return resolvedStamps, nil
}

// OutputDir returns the default directory generated artifacts are written
// to when no --out flag is given.
func OutputDir() (string, error) {
	initPaths()
	if pathsError != nil {
		return "", pathsError
	}
	return resolvedOutputs, nil
}

// ResetPaths clears cached path resolution; used by tests.
func ResetPaths() {
	resolvedRoot = ""
	resolvedStamps = ""
	resolvedOutputs = ""
	pathsOnce = sync.Once{}
	pathsError = nil
}
