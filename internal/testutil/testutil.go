// Package testutil generates barcode test images and locates the shared
// test data tree for tests and the fixture generator.
package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// GetProjectRoot walks up from this source file until it finds the
// directory holding go.mod.
func GetProjectRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("caller information unavailable")
	}

	dir := filepath.Dir(file)
	for {
		if FileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod above %s", filepath.Dir(file))
		}
		dir = parent
	}
}

// GetTestDataDir returns the shared testdata directory at the project root.
func GetTestDataDir(t *testing.T) string {
	t.Helper()

	root, err := GetProjectRoot()
	require.NoError(t, err, "project root not found")
	return filepath.Join(root, "testdata")
}

// GetFixturesDir returns the directory holding scan fixture JSON files.
func GetFixturesDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(GetTestDataDir(t), "fixtures")
}

// GetImagesDir returns one of the generated barcode image directories:
// "clean", "labeled", "rotated" or "degraded".
func GetImagesDir(t *testing.T, category string) string {
	t.Helper()
	return filepath.Join(GetTestDataDir(t), "images", category)
}

// CreateTempDir returns a fresh per-test temporary directory.
func CreateTempDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o750)
}

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// DirExists reports whether path names an existing directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ValidateProjectRoot checks that root looks like a checkout of this
// repository, with go.mod and the cmd and internal trees present.
func ValidateProjectRoot(root string) error {
	if !FileExists(filepath.Join(root, "go.mod")) {
		return fmt.Errorf("go.mod not found in %s", root)
	}
	for _, dir := range []string{"cmd", "internal"} {
		if !DirExists(filepath.Join(root, dir)) {
			return fmt.Errorf("missing %s directory under %s", dir, root)
		}
	}
	return nil
}

// GetProjectRootValidated locates the project root and validates its layout.
func GetProjectRootValidated() (string, error) {
	root, err := GetProjectRoot()
	if err != nil {
		return "", err
	}
	if err := ValidateProjectRoot(root); err != nil {
		return "", fmt.Errorf("invalid project root: %w", err)
	}
	return root, nil
}
