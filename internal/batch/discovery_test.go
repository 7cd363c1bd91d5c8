package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestDiscoverImageFiles_FlatDirectory(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "a.png"))
	b := touch(t, filepath.Join(dir, "b.jpg"))
	touch(t, filepath.Join(dir, "notes.txt"))

	files, err := discoverImageFiles([]string{dir}, false, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, files)
}

func TestDiscoverImageFiles_Recursive(t *testing.T) {
	dir := t.TempDir()
	top := touch(t, filepath.Join(dir, "top.png"))
	nested := touch(t, filepath.Join(dir, "sub", "nested.png"))

	flat, err := discoverImageFiles([]string{dir}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{top}, flat)

	deep, err := discoverImageFiles([]string{dir}, true, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{top, nested}, deep)
}

func TestDiscoverImageFiles_Patterns(t *testing.T) {
	dir := t.TempDir()
	keep := touch(t, filepath.Join(dir, "label_1.png"))
	touch(t, filepath.Join(dir, "photo_1.png"))

	files, err := discoverImageFiles([]string{dir}, false, []string{"label_*.png"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, files)

	files, err = discoverImageFiles([]string{dir}, false, nil, []string{"photo_*"})
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, files)
}

func TestDiscoverImageFiles_ExplicitFileSkipsExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	odd := touch(t, filepath.Join(dir, "snapshot.data"))

	files, err := discoverImageFiles([]string{odd}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{odd}, files)
}

func TestDiscoverImageFiles_MissingPath(t *testing.T) {
	_, err := discoverImageFiles([]string{filepath.Join(t.TempDir(), "absent")}, false, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access")
}

func TestShouldIncludeFile(t *testing.T) {
	assert.True(t, shouldIncludeFile("/x/a.png", nil, nil))
	assert.False(t, shouldIncludeFile("/x/a.png", nil, []string{"a.*"}))
	assert.True(t, shouldIncludeFile("/x/a.png", []string{"*.png"}, nil))
	assert.False(t, shouldIncludeFile("/x/a.png", []string{"*.jpg"}, nil))

	// Excludes win over includes.
	assert.False(t, shouldIncludeFile("/x/a.png", []string{"*.png"}, []string{"a.png"}))
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, isImageFile("x/y/label.PNG"))
	assert.True(t, isImageFile("scan.jpeg"))
	assert.True(t, isImageFile("fax.tiff"))
	assert.False(t, isImageFile("doc.pdf"))
	assert.False(t, isImageFile("noext"))
}
