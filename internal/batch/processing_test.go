package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapiscan/okapi"
	"github.com/okapiscan/okapi/internal/testutil"
)

func allSymbologies() *okapi.ScannerBuilder {
	return okapi.NewScannerBuilder().WithConfig(okapi.None, okapi.CfgEnable, 1)
}

func writeQR(t *testing.T, dir, name, content string) string {
	t.Helper()
	img, err := testutil.GenerateQR(content, 200)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	testutil.SaveImage(t, img, path)
	return path
}

func TestScanSingleImage(t *testing.T) {
	path := writeQR(t, t.TempDir(), "one.png", "parallel payload")

	scanner, err := allSymbologies().Build()
	require.NoError(t, err)
	defer func() { _ = scanner.Close() }()

	file, err := scanSingleImage(scanner, path)
	require.NoError(t, err)
	assert.Equal(t, path, file.Path)
	require.Len(t, file.Symbols, 1)
	assert.Equal(t, "QR-Code", file.Symbols[0].Type)
	assert.Equal(t, "parallel payload", file.Symbols[0].Data)
}

func TestScanSingleImage_Unreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	scanner, err := allSymbologies().Build()
	require.NoError(t, err)
	defer func() { _ = scanner.Close() }()

	_, err = scanSingleImage(scanner, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")
}

func TestScanImagesParallel_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeQR(t, dir, "c.png", "third"),
		writeQR(t, dir, "a.png", "first"),
		writeQR(t, dir, "b.png", "second"),
	}

	cfg := DefaultConfig()
	cfg.Workers = 3
	files, err := scanImagesParallel(allSymbologies(), paths, cfg)
	require.NoError(t, err)
	require.Len(t, files, 3)

	want := []string{"third", "first", "second"}
	for i, data := range want {
		assert.Equal(t, paths[i], files[i].Path)
		require.Len(t, files[i].Symbols, 1, "file %d", i)
		assert.Equal(t, data, files[i].Symbols[0].Data)
	}
}

func TestScanImagesParallel_ContinueOnError(t *testing.T) {
	dir := t.TempDir()
	good := writeQR(t, dir, "good.png", "survivor")
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0o644))

	files, err := scanImagesParallel(allSymbologies(), []string{good, bad}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Empty(t, files[0].Error)
	require.Len(t, files[0].Symbols, 1)
	assert.Equal(t, "survivor", files[0].Symbols[0].Data)

	assert.NotEmpty(t, files[1].Error)
	assert.Empty(t, files[1].Symbols)
}

func TestScanImagesParallel_FailFast(t *testing.T) {
	dir := t.TempDir()
	good := writeQR(t, dir, "good.png", "survivor")
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0o644))

	cfg := DefaultConfig()
	cfg.ContinueOnError = false
	_, err := scanImagesParallel(allSymbologies(), []string{good, bad}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.png")
}

func TestEffectiveWorkers(t *testing.T) {
	assert.Equal(t, 2, effectiveWorkers(2, 10))
	assert.Equal(t, 3, effectiveWorkers(8, 3))
	assert.Positive(t, effectiveWorkers(0, 10))
	assert.Equal(t, 1, effectiveWorkers(0, 0))
	assert.LessOrEqual(t, effectiveWorkers(-2, 5), 5)
	assert.Positive(t, effectiveWorkers(-2, 5))
}
