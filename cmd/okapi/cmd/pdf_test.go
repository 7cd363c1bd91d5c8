package cmd

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapiscan/okapi/internal/testutil"
)

// buildPDF writes a document with one QR code page per content string.
func buildPDF(t *testing.T, contents ...string) string {
	t.Helper()
	dir := t.TempDir()

	imagePaths := make([]string, len(contents))
	for i, content := range contents {
		img, err := testutil.GenerateQR(content, 240)
		require.NoError(t, err)
		path := filepath.Join(dir, fmt.Sprintf("qr_%d.png", i))
		testutil.SaveImage(t, img, path)
		imagePaths[i] = path
	}

	pdfPath := filepath.Join(dir, "fixture.pdf")
	require.NoError(t, api.ImportImagesFile(imagePaths, pdfPath, nil, nil))
	return pdfPath
}

func TestPDFCommandDecodesDocument(t *testing.T) {
	pdfPath := buildPDF(t, "pdf cli payload")
	outPath := filepath.Join(t.TempDir(), "out.json")

	_, err := execute(t, "pdf", pdfPath, "--format", "json", "--output", outPath, "--quiet")
	require.NoError(t, err)

	files := readReport(t, outPath)
	require.Len(t, files, 1)
	assert.Contains(t, files[0].Path, "#page=1")
	require.Len(t, files[0].Symbols, 1)
	assert.Equal(t, "QR-Code", files[0].Symbols[0].Type)
	assert.Equal(t, "pdf cli payload", files[0].Symbols[0].Data)
}

func TestPDFCommandInvalidPages(t *testing.T) {
	pdfPath := buildPDF(t, "unused")
	outPath := filepath.Join(t.TempDir(), "out.json")

	_, err := execute(t, "pdf", pdfPath, "--pages", "not-a-range",
		"--format", "json", "--output", outPath, "--quiet")
	require.Error(t, err)
}

func TestPDFCommandMissingFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.json")

	_, err := execute(t, "pdf", filepath.Join(t.TempDir(), "absent.pdf"),
		"--format", "json", "--output", outPath, "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.pdf")
}
