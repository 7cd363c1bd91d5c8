package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ScanFixture pairs an input image with the symbols a scan should report.
type ScanFixture struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputFile   string                 `json:"input_file"`
	Expected    []ExpectedSymbol       `json:"expected"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// ExpectedSymbol is one decode a fixture's input should produce.
type ExpectedSymbol struct {
	Symbology string `json:"symbology"`
	Data      string `json:"data"`
}

// LoadFixture loads a scan fixture from JSON file.
func LoadFixture(t *testing.T, name string) ScanFixture {
	t.Helper()

	fixturesDir := GetFixturesDir(t)
	fixturePath := filepath.Join(fixturesDir, name+".json")

	data, err := os.ReadFile(fixturePath) //nolint:gosec // G304: Reading test fixture files with controlled paths
	require.NoError(t, err, "Failed to read fixture file: %s", fixturePath)

	var fixture ScanFixture
	err = json.Unmarshal(data, &fixture)
	require.NoError(t, err, "Failed to unmarshal fixture JSON")

	return fixture
}

// SaveFixture saves a scan fixture to JSON file.
func SaveFixture(t *testing.T, fixture ScanFixture) {
	t.Helper()

	fixturesDir := GetFixturesDir(t)
	require.NoError(t, EnsureDir(fixturesDir))

	fixturePath := filepath.Join(fixturesDir, fixture.Name+".json")

	data, err := json.MarshalIndent(fixture, "", "  ")
	require.NoError(t, err, "Failed to marshal fixture to JSON")

	err = os.WriteFile(fixturePath, data, 0o600)
	require.NoError(t, err, "Failed to write fixture file: %s", fixturePath)
}

// SaveFixtureTo saves a scan fixture under an explicit directory, for tests
// that keep their data in a temp dir instead of testdata.
func SaveFixtureTo(t *testing.T, dir string, fixture ScanFixture) string {
	t.Helper()

	require.NoError(t, EnsureDir(dir))
	fixturePath := filepath.Join(dir, fixture.Name+".json")

	data, err := json.MarshalIndent(fixture, "", "  ")
	require.NoError(t, err, "Failed to marshal fixture to JSON")

	require.NoError(t, os.WriteFile(fixturePath, data, 0o600))
	return fixturePath
}

// LoadFixtureFrom loads a scan fixture from an explicit file path.
func LoadFixtureFrom(t *testing.T, path string) ScanFixture {
	t.Helper()

	data, err := os.ReadFile(path) //nolint:gosec // G304: Reading test fixture files with controlled paths
	require.NoError(t, err, "Failed to read fixture file: %s", path)

	var fixture ScanFixture
	require.NoError(t, json.Unmarshal(data, &fixture), "Failed to unmarshal fixture JSON")
	return fixture
}

// QRFixture builds the standard QR fixture used across package tests.
func QRFixture(t *testing.T, dir, content string) ScanFixture {
	t.Helper()

	img, err := GenerateQR(content, 256)
	require.NoError(t, err)

	path := filepath.Join(dir, "qr_"+sanitize(content)+".png")
	SaveImage(t, img, path)

	return ScanFixture{
		Name:        "qr_" + sanitize(content),
		Description: "QR code fixture",
		InputFile:   path,
		Expected:    []ExpectedSymbol{{Symbology: "QR-Code", Data: content}},
		Metadata:    map[string]interface{}{"size": 256},
	}
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
