package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureRoundTrip(t *testing.T) {
	tempDir := CreateTempDir(t)

	fixture := ScanFixture{
		Name:        "code128_sample",
		Description: "Code 128 strip",
		InputFile:   "images/code128_sample.png",
		Expected: []ExpectedSymbol{
			{Symbology: "CODE-128", Data: "OKAPI-12345"},
		},
		Metadata: map[string]interface{}{"width": 300},
	}

	path := SaveFixtureTo(t, filepath.Join(tempDir, "fixtures"), fixture)
	assert.True(t, FileExists(path))

	loaded := LoadFixtureFrom(t, path)
	assert.Equal(t, fixture.Name, loaded.Name)
	require.Len(t, loaded.Expected, 1)
	assert.Equal(t, "CODE-128", loaded.Expected[0].Symbology)
	assert.Equal(t, "OKAPI-12345", loaded.Expected[0].Data)
}

func TestQRFixture(t *testing.T) {
	tempDir := CreateTempDir(t)

	fixture := QRFixture(t, tempDir, "Hello World")
	assert.True(t, FileExists(fixture.InputFile))
	require.Len(t, fixture.Expected, 1)
	assert.Equal(t, "QR-Code", fixture.Expected[0].Symbology)
	assert.Equal(t, "Hello World", fixture.Expected[0].Data)
	assert.Equal(t, "qr_Hello_World", fixture.Name)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "abc_123", sanitize("abc 123"))
	assert.Equal(t, "x_y_z", sanitize("x/y?z"))
}
