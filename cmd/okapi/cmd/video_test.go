package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoCommandBadDevice(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "video9")

	_, err := execute(t, "video", "--device", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}

func TestVideoCommandRejectsArgs(t *testing.T) {
	_, err := execute(t, "video", "spare")
	require.Error(t, err)
}
