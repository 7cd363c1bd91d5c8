package engine

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionIsNonZero(t *testing.T) {
	major, minor, patch := Version()
	assert.True(t, major != 0 || minor != 0 || patch != 0,
		"version triple must not be all zero")
}

func TestSetVerbosityLevels(t *testing.T) {
	defer SetVerbosity(0)

	tests := []struct {
		level int
		want  slog.Level
	}{
		{-1, slog.LevelError},
		{0, slog.LevelError},
		{1, slog.LevelWarn},
		{2, slog.LevelInfo},
		{3, slog.LevelDebug},
		{9, slog.LevelDebug},
	}
	for _, tt := range tests {
		SetVerbosity(tt.level)
		assert.Equal(t, tt.want, logLevel.Level(), "verbosity %d", tt.level)
	}
}

func TestIncreaseVerbosity(t *testing.T) {
	defer SetVerbosity(0)

	SetVerbosity(0)
	IncreaseVerbosity()
	assert.Equal(t, 1, Verbosity())
	assert.Equal(t, slog.LevelWarn, logLevel.Level())

	IncreaseVerbosity()
	assert.Equal(t, 2, Verbosity())
	assert.Equal(t, slog.LevelInfo, logLevel.Level())
}
