// Package engine implements the reference-counted object graph behind the
// okapi package: images, symbols, symbol sets, scanners and processors.
//
// The object model follows the classic C scanner layout. Every graph object
// carries an atomic reference count; dropping the last reference destroys
// the object for real (pixel buffers return to a pool, symbol nodes go back
// to their scanner's recycle list, fields are poisoned). Taking a reference
// on an already released object panics, so lifetime bugs in the wrapping
// layer surface immediately instead of corrupting later scans.
//
// Symbology decoding is delegated to a Backend; the default backend is
// built on gozxing. Nothing in this package is safe for concurrent use
// unless documented otherwise; Scanner and Processor serialize their own
// operations.
package engine

import (
	"log/slog"
	"os"
)

// Library version. The triple is reported through the public Version
// function and stamped into XML result dumps.
const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// Version returns the engine version triple.
func Version() (major, minor, patch int) {
	return VersionMajor, VersionMinor, VersionPatch
}

var (
	logLevel  slog.LevelVar
	verbosity int
	logger    *slog.Logger
)

func init() {
	logLevel.Set(slog.LevelError)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}))
}

// SetVerbosity adjusts how chatty the engine is on stderr. Level 0 keeps
// only errors, 1 adds warnings, 2 adds progress info and 3 or higher
// enables debug tracing.
func SetVerbosity(level int) {
	verbosity = level
	switch {
	case level <= 0:
		logLevel.Set(slog.LevelError)
	case level == 1:
		logLevel.Set(slog.LevelWarn)
	case level == 2:
		logLevel.Set(slog.LevelInfo)
	default:
		logLevel.Set(slog.LevelDebug)
	}
}

// IncreaseVerbosity bumps the verbosity by one level.
func IncreaseVerbosity() {
	SetVerbosity(verbosity + 1)
}

// Verbosity returns the current verbosity level.
func Verbosity() int { return verbosity }
