package okapi

import "github.com/okapiscan/okapi/internal/engine"

// Format is a FOURCC pixel format code. Two formats are equal exactly when
// their packed values are equal.
type Format = engine.Format

// Well-known pixel formats.
const (
	FormatY800 = engine.FormatY800
	FormatGray = engine.FormatGrey
	FormatRGB3 = engine.FormatRGB3
	FormatBGR3 = engine.FormatBGR3
	FormatRGB4 = engine.FormatRGB4
	FormatBGR4 = engine.FormatBGR4
	FormatYUYV = engine.FormatYUYV
	FormatUYVY = engine.FormatUYVY
	FormatYU12 = engine.FormatYU12
	FormatYV12 = engine.FormatYV12
	FormatNV12 = engine.FormatNV12
	FormatMJPG = engine.FormatMJPG
)

// FormatFromLabel packs a textual FOURCC label ("Y800", "RGB3") into its
// format code. Labels are truncated to four characters and right-padded
// with spaces, so the call never fails.
func FormatFromLabel(label string) Format { return engine.FormatFromLabel(label) }

// FormatFromValue interprets a packed FOURCC value as a format code.
func FormatFromValue(v uint32) Format { return Format(v) }
