package okapi

import (
	"github.com/okapiscan/okapi/internal/engine"
)

// SymbolType identifies a barcode symbology.
type SymbolType = engine.SymbolType

// Symbologies. None doubles as the broadcast selector in SetConfig calls;
// Partial marks incomplete scan state and never appears in results.
const (
	None       = engine.None
	Partial    = engine.Partial
	EAN2       = engine.EAN2
	EAN5       = engine.EAN5
	EAN8       = engine.EAN8
	UPCE       = engine.UPCE
	ISBN10     = engine.ISBN10
	UPCA       = engine.UPCA
	EAN13      = engine.EAN13
	ISBN13     = engine.ISBN13
	Composite  = engine.Composite
	I25        = engine.I25
	DataBar    = engine.DataBar
	DataBarExp = engine.DataBarExp
	Codabar    = engine.Codabar
	Code39     = engine.Code39
	PDF417     = engine.PDF417
	QRCode     = engine.QRCode
	SQCode     = engine.SQCode
	Code93     = engine.Code93
	Code128    = engine.Code128
	DataMatrix = engine.DataMatrix
	Aztec      = engine.Aztec
)

// Config selects one decoder setting.
type Config = engine.Config

// Decoder settings.
const (
	CfgEnable       = engine.CfgEnable
	CfgAddCheck     = engine.CfgAddCheck
	CfgEmitCheck    = engine.CfgEmitCheck
	CfgASCII        = engine.CfgASCII
	CfgBinary       = engine.CfgBinary
	CfgMinLen       = engine.CfgMinLen
	CfgMaxLen       = engine.CfgMaxLen
	CfgUncertainty  = engine.CfgUncertainty
	CfgPosition     = engine.CfgPosition
	CfgTestInverted = engine.CfgTestInverted
	CfgXDensity     = engine.CfgXDensity
	CfgYDensity     = engine.CfgYDensity
)

// ErrorCode classifies an engine failure.
type ErrorCode = engine.ErrorCode

// Engine failure codes.
const (
	ErrNone        = engine.ErrNone
	ErrNoMem       = engine.ErrNoMem
	ErrInternal    = engine.ErrInternal
	ErrUnsupported = engine.ErrUnsupported
	ErrInvalid     = engine.ErrInvalid
	ErrSystem      = engine.ErrSystem
	ErrLocking     = engine.ErrLocking
	ErrBusy        = engine.ErrBusy
	ErrDisplay     = engine.ErrDisplay
	ErrProto       = engine.ErrProto
	ErrClosed      = engine.ErrClosed
	ErrWinAPI      = engine.ErrWinAPI
	ErrUnknown     = engine.ErrUnknown
)

// Error is a classified engine failure with the operation that raised it.
type Error = engine.Error

// Point is a location in image pixel coordinates.
type Point = engine.Point

// Version returns the library version triple.
func Version() (major, minor, patch int) {
	return engine.VersionMajor, engine.VersionMinor, engine.VersionPatch
}

// SetVerbosity sets the library log level: 0 errors only, 1 adds warnings,
// 2 adds progress info, 3 and up full debug.
func SetVerbosity(level int) { engine.SetVerbosity(level) }

// IncreaseVerbosity raises the library log level one step.
func IncreaseVerbosity() { engine.IncreaseVerbosity() }

// Verbosity returns the current library log level.
func Verbosity() int { return engine.Verbosity() }

// ParseConfig parses a "[symbology.]setting[=value]" string, as accepted
// on classic scanner command lines, into its parts. The symbology defaults
// to the broadcast selector and the value to 1, so "qrcode.enable",
// "enable=0" and "code128.min-len=4" are all valid.
func ParseConfig(s string) (SymbolType, Config, int, error) {
	return engine.ParseConfig(s)
}

// SymbolName returns the display name of a symbology ("QR-Code",
// "CODE-128", ...).
func SymbolName(sym SymbolType) string { return sym.String() }

// ConfigName returns the setting name used in config strings ("enable",
// "min-len", ...).
func ConfigName(cfg Config) string { return cfg.String() }

// DecodeError converts a raw engine status integer into a classified
// error. Values outside the known range decode to ErrUnknown with the raw
// value preserved, so the result is never ambiguous.
func DecodeError(op string, raw int) *Error { return engine.DecodeError(op, raw) }

// IsCode reports whether any error in err's chain is an engine Error
// carrying the given code.
func IsCode(err error, code ErrorCode) bool { return engine.IsCode(err, code) }
