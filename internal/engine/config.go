package engine

import (
	"strconv"
	"strings"
)

// Config identifies a per-symbology decoder setting. Values follow the
// zbar numbering so the boolean toggles, the length bounds and the scan
// density knobs occupy distinct ranges.
type Config int

const (
	// CfgEnable switches a symbology on or off.
	CfgEnable Config = 0
	// CfgAddCheck enables check digit verification for symbologies where
	// it is optional.
	CfgAddCheck Config = 1
	// CfgEmitCheck includes the check digit in the decoded data.
	CfgEmitCheck Config = 2
	// CfgASCII enables full ASCII interpretation (extended Code 39).
	CfgASCII Config = 3
	// CfgBinary keeps decoded payloads as raw bytes, skipping text
	// charset normalization.
	CfgBinary Config = 4

	// CfgMinLen and CfgMaxLen bound the accepted payload length for
	// variable-length symbologies. Zero means unbounded.
	CfgMinLen Config = 0x20
	CfgMaxLen Config = 0x21

	// CfgUncertainty is the number of consistent scans required before a
	// result is trusted.
	CfgUncertainty Config = 0x40

	// CfgPosition enables location point tracking on decoded symbols.
	CfgPosition Config = 0x80
	// CfgTestInverted also searches the inverted image for symbols.
	CfgTestInverted Config = 0x81

	// CfgXDensity and CfgYDensity control scan line spacing. Density 1
	// examines every column and row; larger values trade thoroughness
	// for speed.
	CfgXDensity Config = 0x100
	CfgYDensity Config = 0x101
)

var configNames = map[Config]string{
	CfgEnable:       "enable",
	CfgAddCheck:     "add-check",
	CfgEmitCheck:    "emit-check",
	CfgASCII:        "ascii",
	CfgBinary:       "binary",
	CfgMinLen:       "min-len",
	CfgMaxLen:       "max-len",
	CfgUncertainty:  "uncertainty",
	CfgPosition:     "position",
	CfgTestInverted: "test-inverted",
	CfgXDensity:     "x-density",
	CfgYDensity:     "y-density",
}

// String returns the configuration key name used in textual settings.
func (c Config) String() string {
	if s, ok := configNames[c]; ok {
		return s
	}
	return "config(" + strconv.Itoa(int(c)) + ")"
}

var configAliases = func() map[string]Config {
	m := make(map[string]Config, len(configNames))
	for c, name := range configNames {
		m[name] = c
	}
	return m
}()

// ParseConfig parses a textual setting of the form "[symbology.]config[=value]"
// into its decoded triple. The symbology part defaults to None (all
// symbologies) and the value part defaults to 1, so "qrcode.enable=1",
// "qrcode.enable" and "enable" are all valid. The special config name
// "disable" is shorthand for enable=0. Unrecognized symbology or config
// tokens fail with an invalid request error.
func ParseConfig(setting string) (SymbolType, Config, int, error) {
	const op = "parse-config"

	s := strings.TrimSpace(setting)
	if s == "" {
		return None, 0, 0, wrapErrorf(op, ErrInvalid, "empty setting")
	}

	value := 1
	if eq := strings.IndexByte(s, '='); eq >= 0 {
		v, err := strconv.Atoi(strings.TrimSpace(s[eq+1:]))
		if err != nil {
			return None, 0, 0, wrapErrorf(op, ErrInvalid, "bad value in %q", setting)
		}
		value = v
		s = s[:eq]
	}

	sym := None
	if dot := strings.LastIndexByte(s, '.'); dot >= 0 {
		name := strings.ToLower(strings.TrimSpace(s[:dot]))
		t, ok := symbologyAliases[name]
		if !ok {
			return None, 0, 0, wrapErrorf(op, ErrInvalid, "unknown symbology %q", name)
		}
		sym = t
		s = s[dot+1:]
	}

	name := strings.ToLower(strings.TrimSpace(s))
	if name == "disable" {
		return sym, CfgEnable, 0, nil
	}
	cfg, ok := configAliases[name]
	if !ok {
		return None, 0, 0, wrapErrorf(op, ErrInvalid, "unknown config %q", name)
	}
	return sym, cfg, value, nil
}
