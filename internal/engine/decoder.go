package engine

// Decoder is the per-symbology configuration table consulted during
// scanning. Scanners and processors embed one; the standalone public
// decoder handle wraps one directly.
//
// Symbology toggles and length bounds are tracked per symbology. The scan
// density and inverted-search knobs are scanner-wide, matching how the
// classic engine treats them, and are accepted under any symbology
// argument.
type Decoder struct {
	cfgs map[SymbolType]map[Config]int

	xDensity     int
	yDensity     int
	testInverted int
}

// defaultEnabled is the out-of-the-box symbology set. The niche retail
// add-ons, the obsolete stacked codes and PDF417 stay off until asked for.
var defaultEnabled = map[SymbolType]bool{
	EAN8:       true,
	EAN13:      true,
	UPCA:       true,
	UPCE:       true,
	I25:        true,
	Codabar:    true,
	Code39:     true,
	Code93:     true,
	Code128:    true,
	QRCode:     true,
	DataMatrix: true,
	Aztec:      true,
}

// NewDecoder returns a configuration table holding the defaults.
func NewDecoder() *Decoder {
	d := &Decoder{
		cfgs:     make(map[SymbolType]map[Config]int, len(symbologies)),
		xDensity: 1,
		yDensity: 1,
	}
	for _, t := range symbologies {
		cfg := map[Config]int{CfgPosition: 1}
		if defaultEnabled[t] {
			cfg[CfgEnable] = 1
		}
		d.cfgs[t] = cfg
	}
	return d
}

// SetConfig stores one setting. The None symbology broadcasts the setting
// to every symbology. Unknown symbologies, unknown configs and negative
// values for the numeric settings are rejected with an invalid request
// error.
func (d *Decoder) SetConfig(sym SymbolType, cfg Config, value int) error {
	const op = "decoder.set-config"
	if _, ok := configNames[cfg]; !ok {
		return wrapErrorf(op, ErrInvalid, "unknown config %d", int(cfg))
	}

	switch cfg {
	case CfgXDensity:
		if value < 0 {
			return wrapErrorf(op, ErrInvalid, "negative density %d", value)
		}
		d.xDensity = value
		return nil
	case CfgYDensity:
		if value < 0 {
			return wrapErrorf(op, ErrInvalid, "negative density %d", value)
		}
		d.yDensity = value
		return nil
	case CfgTestInverted:
		d.testInverted = value
		return nil
	case CfgMinLen, CfgMaxLen, CfgUncertainty:
		if value < 0 {
			return wrapErrorf(op, ErrInvalid, "negative value %d for %s", value, cfg)
		}
	}

	if sym == None {
		for _, t := range symbologies {
			d.cfgs[t][cfg] = value
		}
		return nil
	}
	c, ok := d.cfgs[sym]
	if !ok {
		return wrapErrorf(op, ErrInvalid, "unknown symbology %d", int(sym))
	}
	c[cfg] = value
	return nil
}

// GetConfig reads one setting back.
func (d *Decoder) GetConfig(sym SymbolType, cfg Config) (int, error) {
	const op = "decoder.get-config"
	switch cfg {
	case CfgXDensity:
		return d.xDensity, nil
	case CfgYDensity:
		return d.yDensity, nil
	case CfgTestInverted:
		return d.testInverted, nil
	}
	c, ok := d.cfgs[sym]
	if !ok {
		return 0, wrapErrorf(op, ErrInvalid, "unknown symbology %d", int(sym))
	}
	if _, ok := configNames[cfg]; !ok {
		return 0, wrapErrorf(op, ErrInvalid, "unknown config %d", int(cfg))
	}
	return c[cfg], nil
}

func (d *Decoder) value(sym SymbolType, cfg Config) int {
	if c, ok := d.cfgs[sym]; ok {
		return c[cfg]
	}
	return 0
}

func (d *Decoder) enabled(sym SymbolType) bool {
	return d.value(sym, CfgEnable) != 0
}

// backendTypes returns the symbologies to hand to the decode backend. The
// ISBN variants ride on EAN-13 detection, so enabling either pulls the
// EAN-13 reader in even when EAN-13 itself is off.
func (d *Decoder) backendTypes() []SymbolType {
	var out []SymbolType
	has13 := false
	for _, e := range zxingReaders {
		if d.enabled(e.typ) {
			out = append(out, e.typ)
			if e.typ == EAN13 {
				has13 = true
			}
		}
	}
	if !has13 && (d.enabled(ISBN10) || d.enabled(ISBN13)) {
		out = append(out, EAN13)
	}
	return out
}

// tryHarder reports whether the backend should search exhaustively. Full
// scan density means no shortcuts; sparser densities trade robustness for
// speed.
func (d *Decoder) tryHarder() bool {
	return d.xDensity <= 1 && d.yDensity <= 1
}
