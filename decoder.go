package okapi

import "github.com/okapiscan/okapi/internal/engine"

// Decoder is a low-level handle on a bare symbology configuration table,
// detached from any scanner. Most callers want ImageScanner or Processor
// instead; the decoder exists for priming and inspecting configuration on
// its own.
type Decoder struct {
	eng *engine.Decoder
}

// NewDecoder creates a decoder with the default symbology set enabled.
func NewDecoder() *Decoder {
	return &Decoder{eng: engine.NewDecoder()}
}

// SetConfig stores one setting. The None symbology broadcasts the setting
// to all symbologies.
func (d *Decoder) SetConfig(sym SymbolType, cfg Config, value int) error {
	return d.eng.SetConfig(sym, cfg, value)
}

// GetConfig reads one setting back.
func (d *Decoder) GetConfig(sym SymbolType, cfg Config) (int, error) {
	return d.eng.GetConfig(sym, cfg)
}

// Close releases the decoder. Close is idempotent.
func (d *Decoder) Close() error {
	d.eng = nil
	return nil
}
