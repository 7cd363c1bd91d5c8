package okapi

import (
	"context"

	"github.com/okapiscan/okapi/internal/engine"
)

// ImageScanner decodes still images. A fresh scanner has every symbology
// disabled; enable the ones to look for with SetConfig, or use
// ScannerBuilder to configure in one step.
type ImageScanner struct {
	eng *engine.Scanner
}

// NewImageScanner creates a scanner with all symbologies disabled, so
// explicit enables are additive and deterministic.
func NewImageScanner() *ImageScanner {
	eng := engine.NewScanner()
	// The None broadcast with a valid option cannot be rejected.
	_ = eng.SetConfig(None, CfgEnable, 0)
	return &ImageScanner{eng: eng}
}

// SetConfig stores one decoder setting. The None symbology broadcasts the
// setting to all symbologies.
func (s *ImageScanner) SetConfig(sym SymbolType, cfg Config, value int) error {
	return s.eng.SetConfig(sym, cfg, value)
}

// EnableCache switches inter-frame duplicate suppression. Enabling starts
// from an empty cache; disabling forgets all remembered sightings.
func (s *ImageScanner) EnableCache(on bool) {
	s.eng.EnableCache(on)
}

// ScanImage decodes the image and attaches the results to it. On success
// the returned set is never nil, even when nothing was found, and
// img.Symbols() is guaranteed to return a non-nil set until the image is
// rescanned or recycled.
func (s *ImageScanner) ScanImage(img *Image) (*SymbolSet, error) {
	set, err := s.eng.ScanImage(context.Background(), img.eng)
	if err != nil {
		return nil, err
	}
	return adoptSymbolSet(set), nil
}

// RecycleImage detaches the image's previous scan results so their nodes
// can be reused by the next scan. Open Symbol and SymbolSet handles keep
// the detached results alive.
func (s *ImageScanner) RecycleImage(img *Image) {
	s.eng.RecycleImage(img.eng)
}

// Results returns a handle on the set produced by the most recent scan,
// or nil before the first one.
func (s *ImageScanner) Results() *SymbolSet {
	return newSymbolSet(s.eng.Results())
}

// Close releases the scanner. Result sets still referenced by open
// handles stay alive. Close is idempotent.
func (s *ImageScanner) Close() error {
	if s == nil || s.eng == nil {
		return nil
	}
	s.eng.Destroy()
	s.eng = nil
	return nil
}

type scannerOption struct {
	sym   SymbolType
	cfg   Config
	value int
}

// ScannerBuilder accumulates scanner configuration and applies it in one
// Build call, so no partially configured scanner escapes on error.
type ScannerBuilder struct {
	opts  []scannerOption
	cache bool
}

// NewScannerBuilder returns an empty builder.
func NewScannerBuilder() *ScannerBuilder {
	return &ScannerBuilder{}
}

// WithConfig queues one decoder setting. Settings apply in the order they
// were added.
func (b *ScannerBuilder) WithConfig(sym SymbolType, cfg Config, value int) *ScannerBuilder {
	b.opts = append(b.opts, scannerOption{sym: sym, cfg: cfg, value: value})
	return b
}

// WithCache queues the inter-frame cache switch.
func (b *ScannerBuilder) WithCache(on bool) *ScannerBuilder {
	b.cache = on
	return b
}

// Build creates a scanner and applies the queued configuration, failing
// on the first rejected setting. The scanner is closed on failure.
func (b *ScannerBuilder) Build() (*ImageScanner, error) {
	s := NewImageScanner()
	for _, o := range b.opts {
		if err := s.SetConfig(o.sym, o.cfg, o.value); err != nil {
			s.Close()
			return nil, err
		}
	}
	s.EnableCache(b.cache)
	return s, nil
}
