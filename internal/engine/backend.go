package engine

import (
	"context"
	"image"
)

// DecodeOptions controls a backend pass over one frame.
type DecodeOptions struct {
	// Types constrains the symbologies to search. Empty means nothing is
	// searched and the pass trivially finds no symbols.
	Types []SymbolType

	// TryHarder requests a more exhaustive search at the cost of speed.
	TryHarder bool
}

// DecodeResult is one raw detection from a backend, before cache counts,
// length filtering and charset normalization are applied.
type DecodeResult struct {
	Type   SymbolType
	Text   string
	Points []Point
}

// Backend locates and decodes symbols in a luminance frame. Backends are
// stateless with respect to frames; the scanner owns all inter-frame
// state. Implementations must honor context cancellation between
// symbology passes.
type Backend interface {
	Decode(ctx context.Context, img image.Image, opts DecodeOptions) ([]DecodeResult, error)
}

// NewBackend returns the default decode backend.
func NewBackend() Backend { return &zxingBackend{} }
