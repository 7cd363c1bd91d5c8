package okapi

import "github.com/okapiscan/okapi/internal/engine"

// Symbol is a handle on one decoded barcode. Symbols are obtained from a
// SymbolSet or an Image, never constructed directly. The handle shares
// ownership of the underlying result: the decoded data stays readable
// until every handle and the producing scanner have let go of it.
type Symbol struct {
	eng *engine.Symbol
}

// newSymbol wraps an engine node borrowed from a set, an image or a
// sibling link. The handle takes its own reference.
func newSymbol(e *engine.Symbol) *Symbol {
	if e == nil {
		return nil
	}
	e.Ref()
	return &Symbol{eng: e}
}

// Type returns the decoded symbology.
func (s *Symbol) Type() SymbolType { return s.eng.Type() }

// Data returns the decoded payload as text.
func (s *Symbol) Data() string { return s.eng.Data() }

// Quality returns an unscaled confidence metric. Larger is better; values
// are only comparable between symbols from the same scan.
func (s *Symbol) Quality() int { return s.eng.Quality() }

// Count returns the inter-frame cache count for this payload: negative
// while the sighting is still uncertain, zero the first scan it is
// verified, and the number of consecutive duplicate sightings afterwards.
// Without caching the count is always zero.
func (s *Symbol) Count() int { return s.eng.Count() }

// LocSize returns the number of location points outlining the symbol.
func (s *Symbol) LocSize() int { return s.eng.LocSize() }

// LocX returns the x coordinate of location point i, reporting false when
// i is out of range.
func (s *Symbol) LocX(i int) (int, bool) {
	p, ok := s.eng.Loc(i)
	return p.X, ok
}

// LocY returns the y coordinate of location point i, reporting false when
// i is out of range.
func (s *Symbol) LocY(i int) (int, bool) {
	p, ok := s.eng.Loc(i)
	return p.Y, ok
}

// Polygon returns a view over the symbol's location points.
func (s *Symbol) Polygon() Polygon { return Polygon{s: s.eng} }

// Next returns a handle on the next symbol decoded from the same scan, or
// nil at the end of the chain.
func (s *Symbol) Next() *Symbol { return newSymbol(s.eng.Next()) }

// Components returns the sub-symbols of a composite result, or nil for
// plain symbols.
func (s *Symbol) Components() *SymbolSet {
	return newSymbolSet(s.eng.Components())
}

// FirstComponent returns a handle on the first sub-symbol, or nil.
func (s *Symbol) FirstComponent() *Symbol {
	comps := s.eng.Components()
	if comps == nil {
		return nil
	}
	return newSymbol(comps.First())
}

// XML renders the symbol as an XML result fragment.
func (s *Symbol) XML() string { return s.eng.XML() }

// Clone returns an independent handle on the same decoded result.
func (s *Symbol) Clone() *Symbol { return newSymbol(s.eng) }

// Close releases the handle's reference on the result. Close is
// idempotent.
func (s *Symbol) Close() error {
	if s == nil || s.eng == nil {
		return nil
	}
	s.eng.Unref()
	s.eng = nil
	return nil
}

// Polygon is an indexed view over a symbol's location points. The view
// borrows from its Symbol and is valid while that handle is open.
type Polygon struct {
	s *engine.Symbol
}

// Len returns the number of points.
func (p Polygon) Len() int { return p.s.LocSize() }

// Point returns the point at index i, reporting false when i is out of
// range.
func (p Polygon) Point(i int) (Point, bool) { return p.s.Loc(i) }

// Points returns a copy of all points.
func (p Polygon) Points() []Point {
	pts := make([]Point, p.s.LocSize())
	for i := range pts {
		pts[i], _ = p.s.Loc(i)
	}
	return pts
}
