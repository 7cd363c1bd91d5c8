package engine

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Point is a location in image pixel coordinates.
type Point struct {
	X int
	Y int
}

// Symbol is one decoded result. Symbols live in singly linked chains under
// a SymbolSet and hold a reference on the image they were decoded from for
// their entire lifetime, so reading a symbol never races image teardown.
//
// When the last reference drops, the node is poisoned and handed back to
// the recycler of the scanner that produced it.
type Symbol struct {
	refCount
	typ        SymbolType
	data       string
	quality    int
	count      int
	pts        []Point
	next       *Symbol
	components *SymbolSet
	img        *Image
	rec        *recycler
}

// Type returns the decoded symbology.
func (s *Symbol) Type() SymbolType { return s.typ }

// Data returns the decoded payload.
func (s *Symbol) Data() string { return s.data }

// Quality returns an unscaled confidence metric. Larger is better; values
// are only comparable between symbols from the same scan.
func (s *Symbol) Quality() int { return s.quality }

// Count returns the cache hit count for this payload: negative while the
// result is still uncertain, zero the first scan it is verified, and the
// number of consecutive duplicate sightings afterwards. Without caching
// the count is always zero.
func (s *Symbol) Count() int { return s.count }

// LocSize returns the number of location points.
func (s *Symbol) LocSize() int { return len(s.pts) }

// Loc returns the location point at index i, reporting false when i is out
// of range.
func (s *Symbol) Loc(i int) (Point, bool) {
	if i < 0 || i >= len(s.pts) {
		return Point{}, false
	}
	return s.pts[i], true
}

// Next returns the next symbol in the chain, or nil at the end. Borrowed
// pointer.
func (s *Symbol) Next() *Symbol { return s.next }

// Components returns the sub-symbols of a composite result, or nil.
// Borrowed pointer.
func (s *Symbol) Components() *SymbolSet { return s.components }

// Image returns the frame this symbol was decoded from. Borrowed pointer;
// the symbol's own reference keeps it alive.
func (s *Symbol) Image() *Image { return s.img }

// Ref takes an additional reference.
func (s *Symbol) Ref() { s.ref("symbol", 1) }

// Unref drops one reference, recycling the node when the last one goes.
func (s *Symbol) Unref() {
	if s.ref("symbol", -1) == 0 {
		s.destroy()
	}
}

func (s *Symbol) destroy() {
	if s.components != nil {
		s.components.Unref()
		s.components = nil
	}
	if s.img != nil {
		s.img.Unref()
		s.img = nil
	}
	rec := s.rec
	s.typ = None
	s.data = ""
	s.quality = 0
	s.count = 0
	s.pts = nil
	s.next = nil
	s.rec = nil
	if rec != nil {
		rec.put(s)
	}
}

// XML renders the symbol as an XML fragment in the classic result dump
// shape.
func (s *Symbol) XML() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<symbol type='%s' quality='%d'", s.typ, s.quality)
	if s.count >= 0 {
		fmt.Fprintf(&b, " count='%d'", s.count)
	}
	b.WriteString("><data><![CDATA[")
	// Split any ]]> inside the payload across two CDATA sections.
	b.WriteString(strings.ReplaceAll(s.data, "]]>", "]]]]><![CDATA[>"))
	b.WriteString("]]></data></symbol>")
	return b.String()
}

// recycler is a scanner's freelist of symbol nodes. Destroyed nodes come
// back here and the next scan reuses them instead of allocating.
type recycler struct {
	mu   sync.Mutex
	free []*Symbol
}

func (r *recycler) get() *Symbol {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.free); n > 0 {
		s := r.free[n-1]
		r.free[n-1] = nil
		r.free = r.free[:n-1]
		return s
	}
	return &Symbol{}
}

func (r *recycler) put(s *Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.free = append(r.free, s)
}

func (r *recycler) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.free)
}

// newSymbol builds a live node from the recycler, taking a reference on
// the originating image. The returned node carries the single reference
// owned by its future set.
func (r *recycler) newSymbol(typ SymbolType, data string, quality int, pts []Point, img *Image) *Symbol {
	s := r.get()
	s.refCount.init()
	s.typ = typ
	s.data = data
	s.quality = quality
	s.count = 0
	s.pts = pts
	s.next = nil
	s.components = nil
	s.rec = r
	if img != nil {
		img.Ref()
		s.img = img
	}
	return s
}

// normalizeText repairs decoded payloads that are not valid UTF-8 by
// reinterpreting them as Latin-1, the historical fallback charset for 1D
// payloads. Valid UTF-8 passes through untouched.
func normalizeText(raw string) string {
	if utf8.ValidString(raw) {
		return raw
	}
	fixed, err := charmap.ISO8859_1.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return fixed
}
