package engine

import (
	"context"
	"image"
	"strings"
	"sync"
	"time"
)

// Scanner turns images into symbol sets. It owns the configuration table,
// the decode backend, the inter-frame result cache and the recycle list
// that destroyed symbol nodes return to.
//
// All methods are safe for concurrent use; a single lock serializes scans.
type Scanner struct {
	mu      sync.Mutex
	dec     *Decoder
	backend Backend
	cache   *resultCache
	rec     recycler
	results *SymbolSet
	nscans  uint64
}

// NewScanner creates a scanner with the default symbology set enabled.
func NewScanner() *Scanner {
	return &Scanner{
		dec:     NewDecoder(),
		backend: NewBackend(),
	}
}

// SetConfig stores one decoder setting; the None symbology broadcasts to
// all symbologies.
func (s *Scanner) SetConfig(sym SymbolType, cfg Config, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dec.SetConfig(sym, cfg, value)
}

// GetConfig reads one decoder setting back.
func (s *Scanner) GetConfig(sym SymbolType, cfg Config) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dec.GetConfig(sym, cfg)
}

// EnableCache switches the inter-frame result cache. Enabling starts from
// an empty cache; disabling drops all remembered sightings.
func (s *Scanner) EnableCache(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		if s.cache == nil {
			s.cache = newResultCache()
		}
		return
	}
	s.cache = nil
}

// CacheEnabled reports whether the inter-frame cache is active.
func (s *Scanner) CacheEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache != nil
}

// ScanImage decodes the image and attaches the results to it. The
// returned set is never nil on success, even when empty, and the caller
// owns one reference on it. The image keeps its own reference until the
// next scan or recycle.
func (s *Scanner) ScanImage(ctx context.Context, img *Image) (*SymbolSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gray, release, err := img.grayView()
	if err != nil {
		return nil, err
	}
	defer release()

	opts := DecodeOptions{Types: s.dec.backendTypes(), TryHarder: s.dec.tryHarder()}
	raw, err := s.backend.Decode(ctx, gray, opts)
	if err != nil {
		return nil, err
	}
	if s.dec.testInverted != 0 {
		inv, invRelease := invertGray(gray)
		more, err := s.backend.Decode(ctx, inv, opts)
		invRelease()
		if err != nil {
			return nil, err
		}
		raw = dedupeResults(append(raw, more...))
	}

	set := s.assemble(raw, img)
	img.SetSymbols(set)
	if s.results != nil {
		s.results.Unref()
	}
	set.Ref()
	s.results = set

	s.nscans++
	logger.Debug("scan complete",
		"scan", s.nscans,
		"symbols", set.Size(),
		"suppressed", set.uhead != set.head)
	return set, nil
}

// assemble applies symbology policy to the raw detections and builds the
// result set: ISBN derivation, length bounds, location stripping, charset
// normalization and cache counting.
func (s *Scanner) assemble(raw []DecodeResult, img *Image) *SymbolSet {
	now := time.Now()
	var verified, suppressed []*Symbol
	for _, r := range raw {
		typ, text, ok := s.resolveType(r.Type, r.Text)
		if !ok {
			continue
		}
		if minLen := s.dec.value(typ, CfgMinLen); minLen > 0 && len(text) < minLen {
			continue
		}
		if maxLen := s.dec.value(typ, CfgMaxLen); maxLen > 0 && len(text) > maxLen {
			continue
		}
		pts := r.Points
		if s.dec.value(typ, CfgPosition) == 0 {
			pts = nil
		}
		if s.dec.value(typ, CfgBinary) == 0 {
			text = normalizeText(text)
		}

		sym := s.rec.newSymbol(typ, text, max(1, len(pts)), pts, img)
		if s.cache != nil {
			sym.count = s.cache.sight(typ, text, now)
		}
		uncertain := sym.count < 0
		if u := s.dec.value(typ, CfgUncertainty); s.cache != nil && u > 0 && sym.count+1 < u {
			uncertain = true
		}
		if uncertain {
			suppressed = append(suppressed, sym)
		} else {
			verified = append(verified, sym)
		}
	}
	return newSymbolSet(verified, suppressed)
}

// resolveType maps a backend detection to the reported symbology. EAN-13
// readings convert to the ISBN variants when those are enabled, and
// detections for symbologies the backend was only consulted about on
// behalf of another are dropped.
func (s *Scanner) resolveType(typ SymbolType, text string) (SymbolType, string, bool) {
	if typ != EAN13 {
		if !s.dec.enabled(typ) {
			return 0, "", false
		}
		return typ, text, true
	}
	bookland := len(text) == 13 &&
		(strings.HasPrefix(text, "978") || strings.HasPrefix(text, "979"))
	if bookland && s.dec.enabled(ISBN13) {
		return ISBN13, text, true
	}
	if bookland && s.dec.enabled(ISBN10) {
		if isbn, ok := isbn10From(text); ok {
			return ISBN10, isbn, true
		}
	}
	if !s.dec.enabled(EAN13) {
		return 0, "", false
	}
	return EAN13, text, true
}

// isbn10From converts a 978-prefixed EAN-13 payload to its ISBN-10 form,
// recomputing the mod-11 check digit.
func isbn10From(ean string) (string, bool) {
	if len(ean) != 13 || !strings.HasPrefix(ean, "978") {
		return "", false
	}
	core := ean[3:12]
	sum := 0
	for i := range 9 {
		c := core[i]
		if c < '0' || c > '9' {
			return "", false
		}
		sum += int(c-'0') * (10 - i)
	}
	chk := (11 - sum%11) % 11
	if chk == 10 {
		return core + "X", true
	}
	return core + string(byte('0'+chk)), true
}

// RecycleImage detaches the image's result set and drops the image's
// reference on it. Nodes whose last reference goes return to the
// scanner's recycle list for reuse by the next scan.
func (s *Scanner) RecycleImage(img *Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set := img.takeSymbols(); set != nil {
		set.Unref()
	}
}

// Results returns the set produced by the most recent scan, or nil.
// Borrowed pointer; callers that retain it must take their own reference.
func (s *Scanner) Results() *SymbolSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Destroy releases the scanner's own result reference and drops the
// caches. Symbol sets still referenced elsewhere stay alive.
func (s *Scanner) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results != nil {
		s.results.Unref()
		s.results = nil
	}
	s.cache = nil
}

// invertGray returns the photometric inverse of a luminance image in a
// pooled buffer released by the returned func.
func invertGray(g *image.Gray) (*image.Gray, func()) {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	buf := GetBuffer(w * h)
	for y := 0; y < h; y++ {
		row := g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			buf[y*w+x] = 255 - row[x]
		}
	}
	inv := &image.Gray{Pix: buf, Stride: w, Rect: image.Rect(0, 0, w, h)}
	return inv, func() { PutBuffer(buf) }
}
