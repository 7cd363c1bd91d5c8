// Package report captures decode results from live scanner handles into
// plain serializable records and renders them for terminal or file
// output. Every command that prints symbols goes through this package.
package report

import (
	"github.com/okapiscan/okapi"
)

// Point is one location vertex in image pixel coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Symbol is one decoded barcode, detached from the scanner that
// produced it.
type Symbol struct {
	Type    string  `json:"type"`
	Data    string  `json:"data"`
	Quality int     `json:"quality"`
	Count   int     `json:"count,omitempty"`
	Points  []Point `json:"points,omitempty"`
}

// File groups the symbols decoded from one input file.
type File struct {
	Path    string   `json:"file"`
	Symbols []Symbol `json:"symbols"`
	Error   string   `json:"error,omitempty"`
}

// FromSymbol copies a live symbol handle into a record. The handle
// stays open and still belongs to the caller.
func FromSymbol(s *okapi.Symbol) Symbol {
	rec := Symbol{
		Type:    s.Type().String(),
		Data:    s.Data(),
		Quality: s.Quality(),
		Count:   s.Count(),
	}
	if pts := s.Polygon().Points(); len(pts) > 0 {
		rec.Points = make([]Point, len(pts))
		for i, p := range pts {
			rec.Points[i] = Point{X: p.X, Y: p.Y}
		}
	}
	return rec
}

// Collect captures every symbol in a set. Handles opened while walking
// the set are closed before returning; the set itself stays open and
// still belongs to the caller. The result is never nil so empty scans
// serialize as an empty list.
func Collect(set *okapi.SymbolSet) []Symbol {
	symbols := []Symbol{}
	if set == nil {
		return symbols
	}
	it := set.Iter()
	for sym := it.Next(); sym != nil; sym = it.Next() {
		symbols = append(symbols, FromSymbol(sym))
		_ = sym.Close()
	}
	return symbols
}

// ErrorFile records an input that could not be scanned.
func ErrorFile(path string, err error) File {
	return File{Path: path, Symbols: []Symbol{}, Error: err.Error()}
}

// TotalSymbols counts the decodes across a run.
func TotalSymbols(files []File) int {
	total := 0
	for _, f := range files {
		total += len(f.Symbols)
	}
	return total
}

// Bounds returns the axis-aligned box around the symbol's location
// points, reporting false when the symbol carries none.
func (s Symbol) Bounds() (x, y, w, h int, ok bool) {
	if len(s.Points) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX - minX, maxY - minY, true
}
