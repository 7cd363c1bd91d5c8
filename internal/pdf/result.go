package pdf

import (
	"fmt"

	"github.com/okapiscan/okapi/internal/report"
)

// PageResult holds the decodes from one document page.
type PageResult struct {
	PageNumber int             `json:"page_number"`
	Images     int             `json:"images"`
	Symbols    []report.Symbol `json:"symbols"`
}

// DocumentResult holds the decodes from a whole document.
type DocumentResult struct {
	Filename   string         `json:"filename"`
	TotalPages int            `json:"total_pages"`
	Pages      []PageResult   `json:"pages"`
	Processing ProcessingInfo `json:"processing"`
}

// ProcessingInfo carries timing for the extract and decode phases.
// DecodeTimeMs sums the per-page scan times, so with several workers
// it can exceed TotalTimeMs.
type ProcessingInfo struct {
	ExtractionTimeMs int64 `json:"extraction_time_ms"`
	DecodeTimeMs     int64 `json:"decode_time_ms"`
	TotalTimeMs      int64 `json:"total_time_ms"`
}

// TotalSymbols counts the decodes across all pages.
func (r *DocumentResult) TotalSymbols() int {
	total := 0
	for _, p := range r.Pages {
		total += len(p.Symbols)
	}
	return total
}

// Files flattens the document into per-page report records so document
// scans render through the same formatters as image scans. Pages are
// addressed with the standard #page= fragment.
func (r *DocumentResult) Files() []report.File {
	files := make([]report.File, 0, len(r.Pages))
	for _, p := range r.Pages {
		files = append(files, report.File{
			Path:    fmt.Sprintf("%s#page=%d", r.Filename, p.PageNumber),
			Symbols: p.Symbols,
		})
	}
	return files
}
