// Package benchmark measures decode throughput of the scanning engine
// over synthetic barcode images.
package benchmark

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/okapiscan/okapi"
	"github.com/okapiscan/okapi/internal/testutil"
)

// Case pairs an input image with the scanner configuration to time.
type Case struct {
	Name    string
	Image   image.Image
	Builder *okapi.ScannerBuilder
}

// Result holds the measurements for one case.
type Result struct {
	Name          string
	Iterations    int
	Total         time.Duration
	PerDecode     time.Duration
	DecodesPerSec float64
	Symbols       int
	MemoryBefore  MemoryStats
	MemoryAfter   MemoryStats
	Err           error
}

// String returns a one-line summary of the result.
func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: ERROR - %v", r.Name, r.Err)
	}

	memDiff := int64(r.MemoryAfter.Alloc) - int64(r.MemoryBefore.Alloc)
	return fmt.Sprintf("%s: %d iterations, avg %v, %.1f decodes/sec, %d symbols, mem %+d KB",
		r.Name, r.Iterations, r.PerDecode, r.DecodesPerSec, r.Symbols, memDiff/1024)
}

// Suite is an ordered collection of benchmark cases.
type Suite struct {
	cases []Case
}

// NewSuite returns an empty suite.
func NewSuite() *Suite {
	return &Suite{}
}

// Add appends one case to the suite.
func (s *Suite) Add(name string, img image.Image, builder *okapi.ScannerBuilder) {
	s.cases = append(s.cases, Case{Name: name, Image: img, Builder: builder})
}

// AddDefaultCases fills the suite with generated fixtures covering the
// common symbologies plus two scanner configurations: all symbologies
// enabled, and only the symbology the image carries.
func (s *Suite) AddDefaultCases() error {
	all := okapi.NewScannerBuilder().WithConfig(okapi.None, okapi.CfgEnable, 1)

	qr, err := testutil.GenerateQR("benchmark payload", 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR fixture: %w", err)
	}
	ean, err := testutil.GenerateEAN13("4006381333931", 240, 120)
	if err != nil {
		return fmt.Errorf("failed to generate EAN-13 fixture: %w", err)
	}
	code, err := testutil.GenerateCode128("BENCH-0042", 320, 120)
	if err != nil {
		return fmt.Errorf("failed to generate Code 128 fixture: %w", err)
	}

	s.Add("qr/all-symbologies", qr, all)
	s.Add("qr/qrcode-only", qr,
		okapi.NewScannerBuilder().WithConfig(okapi.QRCode, okapi.CfgEnable, 1))
	s.Add("ean13/all-symbologies", ean, all)
	s.Add("ean13/ean13-only", ean,
		okapi.NewScannerBuilder().WithConfig(okapi.EAN13, okapi.CfgEnable, 1))
	s.Add("code128/all-symbologies", code, all)

	sheet := testutil.ComposeHorizontal(32, qr, ean, code)
	s.Add("sheet/all-symbologies", sheet, all)
	return nil
}

// Run executes every case and returns the measurements in suite order.
// A failing case records its error and does not stop the run.
func (s *Suite) Run(iterations int) ([]Result, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("invalid iteration count: %d", iterations)
	}

	results := make([]Result, 0, len(s.cases))
	for _, c := range s.cases {
		results = append(results, runCase(c, iterations))
	}
	return results, nil
}

// runCase scans one image repeatedly with a scanner built fresh for the
// case, so cases never share decoder state.
func runCase(c Case, iterations int) Result {
	result := Result{Name: c.Name, Iterations: iterations}

	scanner, err := c.Builder.Build()
	if err != nil {
		result.Err = fmt.Errorf("failed to configure scanner: %w", err)
		return result
	}
	defer func() { _ = scanner.Close() }()

	img, err := okapi.ImageFromImage(c.Image)
	if err != nil {
		result.Err = fmt.Errorf("failed to convert image: %w", err)
		return result
	}
	defer func() { _ = img.Close() }()

	result.MemoryBefore = ReadMemoryStats()
	start := time.Now()

	for i := 0; i < iterations; i++ {
		set, err := scanner.ScanImage(img)
		if err != nil {
			result.Err = fmt.Errorf("scan failed on iteration %d: %w", i, err)
			return result
		}
		result.Symbols = set.Size()
		_ = set.Close()
	}

	result.Total = time.Since(start)
	result.MemoryAfter = ReadMemoryStats()
	result.PerDecode = result.Total / time.Duration(iterations)
	if result.Total > 0 {
		result.DecodesPerSec = float64(iterations) / result.Total.Seconds()
	}
	return result
}

// PrintResults writes one summary line per result.
func PrintResults(w io.Writer, results []Result) {
	for _, r := range results {
		_, _ = fmt.Fprintln(w, r.String())
	}
}

// WriteCSV writes the results as CSV with a header row.
func WriteCSV(w io.Writer, results []Result) error {
	if _, err := fmt.Fprintln(w, "case,iterations,avg_ms,decodes_per_sec,symbols,mem_diff_kb,error"); err != nil {
		return err
	}
	for _, r := range results {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		memDiff := (int64(r.MemoryAfter.Alloc) - int64(r.MemoryBefore.Alloc)) / 1024
		avgMs := float64(r.PerDecode.Nanoseconds()) / 1e6
		if _, err := fmt.Fprintf(w, "%s,%d,%.3f,%.1f,%d,%d,%s\n",
			r.Name, r.Iterations, avgMs, r.DecodesPerSec, r.Symbols, memDiff, errText); err != nil {
			return err
		}
	}
	return nil
}
