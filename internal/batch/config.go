package batch

import (
	"fmt"
	"os"
	"time"

	"github.com/okapiscan/okapi"
	"github.com/okapiscan/okapi/internal/report"
)

// Config holds all configuration for a batch run.
type Config struct {
	// Scanner carries the decoder configuration. Every worker builds
	// its own scanner from it; nil scans for every symbology.
	Scanner *okapi.ScannerBuilder

	// Output settings
	Format     string
	OutputFile string

	// Parallel processing settings. Zero workers picks the number of
	// CPUs.
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Error handling. With ContinueOnError a failed file becomes an
	// error record instead of aborting the run.
	ContinueOnError bool
	Quiet           bool
}

// DefaultConfig returns a batch configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:          report.FormatText,
		Workers:         4,
		ContinueOnError: true,
	}
}

// Result holds the outcome of one batch run.
type Result struct {
	Files       []report.File
	Duration    time.Duration
	WorkerCount int
}

// FormatResults renders the decodes in the given format.
func (r *Result) FormatResults(format string) (string, error) {
	return report.Render(r.Files, format)
}

// SaveResults writes the formatted results to outputFile, or stdout
// when outputFile is empty.
func (r *Result) SaveResults(format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile == "" {
		_, _ = fmt.Fprint(os.Stdout, output)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if !quiet {
		_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
	}
	return nil
}

// Stats summarizes a batch run.
type Stats struct {
	TotalFiles   int
	FailedFiles  int
	TotalSymbols int
	WorkerCount  int
	Duration     time.Duration
	PerFile      time.Duration
	PerSecond    float64
}

// Stats computes summary statistics for the run.
func (r *Result) Stats() Stats {
	failed := 0
	for _, f := range r.Files {
		if f.Error != "" {
			failed++
		}
	}

	stats := Stats{
		TotalFiles:   len(r.Files),
		FailedFiles:  failed,
		TotalSymbols: report.TotalSymbols(r.Files),
		WorkerCount:  r.WorkerCount,
		Duration:     r.Duration,
	}
	if len(r.Files) > 0 {
		stats.PerFile = r.Duration / time.Duration(len(r.Files))
	}
	if r.Duration > 0 {
		stats.PerSecond = float64(len(r.Files)) / r.Duration.Seconds()
	}
	return stats
}

// PrintStats prints processing statistics to stdout.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}
	stats := r.Stats()
	_, _ = fmt.Fprintf(os.Stdout, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(os.Stdout, "  Total files: %d\n", stats.TotalFiles)
	_, _ = fmt.Fprintf(os.Stdout, "  Failed: %d\n", stats.FailedFiles)
	_, _ = fmt.Fprintf(os.Stdout, "  Symbols: %d\n", stats.TotalSymbols)
	_, _ = fmt.Fprintf(os.Stdout, "  Workers: %d\n", stats.WorkerCount)
	_, _ = fmt.Fprintf(os.Stdout, "  Duration: %v\n", stats.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(os.Stdout, "  Avg per file: %v\n", stats.PerFile.Round(time.Millisecond))
	_, _ = fmt.Fprintf(os.Stdout, "  Throughput: %.1f files/sec\n", stats.PerSecond)
}
