package batch

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/okapiscan/okapi"
	"github.com/okapiscan/okapi/internal/report"
)

// effectiveWorkers clamps the requested worker count to the number of
// jobs, defaulting to the number of CPUs.
func effectiveWorkers(requested, jobs int) int {
	workers := requested
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > jobs {
		workers = jobs
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// scanSingleImage decodes one file with the worker's scanner.
func scanSingleImage(scanner *okapi.ImageScanner, path string) (report.File, error) {
	img, err := okapi.ImageFromFile(path)
	if err != nil {
		return report.File{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	defer func() { _ = img.Close() }()

	set, err := scanner.ScanImage(img)
	if err != nil {
		return report.File{}, fmt.Errorf("scan failed for %s: %w", path, err)
	}
	defer func() { _ = set.Close() }()

	return report.File{Path: path, Symbols: report.Collect(set)}, nil
}

// scanImagesParallel decodes the files with a pool of workers, one
// scanner per worker, and returns records in input order. Without
// ContinueOnError the first failure is reported after the queued jobs
// drain; with it, failures become error records.
func scanImagesParallel(builder *okapi.ScannerBuilder, paths []string, config *Config) ([]report.File, error) {
	workers := effectiveWorkers(config.Workers, len(paths))

	scanners := make([]*okapi.ImageScanner, workers)
	for i := range scanners {
		scanner, err := builder.Build()
		if err != nil {
			for _, s := range scanners[:i] {
				_ = s.Close()
			}
			return nil, fmt.Errorf("failed to configure scanner: %w", err)
		}
		scanners[i] = scanner
	}
	defer func() {
		for _, s := range scanners {
			_ = s.Close()
		}
	}()

	type out struct {
		idx  int
		file report.File
		err  error
	}

	jobs := make(chan int, len(paths))
	results := make(chan out, len(paths))

	var wg sync.WaitGroup
	for _, scanner := range scanners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				file, err := scanSingleImage(scanner, paths[idx])
				results <- out{idx: idx, file: file, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	go func() { wg.Wait(); close(results) }()

	files := make([]report.File, len(paths))
	var firstErr error
	for r := range results {
		if r.err != nil {
			if !config.ContinueOnError {
				if firstErr == nil {
					firstErr = r.err
				}
				continue
			}
			slog.Warn("continuing after scan failure", "file", paths[r.idx], "error", r.err)
			files[r.idx] = report.ErrorFile(paths[r.idx], r.err)
			continue
		}
		files[r.idx] = r.file
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return files, nil
}
