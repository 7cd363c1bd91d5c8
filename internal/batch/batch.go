// Package batch scans collections of image files concurrently with a
// shared scanner configuration.
package batch

import (
	"errors"
	"fmt"
	"time"

	"github.com/okapiscan/okapi"
)

// ProcessBatch expands paths (files or directories) into image files
// and scans them according to config.
func ProcessBatch(paths []string, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}

	files, err := discoverImageFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	builder := config.Scanner
	if builder == nil {
		builder = okapi.NewScannerBuilder().WithConfig(okapi.None, okapi.CfgEnable, 1)
	}

	startTime := time.Now()
	records, err := scanImagesParallel(builder, files, config)
	if err != nil {
		return nil, fmt.Errorf("batch processing failed: %w", err)
	}

	return &Result{
		Files:       records,
		Duration:    time.Since(startTime),
		WorkerCount: effectiveWorkers(config.Workers, len(files)),
	}, nil
}
