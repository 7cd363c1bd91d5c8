// Package pdf scans the raster images embedded in PDF documents.
// Pages are extracted with pdfcpu and decoded with the regular image
// scanner, one worker per page.
package pdf

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ExtractImages pulls every embedded raster image out of a PDF and
// groups them by page number. An empty pageRange selects the whole
// document.
func ExtractImages(filename, pageRange string) (map[int][]image.Image, error) {
	pages, err := parsePageRange(pageRange)
	if err != nil {
		return nil, fmt.Errorf("invalid page range %q: %w", pageRange, err)
	}

	tempDir, err := os.MkdirTemp("", "okapi-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var selection []string
	if len(pages) > 0 {
		selection = make([]string, len(pages))
		for i, n := range pages {
			selection[i] = strconv.Itoa(n)
		}
	}

	if err := api.ExtractImagesFile(filename, tempDir, selection, nil); err != nil {
		return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}

	images, err := collectExtractedImages(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load extracted images: %w", err)
	}
	return images, nil
}

// collectExtractedImages loads the images pdfcpu wrote into dir and
// groups them by the page number encoded in their filenames. Files
// that do not look like extracted page images, or do not decode, are
// skipped.
func collectExtractedImages(dir string) (map[int][]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	result := make(map[int][]image.Image)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pageNum, err := parsePageFromFilename(entry.Name())
		if err != nil {
			continue
		}
		img, err := imaging.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		result[pageNum] = append(result[pageNum], img)
	}
	return result, nil
}

// parsePageFromFilename recovers the page number from an extracted
// image filename. pdfcpu names these either page_<n>_image_<m>.<ext>
// or <basename>_<n>_<resource>.<ext> depending on version, so both
// shapes are accepted.
func parsePageFromFilename(filename string) (int, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(base, "_")

	if parts[0] == "page" && len(parts) > 1 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			return n, nil
		}
		return 0, fmt.Errorf("invalid page number in %q", filename)
	}
	if len(parts) >= 3 {
		if n, err := strconv.Atoi(parts[len(parts)-2]); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("no page number in %q", filename)
}

// parsePageRange expands a selection like "1-5" or "1,3,7" into page
// numbers. An empty string means all pages and returns nil.
func parsePageRange(pageRange string) ([]int, error) {
	if pageRange == "" {
		return nil, nil
	}

	var pages []int
	for _, token := range strings.Split(pageRange, ",") {
		expanded, err := parseRangeToken(strings.TrimSpace(token))
		if err != nil {
			return nil, err
		}
		pages = append(pages, expanded...)
	}
	return pages, nil
}

// parseRangeToken expands a single page ("3") or span ("1-5") token.
func parseRangeToken(token string) ([]int, error) {
	if !strings.Contains(token, "-") {
		page, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid page number: %s", token)
		}
		return []int{page}, nil
	}

	bounds := strings.Split(token, "-")
	if len(bounds) != 2 {
		return nil, fmt.Errorf("invalid range format: %s", token)
	}
	start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid start page: %s", bounds[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid end page: %s", bounds[1])
	}
	if start > end {
		return nil, fmt.Errorf("start page %d greater than end page %d", start, end)
	}

	span := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		span = append(span, i)
	}
	return span, nil
}
