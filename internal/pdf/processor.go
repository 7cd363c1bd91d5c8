package pdf

import (
	"fmt"
	"image"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/okapiscan/okapi"
	"github.com/okapiscan/okapi/internal/report"
)

// ProcessorConfig controls document scanning.
type ProcessorConfig struct {
	// MaxWorkers caps the page-scanning goroutines. Zero picks the
	// number of CPUs.
	MaxWorkers int
}

// DefaultProcessorConfig returns the default processor configuration.
func DefaultProcessorConfig() *ProcessorConfig {
	return &ProcessorConfig{
		MaxWorkers: 0,
	}
}

// Processor scans the raster images embedded in PDF documents. Image
// scanners are not safe for concurrent use, so the processor holds a
// builder and every worker builds its own scanner from it.
type Processor struct {
	builder   *okapi.ScannerBuilder
	config    *ProcessorConfig
	passwords *PasswordHandler
	tempFiles []string
}

// NewProcessor creates a document processor decoding with the given
// scanner configuration. A nil builder scans for every symbology.
func NewProcessor(builder *okapi.ScannerBuilder) *Processor {
	return NewProcessorWithConfig(builder, DefaultProcessorConfig())
}

// NewProcessorWithConfig creates a document processor with a custom
// configuration.
func NewProcessorWithConfig(builder *okapi.ScannerBuilder, config *ProcessorConfig) *Processor {
	if builder == nil {
		builder = okapi.NewScannerBuilder().WithConfig(okapi.None, okapi.CfgEnable, 1)
	}
	if config == nil {
		config = DefaultProcessorConfig()
	}
	return &Processor{
		builder:   builder,
		config:    config,
		passwords: NewPasswordHandler(),
		tempFiles: make([]string, 0),
	}
}

// SetPasswordCredentials sets default credentials for encrypted
// documents.
func (p *Processor) SetPasswordCredentials(creds *Credentials) {
	p.passwords.SetDefaultCredentials(creds)
}

// ProcessFile scans one document and returns its decodes grouped by
// page. An empty pageRange selects the whole document.
func (p *Processor) ProcessFile(filename, pageRange string) (*DocumentResult, error) {
	return p.ProcessFileWithCredentials(filename, pageRange, nil)
}

// ProcessFileWithCredentials scans one document, decrypting it first
// when credentials are given or defaults are set.
func (p *Processor) ProcessFileWithCredentials(filename, pageRange string,
	creds *Credentials,
) (*DocumentResult, error) {
	startTime := time.Now()

	workingFile, err := p.unlockDocument(filename, creds)
	if err != nil {
		return nil, err
	}
	defer p.cleanupTempFiles()

	extractStart := time.Now()
	pageImages, err := ExtractImages(workingFile, pageRange)
	if err != nil {
		return nil, err
	}
	extractTime := time.Since(extractStart)

	pages, decodeTime, err := p.scanPages(pageImages)
	if err != nil {
		return nil, err
	}

	return &DocumentResult{
		Filename:   filename,
		TotalPages: len(pages),
		Pages:      pages,
		Processing: ProcessingInfo{
			ExtractionTimeMs: extractTime.Milliseconds(),
			DecodeTimeMs:     decodeTime.Milliseconds(),
			TotalTimeMs:      time.Since(startTime).Milliseconds(),
		},
	}, nil
}

// ProcessFiles scans several documents with the same page selection,
// failing on the first document that cannot be processed.
func (p *Processor) ProcessFiles(filenames []string, pageRange string) ([]*DocumentResult, error) {
	return p.ProcessFilesWithCredentials(filenames, pageRange, nil)
}

// ProcessFilesWithCredentials scans several documents sharing one set
// of credentials.
func (p *Processor) ProcessFilesWithCredentials(filenames []string, pageRange string,
	creds *Credentials,
) ([]*DocumentResult, error) {
	results := make([]*DocumentResult, 0, len(filenames))
	for _, filename := range filenames {
		result, err := p.ProcessFileWithCredentials(filename, pageRange, creds)
		if err != nil {
			return nil, fmt.Errorf("failed to process %s: %w", filename, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Close removes any temporary decrypted copies.
func (p *Processor) Close() error {
	p.cleanupTempFiles()
	return nil
}

// unlockDocument swaps an encrypted document for a decrypted working
// copy and tracks the copy for cleanup.
func (p *Processor) unlockDocument(filename string, creds *Credentials) (string, error) {
	workingFile, err := p.passwords.Decrypt(filename, creds)
	if err != nil {
		return "", err
	}
	if workingFile != filename {
		p.tempFiles = append(p.tempFiles, workingFile)
	}
	return workingFile, nil
}

// scanPages decodes the extracted page images with a pool of workers
// and reassembles the results in page order.
func (p *Processor) scanPages(pageImages map[int][]image.Image) ([]PageResult, time.Duration, error) {
	pageList := make([]int, 0, len(pageImages))
	for n := range pageImages {
		pageList = append(pageList, n)
	}
	sort.Ints(pageList)

	workers := p.config.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pageList) {
		workers = len(pageList)
	}
	if workers < 1 {
		workers = 1
	}

	scanners := make([]*okapi.ImageScanner, workers)
	for i := range scanners {
		scanner, err := p.builder.Build()
		if err != nil {
			for _, s := range scanners[:i] {
				_ = s.Close()
			}
			return nil, 0, fmt.Errorf("failed to configure scanner: %w", err)
		}
		scanners[i] = scanner
	}
	defer func() {
		for _, s := range scanners {
			_ = s.Close()
		}
	}()

	type out struct {
		page int
		res  PageResult
		took time.Duration
		err  error
	}

	jobs := make(chan int, len(pageList))
	results := make(chan out, len(pageList))

	var wg sync.WaitGroup
	for _, scanner := range scanners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pageNum := range jobs {
				start := time.Now()
				res, err := scanPage(scanner, pageNum, pageImages[pageNum])
				results <- out{page: pageNum, res: res, took: time.Since(start), err: err}
			}
		}()
	}

	for _, n := range pageList {
		jobs <- n
	}
	close(jobs)

	go func() { wg.Wait(); close(results) }()

	byPage := make(map[int]PageResult, len(pageList))
	var decodeTime time.Duration
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to scan page %d: %w", r.page, r.err)
			}
			continue
		}
		byPage[r.page] = r.res
		decodeTime += r.took
	}
	if firstErr != nil {
		return nil, 0, firstErr
	}

	pages := make([]PageResult, 0, len(pageList))
	for _, n := range pageList {
		pages = append(pages, byPage[n])
	}
	return pages, decodeTime, nil
}

// scanPage decodes every image extracted from one page and merges the
// symbols.
func scanPage(scanner *okapi.ImageScanner, pageNum int, images []image.Image) (PageResult, error) {
	page := PageResult{
		PageNumber: pageNum,
		Images:     len(images),
		Symbols:    []report.Symbol{},
	}
	for _, img := range images {
		oimg, err := okapi.ImageFromImage(img)
		if err != nil {
			return page, err
		}
		set, err := scanner.ScanImage(oimg)
		if err != nil {
			_ = oimg.Close()
			return page, err
		}
		page.Symbols = append(page.Symbols, report.Collect(set)...)
		_ = set.Close()
		_ = oimg.Close()
	}
	return page, nil
}

func (p *Processor) cleanupTempFiles() {
	for _, tempFile := range p.tempFiles {
		_ = p.passwords.CleanupTempFile(tempFile)
	}
	p.tempFiles = p.tempFiles[:0]
}
