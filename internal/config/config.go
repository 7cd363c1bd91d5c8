package config

import (
	"fmt"
	"strings"

	"github.com/okapiscan/okapi"
	"github.com/okapiscan/okapi/internal/report"
)

const (
	debugLevel = "debug"
	infoLevel  = "info"
	warnLevel  = "warn"
	errorLevel = "error"
)

// Output format names, shared with the report renderers.
const (
	FormatText = report.FormatText
	FormatJSON = report.FormatJSON
	FormatXML  = report.FormatXML
	FormatCSV  = report.FormatCSV
)

// DefaultConfig returns a configuration with sensible default values.
// Scanner defaults mirror the decoder's own: every symbology enabled,
// location reporting on, one scan pass per row and column.
func DefaultConfig() Config {
	return Config{
		// Global settings
		LogLevel: infoLevel,
		Verbose:  false,

		Scanner: defaultScannerConfig(),

		Output: OutputConfig{
			Format: FormatText,
		},

		Batch: BatchConfig{
			Workers:         4,
			Recursive:       false,
			ContinueOnError: true,
		},

		Video: VideoConfig{
			Device: "/dev/video0",
			Width:  640,
			Height: 480,
		},
	}
}

func defaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		Position: true,
		XDensity: 1,
		YDensity: 1,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	validLogLevels := []string{debugLevel, infoLevel, warnLevel, errorLevel}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{FormatText, FormatJSON, FormatXML, FormatCSV}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)",
			c.Output.Format, strings.Join(validFormats, ", "))
	}

	for _, name := range c.Scanner.Symbologies {
		if _, _, _, err := okapi.ParseConfig(name + ".enable"); err != nil {
			return fmt.Errorf("unknown symbology: %s", name)
		}
	}
	for _, s := range c.Scanner.Settings {
		if _, _, _, err := okapi.ParseConfig(s); err != nil {
			return fmt.Errorf("invalid scanner setting %q: %w", s, err)
		}
	}

	if c.Scanner.XDensity < 0 || c.Scanner.YDensity < 0 {
		return fmt.Errorf("invalid scan density %dx%d (must not be negative)",
			c.Scanner.XDensity, c.Scanner.YDensity)
	}
	if c.Scanner.MinLength < 0 || c.Scanner.MaxLength < 0 {
		return fmt.Errorf("invalid length bounds %d..%d (must not be negative)",
			c.Scanner.MinLength, c.Scanner.MaxLength)
	}
	if c.Scanner.MaxLength > 0 && c.Scanner.MinLength > c.Scanner.MaxLength {
		return fmt.Errorf("invalid length bounds: min %d exceeds max %d",
			c.Scanner.MinLength, c.Scanner.MaxLength)
	}

	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}

	if c.Video.Width < 0 || c.Video.Height < 0 {
		return fmt.Errorf("invalid capture size %dx%d (must not be negative)",
			c.Video.Width, c.Video.Height)
	}

	return nil
}

// ToScannerBuilder converts the scanner section into a builder ready to
// produce configured still-image scanners. Raw settings strings apply
// last, so they can override anything the structured fields queued.
func (c *Config) ToScannerBuilder() (*okapi.ScannerBuilder, error) {
	b := okapi.NewScannerBuilder()
	err := c.queueScannerOptions(func(sym okapi.SymbolType, cfg okapi.Config, value int) {
		b.WithConfig(sym, cfg, value)
	})
	if err != nil {
		return nil, err
	}
	b.WithCache(c.Scanner.Cache)
	return b, nil
}

// BuildScanner builds a scanner configured from the scanner section.
func (c *Config) BuildScanner() (*okapi.ImageScanner, error) {
	b, err := c.ToScannerBuilder()
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// ToProcessorBuilder converts the scanner and video sections into a
// builder for live-capture processors. The result still needs Init to
// attach the device named in the video section.
func (c *Config) ToProcessorBuilder() (*okapi.ProcessorBuilder, error) {
	b := okapi.NewProcessorBuilder().Threaded(true)
	if c.Video.Width > 0 && c.Video.Height > 0 {
		b.WithSize(uint32(c.Video.Width), uint32(c.Video.Height))
	}
	err := c.queueScannerOptions(func(sym okapi.SymbolType, cfg okapi.Config, value int) {
		b.WithConfig(sym, cfg, value)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// queueScannerOptions feeds the scanner section's decoder settings to a
// builder in a deterministic order: symbology enables, structured knobs,
// then raw settings strings. A fresh scanner starts with every symbology
// disabled, so an empty symbology list broadcasts one enable instead.
func (c *Config) queueScannerOptions(add func(okapi.SymbolType, okapi.Config, int)) error {
	if len(c.Scanner.Symbologies) == 0 {
		add(okapi.None, okapi.CfgEnable, 1)
	}
	for _, name := range c.Scanner.Symbologies {
		sym, _, _, err := okapi.ParseConfig(name + ".enable")
		if err != nil {
			return fmt.Errorf("unknown symbology: %s", name)
		}
		add(sym, okapi.CfgEnable, 1)
	}

	add(okapi.None, okapi.CfgPosition, boolValue(c.Scanner.Position))
	add(okapi.None, okapi.CfgTestInverted, boolValue(c.Scanner.TestInverted))
	add(okapi.None, okapi.CfgXDensity, c.Scanner.XDensity)
	add(okapi.None, okapi.CfgYDensity, c.Scanner.YDensity)
	add(okapi.None, okapi.CfgMinLen, c.Scanner.MinLength)
	add(okapi.None, okapi.CfgMaxLen, c.Scanner.MaxLength)

	for _, s := range c.Scanner.Settings {
		sym, cfg, value, err := okapi.ParseConfig(s)
		if err != nil {
			return fmt.Errorf("invalid scanner setting %q: %w", s, err)
		}
		add(sym, cfg, value)
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func boolValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
