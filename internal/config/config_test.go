package config

import (
	"strings"
	"testing"

	"github.com/okapiscan/okapi"
	"github.com/okapiscan/okapi/internal/testutil"
)

const testQRContent = "config scan"

// TestDefaultConfig verifies that DefaultConfig returns expected values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected log_level '%s', got %s", infoLevel, cfg.LogLevel)
	}
	if cfg.Verbose {
		t.Error("Expected verbose to be false by default")
	}
	if len(cfg.Scanner.Symbologies) != 0 {
		t.Errorf("Expected no symbology restriction, got %v", cfg.Scanner.Symbologies)
	}
	if !cfg.Scanner.Position {
		t.Error("Expected position reporting on by default")
	}
	if cfg.Scanner.XDensity != 1 || cfg.Scanner.YDensity != 1 {
		t.Errorf("Expected 1x1 scan density, got %dx%d", cfg.Scanner.XDensity, cfg.Scanner.YDensity)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("Expected output format '%s', got %s", FormatText, cfg.Output.Format)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("Expected 4 batch workers, got %d", cfg.Batch.Workers)
	}
	if !cfg.Batch.ContinueOnError {
		t.Error("Expected continue_on_error true by default")
	}
	if cfg.Video.Device != "/dev/video0" {
		t.Errorf("Expected default capture device /dev/video0, got %s", cfg.Video.Device)
	}
}

// TestValidateDefaults verifies the default configuration passes validation.
func TestValidateDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

// TestValidate exercises each validation rule.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid debug level",
			mutate: func(c *Config) { c.LogLevel = debugLevel },
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "chatty" },
			wantErr: "invalid log level",
		},
		{
			name:   "xml output",
			mutate: func(c *Config) { c.Output.Format = FormatXML },
		},
		{
			name:   "empty output format",
			mutate: func(c *Config) { c.Output.Format = "" },
		},
		{
			name:    "bad output format",
			mutate:  func(c *Config) { c.Output.Format = "yaml" },
			wantErr: "invalid output format",
		},
		{
			name:   "known symbologies",
			mutate: func(c *Config) { c.Scanner.Symbologies = []string{"qrcode", "ean13", "*"} },
		},
		{
			name:    "unknown symbology",
			mutate:  func(c *Config) { c.Scanner.Symbologies = []string{"telepathy"} },
			wantErr: "unknown symbology",
		},
		{
			name:   "valid settings",
			mutate: func(c *Config) { c.Scanner.Settings = []string{"qrcode.enable=0", "code128.min-len=4"} },
		},
		{
			name:    "bad setting",
			mutate:  func(c *Config) { c.Scanner.Settings = []string{"qrcode.telekinesis=1"} },
			wantErr: "invalid scanner setting",
		},
		{
			name:    "negative density",
			mutate:  func(c *Config) { c.Scanner.YDensity = -1 },
			wantErr: "invalid scan density",
		},
		{
			name:    "negative length bound",
			mutate:  func(c *Config) { c.Scanner.MinLength = -2 },
			wantErr: "invalid length bounds",
		},
		{
			name:   "min length without max",
			mutate: func(c *Config) { c.Scanner.MinLength = 5 },
		},
		{
			name:    "min above max",
			mutate:  func(c *Config) { c.Scanner.MinLength = 9; c.Scanner.MaxLength = 3 },
			wantErr: "exceeds max",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Batch.Workers = 0 },
			wantErr: "invalid batch workers",
		},
		{
			name:    "negative capture size",
			mutate:  func(c *Config) { c.Video.Width = -640 },
			wantErr: "invalid capture size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

// qrImage builds a scannable image carrying one QR code.
func qrImage(t *testing.T, content string) *okapi.Image {
	t.Helper()

	pic, err := testutil.GenerateQR(content, 160)
	if err != nil {
		t.Fatalf("GenerateQR() error: %v", err)
	}
	img, err := okapi.ImageFromImage(pic)
	if err != nil {
		t.Fatalf("ImageFromImage() error: %v", err)
	}
	return img
}

// scanCount builds a scanner from the config and reports how many
// symbols it finds in a QR test image.
func scanCount(t *testing.T, cfg *Config) int {
	t.Helper()

	sc, err := cfg.BuildScanner()
	if err != nil {
		t.Fatalf("BuildScanner() error: %v", err)
	}
	defer func() { _ = sc.Close() }()

	img := qrImage(t, testQRContent)
	defer func() { _ = img.Close() }()

	syms, err := sc.ScanImage(img)
	if err != nil {
		t.Fatalf("ScanImage() error: %v", err)
	}
	defer func() { _ = syms.Close() }()

	return syms.Size()
}

// TestBuildScannerDefaults verifies that the default configuration
// produces a scanner with every symbology live.
func TestBuildScannerDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if got := scanCount(t, &cfg); got != 1 {
		t.Errorf("Expected 1 decoded symbol with default config, got %d", got)
	}
}

// TestBuildScannerSymbologyList verifies that a symbology list restricts
// what the scanner decodes.
func TestBuildScannerSymbologyList(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scanner.Symbologies = []string{"qrcode"}
	if got := scanCount(t, &cfg); got != 1 {
		t.Errorf("Expected 1 decoded symbol with qrcode enabled, got %d", got)
	}

	cfg = DefaultConfig()
	cfg.Scanner.Symbologies = []string{"ean13"}
	if got := scanCount(t, &cfg); got != 0 {
		t.Errorf("Expected 0 decoded symbols with only ean13 enabled, got %d", got)
	}
}

// TestBuildScannerSettingsApplyLast verifies that raw settings strings
// override the symbology list.
func TestBuildScannerSettingsApplyLast(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scanner.Symbologies = []string{"qrcode"}
	cfg.Scanner.Settings = []string{"qrcode.enable=0"}
	if got := scanCount(t, &cfg); got != 0 {
		t.Errorf("Expected settings to win over symbology list, got %d symbols", got)
	}
}

// TestBuildScannerMaxLengthClamp verifies that length bounds reach the
// decoder.
func TestBuildScannerMaxLengthClamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scanner.MaxLength = 3
	if got := scanCount(t, &cfg); got != 0 {
		t.Errorf("Expected max length 3 to drop the payload, got %d symbols", got)
	}
}

// TestToScannerBuilderErrors verifies converter error paths.
func TestToScannerBuilderErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scanner.Symbologies = []string{"telepathy"}
	if _, err := cfg.ToScannerBuilder(); err == nil {
		t.Error("ToScannerBuilder() expected error for unknown symbology")
	}

	cfg = DefaultConfig()
	cfg.Scanner.Settings = []string{"not a setting"}
	if _, err := cfg.ToScannerBuilder(); err == nil {
		t.Error("ToScannerBuilder() expected error for bad setting")
	}
}

// TestToProcessorBuilder verifies that the processor converter produces
// a working videoless processor.
func TestToProcessorBuilder(t *testing.T) {
	cfg := DefaultConfig()

	pb, err := cfg.ToProcessorBuilder()
	if err != nil {
		t.Fatalf("ToProcessorBuilder() error: %v", err)
	}
	p, err := pb.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	defer func() { _ = p.Close() }()

	if err := p.Init("", false); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	img := qrImage(t, testQRContent)
	defer func() { _ = img.Close() }()

	syms, err := p.ProcessImage(img)
	if err != nil {
		t.Fatalf("ProcessImage() error: %v", err)
	}
	defer func() { _ = syms.Close() }()

	if syms.Size() != 1 {
		t.Errorf("Expected 1 decoded symbol, got %d", syms.Size())
	}
	first := syms.FirstSymbol()
	defer func() { _ = first.Close() }()
	if first == nil || first.Data() != testQRContent {
		t.Errorf("Expected payload %q, got %v", testQRContent, first)
	}
}

// TestToProcessorBuilderError verifies converter error propagation.
func TestToProcessorBuilderError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scanner.Settings = []string{"??"}
	if _, err := cfg.ToProcessorBuilder(); err == nil {
		t.Error("ToProcessorBuilder() expected error for bad setting")
	}
}
