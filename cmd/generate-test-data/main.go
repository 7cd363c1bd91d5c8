package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/okapiscan/okapi/internal/testutil"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		generateImages   = flag.Bool("images", true, "Generate barcode test images")
		generateFixtures = flag.Bool("fixtures", true, "Generate scan fixtures")
		verbose          = flag.Bool("v", false, "Verbose output")
		help             = flag.Bool("h", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate barcode test data for okapi testing.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s                 # Generate all test data\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -images         # Generate only images\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -fixtures       # Generate only fixtures\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	slog.Info("Starting test data generation...")

	if *verbose {
		slog.Info("Options", "images", *generateImages, "fixtures", *generateFixtures)
	}

	root, err := testutil.GetProjectRootValidated()
	if err != nil {
		slog.Error("Failed to find project root", "error", err)
		os.Exit(1)
	}

	if *verbose {
		slog.Info("Project root", "path", root)
	}

	if err := os.Chdir(root); err != nil {
		slog.Error("Failed to change to project root", "error", err)
		os.Exit(1)
	}

	if *generateImages {
		slog.Info("Generating barcode test images...")

		if err := generateBarcodeImages(); err != nil {
			slog.Error("Failed to generate barcode images", "error", err)
			os.Exit(1)
		}

		slog.Info("Generated barcode test images")
	}

	if *generateFixtures {
		slog.Info("Generating scan fixtures...")

		if err := generateScanFixtures(); err != nil {
			slog.Error("Failed to generate scan fixtures", "error", err)
			os.Exit(1)
		}

		slog.Info("Generated scan fixtures")
	}

	slog.Info("Test data generation completed successfully!")
}

// cleanImages lists the plain, full-quality codes every suite starts
// from. The fixture generator reuses the same table so the expected
// decodes stay in sync with the images.
var cleanImages = []struct {
	name      string
	symbology string
	data      string
	generate  func() (image.Image, error)
}{
	{
		name:      "qr_hello_world",
		symbology: "QR-Code",
		data:      "Hello World",
		generate: func() (image.Image, error) {
			return testutil.GenerateQR("Hello World", 256)
		},
	},
	{
		name:      "ean13_retail",
		symbology: "EAN-13",
		data:      "4006381333931",
		generate: func() (image.Image, error) {
			return testutil.GenerateEAN13("4006381333931", 240, 120)
		},
	},
	{
		name:      "upca_retail",
		symbology: "UPC-A",
		data:      "036000291452",
		generate: func() (image.Image, error) {
			return testutil.GenerateUPCA("036000291452", 240, 120)
		},
	},
	{
		name:      "code128_shipment",
		symbology: "CODE-128",
		data:      "OKAPI-0042",
		generate: func() (image.Image, error) {
			return testutil.GenerateCode128("OKAPI-0042", 320, 120)
		},
	},
}

// generateBarcodeImages writes the synthetic barcode images.
func generateBarcodeImages() error {
	cleanDir := "testdata/images/clean"
	if err := testutil.EnsureDir(cleanDir); err != nil {
		return fmt.Errorf("failed to create clean images directory: %w", err)
	}

	clean := make(map[string]image.Image, len(cleanImages))
	for _, entry := range cleanImages {
		img, err := entry.generate()
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", entry.name, err)
		}
		clean[entry.name] = img

		if err := saveImage(img, filepath.Join(cleanDir, entry.name+".png")); err != nil {
			return err
		}
	}

	// Labeled variants with a quiet zone, like printed retail labels.
	labeledDir := "testdata/images/labeled"
	if err := testutil.EnsureDir(labeledDir); err != nil {
		return fmt.Errorf("failed to create labeled images directory: %w", err)
	}
	for _, entry := range cleanImages {
		labeled := testutil.AddLabel(testutil.AddQuietZone(clean[entry.name], 16), entry.data)
		if err := saveImage(labeled, filepath.Join(labeledDir, entry.name+".png")); err != nil {
			return err
		}
	}

	// Rotated QR codes exercise the locator's orientation handling.
	rotatedDir := "testdata/images/rotated"
	if err := testutil.EnsureDir(rotatedDir); err != nil {
		return fmt.Errorf("failed to create rotated images directory: %w", err)
	}
	for _, angle := range []float64{90, 180, 270} {
		rotated := testutil.Rotate(clean["qr_hello_world"], angle)
		path := filepath.Join(rotatedDir, fmt.Sprintf("qr_rotated_%.0f.png", angle))
		if err := saveImage(rotated, path); err != nil {
			return err
		}
	}

	// Degraded variants for robustness checks.
	noisyDir := "testdata/images/degraded"
	if err := testutil.EnsureDir(noisyDir); err != nil {
		return fmt.Errorf("failed to create degraded images directory: %w", err)
	}
	noisy := testutil.AddNoise(clean["qr_hello_world"], 0.05)
	if err := saveImage(noisy, filepath.Join(noisyDir, "qr_noisy.png")); err != nil {
		return err
	}
	inverted := testutil.Invert(clean["qr_hello_world"])
	if err := saveImage(inverted, filepath.Join(noisyDir, "qr_inverted.png")); err != nil {
		return err
	}

	// A multi-symbol sheet for whole-image scans.
	sheet := testutil.ComposeHorizontal(32,
		clean["qr_hello_world"], clean["ean13_retail"], clean["code128_shipment"])
	return saveImage(sheet, filepath.Join(cleanDir, "sheet_mixed.png"))
}

// generateScanFixtures writes the expected-decode records for the clean
// images.
func generateScanFixtures() error {
	fixturesDir := "testdata/fixtures"
	if err := testutil.EnsureDir(fixturesDir); err != nil {
		return fmt.Errorf("failed to create fixtures directory: %w", err)
	}

	for _, entry := range cleanImages {
		fixture := testutil.ScanFixture{
			Name:        entry.name,
			Description: fmt.Sprintf("%s decode of %q", entry.symbology, entry.data),
			InputFile:   "images/clean/" + entry.name + ".png",
			Expected: []testutil.ExpectedSymbol{
				{Symbology: entry.symbology, Data: entry.data},
			},
		}
		if err := saveFixture(fixture, fixturesDir); err != nil {
			return fmt.Errorf("failed to save fixture %q: %w", entry.name, err)
		}
	}

	sheet := testutil.ScanFixture{
		Name:        "sheet_mixed",
		Description: "Three symbologies on one sheet",
		InputFile:   "images/clean/sheet_mixed.png",
		Expected: []testutil.ExpectedSymbol{
			{Symbology: "QR-Code", Data: "Hello World"},
			{Symbology: "EAN-13", Data: "4006381333931"},
			{Symbology: "CODE-128", Data: "OKAPI-0042"},
		},
	}
	return saveFixture(sheet, fixturesDir)
}

// Helper functions that don't require testing.T

func saveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func saveFixture(fixture testutil.ScanFixture, dir string) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return err
	}

	filename := filepath.Join(dir, fixture.Name+".json")
	return os.WriteFile(filename, data, 0o600)
}
