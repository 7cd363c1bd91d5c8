package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageSize represents common image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// Common test image sizes.
	SmallSize  = ImageSize{320, 240}
	MediumSize = ImageSize{640, 480}
	LargeSize  = ImageSize{1024, 768}
)

// GenerateQR renders content as a QR code of the given pixel size, quiet
// zone included.
func GenerateQR(content string, size int) (image.Image, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return code.Image(size), nil
}

// GenerateBarcode renders content in the given symbology at the requested
// size. The writer adds its own quiet zone.
func GenerateBarcode(format gozxing.BarcodeFormat, content string, width, height int) (image.Image, error) {
	w, err := writerFor(format)
	if err != nil {
		return nil, err
	}
	matrix, err := w.Encode(content, format, width, height, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %v barcode: %w", format, err)
	}
	return matrixImage(matrix), nil
}

// GenerateCode128 renders content as a Code 128 strip.
func GenerateCode128(content string, width, height int) (image.Image, error) {
	return GenerateBarcode(gozxing.BarcodeFormat_CODE_128, content, width, height)
}

// GenerateEAN13 renders a 13-digit payload (valid check digit) as EAN-13.
func GenerateEAN13(digits string, width, height int) (image.Image, error) {
	return GenerateBarcode(gozxing.BarcodeFormat_EAN_13, digits, width, height)
}

// GenerateUPCA renders a 12-digit payload as UPC-A.
func GenerateUPCA(digits string, width, height int) (image.Image, error) {
	return GenerateBarcode(gozxing.BarcodeFormat_UPC_A, digits, width, height)
}

func writerFor(format gozxing.BarcodeFormat) (gozxing.Writer, error) {
	switch format {
	case gozxing.BarcodeFormat_CODE_128:
		return oned.NewCode128Writer(), nil
	case gozxing.BarcodeFormat_CODE_39:
		return oned.NewCode39Writer(), nil
	case gozxing.BarcodeFormat_EAN_8:
		return oned.NewEAN8Writer(), nil
	case gozxing.BarcodeFormat_EAN_13:
		return oned.NewEAN13Writer(), nil
	case gozxing.BarcodeFormat_UPC_A:
		return oned.NewUPCAWriter(), nil
	case gozxing.BarcodeFormat_ITF:
		return oned.NewITFWriter(), nil
	case gozxing.BarcodeFormat_CODABAR:
		return oned.NewCodaBarWriter(), nil
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return datamatrix.NewDataMatrixWriter(), nil
	case gozxing.BarcodeFormat_AZTEC:
		return aztec.NewAztecWriter(), nil
	default:
		return nil, fmt.Errorf("no writer for barcode format %v", format)
	}
}

// matrixImage rasterizes a bit matrix as black modules on white.
func matrixImage(m *gozxing.BitMatrix) *image.Gray {
	w, h := m.GetWidth(), m.GetHeight()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(255)
			if m.Get(x, y) {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

// AddQuietZone pads the image with a white border of the given width.
func AddQuietZone(img image.Image, margin int) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*margin, b.Dy()+2*margin))
	draw.Draw(out, out.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(margin, margin, margin+b.Dx(), margin+b.Dy()), img, b.Min, draw.Src)
	return out
}

// AddLabel draws a human-readable caption beneath the code, the way retail
// labels print the digits under the bars.
func AddLabel(img image.Image, text string) image.Image {
	b := img.Bounds()
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+lineHeight+6))
	draw.Draw(out, out.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)

	textWidth := font.MeasureString(face, text).Ceil()
	drawer := &font.Drawer{
		Dst:  out,
		Src:  &image.Uniform{color.Black},
		Face: face,
		Dot:  fixed.P((b.Dx()-textWidth)/2, b.Dy()+lineHeight),
	}
	drawer.DrawString(text)
	return out
}

// Rotate turns the image by the given angle in degrees, filling the
// corners with white.
func Rotate(img image.Image, angle float64) image.Image {
	rotated := imaging.Rotate(img, angle, color.White)
	rgba := image.NewRGBA(rotated.Bounds())
	draw.Draw(rgba, rgba.Bounds(), rotated, rotated.Bounds().Min, draw.Src)
	return rgba
}

// Invert flips the image photometrically, producing white-on-black codes.
func Invert(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			v := (299*int(r>>8) + 587*int(g>>8) + 114*int(bl>>8)) / 1000
			out.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: uint8(255 - v)})
		}
	}
	return out
}

// ComposeHorizontal lays the images out left to right on one white sheet
// with padding between them.
func ComposeHorizontal(padding int, images ...image.Image) image.Image {
	width := padding
	height := 0
	for _, img := range images {
		b := img.Bounds()
		width += b.Dx() + padding
		if b.Dy() > height {
			height = b.Dy()
		}
	}
	height += 2 * padding

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	x := padding
	for _, img := range images {
		b := img.Bounds()
		y := (height - b.Dy()) / 2
		draw.Draw(out, image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		x += b.Dx() + padding
	}
	return out
}

// AddNoise flips scattered pixels to simulate sensor noise. The pattern is
// coordinate-derived so tests stay deterministic.
func AddNoise(img image.Image, noiseLevel float64) *image.RGBA {
	bounds := img.Bounds()
	noisy := image.NewRGBA(bounds)
	period := int(1.0 / noiseLevel)
	if period < 1 {
		period = 1
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if (x*31+y*17)%period == 0 {
				r = 65535 - r
				g = 65535 - g
				b = 65535 - b
			}
			//nolint:gosec // G115: Safe conversion for image noise generation
			noisy.Set(x, y, color.RGBA64{uint16(r), uint16(g), uint16(b), uint16(a)})
		}
	}

	return noisy
}

// SaveImage saves an image to the specified path.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	// Ensure directory exists
	dir := filepath.Dir(path)
	require.NoError(t, EnsureDir(dir), "Failed to create directory %s", dir)

	file, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, file.Close())
	}()

	err = png.Encode(file, img)
	require.NoError(t, err, "Failed to encode PNG image")
}

// LoadImage loads an image from the specified path.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	file, err := os.Open(path) //nolint:gosec // G304: Test file reading with controlled path
	require.NoError(t, err, "Failed to open image file %s", path)
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	require.NoError(t, err, "Failed to decode image")

	return img
}

// LoadImageFile loads an image from the specified path (non-testing version).
func LoadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: Opening user-provided image file is expected
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}
