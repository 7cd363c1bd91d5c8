// Package imgutil loads image files and flattens them to the 8bpp
// luminance layout the scanning engine consumes.
package imgutil

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// SupportedExtensions lists supported file extensions for loading.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff"}

// IsSupported reports whether the path has a supported image extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// IOError reports a failed image load.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("imgutil %s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Metadata captures lightweight file and pixel information.
type Metadata struct {
	Path        string
	SizeBytes   int64
	Width       int
	Height      int
	AspectRatio float64
}

// Load opens and decodes an image file, honoring EXIF orientation, and
// returns the image with its metadata.
func Load(path string) (image.Image, Metadata, error) {
	if path == "" {
		return nil, Metadata{}, &IOError{Operation: "load", Path: path, Err: errors.New("empty path")}
	}
	if !IsSupported(path) {
		return nil, Metadata{}, &IOError{
			Operation: "load",
			Path:      path,
			Err:       fmt.Errorf("unsupported format: %s", filepath.Ext(path)),
		}
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, Metadata{}, &IOError{Operation: "load", Path: path, Err: err}
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, Metadata{}, &IOError{Operation: "decode", Path: path, Err: err}
	}

	b := img.Bounds()
	meta := Metadata{
		Path:        path,
		SizeBytes:   fi.Size(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		AspectRatio: float64(b.Dx()) / float64(b.Dy()),
	}
	return img, meta, nil
}

// GrayBytes flattens an image into a tightly packed luminance plane.
func GrayBytes(img image.Image) (data []byte, width, height int) {
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	data = make([]byte, width*height)

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			copy(data[y*width:(y+1)*width], g.Pix[y*g.Stride:y*g.Stride+width])
		}
		return data, width, height
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			data[i] = uint8((299*int(r>>8) + 587*int(g>>8) + 114*int(bl>>8)) / 1000)
			i++
		}
	}
	return data, width, height
}

// LoadGray loads an image file directly as a luminance plane.
func LoadGray(path string) (data []byte, width, height int, err error) {
	img, _, err := Load(path)
	if err != nil {
		return nil, 0, 0, err
	}
	data, width, height = GrayBytes(img)
	return data, width, height, nil
}
