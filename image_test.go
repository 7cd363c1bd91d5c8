package okapi

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapiscan/okapi/internal/testutil"
)

func TestNewImageLengthValidation(t *testing.T) {
	tests := []struct {
		name   string
		w, h   uint32
		format Format
		n      int
		ok     bool
	}{
		{"exact", 4, 4, FormatY800, 16, true},
		{"empty", 0, 0, FormatY800, 0, true},
		{"short", 4, 4, FormatY800, 15, false},
		{"long", 4, 4, FormatY800, 17, false},
		// The check counts pixels, not bytes, whatever the format says.
		{"rgb pixel count", 2, 2, FormatRGB3, 4, true},
		{"rgb byte count", 2, 2, FormatRGB3, 12, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewImage(tt.w, tt.h, tt.format, make([]byte, tt.n))
			if !tt.ok {
				require.Error(t, err)
				assert.Nil(t, img)
				var mismatch *SizeMismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.Equal(t, tt.w, mismatch.Width)
				assert.Equal(t, tt.h, mismatch.Height)
				assert.Equal(t, tt.n, mismatch.DataLen)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w, img.Width())
			assert.Equal(t, tt.h, img.Height())
			assert.Equal(t, tt.format, img.Format())
			assert.Len(t, img.Data(), tt.n)
			require.NoError(t, img.Close())
		})
	}
}

func TestSizeMismatchErrorMessage(t *testing.T) {
	_, err := NewImage(4, 4, FormatY800, make([]byte, 15))
	require.EqualError(t, err, "okapi: image data length 15 does not match 4x4 frame")
}

func TestNewImageProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("construction succeeds exactly when the length matches", prop.ForAll(
		func(w, h, extra int) bool {
			n := w*h + extra
			if n < 0 {
				n = 0
			}
			img, err := NewImage(uint32(w), uint32(h), FormatY800, make([]byte, n))
			if w*h != n {
				return err != nil && img == nil
			}
			if err != nil {
				return false
			}
			ok := img.Width() == uint32(w) && img.Height() == uint32(h) && len(img.Data()) == n
			img.Close()
			return ok
		},
		gen.IntRange(0, 64),
		gen.IntRange(0, 64),
		gen.IntRange(-3, 3),
	))

	properties.Property("data passes through byte for byte", prop.ForAll(
		func(w, h int) bool {
			data := make([]byte, w*h)
			for i := range data {
				data[i] = byte(i * 7)
			}
			want := append([]byte(nil), data...)
			img, err := NewImage(uint32(w), uint32(h), FormatY800, data)
			if err != nil {
				return false
			}
			defer img.Close()
			return bytes.Equal(img.Data(), want)
		},
		gen.IntRange(1, 48),
		gen.IntRange(1, 48),
	))

	properties.TestingRun(t)
}

func TestNewImageBorrowedAliasesData(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	img := NewImageBorrowed(2, 2, FormatY800, data)
	defer img.Close()

	assert.Same(t, &data[0], &img.Data()[0])
	data[0] = 9
	assert.Equal(t, byte(9), img.Data()[0])
}

func TestImageFromImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 6, 4))
	for i := range src.Pix {
		src.Pix[i] = byte(40 + i)
	}

	img, err := ImageFromImage(src)
	require.NoError(t, err)
	defer img.Close()

	assert.Equal(t, uint32(6), img.Width())
	assert.Equal(t, uint32(4), img.Height())
	assert.Equal(t, FormatY800, img.Format())
	assert.Equal(t, src.Pix, img.Data())
}

func TestImageFromImageNil(t *testing.T) {
	_, err := ImageFromImage(nil)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrInvalid))
}

func TestImageFromFile(t *testing.T) {
	pic, err := testutil.GenerateQR("file round trip", 120)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "qr.png")
	testutil.SaveImage(t, pic, path)

	img, err := ImageFromFile(path)
	require.NoError(t, err)
	defer img.Close()

	b := pic.Bounds()
	assert.Equal(t, uint32(b.Dx()), img.Width())
	assert.Equal(t, uint32(b.Dy()), img.Height())
	assert.Equal(t, FormatY800, img.Format())
}

func TestImageFromFileMissing(t *testing.T) {
	_, err := ImageFromFile(filepath.Join(t.TempDir(), "absent.png"))
	require.Error(t, err)
}

func TestImageAccessors(t *testing.T) {
	img, err := NewImage(8, 4, FormatY800, make([]byte, 32))
	require.NoError(t, err)
	defer img.Close()

	assert.Zero(t, img.Sequence())
	img.SetSequence(7)
	assert.Equal(t, uint32(7), img.Sequence())

	w, h := img.Size()
	assert.Equal(t, uint32(8), w)
	assert.Equal(t, uint32(4), h)

	x, y, cw, ch := img.Crop()
	assert.Equal(t, [4]uint32{0, 0, 8, 4}, [4]uint32{x, y, cw, ch})

	img.SetCrop(2, 1, 4, 2)
	x, y, cw, ch = img.Crop()
	assert.Equal(t, [4]uint32{2, 1, 4, 2}, [4]uint32{x, y, cw, ch})

	// Windows are clipped against the frame.
	img.SetCrop(6, 3, 10, 10)
	x, y, cw, ch = img.Crop()
	assert.Equal(t, [4]uint32{6, 3, 2, 1}, [4]uint32{x, y, cw, ch})

	// Resizing resets the window to the full frame.
	img.SetSize(4, 4)
	x, y, cw, ch = img.Crop()
	assert.Equal(t, [4]uint32{0, 0, 4, 4}, [4]uint32{x, y, cw, ch})

	assert.Nil(t, img.UserData())
	img.SetUserData([]byte("tag"))
	assert.Equal(t, []byte("tag"), img.UserData())

	img.SetFormat(FormatGray)
	assert.Equal(t, FormatGray, img.Format())
}

func TestImageConvert(t *testing.T) {
	img, err := NewImage(2, 1, FormatY800, []byte{0, 255})
	require.NoError(t, err)
	defer img.Close()

	rgb, err := img.Convert(FormatRGB3)
	require.NoError(t, err)
	defer rgb.Close()
	assert.Equal(t, FormatRGB3, rgb.Format())
	assert.Equal(t, []byte{0, 0, 0, 255, 255, 255}, rgb.Data())

	_, err = img.Convert(FormatMJPG)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrUnsupported))
}

func TestImageConvertResize(t *testing.T) {
	img, err := NewImage(4, 4, FormatY800, bytes.Repeat([]byte{200}, 16))
	require.NoError(t, err)
	defer img.Close()

	small, err := img.ConvertResize(FormatY800, 2, 2)
	require.NoError(t, err)
	defer small.Close()
	assert.Equal(t, uint32(2), small.Width())
	assert.Equal(t, uint32(2), small.Height())
	assert.Equal(t, bytes.Repeat([]byte{200}, 4), small.Data())

	_, err = img.ConvertResize(FormatY800, 0, 2)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrInvalid))
}

func TestImageWrite(t *testing.T) {
	img, err := NewImage(2, 2, FormatY800, []byte{10, 20, 30, 40})
	require.NoError(t, err)
	defer img.Close()

	path := filepath.Join(t.TempDir(), "out.pnm")
	require.NoError(t, img.Write(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append([]byte("P5\n2 2\n255\n"), 10, 20, 30, 40), raw)
}

func TestImageWriteBadPath(t *testing.T) {
	img, err := NewImage(1, 1, FormatY800, []byte{0})
	require.NoError(t, err)
	defer img.Close()

	err = img.Write(filepath.Join(t.TempDir(), "missing", "dir", "out.pnm"))
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrSystem))
}

func TestImageCloseIdempotent(t *testing.T) {
	img, err := NewImage(1, 1, FormatY800, []byte{0})
	require.NoError(t, err)
	require.NoError(t, img.Close())
	require.NoError(t, img.Close())

	var missing *Image
	require.NoError(t, missing.Close())
}
